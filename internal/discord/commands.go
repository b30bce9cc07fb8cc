package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/GuildStatsBot_Go/internal/domain"
	"github.com/osse101/GuildStatsBot_Go/internal/logger"
	"github.com/osse101/GuildStatsBot_Go/internal/metrics"
	"github.com/osse101/GuildStatsBot_Go/internal/profile"
	"github.com/osse101/GuildStatsBot_Go/internal/stats"
)

// CommandHandler handles a slash command
type CommandHandler func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps)

// CommandFactory builds a command definition together with its handler
type CommandFactory func() (*discordgo.ApplicationCommand, CommandHandler)

// Deps are the services handlers work against
type Deps struct {
	Service profile.Service
	Members MemberChecker
}

// CommandRegistry holds the registered commands
type CommandRegistry struct {
	Commands map[string]*discordgo.ApplicationCommand
	Handlers map[string]CommandHandler
}

// NewCommandRegistry creates a new registry
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		Commands: make(map[string]*discordgo.ApplicationCommand),
		Handlers: make(map[string]CommandHandler),
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(cmd *discordgo.ApplicationCommand, handler CommandHandler) {
	r.Commands[cmd.Name] = cmd
	r.Handlers[cmd.Name] = handler
}

// RegisterAll registers every factory's command
func (r *CommandRegistry) RegisterAll(factories ...CommandFactory) {
	for _, f := range factories {
		r.Register(f())
	}
}

// Handle processes an interaction
func (r *CommandRegistry) Handle(s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	h, ok := r.Handlers[name]
	if !ok {
		return
	}

	ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
	logger.FromContext(ctx).Debug(LogMsgCommandReceived,
		"command", name,
		"user_id", getInteractionUser(i).ID,
		"guild_id", i.GuildID)

	RecordCommand()
	metrics.CommandsTotal.WithLabelValues(name).Inc()
	h(ctx, s, i, deps)
}

// RegisterCommands registers/updates commands with Discord.
// Only performs updates if commands have changed to avoid rate limits.
// An empty guildID registers global commands.
func (b *Bot) RegisterCommands(registry *CommandRegistry, forceUpdate bool) error {
	slog.Info("Checking Discord commands...", "guild_id", b.GuildID)

	existingCmds, err := b.Session.ApplicationCommands(b.AppID, b.GuildID)
	if err != nil {
		return fmt.Errorf("failed to fetch existing commands: %w", err)
	}

	desiredCmds := make([]*discordgo.ApplicationCommand, 0, len(registry.Commands))
	for _, cmd := range registry.Commands {
		desiredCmds = append(desiredCmds, cmd)
	}

	if !forceUpdate && commandsEqual(existingCmds, desiredCmds) {
		slog.Info("Commands unchanged, skipping registration", "count", len(existingCmds))
		return nil
	}

	slog.Info("Updating commands",
		"force", forceUpdate,
		"existing", len(existingCmds),
		"desired", len(desiredCmds))

	if _, err := b.Session.ApplicationCommandBulkOverwrite(b.AppID, b.GuildID, desiredCmds); err != nil {
		return fmt.Errorf("failed to update commands: %w", err)
	}

	slog.Info("Commands updated successfully", "count", len(desiredCmds))
	return nil
}

// commandsEqual checks if two command sets are equivalent
func commandsEqual(existing, desired []*discordgo.ApplicationCommand) bool {
	if len(existing) != len(desired) {
		return false
	}

	existingMap := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existing {
		existingMap[cmd.Name] = cmd
	}

	for _, desired := range desired {
		existing, ok := existingMap[desired.Name]
		if !ok {
			return false
		}
		if !commandEqual(existing, desired) {
			return false
		}
	}

	return true
}

// commandEqual checks if two commands are equivalent
func commandEqual(a, b *discordgo.ApplicationCommand) bool {
	if a.Name != b.Name || a.Description != b.Description {
		return false
	}

	if (a.DefaultMemberPermissions == nil) != (b.DefaultMemberPermissions == nil) {
		return false
	}
	if a.DefaultMemberPermissions != nil && *a.DefaultMemberPermissions != *b.DefaultMemberPermissions {
		return false
	}

	if len(a.Options) != len(b.Options) {
		return false
	}
	for i := range a.Options {
		if !optionEqual(a.Options[i], b.Options[i]) {
			return false
		}
	}

	return true
}

// optionEqual checks if two command options are equivalent
func optionEqual(a, b *discordgo.ApplicationCommandOption) bool {
	if a.Type != b.Type || a.Name != b.Name || a.Description != b.Description || a.Required != b.Required {
		return false
	}

	if len(a.Choices) != len(b.Choices) {
		return false
	}
	for i := range a.Choices {
		// Discord echoes choice values back as JSON, so compare their printed form
		if a.Choices[i].Name != b.Choices[i].Name || fmt.Sprint(a.Choices[i].Value) != fmt.Sprint(b.Choices[i].Value) {
			return false
		}
	}

	return true
}

// deferResponse sends a deferred response so slow handlers can edit it later.
// Returns false if deferral failed (should return early from handler).
func deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	return deferWithFlags(s, i, 0)
}

// deferEphemeral defers with a response only the invoking user can see
func deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	return deferWithFlags(s, i, discordgo.MessageFlagsEphemeral)
}

func deferWithFlags(s *discordgo.Session, i *discordgo.InteractionCreate, flags discordgo.MessageFlags) bool {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if flags != 0 {
		resp.Data = &discordgo.InteractionResponseData{Flags: flags}
	}
	if err := s.InteractionRespond(i.Interaction, resp); err != nil {
		slog.Error(LogMsgDeferFailed, "error", err)
		return false
	}
	return true
}

// getInteractionUser extracts the user from an interaction.
// Handles both guild (i.Member.User) and DM (i.User) contexts.
// Always returns a non-nil *discordgo.User.
func getInteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{}
}

// displayNameOf prefers the server nickname, then the global name, then the username
func displayNameOf(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	user := getInteractionUser(i)
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// getOptions maps command options by name
func getOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// optionalInt returns a pointer to the option's value, or nil when it was not given
func optionalInt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) *int {
	opt, ok := opts[name]
	if !ok {
		return nil
	}
	v := int(opt.IntValue())
	return &v
}

// respondError sends a plain error message as the interaction response
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &message,
	}); err != nil {
		slog.Error(LogMsgEditFailed, "error", err)
	}
}

// respondFriendlyError maps a service error to a message the user can act on
func respondFriendlyError(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	name := i.ApplicationCommandData().Name
	metrics.CommandErrors.WithLabelValues(name).Inc()
	logger.FromContext(ctx).Warn(LogMsgCommandFailed, "command", name, "error", err)
	respondError(s, i, formatFriendlyError(err))
}

// formatFriendlyError turns domain errors into user-facing text
func formatFriendlyError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidClassName):
		return fmt.Sprintf(MsgInvalidClass, strings.Join(stats.ClassNames(), ", "))
	case errors.Is(err, domain.ErrInvalidNumericInput):
		return MsgInvalidNumber
	case errors.Is(err, domain.ErrInvalidFlagValue):
		return MsgInvalidYesNo
	case errors.Is(err, domain.ErrInvalidFlag):
		return MsgInvalidFlag
	case errors.Is(err, domain.ErrNoChanges):
		return MsgNoChanges
	case errors.Is(err, domain.ErrRecordNotFound):
		return MsgRecordNotFound
	case errors.Is(err, domain.ErrNoActiveMembers):
		return MsgNoActive
	case errors.Is(err, domain.ErrNotInGuild):
		return MsgNotInGuild
	case errors.Is(err, domain.ErrPermissionDenied):
		return MsgPermissionDenied
	case errors.Is(err, domain.ErrStatsNotSaved):
		return MsgNotSaved
	case err == nil:
		return MsgGenericError
	default:
		return "❌ " + err.Error()
	}
}

// sendEmbed sends an embed as the interaction response
func sendEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		slog.Error(LogMsgEditFailed, "error", err)
	}
}

// Footer constants for standardized embed footers
const (
	FooterGuildStats      = "Guild Stats"
	FooterGuildStatsAdmin = "Guild Stats Admin"
)

// createEmbed creates a standard embed; an empty footer defaults to FooterGuildStats
func createEmbed(title, description string, color int, footerText string) *discordgo.MessageEmbed {
	if footerText == "" {
		footerText = FooterGuildStats
	}
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Footer: &discordgo.MessageEmbedFooter{
			Text: footerText,
		},
	}
}
