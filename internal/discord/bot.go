package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/GuildStatsBot_Go/internal/profile"
)

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	AppID    string
	GuildID  string
	Registry *CommandRegistry
	Deps     *Deps
}

// Config holds the bot configuration
type Config struct {
	Token   string
	AppID   string
	GuildID string
	Service profile.Service
	Members MemberChecker
}

// New creates a new Discord bot
func New(cfg Config) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	// Membership checks read guild members from the gateway state
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	members := cfg.Members
	if members == nil {
		members = NewMemberCache(DefaultMemberCacheSize, DefaultMemberCacheTTL)
	}

	return &Bot{
		Session:  s,
		AppID:    cfg.AppID,
		GuildID:  cfg.GuildID,
		Registry: NewCommandRegistry(),
		Deps: &Deps{
			Service: cfg.Service,
			Members: members,
		},
	}, nil
}

// RegisterDefaultCommands adds every stats command to the registry
func (b *Bot) RegisterDefaultCommands() {
	b.Registry.RegisterAll(
		SetStatsCommand,
		UpdateStatsCommand,
		SetClassCommand,
		SetSkinCommand,
		SetFamiliarCommand,
		MyStatsCommand,
		ClearMyStatsCommand,
		ListCommand,
		GuildPowerCommand,
		StatusCommand,
		StorageInfoCommand,
		BackupCommand,
		PingCommand,
		HelpCommand(b.Registry),
	)
}

// Start opens the gateway connection
func (b *Bot) Start() error {
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.interactionCreate)
	b.Session.AddHandler(b.guildMemberRemove)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if b.AppID == "" && b.Session.State != nil && b.Session.State.User != nil {
		b.AppID = b.Session.State.User.ID
	}

	slog.Info(LogMsgBotRunning)
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() {
	if err := b.Session.Close(); err != nil {
		slog.Error("Failed to close Discord session", "error", err)
	}
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info(LogMsgBotReady, "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.Registry != nil {
		b.Registry.Handle(s, i, b.Deps)
	}
}

func (b *Bot) guildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if cache, ok := b.Deps.Members.(*MemberCache); ok && m.Member != nil && m.User != nil {
		cache.Forget(m.GuildID, m.User.ID)
	}
}
