package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// HelpCommand lists every command in registry. The list is built when the command runs,
// so commands registered after this one are included.
func HelpCommand(registry *CommandRegistry) CommandFactory {
	return func() (*discordgo.ApplicationCommand, CommandHandler) {
		cmd := &discordgo.ApplicationCommand{
			Name:        CmdCommands,
			Description: "List available commands",
		}

		handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
			if !deferEphemeral(s, i) {
				return
			}
			sendEmbed(s, i, createEmbed("📖 Commands", formatCommandList(registry), ColorInfo, ""))
		}

		return cmd, handler
	}
}

func formatCommandList(registry *CommandRegistry) string {
	names := make([]string, 0, len(registry.Commands))
	for name := range registry.Commands {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("`/%s` %s", name, registry.Commands[name].Description))
	}
	return strings.Join(lines, "\n")
}

// PingCommand returns the ping command definition and handler
func PingCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdPing,
		Description: "Check if the bot is alive",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
		if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "Pong! 🏓",
			},
		}); err != nil {
			slog.Error(LogMsgRespondFailed, "error", err)
		}
	}

	return cmd, handler
}
