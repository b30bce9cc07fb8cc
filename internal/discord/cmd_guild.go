package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/GuildStatsBot_Go/internal/stats"
)

var minPageValue = 1.0

// ListCommand returns the list command definition and handler
func ListCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdList,
		Description: "Show the guild leaderboard",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        OptPage,
				Description: "Page number (default: 1)",
				Required:    false,
				MinValue:    &minPageValue,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
		if !deferResponse(s, i) {
			return
		}
		if err := requireGuild(i); err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		page := 1
		if v := optionalInt(getOptions(i), OptPage); v != nil {
			page = *v
		}

		result, err := deps.Service.ListRanked(ctx, deps.membershipFunc(s, i.GuildID), page)
		if err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		footer := fmt.Sprintf("Page %d/%d · %d members", result.Number, result.TotalPages, result.TotalCount)
		sendEmbed(s, i, createEmbed("🏆 Guild Leaderboard", formatLeaderboard(result), ColorGold, footer))
	}

	return cmd, handler
}

// GuildPowerCommand returns the guildpower command definition and handler
func GuildPowerCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdGuildPower,
		Description: "Show the combined power of the guild",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
		if !deferResponse(s, i) {
			return
		}
		if err := requireGuild(i); err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		agg, err := deps.Service.AggregatePower(ctx, deps.membershipFunc(s, i.GuildID))
		if err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		embed := createEmbed("⚔️ Guild Power", "", ColorGold, "")
		embed.Fields = aggregateFields(agg)
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

// formatLeaderboard renders one page as ranked lines
func formatLeaderboard(page stats.Page) string {
	var sb strings.Builder
	for idx, entry := range page.Entries {
		if idx > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(formatEntry(page.Offset+idx+1, entry))
	}
	return sb.String()
}

func formatEntry(position int, entry stats.RankedEntry) string {
	rec := entry.Record

	var sb strings.Builder
	sb.WriteString(positionMarker(position))
	sb.WriteString(" ")
	sb.WriteString(entryName(entry))
	fmt.Fprintf(&sb, " · **%d** (%d/%d/%d)", entry.TotalScore, rec.Attack, rec.Defense, rec.Accuracy)
	if class := rec.ClassName(); class != "" {
		sb.WriteString(" · ")
		sb.WriteString(class)
	}
	if rec.LegendarySkin {
		sb.WriteString(" " + IconSkin)
	}
	if rec.LegendaryFamiliar {
		sb.WriteString(" " + IconFamiliar)
	}
	return sb.String()
}

func positionMarker(position int) string {
	switch position {
	case 1:
		return MedalFirst
	case 2:
		return MedalSecond
	case 3:
		return MedalThird
	default:
		return fmt.Sprintf("**%d.**", position)
	}
}

// entryName prefers the stored display name and falls back to a mention
func entryName(entry stats.RankedEntry) string {
	switch {
	case entry.Record.DisplayName != "":
		return entry.Record.DisplayName
	case entry.Record.Username != "":
		return entry.Record.Username
	default:
		return "<@" + entry.UserID + ">"
	}
}

func aggregateFields(agg stats.Aggregate) []*discordgo.MessageEmbedField {
	return []*discordgo.MessageEmbedField{
		{Name: "Members", Value: fmt.Sprintf("%d", agg.Members), Inline: true},
		{Name: "Total Power", Value: fmt.Sprintf("%d", agg.TotalPower), Inline: true},
		{Name: "Average Power", Value: fmt.Sprintf("%.1f", agg.Average), Inline: true},
		{Name: "Legendary Skins " + IconSkin, Value: fmt.Sprintf("%d", agg.Skins), Inline: true},
		{Name: "Legendary Familiars " + IconFamiliar, Value: fmt.Sprintf("%d", agg.Familiars), Inline: true},
	}
}
