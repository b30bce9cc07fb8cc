package discord

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/GuildStatsBot_Go/internal/storage"
)

// StorageInfoCommand returns the storageinfo command definition and handler
func StorageInfoCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdStorageInfo,
		Description: "[Officers] Show where stats are stored",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
		if !deferEphemeral(s, i) {
			return
		}
		if err := requireAnyRole(s, i, AdminRoles); err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		info := deps.Service.StorageInfo(ctx)
		embed := createEmbed("💾 Storage Info", "", ColorAdmin, FooterGuildStatsAdmin)
		embed.Fields = storageFields(info)
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

// BackupCommand returns the backup command definition and handler
func BackupCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdBackup,
		Description: "[Officers] Write a backup of the stats file now",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
		if !deferEphemeral(s, i) {
			return
		}
		if err := requireAnyRole(s, i, AdminRoles); err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		report, err := deps.Service.ManualBackup(ctx)
		if err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		var desc string
		if report.Snapshot.OK() {
			desc = fmt.Sprintf("Snapshot written to `%s`.", report.Snapshot.Path)
		} else {
			lines := []string{"Snapshot failed, emergency copies:"}
			for _, r := range report.Emergency {
				status := "✅"
				if !r.OK() {
					status = "❌"
				}
				lines = append(lines, fmt.Sprintf("%s `%s`", status, r.Path))
			}
			desc = strings.Join(lines, "\n")
		}

		sendEmbed(s, i, createEmbed("🗄️ Backup", desc, ColorSuccess, FooterGuildStatsAdmin))
	}

	return cmd, handler
}

// StatusCommand returns the status command definition and handler
func StatusCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdStatus,
		Description: "Show bot and database status",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
		if !deferResponse(s, i) {
			return
		}

		agg := deps.Service.Overview(ctx)
		info := deps.Service.StorageInfo(ctx)

		storageState := "✅ readable"
		if !info.Readable {
			storageState = "⚠️ not readable"
		}

		embed := createEmbed("🤖 Bot Status", "", ColorInfo, "")
		embed.Fields = append(aggregateFields(agg),
			&discordgo.MessageEmbedField{Name: "Storage", Value: storageState, Inline: true},
			&discordgo.MessageEmbedField{Name: "Uptime", Value: Uptime().Round(time.Second).String(), Inline: true},
			&discordgo.MessageEmbedField{Name: "Commands Handled", Value: fmt.Sprintf("%d", CommandsReceived()), Inline: true},
		)
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

func storageFields(info storage.Info) []*discordgo.MessageEmbedField {
	location := "working directory"
	if info.OnMount {
		location = "persistent volume"
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Primary", Value: "`" + info.Primary + "`"},
		{Name: "Location", Value: location, Inline: true},
		{Name: "Exists", Value: yesNo(info.Exists), Inline: true},
		{Name: "Readable", Value: yesNo(info.Readable), Inline: true},
		{Name: "Records", Value: fmt.Sprintf("%d", info.Records), Inline: true},
		{Name: "Size", Value: fmt.Sprintf("%d bytes", info.Size), Inline: true},
		{Name: "Rolling Backup", Value: yesNo(info.BackupExists), Inline: true},
	}
	if !info.ModifiedAt.IsZero() {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Modified", Value: info.ModifiedAt.UTC().Format(time.RFC3339), Inline: true})
	}

	snapshots := fmt.Sprintf("%d", info.Snapshots)
	if info.Snapshots > 0 {
		snapshots += " (latest " + info.LatestSnapshot.UTC().Format(time.RFC3339) + ")"
	}
	if info.BackupDir != "" {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Snapshots in " + filepath.Base(info.BackupDir), Value: snapshots})
	}

	if len(info.Emergency) > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "Emergency Locations", Value: "`" + strings.Join(info.Emergency, "`\n`") + "`"})
	}
	return fields
}
