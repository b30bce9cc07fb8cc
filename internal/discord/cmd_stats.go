package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/GuildStatsBot_Go/internal/domain"
	"github.com/osse101/GuildStatsBot_Go/internal/profile"
)

var minStatValue = 0.0

func statOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    required,
		MinValue:    &minStatValue,
	}
}

func classOption(required bool) *discordgo.ApplicationCommandOption {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(domain.AvailableClasses))
	for _, c := range domain.AvailableClasses {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: string(c), Value: string(c)})
	}
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        OptClass,
		Description: "Your character class",
		Required:    required,
		Choices:     choices,
	}
}

// SetStatsCommand returns the setstats command definition and handler
func SetStatsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdSetStats,
		Description: "Record your attack, defense and accuracy",
		Options: []*discordgo.ApplicationCommandOption{
			statOption(OptAttack, "Attack value", true),
			statOption(OptDefense, "Defense value", true),
			statOption(OptAccuracy, "Accuracy value", true),
			classOption(false),
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
		if !deferEphemeral(s, i) {
			return
		}

		opts := getOptions(i)
		in := profile.SetStatsInput{
			Username:    getInteractionUser(i).Username,
			DisplayName: displayNameOf(i),
		}
		if v := optionalInt(opts, OptAttack); v != nil {
			in.Attack = *v
		}
		if v := optionalInt(opts, OptDefense); v != nil {
			in.Defense = *v
		}
		if v := optionalInt(opts, OptAccuracy); v != nil {
			in.Accuracy = *v
		}
		if opt, ok := opts[OptClass]; ok {
			in.Class = opt.StringValue()
		}

		rec, err := deps.Service.SetStats(ctx, getInteractionUser(i).ID, in)
		if err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		embed := createEmbed("✅ Stats Saved", "Your stats have been recorded.", ColorSuccess, "")
		embed.Fields = recordFields(rec)
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

// UpdateStatsCommand returns the update command definition and handler
func UpdateStatsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdUpdate,
		Description: "Change one or more of your recorded stats",
		Options: []*discordgo.ApplicationCommandOption{
			statOption(OptAttack, "New attack value", false),
			statOption(OptDefense, "New defense value", false),
			statOption(OptAccuracy, "New accuracy value", false),
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
		if !deferEphemeral(s, i) {
			return
		}

		opts := getOptions(i)
		in := profile.UpdateStatsInput{
			Attack:   optionalInt(opts, OptAttack),
			Defense:  optionalInt(opts, OptDefense),
			Accuracy: optionalInt(opts, OptAccuracy),
		}

		rec, err := deps.Service.UpdateStats(ctx, getInteractionUser(i).ID, in)
		if err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		embed := createEmbed("✅ Stats Updated", fmt.Sprintf("Total power is now **%d**.", rec.TotalScore), ColorSuccess, "")
		embed.Fields = recordFields(rec)
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

// SetClassCommand returns the setclass command definition and handler
func SetClassCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdSetClass,
		Description: "Set your character class",
		Options:     []*discordgo.ApplicationCommandOption{classOption(true)},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
		if !deferEphemeral(s, i) {
			return
		}

		var name string
		if opt, ok := getOptions(i)[OptClass]; ok {
			name = opt.StringValue()
		}

		class, err := deps.Service.SetClass(ctx, getInteractionUser(i).ID, name)
		if err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		sendEmbed(s, i, createEmbed("✅ Class Set", fmt.Sprintf("Your class is now **%s**.", class), ColorSuccess, ""))
	}

	return cmd, handler
}

// SetSkinCommand returns the setskin command definition and handler
func SetSkinCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	return flagCommand(CmdSetSkin, "Do you own a legendary skin?", domain.FlagLegendarySkin, "Legendary skin")
}

// SetFamiliarCommand returns the setfamiliar command definition and handler
func SetFamiliarCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	return flagCommand(CmdSetFamiliar, "Do you own a legendary familiar?", domain.FlagLegendaryFamiliar, "Legendary familiar")
}

func flagCommand(name, description string, flag domain.Flag, label string) (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptValue,
				Description: "yes or no (tak/nie)",
				Required:    true,
			},
		},
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
		if !deferEphemeral(s, i) {
			return
		}

		var raw string
		if opt, ok := getOptions(i)[OptValue]; ok {
			raw = opt.StringValue()
		}
		value, err := profile.ParseYesNo(raw)
		if err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		if err := deps.Service.SetFlag(ctx, getInteractionUser(i).ID, flag, value); err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		sendEmbed(s, i, createEmbed("✅ Updated", fmt.Sprintf("%s: **%s**", label, yesNo(value)), ColorSuccess, ""))
	}

	return cmd, handler
}

// MyStatsCommand returns the mystats command definition and handler
func MyStatsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdMyStats,
		Description: "Show your recorded stats",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
		if !deferEphemeral(s, i) {
			return
		}

		user := getInteractionUser(i)
		view, err := deps.Service.GetStats(ctx, user.ID)
		if err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		embed := createEmbed(fmt.Sprintf("📊 %s's Stats", displayNameOf(i)), "", ColorInfo, "")
		embed.Fields = append(recordFields(view.Record), &discordgo.MessageEmbedField{
			Name:   "Rank",
			Value:  fmt.Sprintf("#%d of %d", view.Rank, view.Of),
			Inline: true,
		})
		if !view.Record.UpdatedAt.IsZero() {
			embed.Timestamp = view.Record.UpdatedAt.Format(time.RFC3339)
		}
		sendEmbed(s, i, embed)
	}

	return cmd, handler
}

// ClearMyStatsCommand returns the clearmystats command definition and handler
func ClearMyStatsCommand() (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        CmdClearMyStats,
		Description: "Delete your recorded stats",
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, deps *Deps) {
		if !deferEphemeral(s, i) {
			return
		}

		if err := deps.Service.DeleteStats(ctx, getInteractionUser(i).ID); err != nil {
			respondFriendlyError(ctx, s, i, err)
			return
		}

		sendEmbed(s, i, createEmbed("🗑️ Stats Cleared", "Your stats have been removed.", ColorWarning, ""))
	}

	return cmd, handler
}

func recordFields(rec domain.StatRecord) []*discordgo.MessageEmbedField {
	class := rec.ClassName()
	if class == "" {
		class = NoClassLabel
	}
	return []*discordgo.MessageEmbedField{
		{Name: "Attack", Value: fmt.Sprintf("%d", rec.Attack), Inline: true},
		{Name: "Defense", Value: fmt.Sprintf("%d", rec.Defense), Inline: true},
		{Name: "Accuracy", Value: fmt.Sprintf("%d", rec.Accuracy), Inline: true},
		{Name: "Total Power", Value: fmt.Sprintf("%d", rec.TotalScore), Inline: true},
		{Name: "Class", Value: class, Inline: true},
		{Name: "Legendary Skin", Value: yesNo(rec.LegendarySkin), Inline: true},
		{Name: "Legendary Familiar", Value: yesNo(rec.LegendaryFamiliar), Inline: true},
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
