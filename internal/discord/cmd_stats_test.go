package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/GuildStatsBot_Go/internal/domain"
	"github.com/osse101/GuildStatsBot_Go/internal/profile"
)

func TestSetStatsCommand_Success(t *testing.T) {
	ctx := SetupTestContext(t)

	ctx.Run(SetStatsCommand, newInteraction(CmdSetStats,
		intOpt(OptAttack, 400), intOpt(OptDefense, 350), intOpt(OptAccuracy, 500), strOpt(OptClass, "berserker")))

	embed := ctx.LastEmbed()
	require.NotNil(t, embed)
	assert.Contains(t, embed.Title, "Stats Saved")
	assert.Equal(t, "1250", fieldValue(embed, "Total Power"))
	assert.Equal(t, "Berserker", fieldValue(embed, "Class"))

	rec := ctx.Store.Load(context.Background())[testUserID]
	assert.Equal(t, 1250, rec.TotalScore)
	assert.Equal(t, "Tester", rec.DisplayName)
	assert.Equal(t, "tester", rec.Username)
}

func TestSetStatsCommand_InvalidClass(t *testing.T) {
	ctx := SetupTestContext(t)

	ctx.Run(SetStatsCommand, newInteraction(CmdSetStats,
		intOpt(OptAttack, 1), intOpt(OptDefense, 1), intOpt(OptAccuracy, 1), strOpt(OptClass, "wizard")))

	assert.Nil(t, ctx.LastEmbed())
	assert.Contains(t, ctx.LastContent(), "Unknown Class")
	assert.Contains(t, ctx.LastContent(), "Night Ranger")
	assert.Empty(t, ctx.Store.Load(context.Background()))
}

func TestSetStatsCommand_NegativeValue(t *testing.T) {
	ctx := SetupTestContext(t)

	ctx.Run(SetStatsCommand, newInteraction(CmdSetStats,
		intOpt(OptAttack, -5), intOpt(OptDefense, 1), intOpt(OptAccuracy, 1)))

	assert.Equal(t, MsgInvalidNumber, ctx.LastContent())
}

func TestUpdateStatsCommand(t *testing.T) {
	ctx := SetupTestContext(t)

	t.Run("no stats recorded", func(t *testing.T) {
		ctx.Run(UpdateStatsCommand, newInteraction(CmdUpdate, intOpt(OptAttack, 10)))
		assert.Equal(t, MsgRecordNotFound, ctx.LastContent())
	})

	t.Run("no options", func(t *testing.T) {
		ctx.Run(UpdateStatsCommand, newInteraction(CmdUpdate))
		assert.Equal(t, MsgNoChanges, ctx.LastContent())
	})

	t.Run("partial update", func(t *testing.T) {
		_, err := ctx.Service.SetStats(context.Background(), testUserID, profile.SetStatsInput{Attack: 400, Defense: 350, Accuracy: 500})
		require.NoError(t, err)

		ctx.Run(UpdateStatsCommand, newInteraction(CmdUpdate, intOpt(OptAttack, 420)))

		embed := ctx.LastEmbed()
		require.NotNil(t, embed)
		assert.Contains(t, embed.Description, "1270")
		assert.Equal(t, "350", fieldValue(embed, "Defense"))
	})
}

func TestSetClassCommand(t *testing.T) {
	ctx := SetupTestContext(t)
	_, err := ctx.Service.SetStats(context.Background(), testUserID, profile.SetStatsInput{Attack: 1})
	require.NoError(t, err)

	ctx.Run(SetClassCommand, newInteraction(CmdSetClass, strOpt(OptClass, "Divine Caster")))

	embed := ctx.LastEmbed()
	require.NotNil(t, embed)
	assert.Contains(t, embed.Description, "Divine Caster")
}

func TestFlagCommands(t *testing.T) {
	ctx := SetupTestContext(t)
	_, err := ctx.Service.SetStats(context.Background(), testUserID, profile.SetStatsInput{Attack: 1})
	require.NoError(t, err)

	ctx.Run(SetSkinCommand, newInteraction(CmdSetSkin, strOpt(OptValue, "tak")))
	ctx.Run(SetFamiliarCommand, newInteraction(CmdSetFamiliar, strOpt(OptValue, "NO")))

	rec := ctx.Store.Load(context.Background())[testUserID]
	assert.True(t, rec.LegendarySkin)
	assert.False(t, rec.LegendaryFamiliar)

	ctx.Run(SetSkinCommand, newInteraction(CmdSetSkin, strOpt(OptValue, "maybe")))
	assert.Equal(t, MsgInvalidYesNo, ctx.LastContent())
	assert.True(t, ctx.Store.Load(context.Background())[testUserID].LegendarySkin)
}

func TestMyStatsCommand(t *testing.T) {
	ctx := SetupTestContext(t)

	ctx.Run(MyStatsCommand, newInteraction(CmdMyStats))
	assert.Equal(t, MsgRecordNotFound, ctx.LastContent())

	bg := context.Background()
	_, err := ctx.Service.SetStats(bg, testUserID, profile.SetStatsInput{Attack: 10})
	require.NoError(t, err)
	_, err = ctx.Service.SetStats(bg, "other", profile.SetStatsInput{Attack: 50})
	require.NoError(t, err)

	ctx.Run(MyStatsCommand, newDMInteraction(CmdMyStats))

	embed := ctx.LastEmbed()
	require.NotNil(t, embed)
	assert.Equal(t, "#2 of 2", fieldValue(embed, "Rank"))
	assert.Equal(t, NoClassLabel, fieldValue(embed, "Class"))
	assert.NotEmpty(t, embed.Timestamp)
}

func TestClearMyStatsCommand(t *testing.T) {
	ctx := SetupTestContext(t)
	_, err := ctx.Service.SetStats(context.Background(), testUserID, profile.SetStatsInput{Attack: 1})
	require.NoError(t, err)

	ctx.Run(ClearMyStatsCommand, newInteraction(CmdClearMyStats))
	require.NotNil(t, ctx.LastEmbed())
	assert.Empty(t, ctx.Store.Load(context.Background()))

	ctx.Run(ClearMyStatsCommand, newInteraction(CmdClearMyStats))
	assert.Equal(t, MsgRecordNotFound, ctx.LastContent())
}

func TestFormatFriendlyError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.ErrRecordNotFound, MsgRecordNotFound},
		{domain.ErrNoChanges, MsgNoChanges},
		{domain.ErrNotInGuild, MsgNotInGuild},
		{domain.ErrPermissionDenied, MsgPermissionDenied},
		{domain.ErrNoActiveMembers, MsgNoActive},
		{domain.ErrStatsNotSaved, MsgNotSaved},
		{nil, MsgGenericError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFriendlyError(tt.err))
	}
	assert.Equal(t, "❌ boom", formatFriendlyError(errors.New("boom")))
}
