package discord

import "time"

// Slash command names
const (
	CmdSetStats     = "setstats"
	CmdUpdate       = "update"
	CmdSetClass     = "setclass"
	CmdSetSkin      = "setskin"
	CmdSetFamiliar  = "setfamiliar"
	CmdMyStats      = "mystats"
	CmdClearMyStats = "clearmystats"
	CmdList         = "list"
	CmdGuildPower   = "guildpower"
	CmdStatus       = "status"
	CmdStorageInfo  = "storageinfo"
	CmdBackup       = "backup"
	CmdCommands     = "commands"
	CmdPing         = "ping"
)

// Option names
const (
	OptAttack   = "attack"
	OptDefense  = "defense"
	OptAccuracy = "accuracy"
	OptClass    = "class"
	OptValue    = "value"
	OptPage     = "page"
)

// Roles allowed to run storage administration commands
var AdminRoles = []string{"High Council", "HellKeeper"}

// Membership cache sizing
const (
	DefaultMemberCacheSize = 2048
	DefaultMemberCacheTTL  = 10 * time.Minute
)

// Embed colors
const (
	ColorSuccess = 0x2ecc71
	ColorInfo    = 0x3498db
	ColorGold    = 0xf1c40f
	ColorWarning = 0xe67e22
	ColorAdmin   = 0x95a5a6
)

// Leaderboard decorations
const (
	MedalFirst   = "👑"
	MedalSecond  = "🥈"
	MedalThird   = "🥉"
	IconSkin     = "✨"
	IconFamiliar = "🐉"
	NoClassLabel = "Unknown"
)

// Log messages
const (
	LogMsgCommandReceived    = "Command received"
	LogMsgDeferFailed        = "Failed to send deferred response"
	LogMsgEditFailed         = "Failed to edit interaction response"
	LogMsgRespondFailed      = "Failed to respond to interaction"
	LogMsgCommandFailed      = "Command failed"
	LogMsgMemberLookupFailed = "Guild member lookup failed"
	LogMsgRoleLookupFailed   = "Guild role lookup failed"
	LogMsgBotReady           = "Bot is ready"
	LogMsgBotRunning         = "Discord bot is now running"
)
