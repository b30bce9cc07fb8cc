package discord

// Friendly message constants for Discord responses
const (
	// Input
	MsgInvalidClass  = "❓ **Unknown Class**\nPick one of: %s"
	MsgInvalidNumber = "🔢 **Invalid Stats**\nAttack, defense and accuracy must be whole numbers of 0 or more."
	MsgInvalidYesNo  = "❓ **Invalid Value**\nAnswer with yes or no (tak/nie)."
	MsgNoChanges     = "🤷 **Nothing To Update**\nProvide at least one of attack, defense or accuracy."
	MsgInvalidFlag   = "❓ **Unknown Flag**"

	// Records
	MsgRecordNotFound = "📭 **No Stats Yet**\nUse `/setstats` to record your character first."
	MsgNoActive       = "📭 **No Active Members**\nNobody currently in the server has recorded stats."

	// Access
	MsgNotInGuild       = "🏰 **Server Only**\nThis command has to be used in a server channel."
	MsgPermissionDenied = "🔒 **Not Allowed**\nThis command needs the High Council or HellKeeper role."

	// Storage
	MsgNotSaved = "💾 **Stats Not Saved**\nThe stats file could not be written. An emergency copy was attempted; please tell an officer."

	MsgGenericError = "❌ Something went wrong."
)
