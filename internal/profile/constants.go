package profile

// LockKeyPrefix namespaces the per-database mutation lock
const LockKeyPrefix = "stats-db:"

// Yes/no spellings accepted for flag commands (English and Polish)
var (
	yesValues = map[string]bool{"yes": true, "tak": true}
	noValues  = map[string]bool{"no": true, "nie": true}
)

// Flag name aliases accepted from command input
var flagAliases = map[string]string{
	"skin":               "legendary_skin",
	"legendary_skin":     "legendary_skin",
	"legendaryskin":      "legendary_skin",
	"familiar":           "legendary_familiar",
	"legendary_familiar": "legendary_familiar",
	"legendaryfamiliar":  "legendary_familiar",
}

// Log messages
const (
	LogMsgStatsSet          = "Stats saved"
	LogMsgStatsUpdated      = "Stats updated"
	LogMsgClassSet          = "Class set"
	LogMsgFlagSet           = "Flag set"
	LogMsgStatsDeleted      = "Stats deleted"
	LogMsgSaveFailed        = "Stats not saved, wrote emergency backup"
	LogMsgManualBackup      = "Manual backup requested"
	LogMsgSnapshotFailed    = "Snapshot failed, falling back to emergency backup"
	LogMsgValidationFailure = "Rejected stats input"
)
