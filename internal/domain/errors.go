package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Storage errors
	ErrMsgStorageUnreadable  = "stats storage unreadable"
	ErrMsgStorageWriteFailed = "stats storage write failed"
	ErrMsgStatsNotSaved      = "stats not saved"
	ErrMsgInvalidStatsFile   = "stats file does not match the expected layout"

	// Validation errors
	ErrMsgInvalidClassName    = "invalid class"
	ErrMsgInvalidNumericInput = "stats must be non-negative whole numbers"
	ErrMsgInvalidFlagValue    = "flag value must be yes or no"
	ErrMsgInvalidFlag         = "unknown flag"
	ErrMsgNoChanges           = "no changes provided"

	// Record errors
	ErrMsgRecordNotFound = "no statistics found"

	// Access errors
	ErrMsgNotInGuild        = "command must be used in a server channel"
	ErrMsgPermissionDenied  = "missing required role"
	ErrMsgNoActiveMembers   = "no active members"
	ErrMsgSnapshotsDisabled = "no backup directory configured"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrStorageUnreadable  = errors.New(ErrMsgStorageUnreadable)
	ErrStorageWriteFailed = errors.New(ErrMsgStorageWriteFailed)
	ErrStatsNotSaved      = errors.New(ErrMsgStatsNotSaved)
	ErrInvalidStatsFile   = errors.New(ErrMsgInvalidStatsFile)

	ErrInvalidClassName    = errors.New(ErrMsgInvalidClassName)
	ErrInvalidNumericInput = errors.New(ErrMsgInvalidNumericInput)
	ErrInvalidFlagValue    = errors.New(ErrMsgInvalidFlagValue)
	ErrInvalidFlag         = errors.New(ErrMsgInvalidFlag)
	ErrNoChanges           = errors.New(ErrMsgNoChanges)

	ErrRecordNotFound = errors.New(ErrMsgRecordNotFound)

	ErrNotInGuild        = errors.New(ErrMsgNotInGuild)
	ErrPermissionDenied  = errors.New(ErrMsgPermissionDenied)
	ErrNoActiveMembers   = errors.New(ErrMsgNoActiveMembers)
	ErrSnapshotsDisabled = errors.New(ErrMsgSnapshotsDisabled)
)
