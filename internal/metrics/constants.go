package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal       = "http_requests_total"
	MetricNameHTTPRequestDuration     = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight    = "http_requests_in_flight"
	MetricNameHTTPRequestsRateLimited = "http_requests_rate_limited_total"
)

// Command metric names
const (
	MetricNameCommandsTotal = "discord_commands_total"
	MetricNameCommandErrors = "discord_command_errors_total"
)

// Storage metric names
const (
	MetricNameStoreSaves     = "stats_store_saves_total"
	MetricNameStoreLoads     = "stats_store_loads_total"
	MetricNameBackupAttempts = "stats_backup_attempts_total"
	MetricNameStatsRecords   = "stats_records"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal       = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration     = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight    = "Current number of HTTP requests being served"
	HelpTextHTTPRequestsRateLimited = "Total number of HTTP requests rejected by the per-client rate limit"
)

// Command metric help text
const (
	HelpTextCommandsTotal = "Total number of slash commands handled"
	HelpTextCommandErrors = "Total number of slash commands that ended in a user-facing error"
)

// Storage metric help text
const (
	HelpTextStoreSaves     = "Total number of stats file saves by result"
	HelpTextStoreLoads     = "Total number of stats file loads by the source that was adopted"
	HelpTextBackupAttempts = "Total number of backup writes by kind and result"
	HelpTextStatsRecords   = "Number of stat records in the last loaded database"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelCommand = "command"
	LabelResult  = "result"
	LabelSource  = "source"
	LabelKind    = "kind"
)

// ============================================================================
// Label Values
// ============================================================================

// Result label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Load source label values
const (
	SourcePrimary = "primary"
	SourceBackup  = "backup"
	SourceEmpty   = "empty"
)

// Backup kind label values
const (
	KindRolling   = "rolling"
	KindSnapshot  = "snapshot"
	KindEmergency = "emergency"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
