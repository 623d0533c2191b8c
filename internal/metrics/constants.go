package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameLootboxOpenings       = "lootbox_openings_total"
	MetricNameLootboxRewardSOL      = "lootbox_reward_sol"
	MetricNamePaymentsVerified      = "lootbox_payments_verified_total"
	MetricNameMarketFallbacks       = "lootbox_market_fallbacks_total"
	MetricNameSettlementDuration    = "lootbox_settlement_duration_seconds"
	MetricNameSettlementFailures    = "lootbox_settlement_failures_total"
	MetricNameConfirmationAttempts  = "lootbox_confirmation_attempts"
	MetricNameBalanceAuditWarnings  = "lootbox_balance_audit_warnings_total"
	MetricNamePoolRegistryRefreshes = "lootbox_pool_registry_refreshes_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextLootboxOpenings       = "Total number of lootbox openings by tier and outcome"
	HelpTextLootboxRewardSOL      = "Reward amount of winning openings in SOL"
	HelpTextPaymentsVerified      = "Total number of payment references that passed verification"
	HelpTextMarketFallbacks       = "Total number of times the fallback asset replaced the trending feed"
	HelpTextSettlementDuration    = "Settlement latency in seconds by mode"
	HelpTextSettlementFailures    = "Total number of failed settlements by stage"
	HelpTextConfirmationAttempts  = "Confirmation attempts needed per transaction"
	HelpTextBalanceAuditWarnings  = "Total number of unexpected balance movements by role"
	HelpTextPoolRegistryRefreshes = "Total number of liquidity pool registry downloads by result"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelTier    = "tier"
	LabelOutcome = "outcome"
	LabelMode    = "mode"
	LabelStage   = "stage"
	LabelReason  = "reason"
	LabelRole    = "role"
	LabelResult  = "result"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// SettlementLatencyBuckets cover simulated payouts (sub-millisecond) up to
// on-chain settlements that exhaust every confirmation retry.
var SettlementLatencyBuckets = []float64{.001, .01, .1, .5, 1, 2.5, 5, 10, 20, 30, 60, 120}

// RewardBuckets are SOL amounts from the smallest JEETER reward upwards
var RewardBuckets = []float64{.0008, .002, .005, .01, .02, .05, .1, .5, 1, 5}

// ConfirmationAttemptBuckets count attempts per transaction
var ConfirmationAttemptBuckets = []float64{1, 2, 3, 4, 5}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadUndecodable = "Event payload could not be decoded"
	LogMsgMetricsRecorded         = "Metrics recorded for event"
)
