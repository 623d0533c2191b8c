package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	LootboxOpenings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLootboxOpenings,
			Help: HelpTextLootboxOpenings,
		},
		[]string{LabelTier, LabelOutcome},
	)

	LootboxRewardSOL = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameLootboxRewardSOL,
			Help:    HelpTextLootboxRewardSOL,
			Buckets: RewardBuckets,
		},
		[]string{LabelTier},
	)

	PaymentsVerified = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePaymentsVerified,
			Help: HelpTextPaymentsVerified,
		},
	)

	MarketFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameMarketFallbacks,
			Help: HelpTextMarketFallbacks,
		},
		[]string{LabelReason},
	)

	SettlementDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameSettlementDuration,
			Help:    HelpTextSettlementDuration,
			Buckets: SettlementLatencyBuckets,
		},
		[]string{LabelMode},
	)

	SettlementFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSettlementFailures,
			Help: HelpTextSettlementFailures,
		},
		[]string{LabelStage},
	)

	ConfirmationAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameConfirmationAttempts,
			Help:    HelpTextConfirmationAttempts,
			Buckets: ConfirmationAttemptBuckets,
		},
	)

	BalanceAuditWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBalanceAuditWarnings,
			Help: HelpTextBalanceAuditWarnings,
		},
		[]string{LabelRole},
	)

	PoolRegistryRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePoolRegistryRefreshes,
			Help: HelpTextPoolRegistryRefreshes,
		},
		[]string{LabelResult},
	)
)
