package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/lootbox-api/internal/config"
	"github.com/osse101/lootbox-api/internal/event"
	"github.com/osse101/lootbox-api/internal/metrics"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus event.Bus
	Config   *config.Config

	// KafkaWriter overrides the writer built from KAFKA_BROKERS. Tests set it.
	KafkaWriter event.MessageWriter
}

// RegisterEventHandlers sets up all event handlers and subscribers.
// This includes:
// - Metrics collector (for event-based metrics)
// - Kafka sink (forwards stage events when brokers are configured)
//
// The returned sink is nil when Kafka is not configured.
func RegisterEventHandlers(deps EventHandlerDependencies) (*event.KafkaSink, error) {
	// Register Metrics Collector
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(deps.EventBus); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	writer := deps.KafkaWriter
	if writer == nil {
		if len(deps.Config.KafkaBrokers) == 0 {
			slog.Info(LogMsgKafkaSinkDisabled)
			return nil, nil
		}
		writer = event.NewKafkaWriter(deps.Config.KafkaBrokers, deps.Config.KafkaTopic)
	}

	sink := event.NewKafkaSink(writer)
	sink.Register(deps.EventBus)
	slog.Info(LogMsgKafkaSinkRegistered,
		"brokers", deps.Config.KafkaBrokers,
		"topic", deps.Config.KafkaTopic)

	return sink, nil
}
