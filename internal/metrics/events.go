package metrics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/lootbox-api/internal/event"
	"github.com/osse101/lootbox-api/internal/logger"
)

// EventMetricsCollector subscribes to stage events and records business metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every stage event
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.AllTypes() {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	return nil
}

// HandleEvent processes events and updates metrics. It never fails: a
// payload it cannot read is logged and skipped.
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.PaymentVerified:
		PaymentsVerified.Inc()

	case event.OutcomeResolved:
		var p event.OutcomeResolvedPayloadV1
		if p, err = event.DecodePayload[event.OutcomeResolvedPayloadV1](evt.Payload); err == nil {
			LootboxOpenings.WithLabelValues(p.Tier, p.Outcome).Inc()
			if reward, perr := decimal.NewFromString(p.RewardAmount); perr == nil {
				LootboxRewardSOL.WithLabelValues(p.Tier).Observe(reward.InexactFloat64())
			}
		}

	case event.SettlementCompleted, event.SettlementFailed:
		var p event.SettlementPayloadV1
		if p, err = event.DecodePayload[event.SettlementPayloadV1](evt.Payload); err == nil {
			SettlementDuration.WithLabelValues(p.Mode).Observe((time.Duration(p.DurationMs) * time.Millisecond).Seconds())
			if evt.Type == event.SettlementFailed {
				SettlementFailures.WithLabelValues(p.Stage).Inc()
			}
		}

	case event.BalanceAudited:
		var p event.BalanceAuditedPayloadV1
		if p, err = event.DecodePayload[event.BalanceAuditedPayloadV1](evt.Payload); err == nil && p.Warning != "" {
			BalanceAuditWarnings.WithLabelValues(p.Role).Inc()
		}
	}

	if err != nil {
		log.Debug(LogMsgEventPayloadUndecodable, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
