package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/lootbox-api/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// MetadataKeyOpeningID ties every stage event of one opening together
const MetadataKeyOpeningID = "opening_id"

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// OpeningID returns the opening the event belongs to, or "".
func (e Event) OpeningID() string {
	id, _ := e.GetMetadataValue(MetadataKeyOpeningID).(string)
	return id
}

// Stage event types
const (
	LootboxOpened       Type = domain.EventTypeLootboxOpened
	PaymentVerified     Type = domain.EventTypePaymentVerified
	OutcomeResolved     Type = domain.EventTypeOutcomeResolved
	AssetSelected       Type = domain.EventTypeAssetSelected
	SettlementCompleted Type = domain.EventTypeSettlementCompleted
	SettlementFailed    Type = domain.EventTypeSettlementFailed
	SettlementDeferred  Type = domain.EventTypeSettlementDeferred
	BalanceAudited      Type = domain.EventTypeBalanceAudited
)

// AllTypes lists every stage event type in flow order.
func AllTypes() []Type {
	return []Type{
		LootboxOpened,
		PaymentVerified,
		OutcomeResolved,
		AssetSelected,
		SettlementCompleted,
		SettlementFailed,
		SettlementDeferred,
		BalanceAudited,
	}
}

// Typed event payloads for type safety. Amounts are decimal strings in SOL
// unless the field name says otherwise.

// LootboxOpenedPayloadV1 is the typed payload for accepted open requests
type LootboxOpenedPayloadV1 struct {
	Wallet    string `json:"wallet"`
	Tier      string `json:"tier"`
	Bet       string `json:"bet"`
	Paid      bool   `json:"paid"`
	Timestamp int64  `json:"timestamp"`
}

// PaymentVerifiedPayloadV1 is the typed payload for verified payments
type PaymentVerifiedPayloadV1 struct {
	Wallet    string `json:"wallet"`
	Signature string `json:"signature"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// OutcomeResolvedPayloadV1 is the typed payload for win/loss draws
type OutcomeResolvedPayloadV1 struct {
	Wallet         string `json:"wallet"`
	Tier           string `json:"tier"`
	Outcome        string `json:"outcome"`
	Bet            string `json:"bet"`
	RewardAmount   string `json:"reward_amount,omitempty"`
	RewardFraction string `json:"reward_fraction,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}

// AssetSelectedPayloadV1 is the typed payload for reward asset selection
type AssetSelectedPayloadV1 struct {
	Mint      string `json:"mint"`
	Symbol    string `json:"symbol"`
	Market    string `json:"market"`
	Fallback  bool   `json:"fallback"`
	Timestamp int64  `json:"timestamp"`
}

// SettlementPayloadV1 is the typed payload for completed, failed and deferred settlements
type SettlementPayloadV1 struct {
	Recipient         string `json:"recipient"`
	Mint              string `json:"mint"`
	Amount            string `json:"amount"`
	Mode              string `json:"mode"`
	Stage             string `json:"stage,omitempty"`
	SwapSignature     string `json:"swap_signature,omitempty"`
	TransferSignature string `json:"transfer_signature,omitempty"`
	SettledRawAmount  string `json:"settled_raw_amount,omitempty"`
	Partial           bool   `json:"partial,omitempty"`
	Error             string `json:"error,omitempty"`
	DurationMs        int64  `json:"duration_ms"`
	Timestamp         int64  `json:"timestamp"`
}

// BalanceAuditedPayloadV1 is the typed payload for before/after balance checks
type BalanceAuditedPayloadV1 struct {
	Account   string `json:"account"`
	Role      string `json:"role"`
	Before    string `json:"before"`
	After     string `json:"after"`
	Delta     string `json:"delta"`
	Warning   string `json:"warning,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func openingMetadata(openingID string) map[string]interface{} {
	return map[string]interface{}{MetadataKeyOpeningID: openingID}
}

// Type-safe event constructors

// NewLootboxOpenedEvent creates a new lootbox opened event
func NewLootboxOpenedEvent(openingID string, payload LootboxOpenedPayloadV1) Event {
	payload.Timestamp = time.Now().Unix()
	return Event{
		Version:  EventSchemaVersion,
		Type:     LootboxOpened,
		Payload:  payload,
		Metadata: openingMetadata(openingID),
	}
}

// NewPaymentVerifiedEvent creates a new payment verified event
func NewPaymentVerifiedEvent(openingID, wallet, signature, amount string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    PaymentVerified,
		Payload: PaymentVerifiedPayloadV1{
			Wallet:    wallet,
			Signature: signature,
			Amount:    amount,
			Timestamp: time.Now().Unix(),
		},
		Metadata: openingMetadata(openingID),
	}
}

// NewOutcomeResolvedEvent creates a new outcome resolved event
func NewOutcomeResolvedEvent(openingID string, payload OutcomeResolvedPayloadV1) Event {
	payload.Timestamp = time.Now().Unix()
	return Event{
		Version:  EventSchemaVersion,
		Type:     OutcomeResolved,
		Payload:  payload,
		Metadata: openingMetadata(openingID),
	}
}

// NewAssetSelectedEvent creates a new asset selected event
func NewAssetSelectedEvent(openingID string, asset domain.TrendingAsset) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AssetSelected,
		Payload: AssetSelectedPayloadV1{
			Mint:      asset.Address,
			Symbol:    asset.Symbol,
			Market:    asset.SourceMarket,
			Fallback:  asset.IsFallback(),
			Timestamp: time.Now().Unix(),
		},
		Metadata: openingMetadata(openingID),
	}
}

// NewSettlementEvent creates a settlement event of the given type
func NewSettlementEvent(openingID string, eventType Type, payload SettlementPayloadV1) Event {
	payload.Timestamp = time.Now().Unix()
	return Event{
		Version:  EventSchemaVersion,
		Type:     eventType,
		Payload:  payload,
		Metadata: openingMetadata(openingID),
	}
}

// NewBalanceAuditedEvent creates a new balance audited event
func NewBalanceAuditedEvent(openingID string, payload BalanceAuditedPayloadV1) Event {
	payload.Timestamp = time.Now().Unix()
	return Event{
		Version:  EventSchemaVersion,
		Type:     BalanceAudited,
		Payload:  payload,
		Metadata: openingMetadata(openingID),
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// Publisher accepts events without making the caller wait for delivery
type Publisher interface {
	PublishWithRetry(ctx context.Context, event Event)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously
// in subscription order; every handler runs even if an earlier one fails.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
