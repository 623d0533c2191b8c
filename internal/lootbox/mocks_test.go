package lootbox

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/event"
	"github.com/osse101/lootbox-api/internal/payment"
	"github.com/osse101/lootbox-api/internal/settlement"
)

// MockVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, reference solana.Signature, want payment.Expected) error {
	args := m.Called(ctx, reference, want)
	return args.Error(0)
}

// MockGuard
type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Claim(ctx context.Context, signature string) (bool, error) {
	args := m.Called(ctx, signature)
	return args.Bool(0), args.Error(1)
}

// MockSelector
type MockSelector struct {
	mock.Mock
}

func (m *MockSelector) Select(ctx context.Context) domain.TrendingAsset {
	args := m.Called(ctx)
	return args.Get(0).(domain.TrendingAsset)
}

// MockEngine
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) Mode() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockEngine) Settle(ctx context.Context, req settlement.Request) (*domain.SettlementResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementResult), args.Error(1)
}

// recordingPublisher keeps every event in publish order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) PublishWithRetry(ctx context.Context, evt event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func (p *recordingPublisher) ofType(t event.Type) []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []event.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// seqSource replays fixed draws and counts how many were taken.
type seqSource struct {
	values []float64
	draws  int
}

func (s *seqSource) Float64() float64 {
	v := s.values[s.draws%len(s.values)]
	s.draws++
	return v
}
