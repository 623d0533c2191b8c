package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/lootbox-api/internal/domain"
)

// MockLootboxService mocks lootbox.Service
type MockLootboxService struct {
	mock.Mock
}

func (m *MockLootboxService) Open(ctx context.Context, req domain.OpenRequest) (*domain.OpenResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OpenResult), args.Error(1)
}

func (m *MockLootboxService) History(ctx context.Context, walletAddress string) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

// MockHealthChecker mocks the ledger health probe
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// countingSelector returns a fixed asset and counts calls.
type countingSelector struct {
	asset domain.TrendingAsset
	calls int
}

func (s *countingSelector) Select(ctx context.Context) domain.TrendingAsset {
	s.calls++
	return s.asset
}
