package lootbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/event"
	"github.com/osse101/lootbox-api/internal/ledger"
	"github.com/osse101/lootbox-api/internal/logger"
	"github.com/osse101/lootbox-api/internal/market"
	"github.com/osse101/lootbox-api/internal/metrics"
	"github.com/osse101/lootbox-api/internal/payment"
	"github.com/osse101/lootbox-api/internal/settlement"
)

// Service defines the lootbox opening interface
type Service interface {
	Open(ctx context.Context, req domain.OpenRequest) (*domain.OpenResult, error)
	History(ctx context.Context, walletAddress string) ([]domain.HistoryEntry, error)
}

// Dependencies are the collaborators of the opening flow. Guard and Auditor
// are optional.
type Dependencies struct {
	Catalog   *Catalog
	Resolver  *Resolver
	Verifier  payment.Verifier
	Guard     payment.Guard
	Selector  market.Selector
	Engine    settlement.Engine
	Auditor   *Auditor
	Publisher event.Publisher

	// Operator receives bets and pays out rewards.
	Operator          solana.PublicKey
	Tolerance         decimal.Decimal
	SettlementTimeout time.Duration
}

type service struct {
	catalog   *Catalog
	resolver  *Resolver
	verifier  payment.Verifier
	guard     payment.Guard
	selector  market.Selector
	engine    settlement.Engine
	auditor   *Auditor
	publisher event.Publisher

	operator          solana.PublicKey
	tolerance         decimal.Decimal
	settlementTimeout time.Duration
}

// NewService creates a new lootbox service
func NewService(deps Dependencies) Service {
	if deps.Resolver == nil {
		deps.Resolver = NewResolver(nil)
	}
	if deps.SettlementTimeout <= 0 {
		deps.SettlementTimeout = DefaultSettlementTimeout
	}
	return &service{
		catalog:           deps.Catalog,
		resolver:          deps.Resolver,
		verifier:          deps.Verifier,
		guard:             deps.Guard,
		selector:          deps.Selector,
		engine:            deps.Engine,
		auditor:           deps.Auditor,
		publisher:         deps.Publisher,
		operator:          deps.Operator,
		tolerance:         deps.Tolerance,
		settlementTimeout: deps.SettlementTimeout,
	}
}

// Open runs one opening: validate, verify the payment if one is referenced,
// draw, and on a win pick an asset and settle it. A settlement failure is
// returned as an error, never as a loss.
func (s *service) Open(ctx context.Context, req domain.OpenRequest) (*domain.OpenResult, error) {
	wallet, err := ledger.ParseAddress(strings.TrimSpace(req.WalletAddress))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidWalletAddress, req.WalletAddress)
	}

	tier, bet, err := s.resolveStake(req)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.CheckBet(tier, bet); err != nil {
		return nil, err
	}

	var reference solana.Signature
	paid := req.PaymentReference != ""
	if paid {
		if reference, err = ledger.ParseSignature(strings.TrimSpace(req.PaymentReference)); err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSignature, req.PaymentReference)
		}
	}

	result := &domain.OpenResult{
		ID:        uuid.NewString(),
		Tier:      tier,
		Bet:       bet,
		Recipient: wallet.String(),
		Operator:  s.operator.String(),
		OpenedAt:  time.Now(),
	}
	log := logger.FromContext(ctx).With("opening_id", result.ID, "wallet", result.Recipient, "tier", string(tier.ID))
	log.Info(LogMsgOpenStarted, "bet", bet.String(), "paid", paid)

	s.publish(ctx, event.NewLootboxOpenedEvent(result.ID, event.LootboxOpenedPayloadV1{
		Wallet: result.Recipient,
		Tier:   string(tier.ID),
		Bet:    bet.String(),
		Paid:   paid,
	}))

	// The payment was sent before this request, so the user's debit is
	// already in the baseline.
	audited := []AuditedAccount{
		{Role: RoleUser, Address: wallet, PaidBeforeSnapshot: paid},
		{Role: RoleOperator, Address: s.operator},
	}
	var before Snapshot
	if s.auditor != nil {
		before = s.auditor.Snapshot(ctx, audited...)
		defer func() {
			s.auditor.Compare(ctx, result.ID, before, s.auditor.Snapshot(ctx, audited...), audited...)
		}()
	}

	if paid {
		if err := s.verifyPayment(ctx, result.ID, wallet, reference, bet); err != nil {
			return nil, err
		}
		log.Info(LogMsgPaymentVerified, "signature", req.PaymentReference)
	} else {
		log.Warn(LogMsgUnpaidOpening)
	}

	outcome, err := s.resolver.Resolve(tier, bet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextResolve, err)
	}
	result.Outcome = outcome
	s.recordOutcome(ctx, result, log)

	if !outcome.IsWin() {
		return result, nil
	}

	asset := s.selector.Select(ctx)
	result.Asset = &asset
	log.Info(LogMsgAssetSelected, "mint", asset.Address, "symbol", asset.Symbol, "fallback", asset.IsFallback())
	s.publish(ctx, event.NewAssetSelectedEvent(result.ID, asset))

	if asset.IsFallback() && s.engine.Mode() == settlement.ModeOnChain {
		result.Notice = NoticeSettlementDeferred
		log.Warn(LogMsgSettlementDeferred, "reward", outcome.RewardAmount.String())
		s.publish(ctx, event.NewSettlementEvent(result.ID, event.SettlementDeferred, event.SettlementPayloadV1{
			Recipient: result.Recipient,
			Mint:      asset.Address,
			Amount:    outcome.RewardAmount.String(),
			Mode:      s.engine.Mode(),
		}))
		return result, nil
	}

	settled, err := s.settle(ctx, result, wallet, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextSettle, err)
	}
	result.Settlement = settled
	return result, nil
}

// resolveStake applies the variant's defaults and looks up the tier.
func (s *service) resolveStake(req domain.OpenRequest) (domain.Tier, decimal.Decimal, error) {
	tierName := strings.TrimSpace(req.Tier)
	swapVariant := s.catalog.Name() == CatalogSwap

	if tierName == "" {
		if !swapVariant {
			return domain.Tier{}, decimal.Zero, domain.ErrMissingParameters
		}
		tierName = DefaultSwapTier
	}

	tier, err := s.catalog.Lookup(tierName)
	if err != nil {
		return domain.Tier{}, decimal.Zero, err
	}

	switch {
	case req.BetAmount != nil:
		if !req.BetAmount.IsPositive() {
			return domain.Tier{}, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, req.BetAmount.String())
		}
		return tier, *req.BetAmount, nil
	case swapVariant:
		return tier, tier.MinimumBet, nil
	default:
		return domain.Tier{}, decimal.Zero, domain.ErrMissingParameters
	}
}

func (s *service) verifyPayment(ctx context.Context, openingID string, wallet solana.PublicKey, reference solana.Signature, bet decimal.Decimal) error {
	err := s.verifier.Verify(ctx, reference, payment.Expected{
		Sender:    wallet,
		Receiver:  s.operator,
		Amount:    bet,
		Tolerance: s.tolerance,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextVerifyPayment, err)
	}

	if s.guard != nil {
		fresh, err := s.guard.Claim(ctx, reference.String())
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextClaimPayment, err)
		}
		if !fresh {
			return fmt.Errorf("%w: %s", domain.ErrPaymentAlreadyUsed, reference)
		}
	}

	metrics.PaymentsVerified.Inc()
	s.publish(ctx, event.NewPaymentVerifiedEvent(openingID, wallet.String(), reference.String(), bet.String()))
	return nil
}

func (s *service) recordOutcome(ctx context.Context, result *domain.OpenResult, log *slog.Logger) {
	outcome := result.Outcome
	tierLabel := string(result.Tier.ID)
	metrics.LootboxOpenings.WithLabelValues(tierLabel, string(outcome.Kind)).Inc()

	payload := event.OutcomeResolvedPayloadV1{
		Wallet:  result.Recipient,
		Tier:    tierLabel,
		Outcome: string(outcome.Kind),
		Bet:     result.Bet.String(),
	}
	if outcome.IsWin() {
		reward, _ := outcome.RewardAmount.Float64()
		metrics.LootboxRewardSOL.WithLabelValues(tierLabel).Observe(reward)
		payload.RewardAmount = outcome.RewardAmount.String()
		payload.RewardFraction = outcome.RewardFraction.String()
		log.Info(LogMsgOutcomeResolved, "outcome", outcome.Kind, "reward", outcome.RewardAmount.StringFixed(4))
	} else {
		log.Info(LogMsgOutcomeResolved, "outcome", outcome.Kind)
	}

	s.publish(ctx, event.NewOutcomeResolvedEvent(result.ID, payload))
}

// settle runs the engine on a context that survives the caller going away,
// since a half-finished swap cannot be rolled back.
func (s *service) settle(ctx context.Context, result *domain.OpenResult, wallet solana.PublicKey, log *slog.Logger) (*domain.SettlementResult, error) {
	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.settlementTimeout)
	defer cancel()

	mode := s.engine.Mode()
	payload := event.SettlementPayloadV1{
		Recipient: result.Recipient,
		Mint:      result.Asset.Address,
		Amount:    result.Outcome.RewardAmount.String(),
		Mode:      mode,
	}

	start := time.Now()
	settled, err := s.engine.Settle(settleCtx, settlement.Request{
		Asset:     *result.Asset,
		Recipient: wallet,
		AmountSOL: result.Outcome.RewardAmount,
	})
	elapsed := time.Since(start)
	metrics.SettlementDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
	payload.DurationMs = elapsed.Milliseconds()

	if err != nil {
		stage := "unknown"
		var serr *domain.SettlementError
		if errors.As(err, &serr) {
			stage = string(serr.Stage)
			payload.Stage = stage
			payload.SwapSignature = serr.SwapSignature
			payload.TransferSignature = serr.TransferSignature
			payload.Partial = serr.Partial
		}
		payload.Error = err.Error()
		metrics.SettlementFailures.WithLabelValues(stage).Inc()
		log.Error(LogMsgSettlementFailed, "stage", stage, "error", err)
		s.publish(ctx, event.NewSettlementEvent(result.ID, event.SettlementFailed, payload))
		return nil, err
	}

	payload.SwapSignature = settled.SwapSignature
	payload.TransferSignature = settled.TransferSignature
	payload.SettledRawAmount = settled.SettledAmount
	log.Info(LogMsgSettlementCompleted, "mode", mode, "settled", settled.SettledAmount, "duration_ms", payload.DurationMs)
	s.publish(ctx, event.NewSettlementEvent(result.ID, event.SettlementCompleted, payload))
	return settled, nil
}

// History returns past openings for a wallet. Openings are not stored, so
// the list is always empty once the address is valid.
func (s *service) History(ctx context.Context, walletAddress string) ([]domain.HistoryEntry, error) {
	wallet, err := ledger.ParseAddress(strings.TrimSpace(walletAddress))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidWalletAddress, walletAddress)
	}
	logger.FromContext(ctx).Debug(LogMsgHistoryRequested, "wallet", wallet.String())
	return []domain.HistoryEntry{}, nil
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishWithRetry(ctx, evt)
}
