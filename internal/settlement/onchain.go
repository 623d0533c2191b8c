package settlement

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"

	"github.com/osse101/lootbox-api/internal/concurrency"
	"github.com/osse101/lootbox-api/internal/domain"
	"github.com/osse101/lootbox-api/internal/ledger"
	"github.com/osse101/lootbox-api/internal/logger"
	"github.com/osse101/lootbox-api/internal/metrics"
)

// OnChain buys the reward asset with SOL on Raydium and transfers it to the
// recipient. Settlements of the same mint run one at a time because the
// operator's token account for that mint is shared.
type OnChain struct {
	client      ledger.Client
	accounts    *ledger.TokenAccountResolver
	confirmer   *ledger.Confirmer
	pools       PoolFinder
	slippageBps int

	mintLocks *concurrency.LockManager
}

// NewOnChain creates the on-chain engine. slippageBps outside [0, 10000) means DefaultSlippageBps.
func NewOnChain(client ledger.Client, accounts *ledger.TokenAccountResolver, confirmer *ledger.Confirmer, pools PoolFinder, slippageBps int) *OnChain {
	if slippageBps < 0 || slippageBps >= bpsDenominator {
		slippageBps = DefaultSlippageBps
	}
	return &OnChain{
		client:      client,
		accounts:    accounts,
		confirmer:   confirmer,
		pools:       pools,
		slippageBps: slippageBps,
		mintLocks:   concurrency.NewLockManager(),
	}
}

// Mode implements Engine.
func (*OnChain) Mode() string { return ModeOnChain }

// Settle implements Engine. Once the swap is confirmed the operator holds the
// tokens, so any later failure is reported with Partial set.
func (e *OnChain) Settle(ctx context.Context, req Request) (*domain.SettlementResult, error) {
	log := logger.FromContext(ctx).With("recipient", req.Recipient.String(), "mint", req.Asset.Address)

	fail := func(stage domain.SettlementStage, err error) *domain.SettlementError {
		log.Error(LogMsgSettlementFailed, "stage", stage, "error", err)
		return &domain.SettlementError{
			Stage:     stage,
			Mint:      req.Asset.Address,
			Recipient: req.Recipient.String(),
			Err:       err,
		}
	}

	mint, err := ledger.ParseAddress(req.Asset.Address)
	if err != nil || req.Asset.IsFallback() {
		return nil, fail(domain.StagePoolLookup, fmt.Errorf("%w: %s: %q", domain.ErrNoLiquidityPool, ErrContextParseMint, req.Asset.Address))
	}
	lamports := domain.SOLToLamports(req.AmountSOL)
	if lamports == 0 {
		return nil, fail(domain.StageSwap, fmt.Errorf("%w: reward rounds to zero lamports", domain.ErrNothingToTransfer))
	}

	lock := e.mintLocks.GetLock(mint.String())
	lock.Lock()
	defer lock.Unlock()

	log.Info(LogMsgSettlementStarted, "lamports", lamports)
	operator := e.client.Operator()

	recipientATA, err := e.accounts.ResolveOrCreate(ctx, mint, req.Recipient)
	if err != nil {
		return nil, fail(domain.StageTokenAccounts, err)
	}
	operatorATA, err := e.accounts.ResolveOrCreate(ctx, mint, operator)
	if err != nil {
		return nil, fail(domain.StageTokenAccounts, err)
	}
	operatorWSOL, err := e.accounts.ResolveOrCreate(ctx, ledger.WrappedSOLMint, operator)
	if err != nil {
		return nil, fail(domain.StageTokenAccounts, err)
	}

	pool, err := e.pools.FindPool(ctx, mint)
	if err != nil {
		return nil, fail(domain.StagePoolLookup, err)
	}

	minOut, err := e.quote(ctx, pool, lamports)
	if err != nil {
		return nil, fail(domain.StageSwap, fmt.Errorf("%w: %s: %v", domain.ErrQuoteFailed, ErrContextQuote, err))
	}

	swapIxs := buildSwapInstructions(pool, swapAccounts{
		owner:       operator,
		source:      operatorWSOL,
		destination: operatorATA,
	}, lamports, minOut)

	swapSig, err := e.client.SendInstructions(ctx, swapIxs...)
	if err != nil {
		return nil, fail(domain.StageSwap, fmt.Errorf("%w: %s: %v", domain.ErrSwapUnconfirmed, ErrContextSendSwap, err))
	}
	log.Info(LogMsgSwapSubmitted, "signature", swapSig.String(), "min_out", minOut)

	if err := e.confirm(ctx, swapSig); err != nil {
		serr := fail(domain.StageSwap, fmt.Errorf("%w: %s: %v", domain.ErrSwapUnconfirmed, ErrContextConfirmSwap, err))
		serr.SwapSignature = swapSig.String()
		return nil, serr
	}
	log.Info(LogMsgSwapConfirmed, "signature", swapSig.String())

	partial := func(err error) *domain.SettlementError {
		serr := fail(domain.StageTransfer, err)
		serr.SwapSignature = swapSig.String()
		serr.Partial = true
		log.Error(LogMsgPartialSettlement, "swap_signature", serr.SwapSignature, "error", err)
		return serr
	}

	balance, err := e.client.GetTokenBalance(ctx, operatorATA)
	if err != nil {
		return nil, partial(fmt.Errorf("%w: %s: %v", domain.ErrFundsHeldByOperator, ErrContextReadBalance, err))
	}
	if balance.Amount == 0 {
		return nil, partial(domain.ErrNothingToTransfer)
	}

	transferSig, err := e.client.SendInstructions(ctx, buildTransferInstruction(balance.Amount, operatorATA, recipientATA, operator))
	if err != nil {
		return nil, partial(fmt.Errorf("%w: %s: %v", domain.ErrFundsHeldByOperator, ErrContextSendTransfer, err))
	}
	log.Info(LogMsgTransferSubmitted, "signature", transferSig.String(), "amount", balance.Amount)

	if err := e.confirm(ctx, transferSig); err != nil {
		serr := partial(fmt.Errorf("%w: %s: %v", domain.ErrFundsHeldByOperator, ErrContextConfirmTransfer, err))
		serr.TransferSignature = transferSig.String()
		return nil, serr
	}

	log.Info(LogMsgSettlementCompleted,
		"swap_signature", swapSig.String(),
		"transfer_signature", transferSig.String(),
		"amount", balance.Amount)

	return &domain.SettlementResult{
		Mint:              req.Asset.Address,
		SwapSignature:     swapSig.String(),
		TransferSignature: transferSig.String(),
		SettledAmount:     strconv.FormatUint(balance.Amount, 10),
	}, nil
}

// quote reads the pool vaults and returns the minimum accepted output.
func (e *OnChain) quote(ctx context.Context, pool *Pool, lamports uint64) (uint64, error) {
	inVault, outVault := pool.QuoteVault, pool.BaseVault
	if pool.SOLIsBase() {
		inVault, outVault = pool.BaseVault, pool.QuoteVault
	}

	reserveIn, err := e.client.GetTokenBalance(ctx, inVault)
	if err != nil {
		return 0, err
	}
	reserveOut, err := e.client.GetTokenBalance(ctx, outVault)
	if err != nil {
		return 0, err
	}

	_, minOut, err := QuoteExactIn(lamports, reserveIn.Amount, reserveOut.Amount, e.slippageBps)
	return minOut, err
}

func (e *OnChain) confirm(ctx context.Context, sig solana.Signature) error {
	attempts, err := e.confirmer.Confirm(ctx, sig)
	metrics.ConfirmationAttempts.Observe(float64(attempts))
	return err
}
