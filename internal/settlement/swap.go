package settlement

import (
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
)

var errEmptyReserves = errors.New("pool has empty reserves")

// QuoteExactIn returns the constant-product output for amountIn after the pool
// fee, and the minimum output accepted after slippageBps.
func QuoteExactIn(amountIn, reserveIn, reserveOut uint64, slippageBps int) (out, minOut uint64, err error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, 0, errEmptyReserves
	}

	in := new(big.Int).SetUint64(amountIn)
	in.Mul(in, big.NewInt(bpsDenominator-PoolFeeBps))
	in.Quo(in, big.NewInt(bpsDenominator))

	num := new(big.Int).Mul(new(big.Int).SetUint64(reserveOut), in)
	den := new(big.Int).Add(new(big.Int).SetUint64(reserveIn), in)
	quote := num.Quo(num, den)

	floor := new(big.Int).Mul(quote, big.NewInt(int64(bpsDenominator-slippageBps)))
	floor.Quo(floor, big.NewInt(bpsDenominator))

	return quote.Uint64(), floor.Uint64(), nil
}

// swapAccounts are the operator-side accounts of a swap
type swapAccounts struct {
	owner       solana.PublicKey
	source      solana.PublicKey // operator wrapped-SOL account
	destination solana.PublicKey // operator account for the asset
}

// buildSwapInstructions wraps lamports into the operator's wrapped-SOL account
// and swaps exactly that amount through pool.
func buildSwapInstructions(pool *Pool, accts swapAccounts, lamports, minOut uint64) []solana.Instruction {
	return []solana.Instruction{
		system.NewTransferInstruction(lamports, accts.owner, accts.source).Build(),
		token.NewSyncNativeInstruction(accts.source).Build(),
		newSwapBaseInInstruction(pool, accts, lamports, minOut),
	}
}

// newSwapBaseInInstruction builds the AMM v4 exact-input swap. Account order
// is fixed by the program.
func newSwapBaseInInstruction(pool *Pool, accts swapAccounts, amountIn, minOut uint64) solana.Instruction {
	data := make([]byte, 17)
	data[0] = swapBaseInDiscriminator
	binary.LittleEndian.PutUint64(data[1:9], amountIn)
	binary.LittleEndian.PutUint64(data[9:17], minOut)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(pool.ID, true, false),
		solana.NewAccountMeta(pool.Authority, false, false),
		solana.NewAccountMeta(pool.OpenOrders, true, false),
		solana.NewAccountMeta(pool.TargetOrders, true, false),
		solana.NewAccountMeta(pool.BaseVault, true, false),
		solana.NewAccountMeta(pool.QuoteVault, true, false),
		solana.NewAccountMeta(pool.MarketProgramID, false, false),
		solana.NewAccountMeta(pool.MarketID, true, false),
		solana.NewAccountMeta(pool.MarketBids, true, false),
		solana.NewAccountMeta(pool.MarketAsks, true, false),
		solana.NewAccountMeta(pool.MarketEventQueue, true, false),
		solana.NewAccountMeta(pool.MarketBaseVault, true, false),
		solana.NewAccountMeta(pool.MarketQuoteVault, true, false),
		solana.NewAccountMeta(pool.MarketAuthority, false, false),
		solana.NewAccountMeta(accts.source, true, false),
		solana.NewAccountMeta(accts.destination, true, false),
		solana.NewAccountMeta(accts.owner, false, true),
	}

	return solana.NewInstruction(pool.ProgramID, accounts, data)
}

// buildTransferInstruction moves amount raw units between token accounts owned by owner and recipient.
func buildTransferInstruction(amount uint64, source, destination, owner solana.PublicKey) solana.Instruction {
	return token.NewTransferInstruction(amount, source, destination, owner, nil).Build()
}
