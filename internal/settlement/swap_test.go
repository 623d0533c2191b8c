package settlement

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/lootbox-api/internal/ledger"
	"github.com/osse101/lootbox-api/internal/ledger/ledgertest"
)

func TestQuoteExactIn(t *testing.T) {
	out, minOut, err := QuoteExactIn(1_000_000, 1_000_000_000, 2_000_000_000, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_993_011), out)
	assert.Equal(t, uint64(1_973_080), minOut)

	_, noSlippage, err := QuoteExactIn(1_000_000, 1_000_000_000, 2_000_000_000, 0)
	require.NoError(t, err)
	assert.Equal(t, out, noSlippage)

	_, _, err = QuoteExactIn(1, 0, 10, 100)
	assert.ErrorIs(t, err, errEmptyReserves)
}

func TestQuoteExactIn_LargeReservesDoNotOverflow(t *testing.T) {
	out, _, err := QuoteExactIn(1<<40, 1<<62, 1<<62, 100)
	require.NoError(t, err)
	assert.Less(t, out, uint64(1<<40))
	assert.Greater(t, out, uint64(0))
}

func newTestPool(mint solana.PublicKey) *Pool {
	return &Pool{
		ID:               ledgertest.NewAddress(),
		BaseMint:         ledger.WrappedSOLMint,
		QuoteMint:        mint,
		ProgramID:        RaydiumAMMv4ProgramID,
		Authority:        ledgertest.NewAddress(),
		OpenOrders:       ledgertest.NewAddress(),
		TargetOrders:     ledgertest.NewAddress(),
		BaseVault:        ledgertest.NewAddress(),
		QuoteVault:       ledgertest.NewAddress(),
		MarketProgramID:  ledgertest.NewAddress(),
		MarketID:         ledgertest.NewAddress(),
		MarketAuthority:  ledgertest.NewAddress(),
		MarketBaseVault:  ledgertest.NewAddress(),
		MarketQuoteVault: ledgertest.NewAddress(),
		MarketBids:       ledgertest.NewAddress(),
		MarketAsks:       ledgertest.NewAddress(),
		MarketEventQueue: ledgertest.NewAddress(),
	}
}

func TestBuildSwapInstructions(t *testing.T) {
	pool := newTestPool(ledgertest.NewAddress())
	accts := swapAccounts{
		owner:       ledgertest.NewAddress(),
		source:      ledgertest.NewAddress(),
		destination: ledgertest.NewAddress(),
	}

	ixs := buildSwapInstructions(pool, accts, 20_000_000, 1234)
	require.Len(t, ixs, 3)

	assert.Equal(t, solana.SystemProgramID, ixs[0].ProgramID())
	assert.Equal(t, solana.TokenProgramID, ixs[1].ProgramID())
	assert.Equal(t, RaydiumAMMv4ProgramID, ixs[2].ProgramID())

	data, err := ixs[2].Data()
	require.NoError(t, err)
	require.Len(t, data, 17)
	assert.Equal(t, byte(swapBaseInDiscriminator), data[0])
	assert.Equal(t, uint64(20_000_000), binary.LittleEndian.Uint64(data[1:9]))
	assert.Equal(t, uint64(1234), binary.LittleEndian.Uint64(data[9:17]))

	metas := ixs[2].Accounts()
	require.Len(t, metas, 18)
	assert.Equal(t, solana.TokenProgramID, metas[0].PublicKey)
	assert.Equal(t, pool.ID, metas[1].PublicKey)
	assert.True(t, metas[1].IsWritable)
	assert.Equal(t, accts.source, metas[15].PublicKey)
	assert.Equal(t, accts.destination, metas[16].PublicKey)
	assert.Equal(t, accts.owner, metas[17].PublicKey)
	assert.True(t, metas[17].IsSigner)
}

func TestBuildTransferInstruction(t *testing.T) {
	ix := buildTransferInstruction(500, ledgertest.NewAddress(), ledgertest.NewAddress(), ledgertest.NewAddress())
	assert.Equal(t, solana.TokenProgramID, ix.ProgramID())
	assert.Len(t, ix.Accounts(), 3)
}
