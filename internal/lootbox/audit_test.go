package lootbox

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/lootbox-api/internal/event"
	"github.com/osse101/lootbox-api/internal/ledger/ledgertest"
)

func TestAuditor_Compare(t *testing.T) {
	fake := ledgertest.New()
	user := ledgertest.NewAddress()
	operator := fake.Operator()
	accounts := []AuditedAccount{{Role: RoleUser, Address: user}, {Role: RoleOperator, Address: operator}}

	tests := []struct {
		name         string
		userAfter    uint64
		opAfter      uint64
		wantWarnings map[string]string
	}{
		{
			name:      "paid opening",
			userAfter: 80_000_000,
			opAfter:   1_020_000_000,
			wantWarnings: map[string]string{
				RoleUser:     "",
				RoleOperator: "",
			},
		},
		{
			name:      "user unchanged",
			userAfter: 100_000_000,
			opAfter:   1_000_000_000,
			wantWarnings: map[string]string{
				RoleUser:     WarnUserBalanceNotDecreased,
				RoleOperator: "",
			},
		},
		{
			name:      "operator paid out",
			userAfter: 90_000_000,
			opAfter:   999_000_000,
			wantWarnings: map[string]string{
				RoleUser:     "",
				RoleOperator: WarnOperatorBalanceDecreased,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &recordingPublisher{}
			a := NewAuditor(fake, pub)
			fake.Balances[user] = 100_000_000
			fake.Balances[operator] = 1_000_000_000

			before := a.Snapshot(context.Background(), accounts...)
			fake.Balances[user] = tt.userAfter
			fake.Balances[operator] = tt.opAfter
			after := a.Snapshot(context.Background(), accounts...)

			a.Compare(context.Background(), "opening-1", before, after, accounts...)

			require.Len(t, pub.events, 2)
			for _, e := range pub.events {
				assert.Equal(t, event.BalanceAudited, e.Type)
				assert.Equal(t, "opening-1", e.OpeningID())
				p := e.Payload.(event.BalanceAuditedPayloadV1)
				assert.Equal(t, tt.wantWarnings[p.Role], p.Warning, p.Role)
			}
		})
	}
}

func TestAuditor_PaidUserIsNotFlaggedForUnchangedBalance(t *testing.T) {
	fake := ledgertest.New()
	user := ledgertest.NewAddress()
	pub := &recordingPublisher{}
	a := NewAuditor(fake, pub)

	paid := AuditedAccount{Role: RoleUser, Address: user, PaidBeforeSnapshot: true}
	unpaid := AuditedAccount{Role: RoleUser, Address: user}
	before := Snapshot{user: 500_000_000}
	after := Snapshot{user: 500_000_000}

	a.Compare(context.Background(), "paid", before, after, paid)
	a.Compare(context.Background(), "unpaid", before, after, unpaid)

	require.Len(t, pub.events, 2)
	assert.Empty(t, pub.events[0].Payload.(event.BalanceAuditedPayloadV1).Warning)
	assert.Equal(t, WarnUserBalanceNotDecreased, pub.events[1].Payload.(event.BalanceAuditedPayloadV1).Warning)
}

func TestAuditor_DeltaInSOL(t *testing.T) {
	fake := ledgertest.New()
	user := ledgertest.NewAddress()
	pub := &recordingPublisher{}
	a := NewAuditor(fake, pub)
	acct := AuditedAccount{Role: RoleUser, Address: user}

	a.Compare(context.Background(), "x", Snapshot{user: 1_500_000_000}, Snapshot{user: 1_480_000_000}, acct)

	require.Len(t, pub.events, 1)
	p := pub.events[0].Payload.(event.BalanceAuditedPayloadV1)
	assert.Equal(t, "1.5", p.Before)
	assert.Equal(t, "1.48", p.After)
	assert.Equal(t, "-0.02", p.Delta)
	assert.Empty(t, p.Warning)
}

func TestAuditor_ReadFailureSkipsAccount(t *testing.T) {
	fake := ledgertest.New()
	fake.BalanceErr = errors.New("rpc unavailable")
	pub := &recordingPublisher{}
	a := NewAuditor(fake, pub)
	acct := AuditedAccount{Role: RoleUser, Address: ledgertest.NewAddress()}

	snap := a.Snapshot(context.Background(), acct)
	assert.Empty(t, snap)

	a.Compare(context.Background(), "x", snap, Snapshot{acct.Address: 1}, acct)
	assert.Empty(t, pub.events)
}

func TestAuditor_NilPublisher(t *testing.T) {
	fake := ledgertest.New()
	acct := AuditedAccount{Role: RoleOperator, Address: fake.Operator()}
	a := NewAuditor(fake, nil)

	assert.NotPanics(t, func() {
		a.Compare(context.Background(), "x", Snapshot{acct.Address: 2}, Snapshot{acct.Address: 1}, acct)
	})
}
