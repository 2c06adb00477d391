package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCounters_Operations(t *testing.T) {
	tests := []struct {
		name  string
		apply func(c *Counters)
		want  Counters
	}{
		{
			name:  "credit",
			apply: func(c *Counters) { c.Credit(decimal.NewFromInt(10)) },
			want:  Counters{Balance: decimal.NewFromInt(10), TokensAdded: decimal.NewFromInt(10)},
		},
		{
			name: "external debit",
			apply: func(c *Counters) {
				c.Credit(decimal.NewFromInt(10))
				c.DebitExternal(decimal.NewFromInt(4))
			},
			want: Counters{
				Balance:       decimal.NewFromInt(6),
				TokensAdded:   decimal.NewFromInt(10),
				TokensRemoved: decimal.NewFromInt(4),
			},
		},
		{
			name: "pull debit",
			apply: func(c *Counters) {
				c.Credit(decimal.NewFromInt(10))
				c.DebitPull(decimal.NewFromInt(3))
			},
			want: Counters{
				Balance:      decimal.NewFromInt(7),
				TokensAdded:  decimal.NewFromInt(10),
				TokensPulled: decimal.NewFromInt(3),
			},
		},
		{
			name:  "debit below zero is recorded",
			apply: func(c *Counters) { c.DebitPull(decimal.NewFromInt(5)) },
			want:  Counters{Balance: decimal.NewFromInt(-5), TokensPulled: decimal.NewFromInt(5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Counters
			tt.apply(&c)

			if !c.Equal(tt.want) {
				t.Fatalf("expected %+v, got %+v", tt.want, c)
			}
			if !c.Net().Equal(c.Balance) {
				t.Fatalf("net %s does not match balance %s", c.Net(), c.Balance)
			}
		})
	}
}

func TestCounters_AddSub(t *testing.T) {
	a := Counters{
		Balance:       decimal.NewFromInt(5),
		TokensAdded:   decimal.NewFromInt(10),
		TokensRemoved: decimal.NewFromInt(3),
		TokensPulled:  decimal.NewFromInt(2),
	}
	b := Counters{
		Balance:     decimal.NewFromInt(1),
		TokensAdded: decimal.NewFromInt(1),
	}

	if got := a.Add(b).Sub(b); !got.Equal(a) {
		t.Fatalf("expected add then sub to round trip, got %+v", got)
	}
	if got := a.Sub(a); !got.Equal(Counters{}) {
		t.Fatalf("expected zero counters, got %+v", got)
	}
}

func TestAccount_SnapshotOwner(t *testing.T) {
	var owner SnapshotOwner = NewAccount("0x0101010101010101010101010101010101010101")

	if owner.SnapshotScope() != ScopeAccount {
		t.Fatalf("expected account scope, got %s", owner.SnapshotScope())
	}
	if owner.Links().CurrentDailyID != nil || owner.Links().PreviousDailyID != nil {
		t.Fatalf("new account must have no snapshot links")
	}
}

func TestAccount_TokenBalance(t *testing.T) {
	acc := &Account{TokenBalance: decimal.NewFromInt(100)}

	if got := acc.ApplyTokenDebit(decimal.NewFromInt(30)); !got.Equal(decimal.NewFromInt(70)) {
		t.Errorf("expected 70, got %s", got)
	}
	if got := acc.ApplyTokenCredit(decimal.NewFromInt(30)); !got.Equal(decimal.NewFromInt(130)) {
		t.Errorf("expected 130, got %s", got)
	}
}
