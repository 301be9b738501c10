package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Amanshah2829/fund-manager-test/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSettleAuction(t *testing.T) {
	// 20 members at 5000 each: pool = 100000, 5% commission.
	contribution := dec("5000")
	rate := dec("0.05")

	tests := []struct {
		name         string
		bid          string
		wantPayout   string
		wantComm     string
		wantDividend string
	}{
		{"typical bid", "90000", "90000", "500", "475"},
		{"high bid", "99000", "99000", "50", "47.5"},
		{"near-pool bid", "99800", "99800", "10", "9.5"},
		{"bid equals pool", "100000", "100000", "0", "0"},
		{"zero bid", "0", "0", "5000", "4750"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Settle(contribution, 20, rate, models.SettlementAuction, dec(tt.bid))
			if err != nil {
				t.Fatalf("Settle failed: %v", err)
			}
			if !b.Pool.Equal(dec("100000")) {
				t.Errorf("pool: got %s, want 100000", b.Pool)
			}
			if !b.Payout.Equal(dec(tt.wantPayout)) {
				t.Errorf("payout: got %s, want %s", b.Payout, tt.wantPayout)
			}
			if !b.Commission.Equal(dec(tt.wantComm)) {
				t.Errorf("commission: got %s, want %s", b.Commission, tt.wantComm)
			}
			if !b.DividendPerMember.Equal(dec(tt.wantDividend)) {
				t.Errorf("dividend: got %s, want %s", b.DividendPerMember, tt.wantDividend)
			}
		})
	}
}

// Every valid auction split must conserve the pool: the winner's payout,
// the commission, and all members' dividends add back up to the pool,
// give or take one currency unit of rounding.
func TestSettleAuctionConservation(t *testing.T) {
	contribution := dec("3333.33")
	rate := dec("0.05")
	members := 17
	pool := contribution.Mul(decimal.NewFromInt(int64(members)))

	for _, bid := range []string{"0", "1", "12345.67", "40000", "55000.01", "56666.61"} {
		b, err := Settle(contribution, members, rate, models.SettlementAuction, dec(bid))
		if err != nil {
			t.Fatalf("Settle(bid=%s) failed: %v", bid, err)
		}
		total := b.Payout.
			Add(b.Commission).
			Add(b.DividendPerMember.Mul(decimal.NewFromInt(int64(members))))
		if total.Sub(pool).Abs().GreaterThan(dec("1")) {
			t.Errorf("bid %s: payout+commission+dividends = %s, pool = %s", bid, total, pool)
		}
	}
}

func TestSettleFCFS(t *testing.T) {
	b, err := Settle(dec("5000"), 20, dec("0.05"), models.SettlementFCFS, decimal.Zero)
	if err != nil {
		t.Fatalf("Settle failed: %v", err)
	}
	if !b.Commission.Equal(dec("5000")) {
		t.Errorf("commission: got %s, want 5000", b.Commission)
	}
	if !b.Payout.Equal(dec("95000")) {
		t.Errorf("payout: got %s, want 95000", b.Payout)
	}
	if !b.DividendPerMember.IsZero() {
		t.Errorf("dividend: got %s, want 0", b.DividendPerMember)
	}
}

func TestSettleRejectsBadBids(t *testing.T) {
	contribution := dec("5000")
	rate := dec("0.05")

	for _, bid := range []string{"-1", "100000.01", "250000"} {
		_, err := Settle(contribution, 20, rate, models.SettlementAuction, dec(bid))
		if !errors.Is(err, ErrBidOutOfRange) {
			t.Errorf("bid %s: got %v, want ErrBidOutOfRange", bid, err)
		}
	}
}

func TestSettleRejectsNegativeDistributable(t *testing.T) {
	// A commission rate above 1 makes the commission exceed the discount.
	_, err := Settle(dec("5000"), 20, dec("1.5"), models.SettlementAuction, dec("90000"))
	if !errors.Is(err, ErrNegativeDistributable) {
		t.Errorf("got %v, want ErrNegativeDistributable", err)
	}
}

func TestSettleRejectsBadInputs(t *testing.T) {
	if _, err := Settle(dec("5000"), 0, dec("0.05"), models.SettlementFCFS, decimal.Zero); err == nil {
		t.Error("expected error for zero member count")
	}
	if _, err := Settle(dec("0"), 20, dec("0.05"), models.SettlementFCFS, decimal.Zero); err == nil {
		t.Error("expected error for zero contribution")
	}
	if _, err := Settle(dec("5000"), 20, dec("-0.05"), models.SettlementFCFS, decimal.Zero); err == nil {
		t.Error("expected error for negative rate")
	}
	if _, err := Settle(dec("5000"), 20, dec("0.05"), "raffle", decimal.Zero); err == nil {
		t.Error("expected error for unknown settlement kind")
	}
}
