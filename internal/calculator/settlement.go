// Package calculator computes the commission/dividend/payout split for
// one chit fund cycle. It is pure: no storage, no clock, no logging.
package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Amanshah2829/fund-manager-test/internal/models"
)

var (
	// ErrBidOutOfRange means an auction bid was negative or exceeded the pool.
	ErrBidOutOfRange = errors.New("bid must be between zero and the pool value")

	// ErrNegativeDistributable means the discount cannot cover the
	// commission, leaving a negative amount to distribute.
	ErrNegativeDistributable = errors.New("discount does not cover commission")
)

// Breakdown is the money split of one settled cycle.
type Breakdown struct {
	// Pool is contribution × memberCount, the full cycle value.
	Pool decimal.Decimal

	// Payout is the amount handed to the winner.
	Payout decimal.Decimal

	// Commission is the foreman's fee for the cycle.
	Commission decimal.Decimal

	// DividendPerMember is each member's share of the remaining
	// discount, already rounded to 2 decimal places. Zero for FCFS.
	DividendPerMember decimal.Decimal
}

// Settle computes the split for one cycle.
//
// For auctions the commission is a fraction of the discount (pool − bid),
// not of the pool; what remains of the discount after commission is
// divided equally among members as a dividend, and the winner is paid
// their bid. For FCFS the commission is taken from the full pool, the
// winner is paid the rest, and there is no dividend. The asymmetry is
// deliberate and matches how foremen actually charge.
func Settle(contribution decimal.Decimal, memberCount int, rate decimal.Decimal, kind models.SettlementKind, bid decimal.Decimal) (*Breakdown, error) {
	if memberCount <= 0 {
		return nil, fmt.Errorf("member count must be positive, got %d", memberCount)
	}
	if !contribution.IsPositive() {
		return nil, fmt.Errorf("contribution amount must be positive, got %s", contribution)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("commission rate must not be negative, got %s", rate)
	}

	pool := contribution.Mul(decimal.NewFromInt(int64(memberCount)))

	switch kind {
	case models.SettlementAuction:
		if bid.IsNegative() || bid.GreaterThan(pool) {
			return nil, fmt.Errorf("%w: bid %s, pool %s", ErrBidOutOfRange, bid, pool)
		}
		discount := pool.Sub(bid)
		commission := discount.Mul(rate).Round(2)
		distributable := discount.Sub(commission)
		if distributable.IsNegative() {
			return nil, fmt.Errorf("%w: discount %s, commission %s", ErrNegativeDistributable, discount, commission)
		}
		// Rounded here, once, so the stored dividend and every later
		// read of it agree.
		dividend := distributable.Div(decimal.NewFromInt(int64(memberCount))).Round(2)
		return &Breakdown{
			Pool:              pool,
			Payout:            bid,
			Commission:        commission,
			DividendPerMember: dividend,
		}, nil

	case models.SettlementFCFS:
		commission := pool.Mul(rate).Round(2)
		return &Breakdown{
			Pool:              pool,
			Payout:            pool.Sub(commission),
			Commission:        commission,
			DividendPerMember: decimal.Zero,
		}, nil

	default:
		return nil, fmt.Errorf("unknown settlement kind %q", kind)
	}
}
