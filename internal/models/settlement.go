package models

import "github.com/shopspring/decimal"

// SettlementKind selects how a cycle's payout was decided.
type SettlementKind string

const (
	// SettlementAuction is a sealed-bid auction: the winner forgoes
	// pool − bid, which is split between commission and dividends.
	SettlementAuction SettlementKind = "auction"

	// SettlementFCFS is first-come-first-served: no bidding, commission
	// taken from the full pool, no dividend.
	SettlementFCFS SettlementKind = "fcfs"
)

// Settlement records the single payout event of one cycle period. At
// most one settlement exists per (group, period), and a member may win
// at most once in the lifetime of a group. Settlements are written once
// by the cycle engine and never mutated.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// WinnerID is the member receiving the payout.
	WinnerID string

	// Kind is how the winner was decided.
	Kind SettlementKind

	// BidAmount is the winning bid; zero for FCFS settlements.
	BidAmount decimal.Decimal

	// Payout is the amount handed to the winner.
	Payout decimal.Decimal

	// Commission is the foreman's fee withheld for this cycle.
	Commission decimal.Decimal

	// DividendPerMember is each member's share of the distributable
	// discount, rounded to 2 decimal places when the settlement is
	// recorded. Zero for FCFS.
	DividendPerMember decimal.Decimal

	// Period is the cycle period this settlement closes.
	Period Period

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
