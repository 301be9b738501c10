package models

import "github.com/shopspring/decimal"

// Contribution records that one member paid their share for one cycle
// period. At most one contribution exists per (group, member, period);
// contributions are written once by the cycle engine and never mutated.
type Contribution struct {
	// ID is the unique identifier for the contribution (UUID format).
	ID string

	// GroupID is the group this contribution belongs to.
	GroupID string

	// MemberID is the paying member.
	MemberID string

	// Amount is the amount received, normally the group's
	// ContributionAmount.
	Amount decimal.Decimal

	// Period is the cycle period the contribution covers.
	Period Period

	// CreatedAt is the Unix timestamp when the contribution was recorded.
	CreatedAt int64
}
