package models

import "github.com/shopspring/decimal"

// Group represents one chit fund: a fixed pool of members who each
// contribute ContributionAmount per cycle, with one member receiving the
// pooled amount each cycle.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Family Fund 2026").
	Name string

	// ContributionAmount is the fixed per-member, per-cycle payment.
	ContributionAmount decimal.Decimal

	// MemberCount is the fixed number of members (and cycles), set at
	// creation. The member list may be filled in gradually but never
	// exceeds this count.
	MemberCount int

	// CurrentCycle is 1-indexed and only ever increases. A group with
	// CurrentCycle > MemberCount is closed: no further contributions or
	// settlements may post against it.
	CurrentCycle int

	// OwnerID is the user ID of the foreman who administers the group.
	OwnerID string

	// MemberIDs are the user IDs enrolled in this group.
	MemberIDs []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Closed reports whether the group has completed all of its cycles.
func (g *Group) Closed() bool {
	return g.CurrentCycle > g.MemberCount
}

// Pool is the full payout value of one cycle:
// ContributionAmount × MemberCount.
func (g *Group) Pool() decimal.Decimal {
	return g.ContributionAmount.Mul(decimal.NewFromInt(int64(g.MemberCount)))
}

// HasMember reports whether userID is enrolled in the group.
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
