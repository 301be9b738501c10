package engine

import "errors"

// Domain error taxonomy. Callers match these with errors.Is; the HTTP
// layer maps them onto status codes. Storage-level conflicts (race
// losers) are translated into these before they leave the engine, so no
// raw driver error ever reaches a caller.
var (
	// ErrNotAMember means the actor is not part of the referenced group.
	ErrNotAMember = errors.New("member does not belong to this group")

	// ErrGroupClosed means the operation was attempted after the group's
	// final cycle.
	ErrGroupClosed = errors.New("group has completed all its cycles")

	// ErrAlreadyPaid means a contribution already exists for this member
	// and period.
	ErrAlreadyPaid = errors.New("contribution for this period already exists")

	// ErrDuplicateSettlement means the period already has a settlement.
	ErrDuplicateSettlement = errors.New("a settlement has already been recorded for this cycle")

	// ErrAlreadyWon means the member already won a settlement in this
	// group in a previous cycle.
	ErrAlreadyWon = errors.New("this member has already won a settlement in a previous cycle")

	// ErrInvalidAmount means a bid was missing or out of range, or the
	// computed distributable amount was negative.
	ErrInvalidAmount = errors.New("invalid settlement amount")

	// ErrGroupAlreadyClosed means a cycle advance was attempted past the
	// final cycle.
	ErrGroupAlreadyClosed = errors.New("group has already completed all its cycles")

	// ErrGroupFull means the group's member list already has
	// member-count entries.
	ErrGroupFull = errors.New("group already has its full member count")
)
