package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amanshah2829/fund-manager-test/internal/models"
	"github.com/Amanshah2829/fund-manager-test/internal/storage"
)

// AdvanceResult reports the outcome of a cycle advance.
type AdvanceResult struct {
	// CurrentCycle is the group's cycle counter after the advance.
	CurrentCycle int

	// Closed is true when the advance was the group's last: the counter
	// is now past the member count and the group accepts no more writes.
	Closed bool

	// PreviousPeriodSettled reports whether the calendar period being
	// left behind had a settlement. Advancing without one is allowed (a
	// group may skip a cycle's auction); this flag lets callers audit
	// skips instead of guessing.
	PreviousPeriodSettled bool
}

// AdvanceCycle moves the group to its next cycle. A group with
// memberCount members closes after memberCount advances.
func (e *Engine) AdvanceCycle(ctx context.Context, groupID string) (*AdvanceResult, error) {
	settled := true
	if _, err := e.store.FindSettlement(ctx, groupID, models.PeriodOf(time.Now())); errors.Is(err, storage.ErrNotFound) {
		settled = false
	}

	cycle, err := e.store.AdvanceGroupCycle(ctx, groupID)
	if errors.Is(err, storage.ErrCycleComplete) {
		return nil, ErrGroupAlreadyClosed
	}
	if err != nil {
		return nil, fmt.Errorf("advance cycle: %w", err)
	}
	cyclesAdvanced.Inc()

	group, err := e.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", groupID, err)
	}

	slog.Info("Cycle advanced",
		"group_id", groupID,
		"current_cycle", cycle,
		"closed", group.Closed(),
		"previous_period_settled", settled,
	)
	return &AdvanceResult{
		CurrentCycle:          cycle,
		Closed:                group.Closed(),
		PreviousPeriodSettled: settled,
	}, nil
}

// DuesResult is the display-only amount a member owes for a period.
type DuesResult struct {
	// AmountDue is the group's contribution amount minus the dividend of
	// the most recent settlement. Recomputed on every query, never
	// stored: dividends only exist once a settlement is recorded.
	AmountDue decimal.Decimal

	// LastDividend is the dividend applied, zero when the group has no
	// settlements yet.
	LastDividend decimal.Decimal

	// Paid reports whether the member already contributed this period.
	Paid bool
}

// AmountDue computes what a member owes for a period: the contribution
// amount credited with the latest settlement's per-member dividend.
func (e *Engine) AmountDue(ctx context.Context, groupID, memberID string, period models.Period) (*DuesResult, error) {
	group, err := e.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", groupID, err)
	}
	if !group.HasMember(memberID) {
		return nil, ErrNotAMember
	}

	dividend := decimal.Zero
	latest, err := e.store.LatestSettlement(ctx, groupID)
	if err == nil {
		dividend = latest.DividendPerMember
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("latest settlement: %w", err)
	}

	paid := false
	if _, err := e.store.FindContribution(ctx, groupID, memberID, period); err == nil {
		paid = true
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("check contribution: %w", err)
	}

	return &DuesResult{
		AmountDue:    group.ContributionAmount.Sub(dividend),
		LastDividend: dividend,
		Paid:         paid,
	}, nil
}
