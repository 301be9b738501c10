package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Amanshah2829/fund-manager-test/internal/calculator"
	"github.com/Amanshah2829/fund-manager-test/internal/models"
	"github.com/Amanshah2829/fund-manager-test/internal/notify"
	"github.com/Amanshah2829/fund-manager-test/internal/storage"
)

// SettlementResult is a recorded settlement plus any non-fatal
// notification warnings.
type SettlementResult struct {
	Settlement *models.Settlement
	Warnings   []string
}

// RecordSettlement books the single payout event of one cycle period:
// it validates the winner, computes the commission/dividend split, and
// writes the settlement. For auctions bid is the winning bid; for FCFS
// it is ignored. After the write succeeds, every group member and the
// configured admin are notified, each attempt independent of the others.
func (e *Engine) RecordSettlement(ctx context.Context, groupID, winnerID string, kind models.SettlementKind, bid decimal.Decimal, period models.Period) (*SettlementResult, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("invalid period %q %d", period.Month, period.Year)
	}

	group, err := e.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", groupID, err)
	}
	if group.Closed() {
		return nil, ErrGroupClosed
	}
	if !group.HasMember(winnerID) {
		return nil, ErrNotAMember
	}

	winner, err := e.store.GetUser(ctx, winnerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotAMember
	}
	if err != nil {
		return nil, fmt.Errorf("winner %s: %w", winnerID, err)
	}

	// Fail fast for callers; the unique constraints still decide races.
	if _, err := e.store.FindSettlement(ctx, groupID, period); err == nil {
		return nil, ErrDuplicateSettlement
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("check existing settlement: %w", err)
	}
	if _, err := e.store.FindSettlementByWinner(ctx, groupID, winnerID); err == nil {
		return nil, ErrAlreadyWon
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("check previous wins: %w", err)
	}

	breakdown, err := calculator.Settle(group.ContributionAmount, group.MemberCount, e.cfg.CommissionRate, kind, bid)
	if err != nil {
		if errors.Is(err, calculator.ErrBidOutOfRange) || errors.Is(err, calculator.ErrNegativeDistributable) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
		}
		return nil, err
	}

	st := &models.Settlement{
		GroupID:           groupID,
		WinnerID:          winnerID,
		Kind:              kind,
		BidAmount:         bid,
		Payout:            breakdown.Payout,
		Commission:        breakdown.Commission,
		DividendPerMember: breakdown.DividendPerMember,
		Period:            period,
		CreatedAt:         time.Now().Unix(),
	}
	if kind == models.SettlementFCFS {
		st.BidAmount = decimal.Zero
	}
	if err := e.store.InsertSettlement(ctx, st); err != nil {
		switch {
		case errors.Is(err, storage.ErrSettlementExists):
			return nil, ErrDuplicateSettlement
		case errors.Is(err, storage.ErrWinnerTaken):
			return nil, ErrAlreadyWon
		}
		return nil, fmt.Errorf("insert settlement: %w", err)
	}
	settlementsRecorded.WithLabelValues(string(kind)).Inc()
	slog.Info("Settlement recorded",
		"group_id", groupID,
		"winner_id", winnerID,
		"kind", kind,
		"period", period.String(),
		"payout", st.Payout,
		"commission", st.Commission,
		"dividend_per_member", st.DividendPerMember,
	)

	return &SettlementResult{
		Settlement: st,
		Warnings:   e.announceSettlement(ctx, group, winner, st),
	}, nil
}

// announceSettlement fans the settlement announcement out to every
// group member and the admin. Each delivery is its own bounded task with
// its own outcome; the returned warnings carry every failure. Nothing
// here can undo the settlement write.
func (e *Engine) announceSettlement(ctx context.Context, group *models.Group, winner *models.User, st *models.Settlement) []string {
	members, err := e.store.GetUsersByIDs(ctx, group.MemberIDs)
	if err != nil {
		slog.Warn("Failed to load members for settlement announcement", "group_id", group.ID, "error", err)
		return []string{fmt.Sprintf("could not load members for notification: %v", err)}
	}

	memberText := fmt.Sprintf(
		"🎉 Settlement for *%s* (%s) 🎉\n\n*Winner*: %s\n*Payout*: ₹%s\n\nYour dividend for this cycle is *₹%s*. This amount will be deducted from your next contribution.\n\nThank you!",
		group.Name, st.Period, winner.Name, st.Payout, st.DividendPerMember)

	var (
		mu       sync.Mutex
		warnings []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.NotifyConcurrency)

	for _, member := range members {
		if member.TelegramID == "" {
			continue
		}
		msg := notify.Message{
			Recipient: member.TelegramID,
			Text:      memberText,
			GroupID:   group.ID,
			MemberID:  member.ID,
		}
		g.Go(func() error {
			if warn := e.send(gctx, msg); warn != "" {
				mu.Lock()
				warnings = append(warnings, warn)
				mu.Unlock()
			}
			return nil
		})
	}

	if e.cfg.AdminChatID != "" {
		adminText := fmt.Sprintf(
			"🔔 *New settlement recorded in %s*\n\n*Winner*: %s\n*Payout*: ₹%s\n*Commission*: ₹%s\n*Dividend per member*: ₹%s",
			group.Name, winner.Name, st.Payout, st.Commission, st.DividendPerMember)
		msg := notify.Message{
			Recipient: e.cfg.AdminChatID,
			Text:      adminText,
			GroupID:   group.ID,
		}
		g.Go(func() error {
			if warn := e.send(gctx, msg); warn != "" {
				mu.Lock()
				warnings = append(warnings, warn)
				mu.Unlock()
			}
			return nil
		})
	}

	// Tasks only ever return nil; Wait is a join, not a failure point.
	_ = g.Wait()
	return warnings
}
