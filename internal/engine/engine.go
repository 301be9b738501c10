// Package engine implements the chit fund cycle ledger: recording
// contributions, recording one settlement per cycle, and advancing a
// group through its fixed number of cycles.
//
// Every operation validates against current store state before writing
// anything, so a failed call never leaves a partial ledger mutation.
// The store's unique constraints remain the source of truth under
// concurrency: when two callers race, the loser's storage conflict is
// translated into the matching domain error. Notifications run after
// the ledger write is durable and can only ever produce warnings.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amanshah2829/fund-manager-test/internal/models"
	"github.com/Amanshah2829/fund-manager-test/internal/notify"
	"github.com/Amanshah2829/fund-manager-test/internal/storage"
)

// DefaultCommissionRate is the foreman's cut when none is configured.
var DefaultCommissionRate = decimal.RequireFromString("0.05")

// Config carries the engine's injected settings.
type Config struct {
	// CommissionRate is the foreman's fee rate (e.g. 0.05). Applied to
	// the discount for auctions and to the full pool for FCFS.
	CommissionRate decimal.Decimal

	// AdminChatID, when set, receives an administrative copy of every
	// settlement announcement.
	AdminChatID string

	// NotifyConcurrency bounds the settlement notification fan-out.
	NotifyConcurrency int
}

// Engine orchestrates ledger operations against the store. Construct it
// once at process start and share it between callers; all state lives in
// the store.
type Engine struct {
	store    storage.Store
	notifier notify.Notifier
	cfg      Config
}

// New creates an Engine with the given collaborators.
func New(store storage.Store, notifier notify.Notifier, cfg Config) *Engine {
	if cfg.CommissionRate.IsZero() {
		cfg.CommissionRate = DefaultCommissionRate
	}
	if cfg.NotifyConcurrency <= 0 {
		cfg.NotifyConcurrency = 8
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Engine{store: store, notifier: notifier, cfg: cfg}
}

// ContributionResult is a recorded contribution plus any non-fatal
// notification warnings.
type ContributionResult struct {
	Contribution *models.Contribution
	Warnings     []string
}

// RecordContribution books one member's payment for one cycle period.
// The amount is always the group's configured contribution amount.
func (e *Engine) RecordContribution(ctx context.Context, groupID, memberID string, period models.Period) (*ContributionResult, error) {
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
	if !group.HasMember(memberID) {
		return nil, ErrNotAMember
	}

	member, err := e.store.GetUser(ctx, memberID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotAMember
	}
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", memberID, err)
	}

	// Fail fast for callers; the unique constraint still decides races.
	if _, err := e.store.FindContribution(ctx, groupID, memberID, period); err == nil {
		return nil, ErrAlreadyPaid
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("check existing contribution: %w", err)
	}

	c := &models.Contribution{
		GroupID:   groupID,
		MemberID:  memberID,
		Amount:    group.ContributionAmount,
		Period:    period,
		CreatedAt: time.Now().Unix(),
	}
	if err := e.store.InsertContribution(ctx, c); err != nil {
		if errors.Is(err, storage.ErrContributionExists) {
			return nil, ErrAlreadyPaid
		}
		return nil, fmt.Errorf("insert contribution: %w", err)
	}
	contributionsRecorded.Inc()
	slog.Info("Contribution recorded",
		"group_id", groupID,
		"member_id", memberID,
		"period", period.String(),
		"amount", c.Amount,
	)

	result := &ContributionResult{Contribution: c}
	if member.TelegramID != "" {
		text := fmt.Sprintf("✅ Your contribution of *₹%s* has been received for %s in *%s*.\n\nThank you!",
			c.Amount, period, group.Name)
		if warn := e.send(ctx, notify.Message{
			Recipient: member.TelegramID,
			Text:      text,
			GroupID:   groupID,
			MemberID:  memberID,
		}); warn != "" {
			result.Warnings = append(result.Warnings, warn)
		}
	}
	return result, nil
}

// BulkFailure reports one member that could not be recorded during a
// bulk contribution run.
type BulkFailure struct {
	MemberID string
	Err      error
}

// BulkResult is the partial-success report of a bulk contribution run.
type BulkResult struct {
	Recorded int
	Failures []BulkFailure
	Warnings []string
}

// BulkRecordContributions records one period's payment for many members
// at once. Each member is an independent insert: validation failures for
// some members never roll back the others.
func (e *Engine) BulkRecordContributions(ctx context.Context, groupID string, memberIDs []string, period models.Period) (*BulkResult, error) {
	if len(memberIDs) == 0 {
		return nil, fmt.Errorf("no members given")
	}

	result := &BulkResult{}
	for _, memberID := range memberIDs {
		r, err := e.RecordContribution(ctx, groupID, memberID, period)
		if err != nil {
			// A missing group dooms every remaining member too.
			if errors.Is(err, storage.ErrNotFound) || errors.Is(err, ErrGroupClosed) {
				return nil, err
			}
			result.Failures = append(result.Failures, BulkFailure{MemberID: memberID, Err: err})
			continue
		}
		result.Recorded++
		result.Warnings = append(result.Warnings, r.Warnings...)
	}
	slog.Info("Bulk contributions processed",
		"group_id", groupID,
		"period", period.String(),
		"recorded", result.Recorded,
		"failed", len(result.Failures),
	)
	return result, nil
}

// send delivers one message, converting a failure into a warning string
// (empty on success). Delivery problems are logged and counted, never
// returned as errors.
func (e *Engine) send(ctx context.Context, msg notify.Message) string {
	if err := e.notifier.Send(ctx, msg); err != nil {
		notificationFailures.Inc()
		slog.Warn("Notification failed",
			"recipient", msg.Recipient,
			"group_id", msg.GroupID,
			"member_id", msg.MemberID,
			"error", err,
		)
		return fmt.Sprintf("notification to %s failed: %v", msg.Recipient, err)
	}
	return ""
}
