package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Amanshah2829/fund-manager-test/internal/models"
	"github.com/Amanshah2829/fund-manager-test/internal/storage"
)

const settlementColumns = "id, group_id, winner_id, kind, bid_amount, payout, commission, dividend_per_member, month, year, created_at"

// InsertSettlement persists a settlement. Two UNIQUE constraints decide
// races: (group, month, year) yields ErrSettlementExists and
// (group, winner) yields ErrWinnerTaken, so concurrent duplicate
// recordings produce exactly one winner.
func (s *SQLiteStore) InsertSettlement(ctx context.Context, st *models.Settlement) error {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	if st.CreatedAt == 0 {
		st.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (`+settlementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID, st.GroupID, st.WinnerID, st.Kind,
		st.BidAmount.String(), st.Payout.String(), st.Commission.String(), st.DividendPerMember.String(),
		st.Period.Month, st.Period.Year, st.CreatedAt,
	)
	if isUniqueViolation(err, "settlements.winner_id") {
		return storage.ErrWinnerTaken
	}
	if isUniqueViolation(err, "settlements.group_id") {
		return storage.ErrSettlementExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

func scanSettlement(scan func(dest ...any) error) (*models.Settlement, error) {
	st := &models.Settlement{}
	var bid, payout, commission, dividend string
	if err := scan(&st.ID, &st.GroupID, &st.WinnerID, &st.Kind,
		&bid, &payout, &commission, &dividend,
		&st.Period.Month, &st.Period.Year, &st.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	for _, field := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&st.BidAmount, bid},
		{&st.Payout, payout},
		{&st.Commission, commission},
		{&st.DividendPerMember, dividend},
	} {
		*field.dst, err = decimal.NewFromString(field.src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse settlement amount %q: %w", field.src, err)
		}
	}
	return st, nil
}

func (s *SQLiteStore) querySettlement(ctx context.Context, where string, args ...any) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE "+where, args...,
	)
	st, err := scanSettlement(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return st, nil
}

// FindSettlement looks up the settlement for a (group, period) key.
func (s *SQLiteStore) FindSettlement(ctx context.Context, groupID string, period models.Period) (*models.Settlement, error) {
	return s.querySettlement(ctx, "group_id = ? AND month = ? AND year = ?", groupID, period.Month, period.Year)
}

// FindSettlementByWinner looks up the settlement a member won in a
// group, across all periods.
func (s *SQLiteStore) FindSettlementByWinner(ctx context.Context, groupID, winnerID string) (*models.Settlement, error) {
	return s.querySettlement(ctx, "group_id = ? AND winner_id = ?", groupID, winnerID)
}

// LatestSettlement returns the group's most recent settlement by
// recording timestamp.
func (s *SQLiteStore) LatestSettlement(ctx context.Context, groupID string) (*models.Settlement, error) {
	return s.querySettlement(ctx, "group_id = ? ORDER BY created_at DESC, id DESC LIMIT 1", groupID)
}

// ListSettlements returns all settlements of a group, newest first.
func (s *SQLiteStore) ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements WHERE group_id = ? ORDER BY created_at DESC, id DESC",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		st, err := scanSettlement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}
