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

// InsertContribution persists a contribution. The UNIQUE(group, member,
// month, year) constraint decides races between concurrent writers.
func (s *SQLiteStore) InsertContribution(ctx context.Context, c *models.Contribution) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contributions (id, group_id, member_id, amount, month, year, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.GroupID, c.MemberID, c.Amount.String(), c.Period.Month, c.Period.Year, c.CreatedAt,
	)
	if isUniqueViolation(err, "contributions.group_id") {
		return storage.ErrContributionExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert contribution: %w", err)
	}
	return nil
}

func scanContribution(scan func(dest ...any) error) (*models.Contribution, error) {
	c := &models.Contribution{}
	var amount string
	if err := scan(&c.ID, &c.GroupID, &c.MemberID, &amount, &c.Period.Month, &c.Period.Year, &c.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	c.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contribution amount %q: %w", amount, err)
	}
	return c, nil
}

// FindContribution looks up the contribution for (group, member, period).
func (s *SQLiteStore) FindContribution(ctx context.Context, groupID, memberID string, period models.Period) (*models.Contribution, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, member_id, amount, month, year, created_at FROM contributions
		 WHERE group_id = ? AND member_id = ? AND month = ? AND year = ?`,
		groupID, memberID, period.Month, period.Year,
	)
	c, err := scanContribution(row.Scan)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contribution: %w", err)
	}
	return c, nil
}

// ListContributions returns a group's contributions for one period.
func (s *SQLiteStore) ListContributions(ctx context.Context, groupID string, period models.Period) ([]*models.Contribution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, member_id, amount, month, year, created_at FROM contributions
		 WHERE group_id = ? AND month = ? AND year = ? ORDER BY created_at`,
		groupID, period.Month, period.Year,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []*models.Contribution
	for rows.Next() {
		c, err := scanContribution(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}
	return contributions, nil
}
