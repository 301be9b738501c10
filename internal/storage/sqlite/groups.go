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

// CreateGroup persists a new group to the database.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.CurrentCycle == 0 {
		group.CurrentCycle = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, contribution_amount, member_count, current_cycle, owner_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.ContributionAmount.String(), group.MemberCount, group.CurrentCycle, group.OwnerID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for _, memberID := range group.MemberIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_id, user_id) VALUES (?, ?)",
			group.ID, memberID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) scanGroupMembers(ctx context.Context, group *models.Group) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY user_id",
		group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return fmt.Errorf("failed to scan group member: %w", err)
		}
		group.MemberIDs = append(group.MemberIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate group members: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID, including its member IDs.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var amount string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, contribution_amount, member_count, current_cycle, owner_id, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &amount, &group.MemberCount, &group.CurrentCycle, &group.OwnerID, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group.ContributionAmount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse contribution amount %q: %w", amount, err)
	}

	if err := s.scanGroupMembers(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups returns all groups with their member IDs, newest first.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, contribution_amount, member_count, current_cycle, owner_id, created_at FROM groups ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var amount string
		if err := rows.Scan(&group.ID, &group.Name, &amount, &group.MemberCount, &group.CurrentCycle, &group.OwnerID, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.ContributionAmount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse contribution amount %q: %w", amount, err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if err := s.scanGroupMembers(ctx, group); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// AddGroupMember enrolls a user into a group; re-adding is a no-op.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, groupID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO group_members (group_id, user_id) VALUES (?, ?)",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}
	return nil
}

// AdvanceGroupCycle increments the group's cycle counter in a single
// conditional UPDATE, so two concurrent advances cannot both push a
// group past closure.
func (s *SQLiteStore) AdvanceGroupCycle(ctx context.Context, groupID string) (int, error) {
	var cycle int
	err := s.db.QueryRowContext(ctx,
		`UPDATE groups SET current_cycle = current_cycle + 1
		 WHERE id = ? AND current_cycle <= member_count
		 RETURNING current_cycle`,
		groupID,
	).Scan(&cycle)
	if err == sql.ErrNoRows {
		// Either the group is missing or it is already closed.
		var exists int
		if err := s.db.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists); err == sql.ErrNoRows {
			return 0, storage.ErrNotFound
		} else if err != nil {
			return 0, fmt.Errorf("failed to check group: %w", err)
		}
		return 0, storage.ErrCycleComplete
	}
	if err != nil {
		return 0, fmt.Errorf("failed to advance cycle: %w", err)
	}
	return cycle, nil
}
