// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/Amanshah2829/fund-manager-test/internal/models"
)

// Typed storage outcomes. Uniqueness violations are expected results of
// concurrent ledger writes, not exceptional failures: the backing store
// enforces them with unique constraints and reports the loser of a race
// with one of these sentinels, which the cycle engine translates into
// its domain error taxonomy.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrContributionExists means a contribution already exists for the
	// (group, member, period) key.
	ErrContributionExists = errors.New("contribution already recorded for this period")

	// ErrSettlementExists means a settlement already exists for the
	// (group, period) key.
	ErrSettlementExists = errors.New("settlement already recorded for this period")

	// ErrWinnerTaken means the member has already won a settlement in
	// this group.
	ErrWinnerTaken = errors.New("member has already won a settlement in this group")

	// ErrCycleComplete means the group's cycle counter is already past
	// its final cycle and cannot advance further.
	ErrCycleComplete = errors.New("group has completed all cycles")

	// ErrEmailExists means a user with that email already exists.
	ErrEmailExists = errors.New("email already registered")
)

// Store defines the interface for ledger storage operations. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the engine, and is the only state shared between
// concurrent callers.
type Store interface {
	// CreateUser persists a new user. Returns ErrEmailExists if the
	// user carries an email that is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if
	// absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUsersByIDs retrieves the users for the given IDs. Unknown IDs
	// are skipped, not errors.
	GetUsersByIDs(ctx context.Context, ids []string) ([]*models.User, error)

	// CreateGroup persists a new group. ID and CreatedAt are populated
	// by the store when unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its member IDs. Returns
	// ErrNotFound if absent.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddGroupMember enrolls a user into a group. Adding a user twice
	// is a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// AdvanceGroupCycle atomically increments the group's cycle counter
	// and returns the new value. Returns ErrCycleComplete if the counter
	// is already past the group's member count, ErrNotFound if the group
	// does not exist.
	AdvanceGroupCycle(ctx context.Context, groupID string) (int, error)

	// InsertContribution persists a contribution. Returns
	// ErrContributionExists if the (group, member, period) key is taken.
	InsertContribution(ctx context.Context, c *models.Contribution) error

	// FindContribution looks up the contribution for a (group, member,
	// period) key. Returns ErrNotFound if absent.
	FindContribution(ctx context.Context, groupID, memberID string, period models.Period) (*models.Contribution, error)

	// ListContributions returns a group's contributions for one period.
	ListContributions(ctx context.Context, groupID string, period models.Period) ([]*models.Contribution, error)

	// InsertSettlement persists a settlement. Returns ErrSettlementExists
	// if the period is already settled, ErrWinnerTaken if the winner has
	// won before in this group.
	InsertSettlement(ctx context.Context, s *models.Settlement) error

	// FindSettlement looks up the settlement for a (group, period) key.
	// Returns ErrNotFound if absent.
	FindSettlement(ctx context.Context, groupID string, period models.Period) (*models.Settlement, error)

	// FindSettlementByWinner looks up the settlement a member won in a
	// group, across all periods. Returns ErrNotFound if they never won.
	FindSettlementByWinner(ctx context.Context, groupID, winnerID string) (*models.Settlement, error)

	// LatestSettlement returns the most recently recorded settlement of
	// a group, by timestamp. Returns ErrNotFound if the group has none.
	LatestSettlement(ctx context.Context, groupID string) (*models.Settlement, error)

	// ListSettlements returns all settlements of a group, newest first.
	ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// InsertNotificationLog appends one delivery-attempt audit record.
	InsertNotificationLog(ctx context.Context, log *models.NotificationLog) error

	// ListNotificationLogs returns the most recent delivery-attempt
	// records, newest first, up to limit.
	ListNotificationLogs(ctx context.Context, limit int) ([]*models.NotificationLog, error)

	// Close releases any resources held by the store.
	Close() error
}
