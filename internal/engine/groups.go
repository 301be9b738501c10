package engine

import (
	"context"
	"fmt"

	"github.com/Amanshah2829/fund-manager-test/internal/models"
)

// CreateGroup validates and persists a new group. The member count is
// fixed for the life of the group; the member list may be filled in
// later up to that count.
func (e *Engine) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.Name == "" {
		return fmt.Errorf("group name is required")
	}
	if !group.ContributionAmount.IsPositive() {
		return fmt.Errorf("contribution amount must be positive, got %s", group.ContributionAmount)
	}
	if group.MemberCount <= 0 {
		return fmt.Errorf("member count must be positive, got %d", group.MemberCount)
	}
	if len(group.MemberIDs) > group.MemberCount {
		return ErrGroupFull
	}
	if group.CurrentCycle == 0 {
		group.CurrentCycle = 1
	}
	return e.store.CreateGroup(ctx, group)
}

// AddMember enrolls a user into a group, capacity-checked against the
// fixed member count.
func (e *Engine) AddMember(ctx context.Context, groupID, userID string) error {
	group, err := e.store.GetGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("group %s: %w", groupID, err)
	}
	if group.HasMember(userID) {
		return nil
	}
	if len(group.MemberIDs) >= group.MemberCount {
		return ErrGroupFull
	}
	if _, err := e.store.GetUser(ctx, userID); err != nil {
		return fmt.Errorf("user %s: %w", userID, err)
	}
	return e.store.AddGroupMember(ctx, groupID, userID)
}
