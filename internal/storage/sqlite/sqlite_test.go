package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Amanshah2829/fund-manager-test/internal/models"
	"github.com/Amanshah2829/fund-manager-test/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "chitfund-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	march := models.Period{Month: "March", Year: 2026}
	april := models.Period{Month: "April", Year: 2026}

	group := &models.Group{
		Name:               "Family Fund",
		ContributionAmount: decimal.NewFromInt(5000),
		MemberCount:        3,
		MemberIDs:          []string{"m1", "m2", "m3"},
	}

	t.Run("CreateGroup generates ID and defaults cycle", func(t *testing.T) {
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CurrentCycle != 1 {
			t.Errorf("Expected cycle 1, got %d", group.CurrentCycle)
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetGroup retrieves members and amount", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if !got.ContributionAmount.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("ContributionAmount mismatch: got %s", got.ContributionAmount)
		}
		if len(got.MemberIDs) != 3 {
			t.Errorf("MemberIDs count mismatch: got %d, want 3", len(got.MemberIDs))
		}
	})

	t.Run("GetGroup unknown ID returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("duplicate contribution maps to ErrContributionExists", func(t *testing.T) {
		c := &models.Contribution{
			GroupID:  group.ID,
			MemberID: "m1",
			Amount:   decimal.NewFromInt(5000),
			Period:   march,
		}
		if err := store.InsertContribution(ctx, c); err != nil {
			t.Fatalf("InsertContribution failed: %v", err)
		}

		dup := &models.Contribution{
			GroupID:  group.ID,
			MemberID: "m1",
			Amount:   decimal.NewFromInt(5000),
			Period:   march,
		}
		if err := store.InsertContribution(ctx, dup); !errors.Is(err, storage.ErrContributionExists) {
			t.Errorf("got %v, want ErrContributionExists", err)
		}

		// Same member, different period is fine.
		next := &models.Contribution{
			GroupID:  group.ID,
			MemberID: "m1",
			Amount:   decimal.NewFromInt(5000),
			Period:   april,
		}
		if err := store.InsertContribution(ctx, next); err != nil {
			t.Errorf("InsertContribution for next period failed: %v", err)
		}
	})

	t.Run("settlement uniqueness per period and per winner", func(t *testing.T) {
		st := &models.Settlement{
			GroupID:           group.ID,
			WinnerID:          "m1",
			Kind:              models.SettlementAuction,
			BidAmount:         decimal.NewFromInt(13000),
			Payout:            decimal.NewFromInt(13000),
			Commission:        decimal.NewFromInt(100),
			DividendPerMember: decimal.RequireFromString("633.33"),
			Period:            march,
			CreatedAt:         1000,
		}
		if err := store.InsertSettlement(ctx, st); err != nil {
			t.Fatalf("InsertSettlement failed: %v", err)
		}

		samePeriod := &models.Settlement{
			GroupID: group.ID, WinnerID: "m2", Kind: models.SettlementFCFS,
			BidAmount: decimal.Zero, Payout: decimal.NewFromInt(14250),
			Commission: decimal.NewFromInt(750), DividendPerMember: decimal.Zero,
			Period: march, CreatedAt: 1001,
		}
		if err := store.InsertSettlement(ctx, samePeriod); !errors.Is(err, storage.ErrSettlementExists) {
			t.Errorf("got %v, want ErrSettlementExists", err)
		}

		sameWinner := &models.Settlement{
			GroupID: group.ID, WinnerID: "m1", Kind: models.SettlementAuction,
			BidAmount: decimal.NewFromInt(14000), Payout: decimal.NewFromInt(14000),
			Commission: decimal.NewFromInt(50), DividendPerMember: decimal.RequireFromString("316.67"),
			Period: april, CreatedAt: 1002,
		}
		if err := store.InsertSettlement(ctx, sameWinner); !errors.Is(err, storage.ErrWinnerTaken) {
			t.Errorf("got %v, want ErrWinnerTaken", err)
		}
	})

	t.Run("LatestSettlement orders by timestamp", func(t *testing.T) {
		later := &models.Settlement{
			GroupID: group.ID, WinnerID: "m2", Kind: models.SettlementFCFS,
			BidAmount: decimal.Zero, Payout: decimal.NewFromInt(14250),
			Commission: decimal.NewFromInt(750), DividendPerMember: decimal.Zero,
			Period: april, CreatedAt: 2000,
		}
		if err := store.InsertSettlement(ctx, later); err != nil {
			t.Fatalf("InsertSettlement failed: %v", err)
		}

		latest, err := store.LatestSettlement(ctx, group.ID)
		if err != nil {
			t.Fatalf("LatestSettlement failed: %v", err)
		}
		if latest.WinnerID != "m2" {
			t.Errorf("latest winner: got %s, want m2", latest.WinnerID)
		}

		byWinner, err := store.FindSettlementByWinner(ctx, group.ID, "m1")
		if err != nil {
			t.Fatalf("FindSettlementByWinner failed: %v", err)
		}
		if byWinner.Period != (models.Period{Month: "March", Year: 2026}) {
			t.Errorf("unexpected period for m1 win: %v", byWinner.Period)
		}
	})

	t.Run("AdvanceGroupCycle runs out after member_count advances", func(t *testing.T) {
		g := &models.Group{
			Name:               "Short Fund",
			ContributionAmount: decimal.NewFromInt(1000),
			MemberCount:        2,
		}
		if err := store.CreateGroup(ctx, g); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		for want := 2; want <= 3; want++ {
			got, err := store.AdvanceGroupCycle(ctx, g.ID)
			if err != nil {
				t.Fatalf("AdvanceGroupCycle failed: %v", err)
			}
			if got != want {
				t.Errorf("cycle: got %d, want %d", got, want)
			}
		}

		if _, err := store.AdvanceGroupCycle(ctx, g.ID); !errors.Is(err, storage.ErrCycleComplete) {
			t.Errorf("got %v, want ErrCycleComplete", err)
		}
		if _, err := store.AdvanceGroupCycle(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("duplicate email maps to ErrEmailExists", func(t *testing.T) {
		admin := &models.User{Name: "Foreman", Email: "admin@example.com", Role: models.RoleAdmin}
		if err := store.CreateUser(ctx, admin); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		dup := &models.User{Name: "Other", Email: "admin@example.com"}
		if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrEmailExists) {
			t.Errorf("got %v, want ErrEmailExists", err)
		}

		// Members without email do not collide with each other.
		for _, name := range []string{"A", "B"} {
			if err := store.CreateUser(ctx, &models.User{Name: name}); err != nil {
				t.Errorf("CreateUser(%s) failed: %v", name, err)
			}
		}
	})

	t.Run("notification log roundtrip", func(t *testing.T) {
		log := &models.NotificationLog{
			GroupID:   group.ID,
			Recipient: "12345",
			Message:   "hello",
			Status:    models.NotificationFailed,
			Error:     "chat not found",
		}
		if err := store.InsertNotificationLog(ctx, log); err != nil {
			t.Fatalf("InsertNotificationLog failed: %v", err)
		}
		logs, err := store.ListNotificationLogs(ctx, 10)
		if err != nil {
			t.Fatalf("ListNotificationLogs failed: %v", err)
		}
		if len(logs) != 1 || logs[0].Error != "chat not found" {
			t.Errorf("unexpected logs: %+v", logs)
		}
	})
}
