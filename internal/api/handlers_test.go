package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Amanshah2829/fund-manager-test/internal/auth"
	"github.com/Amanshah2829/fund-manager-test/internal/engine"
	"github.com/Amanshah2829/fund-manager-test/internal/notify"
	"github.com/Amanshah2829/fund-manager-test/internal/storage"
	"github.com/Amanshah2829/fund-manager-test/internal/storage/sqlite"
)

type testEnv struct {
	server *httptest.Server
	store  storage.Store
	token  string
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	eng := engine.New(store, notify.Noop{}, engine.Config{
		CommissionRate: decimal.RequireFromString("0.05"),
	})
	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager("test-secret-key-for-tests", time.Hour)

	admin, err := authenticator.Register(t.Context(), "admin@example.com", "Foreman", "correct horse")
	if err != nil {
		t.Fatalf("failed to register admin: %v", err)
	}
	token, err := jwtManager.Generate(admin)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	server := httptest.NewServer(NewServer(eng, store, authenticator, jwtManager).Router())
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: store, token: token}
}

// do sends an authenticated JSON request and decodes the response into out
// (when out is non-nil), returning the status code.
func (e *testEnv) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

// seedGroup creates a group of three members through the API.
func (e *testEnv) seedGroup(t *testing.T) (groupID string, memberIDs []string) {
	t.Helper()

	var group struct {
		ID string `json:"id"`
	}
	status := e.do(t, http.MethodPost, "/api/groups", map[string]any{
		"name":               "Test Fund",
		"contributionAmount": "5000",
		"memberCount":        3,
	}, &group)
	if status != http.StatusCreated {
		t.Fatalf("create group: status %d", status)
	}

	for i := 0; i < 3; i++ {
		var member struct {
			MemberID string `json:"memberId"`
		}
		status := e.do(t, http.MethodPost, "/api/groups/"+group.ID+"/members", map[string]any{
			"name":  fmt.Sprintf("Member %d", i+1),
			"phone": fmt.Sprintf("98765%05d", i),
		}, &member)
		if status != http.StatusCreated {
			t.Fatalf("add member: status %d", status)
		}
		memberIDs = append(memberIDs, member.MemberID)
	}
	return group.ID, memberIDs
}

func TestLogin(t *testing.T) {
	env := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "correct horse"})
	resp, err := http.Post(env.server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: status %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Token == "" || out.Role != "admin" {
		t.Errorf("unexpected login response: %+v", out)
	}

	t.Run("wrong password is 401", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "wrong"})
		resp, err := http.Post(env.server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", resp.StatusCode)
		}
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupTestServer(t)

	resp, err := http.Get(env.server.URL + "/api/groups")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", resp.StatusCode)
	}
}

func TestPaymentFlow(t *testing.T) {
	env := setupTestServer(t)
	groupID, memberIDs := env.seedGroup(t)

	payment := map[string]any{
		"groupId":  groupID,
		"memberId": memberIDs[0],
		"month":    "March",
		"year":     2026,
	}

	var recorded struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if status := env.do(t, http.MethodPost, "/api/payments", payment, &recorded); status != http.StatusCreated {
		t.Fatalf("record payment: status %d", status)
	}
	if !recorded.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("amount: got %s, want 5000", recorded.Amount)
	}

	t.Run("duplicate payment is 409", func(t *testing.T) {
		if status := env.do(t, http.MethodPost, "/api/payments", payment, nil); status != http.StatusConflict {
			t.Errorf("status: got %d, want 409", status)
		}
	})

	t.Run("listing returns the period's payments", func(t *testing.T) {
		var list []struct {
			MemberID string `json:"memberId"`
		}
		path := "/api/payments?groupId=" + groupID + "&month=March&year=2026"
		if status := env.do(t, http.MethodGet, path, nil, &list); status != http.StatusOK {
			t.Fatalf("list payments: status %d", status)
		}
		if len(list) != 1 || list[0].MemberID != memberIDs[0] {
			t.Errorf("unexpected list: %+v", list)
		}
	})

	t.Run("bulk reports partial success", func(t *testing.T) {
		var res struct {
			SuccessfulCount int               `json:"successfulCount"`
			Failures        map[string]string `json:"failures"`
		}
		status := env.do(t, http.MethodPost, "/api/payments/bulk", map[string]any{
			"groupId":   groupID,
			"memberIds": memberIDs,
			"month":     "March",
			"year":      2026,
		}, &res)
		if status != http.StatusCreated {
			t.Fatalf("bulk: status %d", status)
		}
		if res.SuccessfulCount != 2 {
			t.Errorf("successfulCount: got %d, want 2", res.SuccessfulCount)
		}
		if len(res.Failures) != 1 {
			t.Errorf("failures: got %v, want 1 entry", res.Failures)
		}
	})
}

func TestWithdrawalFlow(t *testing.T) {
	env := setupTestServer(t)
	groupID, memberIDs := env.seedGroup(t)

	withdrawal := map[string]any{
		"winnerId":  memberIDs[0],
		"kind":      "auction",
		"bidAmount": "12000",
		"month":     "March",
		"year":      2026,
	}

	var res struct {
		Payout            decimal.Decimal `json:"payout"`
		Commission        decimal.Decimal `json:"commission"`
		DividendPerMember decimal.Decimal `json:"dividendPerMember"`
	}
	if status := env.do(t, http.MethodPost, "/api/groups/"+groupID+"/withdrawals", withdrawal, &res); status != http.StatusCreated {
		t.Fatalf("record withdrawal: status %d", status)
	}
	if !res.DividendPerMember.Equal(decimal.NewFromInt(950)) {
		t.Errorf("dividend: got %s, want 950", res.DividendPerMember)
	}

	t.Run("second withdrawal for period is 409", func(t *testing.T) {
		dup := map[string]any{
			"winnerId": memberIDs[1], "kind": "auction", "bidAmount": "13000",
			"month": "March", "year": 2026,
		}
		if status := env.do(t, http.MethodPost, "/api/groups/"+groupID+"/withdrawals", dup, nil); status != http.StatusConflict {
			t.Errorf("status: got %d, want 409", status)
		}
	})

	t.Run("missing bid for auction is 400", func(t *testing.T) {
		bad := map[string]any{
			"winnerId": memberIDs[1], "kind": "auction",
			"month": "April", "year": 2026,
		}
		if status := env.do(t, http.MethodPost, "/api/groups/"+groupID+"/withdrawals", bad, nil); status != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", status)
		}
	})

	t.Run("oversized bid is 400", func(t *testing.T) {
		bad := map[string]any{
			"winnerId": memberIDs[1], "kind": "auction", "bidAmount": "15001",
			"month": "April", "year": 2026,
		}
		if status := env.do(t, http.MethodPost, "/api/groups/"+groupID+"/withdrawals", bad, nil); status != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", status)
		}
	})

	t.Run("dues reflect the latest dividend", func(t *testing.T) {
		var dues struct {
			AmountDue decimal.Decimal `json:"amountDue"`
		}
		path := "/api/groups/" + groupID + "/dues?member=" + memberIDs[1] + "&month=April&year=2026"
		if status := env.do(t, http.MethodGet, path, nil, &dues); status != http.StatusOK {
			t.Fatalf("dues: status %d", status)
		}
		if !dues.AmountDue.Equal(decimal.NewFromInt(4050)) {
			t.Errorf("amountDue: got %s, want 4050", dues.AmountDue)
		}
	})

	t.Run("listing returns the settlement", func(t *testing.T) {
		var list []struct {
			WinnerID string `json:"winnerId"`
		}
		if status := env.do(t, http.MethodGet, "/api/groups/"+groupID+"/withdrawals", nil, &list); status != http.StatusOK {
			t.Fatalf("list: status %d", status)
		}
		if len(list) != 1 || list[0].WinnerID != memberIDs[0] {
			t.Errorf("unexpected list: %+v", list)
		}
	})
}

func TestNextCycle(t *testing.T) {
	env := setupTestServer(t)
	groupID, _ := env.seedGroup(t)

	for want := 2; want <= 4; want++ {
		var res nextCycleResponse
		if status := env.do(t, http.MethodPost, "/api/groups/"+groupID+"/next-cycle", nil, &res); status != http.StatusOK {
			t.Fatalf("next-cycle: status %d", status)
		}
		if res.CurrentCycle != want {
			t.Errorf("cycle: got %d, want %d", res.CurrentCycle, want)
		}
	}

	if status := env.do(t, http.MethodPost, "/api/groups/"+groupID+"/next-cycle", nil, nil); status != http.StatusBadRequest {
		t.Errorf("closed group advance: got %d, want 400", status)
	}
}
