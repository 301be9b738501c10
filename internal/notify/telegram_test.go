package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Amanshah2829/fund-manager-test/internal/models"
)

// memLogs records inserted notification logs in memory.
type memLogs struct {
	mu      sync.Mutex
	entries []*models.NotificationLog
}

func (m *memLogs) InsertNotificationLog(_ context.Context, log *models.NotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, log)
	return nil
}

func TestTelegramSend(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(sendMessageResponse{OK: true})
	}))
	defer api.Close()

	tg := NewTelegramWithBase("bot-token", api.URL)
	err := tg.Send(context.Background(), Message{Recipient: "12345", Text: "hello"})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if gotPath != "/botbot-token/sendMessage" {
		t.Errorf("path: got %s", gotPath)
	}
	if gotBody.ChatID != "12345" || gotBody.Text != "hello" {
		t.Errorf("unexpected request body: %+v", gotBody)
	}
}

func TestTelegramSendAPIError(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(sendMessageResponse{OK: false, Description: "chat not found"})
	}))
	defer api.Close()

	tg := NewTelegramWithBase("bot-token", api.URL)
	err := tg.Send(context.Background(), Message{Recipient: "nope", Text: "hello"})
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("got %v, want chat-not-found error", err)
	}
}

func TestLoggedRecordsEveryAttempt(t *testing.T) {
	logs := &memLogs{}

	t.Run("success", func(t *testing.T) {
		n := NewLogged(Noop{}, logs)
		if err := n.Send(context.Background(), Message{Recipient: "1", Text: "ok", GroupID: "g1"}); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	})

	t.Run("failure still returns the delivery error", func(t *testing.T) {
		failing := NewTelegramWithBase("", "http://127.0.0.1:0") // empty token fails before any request
		n := NewLogged(failing, logs)
		if err := n.Send(context.Background(), Message{Recipient: "2", Text: "nope"}); err == nil {
			t.Fatal("expected delivery error")
		}
	})

	logs.mu.Lock()
	defer logs.mu.Unlock()
	if len(logs.entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(logs.entries))
	}
	if logs.entries[0].Status != models.NotificationSuccess || logs.entries[0].GroupID != "g1" {
		t.Errorf("unexpected first entry: %+v", logs.entries[0])
	}
	if logs.entries[1].Status != models.NotificationFailed || logs.entries[1].Error == "" {
		t.Errorf("unexpected second entry: %+v", logs.entries[1])
	}
}
