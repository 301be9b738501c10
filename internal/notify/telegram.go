package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Telegram delivers messages through the Telegram Bot API.
type Telegram struct {
	token   string
	apiBase string
	client  *http.Client
}

// NewTelegram creates a Telegram notifier for the given bot token.
func NewTelegram(token string) *Telegram {
	return &Telegram{
		token:   token,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// NewTelegramWithBase is NewTelegram with an overridable API base URL,
// for tests.
func NewTelegramWithBase(token, apiBase string) *Telegram {
	t := NewTelegram(token)
	t.apiBase = apiBase
	return t
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send posts one sendMessage call to the Bot API.
func (t *Telegram) Send(ctx context.Context, msg Message) error {
	if t.token == "" {
		return fmt.Errorf("telegram bot token is not configured")
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:    msg.Recipient,
		Text:      msg.Text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to encode telegram request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	var result sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}
	if !result.OK {
		if result.Description == "" {
			result.Description = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}
