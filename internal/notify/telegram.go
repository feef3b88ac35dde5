package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramSink posts messages to the Telegram Bot API, Markdown-flavored,
// to one or more chat IDs. Each chat is an independent delivery attempt.
type TelegramSink struct {
	token   string
	chatIDs []string
	baseURL string
	client  *http.Client
}

func NewTelegramSink(token string, chatIDs []string) *TelegramSink {
	return &TelegramSink{
		token:   token,
		chatIDs: chatIDs,
		baseURL: telegramAPIBase,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *TelegramSink) Name() string {
	return "telegram"
}

func (s *TelegramSink) Send(ctx context.Context, text string) error {
	var errs []error
	for _, chatID := range s.chatIDs {
		if err := s.sendToChat(ctx, chatID, text); err != nil {
			errs = append(errs, fmt.Errorf("chat %s: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *TelegramSink) sendToChat(ctx context.Context, chatID, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}
