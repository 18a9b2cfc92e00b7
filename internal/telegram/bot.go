package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultAPIURL = "https://api.telegram.org"
	pollTimeout   = 30 // seconds
)

// New creates a bot for token against the public API.
func New(token string, log *zap.Logger) *Bot {
	return NewWithURL(token, DefaultAPIURL, log)
}

// NewWithURL creates a bot against a custom API root.
func NewWithURL(token, apiURL string, log *zap.Logger) *Bot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bot{
		token:   token,
		baseURL: fmt.Sprintf("%s/bot%s", strings.TrimRight(apiURL, "/"), token),
		client: &http.Client{
			Timeout: (pollTimeout + 10) * time.Second,
		},
		log: log,
	}
}

// GetUpdates long-polls for updates after offset.
func (b *Bot) GetUpdates(ctx context.Context, offset int) ([]Update, error) {
	url := fmt.Sprintf("%s/getUpdates?offset=%d&timeout=%d", b.baseURL, offset, pollTimeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create getUpdates request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("getUpdates request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response GetUpdatesResponse
	err = json.Unmarshal(body, &response)
	if err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	if !response.OK {
		return nil, fmt.Errorf("telegram API error: %s", response.Description)
	}

	return response.Result, nil
}

// SendMessage sends Markdown text to a chat.
func (b *Bot) SendMessage(chatID int64, text string) error {
	request := SendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "Markdown",
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/sendMessage", b.baseURL)
	resp, err := b.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var response SendMessageResponse
	err = json.Unmarshal(body, &response)
	if err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	if !response.OK {
		return fmt.Errorf("telegram API error on sendMessage: %s", response.Description)
	}

	return nil
}

// SendFormattedMessage formats and sends a message.
func (b *Bot) SendFormattedMessage(chatID int64, format string, args ...interface{}) error {
	text := fmt.Sprintf(format, args...)
	return b.SendMessage(chatID, text)
}

// StartPolling dispatches updates to handler until ctx is done.
func (b *Bot) StartPolling(ctx context.Context, handler func(Update)) error {
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := b.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.log.Warn("Failed to get updates", zap.Error(err))
			sleep(ctx, 5*time.Second)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			go handler(update)
		}

		if len(updates) == 0 {
			sleep(ctx, time.Second)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
