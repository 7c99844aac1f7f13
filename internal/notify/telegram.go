// Package notify delivers alert messages. Telegram is the only concrete
// sink; an unconfigured notifier degrades to a logged no-op.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Notifier sends a text alert.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// DefaultTelegramBaseURL is the public Telegram Bot API endpoint.
const DefaultTelegramBaseURL = "https://api.telegram.org"

// TelegramConfig holds alert sink credentials.
type TelegramConfig struct {
	BotToken string
	ChatID   string
	BaseURL  string
	Timeout  time.Duration
}

// TelegramNotifier posts messages through the Telegram Bot API sendMessage
// method. Missing credentials make Notify a warning-logged no-op rather than
// an error.
type TelegramNotifier struct {
	cfg        TelegramConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewTelegramNotifier(cfg TelegramConfig, logger *zap.Logger) *TelegramNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultTelegramBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &TelegramNotifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Notify sends text to the configured chat.
func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if n.cfg.BotToken == "" || n.cfg.ChatID == "" {
		n.logger.Warn("telegram configuration missing; notification dropped")
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id": n.cfg.ChatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.cfg.BaseURL, n.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !result.OK {
		return fmt.Errorf("telegram api status %d", resp.StatusCode)
	}

	n.logger.Info("telegram notification sent")
	return nil
}

// NopNotifier discards every message.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string) error { return nil }
