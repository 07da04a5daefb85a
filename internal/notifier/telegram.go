package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"IndexCompare/internal/logging"
)

const (
	DefaultAPIBase = "https://api.telegram.org"

	// Telegram rejects photo captions longer than this.
	maxCaptionLen = 1024
)

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken  string
	ChatID    string
	APIBase   string
	Client    *http.Client
	Logger    *logging.Logger
	RetryBase time.Duration // first backoff of the retrying senders, doubled per attempt
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string, logger *logging.Logger) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		ChatID:   chatID,
		APIBase:  DefaultAPIBase,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Logger:    logger,
		RetryBase: time.Second,
	}
}

func (t *TelegramNotifier) method(name string) string {
	base := t.APIBase
	if base == "" {
		base = DefaultAPIBase
	}
	return fmt.Sprintf("%s/bot%s/%s", strings.TrimSuffix(base, "/"), t.BotToken, name)
}

func (t *TelegramNotifier) logger() *logging.Logger {
	if t.Logger == nil {
		return logging.NewSilent()
	}
	return t.Logger
}

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(text string) error {
	payload := map[string]string{
		"chat_id":    t.ChatID,
		"text":       text,
		"parse_mode": "HTML",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := t.Client.Post(t.method("sendMessage"), "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	return checkResponse(resp)
}

// SendPhoto uploads a PNG to the configured chat with an optional HTML caption.
func (t *TelegramNotifier) SendPhoto(png []byte, caption string) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("chat_id", t.ChatID)
	if caption != "" {
		_ = w.WriteField("caption", caption)
		_ = w.WriteField("parse_mode", "HTML")
	}
	part, err := w.CreateFormFile("photo", "comparison.png")
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(png); err != nil {
		return fmt.Errorf("write photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	resp, err := t.Client.Post(t.method("sendPhoto"), w.FormDataContentType(), &body)
	if err != nil {
		return fmt.Errorf("send photo: %w", err)
	}
	defer resp.Body.Close()
	return checkResponse(resp)
}

// SendReport sends a chart with its summary. Summaries too long for a caption follow as a message.
func (t *TelegramNotifier) SendReport(ctx context.Context, png []byte, text string, maxRetries int) error {
	if len(png) == 0 {
		return t.SendWithRetry(ctx, text, maxRetries)
	}
	if len(text) <= maxCaptionLen {
		return t.SendPhotoWithRetry(ctx, png, text, maxRetries)
	}
	if err := t.SendPhotoWithRetry(ctx, png, "", maxRetries); err != nil {
		return err
	}
	return t.SendWithRetry(ctx, text, maxRetries)
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	return t.retry(ctx, "send", maxRetries, func() error { return t.Send(text) })
}

// SendPhotoWithRetry sends a photo with exponential backoff retry.
func (t *TelegramNotifier) SendPhotoWithRetry(ctx context.Context, png []byte, caption string, maxRetries int) error {
	return t.retry(ctx, "send photo", maxRetries, func() error { return t.SendPhoto(png, caption) })
}

func (t *TelegramNotifier) retry(ctx context.Context, op string, maxRetries int, fn func() error) error {
	base := t.RetryBase
	if base <= 0 {
		base = time.Second
	}
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if i == maxRetries {
			break
		}
		backoff := base * time.Duration(1<<uint(i))
		t.logger().Warn().Err(err).
			Int("attempt", i+1).
			Int("max_attempts", maxRetries+1).
			Dur("backoff", backoff).
			Msgf("Telegram %s failed, retrying", op)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
