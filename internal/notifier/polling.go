package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Reply is the response to a command. A non-empty Photo is sent with Text as its caption.
type Reply struct {
	Text  string
	Photo []byte
}

// CommandHandler is called when a user command is received.
type CommandHandler func(ctx context.Context, command string) Reply

// telegramUpdate represents a Telegram update from long polling.
type telegramUpdate struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
// Messages from chats other than the configured one are ignored.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	t.poll(ctx, handler, 30)
}

func (t *TelegramNotifier) poll(ctx context.Context, handler CommandHandler, timeoutSec int) {
	log := t.logger()
	offset := 0
	client := &http.Client{Timeout: time.Duration(timeoutSec+5) * time.Second}
	if t.Client != nil && t.Client.Transport != nil {
		client.Transport = t.Client.Transport
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Telegram polling stopped")
			return
		default:
		}

		apiURL := fmt.Sprintf("%s?offset=%d&timeout=%d", t.method("getUpdates"), offset, timeoutSec)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			log.Error().Err(err).Msg("create polling request")
			sleep(ctx, 5*time.Second)
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("Telegram polling stopped")
				return
			}
			log.Warn().Err(err).Msg("polling request failed")
			sleep(ctx, 5*time.Second)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Warn().Err(err).Msg("read polling response")
			continue
		}

		var result struct {
			OK     bool             `json:"ok"`
			Result []telegramUpdate `json:"result"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			log.Warn().Err(err).Msg("decode polling response")
			sleep(ctx, 5*time.Second)
			continue
		}

		for _, update := range result.Result {
			offset = update.UpdateID + 1
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			if strconv.FormatInt(update.Message.Chat.ID, 10) != t.ChatID {
				log.Warn().Int64("chat_id", update.Message.Chat.ID).Msg("ignoring message from unknown chat")
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			log.Info().Str("command", text).Msg("received command")

			reply := handler(ctx, text)
			if ctx.Err() != nil {
				log.Info().Msg("Telegram polling stopped")
				return
			}
			if reply.Text == "" && len(reply.Photo) == 0 {
				continue
			}
			if err := t.SendReport(ctx, reply.Photo, reply.Text, 2); err != nil {
				log.Error().Err(err).Msg("send reply")
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
