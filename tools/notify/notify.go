/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package notify posts status messages to a Telegram chat.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/chainguard-dev/clog"
	"github.com/hashicorp/go-retryablehttp"

	"chainguard.dev/hookagent/config"
)

// Statuses returned by Notify.
const (
	StatusSent          = "sent"
	StatusNotConfigured = "not configured"
)

// maxMessageLen is Telegram's limit on message text, in characters.
const maxMessageLen = 4096

// Message is the final status of one webhook.
type Message struct {
	Action  string
	Summary string
	Result  string
}

// String renders m for a human reader, truncated to fit one chat message.
func (m Message) String() string {
	text := fmt.Sprintf("hookagent: %s\nSummary: %s\nResult: %s", m.Action, m.Summary, m.Result)
	return truncate(text, maxMessageLen)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	const ellipsis = "…"
	runes := []rune(s)
	return string(runes[:n-1]) + ellipsis
}

// Notifier sends messages through the Telegram Bot API.
type Notifier struct {
	token  string
	chatID string
	apiURL string
	client *retryablehttp.Client
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithRetryWait overrides the wait bounds between rate-limited attempts.
func WithRetryWait(waitMin, waitMax time.Duration) Option {
	return func(n *Notifier) {
		n.client.RetryWaitMin = waitMin
		n.client.RetryWaitMax = waitMax
	}
}

// New returns a Notifier for cfg.
func New(cfg config.Telegram, opts ...Option) *Notifier {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	// Only a 429 guarantees the message was not delivered; anything else
	// could duplicate it.
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return err == nil && resp.StatusCode == http.StatusTooManyRequests, nil
	}

	n := &Notifier{
		token:  cfg.BotToken,
		chatID: cfg.ChatID,
		apiURL: strings.TrimSuffix(cfg.APIURL, "/"),
		client: client,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Configured reports whether both the bot token and chat id are present.
func (n *Notifier) Configured() bool {
	return n.token != "" && n.chatID != ""
}

// Notify sends m. It returns StatusNotConfigured and a nil error when
// credentials are absent.
func (n *Notifier) Notify(ctx context.Context, m Message) (string, error) {
	return n.Send(ctx, m.String())
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// redact renders err without the bot token. Request URLs embed the token, and
// both url.Parse and transport errors quote the URL.
func (n *Notifier) redact(err error) string {
	return strings.ReplaceAll(err.Error(), n.token, "<redacted>")
}

// Send posts text verbatim (after truncation).
func (n *Notifier) Send(ctx context.Context, text string) (string, error) {
	if !n.Configured() {
		clog.FromContext(ctx).Debug("Notifier not configured, skipping")
		return StatusNotConfigured, nil
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID:                n.chatID,
		Text:                  truncate(text, maxMessageLen),
		DisableWebPagePreview: true,
	})
	if err != nil {
		return "", fmt.Errorf("encoding message: %w", err)
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.token)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating sendMessage request: %s", n.redact(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sendMessage: %s", n.redact(err))
	}
	defer resp.Body.Close()

	var out sendMessageResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &out); err != nil || !out.OK {
		desc := out.Description
		if desc == "" {
			desc = strings.TrimSpace(string(raw))
		}
		return "", fmt.Errorf("sendMessage returned %d: %s", resp.StatusCode, desc)
	}
	return StatusSent, nil
}
