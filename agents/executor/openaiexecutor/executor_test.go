/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainguard.dev/hookagent/agents/executor/retry"
	"chainguard.dev/hookagent/agents/promptbuilder"
)

type summaryRequest struct {
	Summary string
}

func (r summaryRequest) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	return p.BindYAML("summary", map[string]string{"summary": r.Summary})
}

var testPrompt = promptbuilder.MustNewPrompt("Event:\n{{summary}}")

func reply(content string) string {
	return fmt.Sprintf(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
"choices":[{"index":0,"message":{"role":"assistant","content":%q},"finish_reason":"stop"}],
"usage":{"prompt_tokens":21,"completion_tokens":6,"total_tokens":27}}`, content)
}

func newTestExecutor(t *testing.T, handler http.HandlerFunc, opts ...Option[summaryRequest]) Interface[summaryRequest] {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := openai.NewClient(option.WithAPIKey("sk-test"), option.WithBaseURL(srv.URL+"/v1/"), option.WithMaxRetries(0))
	opts = append([]Option[summaryRequest]{
		WithRetryConfig[summaryRequest](retry.RetryConfig{MaxRetries: 2, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond}),
	}, opts...)
	exec, err := New[summaryRequest](client, testPrompt, opts...)
	require.NoError(t, err)
	return exec
}

func TestExecute(t *testing.T) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	var body struct {
		Model               string    `json:"model"`
		Messages            []message `json:"messages"`
		Temperature         float64   `json:"temperature"`
		MaxCompletionTokens int64     `json:"max_completion_tokens"`
	}
	var auth, path string
	exec := newTestExecutor(t, func(w http.ResponseWriter, r *http.Request) {
		auth, path = r.Header.Get("Authorization"), r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply("  Triage the flaky test.\n")))
	},
		WithModel[summaryRequest]("gpt-4.1"),
		WithTemperature[summaryRequest](0),
		WithMaxTokens[summaryRequest](128),
		WithSystemInstructions[summaryRequest](promptbuilder.MustNewPrompt("You help developers.")),
	)

	got, err := exec.Execute(context.Background(), summaryRequest{Summary: "tests are flaky"})
	require.NoError(t, err)
	assert.Equal(t, "Triage the flaky test.", got)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "gpt-4.1", body.Model)
	assert.Equal(t, int64(128), body.MaxCompletionTokens)
	assert.Equal(t, []message{
		{Role: "system", Content: "You help developers."},
		{Role: "user", Content: "Event:\nsummary: tests are flaky\n"},
	}, body.Messages)
}

func TestExecuteRetry(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantCalls int32
		wantErr   bool
	}{
		{name: "rate limited once", statuses: []int{429}, wantCalls: 2},
		{name: "server errors exhaust retries", statuses: []int{500, 502, 503}, wantCalls: 3, wantErr: true},
		{name: "unauthorized", statuses: []int{401}, wantCalls: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			exec := newTestExecutor(t, func(w http.ResponseWriter, _ *http.Request) {
				n := int(calls.Add(1))
				w.Header().Set("Content-Type", "application/json")
				if n <= len(tt.statuses) {
					w.WriteHeader(tt.statuses[n-1])
					_, _ = w.Write([]byte(`{"error":{"message":"failure","type":"server_error"}}`))
					return
				}
				_, _ = w.Write([]byte(reply("ok")))
			})
			_, err := exec.Execute(context.Background(), summaryRequest{Summary: "x"})
			assert.Equal(t, tt.wantErr, err != nil, "error = %v", err)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestExecuteNoContent(t *testing.T) {
	for name, body := range map[string]string{
		"no choices":    `{"id":"c","object":"chat.completion","created":1,"model":"m","choices":[],"usage":{"prompt_tokens":1,"completion_tokens":0,"total_tokens":1}}`,
		"blank content": reply("   "),
	} {
		t.Run(name, func(t *testing.T) {
			exec := newTestExecutor(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			})
			_, err := exec.Execute(context.Background(), summaryRequest{Summary: "x"})
			assert.Error(t, err)
		})
	}
}

func TestIsRetryableOpenAIError(t *testing.T) {
	for code, want := range map[int]bool{429: true, 500: true, 503: true, 400: false, 401: false, 404: false} {
		if got := isRetryableOpenAIError(&openai.Error{StatusCode: code}); got != want {
			t.Errorf("isRetryableOpenAIError(%d) = %v, want %v", code, got, want)
		}
	}
	if isRetryableOpenAIError(fmt.Errorf("dial tcp: connection refused")) {
		t.Error("plain errors must not be retried")
	}
}

func TestOptionValidation(t *testing.T) {
	client := openai.NewClient(option.WithAPIKey("sk-test"))
	for name, opt := range map[string]Option[summaryRequest]{
		"empty model": WithModel[summaryRequest](""),
		"temperature": WithTemperature[summaryRequest](-1),
		"max tokens":  WithMaxTokens[summaryRequest](0),
		"nil system":  WithSystemInstructions[summaryRequest](nil),
		"retry":       WithRetryConfig[summaryRequest](retry.RetryConfig{BaseBackoff: -time.Second}),
	} {
		_, err := New[summaryRequest](client, testPrompt, opt)
		assert.Error(t, err, name)
	}
	_, err := New[summaryRequest](client, nil)
	assert.Error(t, err)
}
