/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeexecutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/executor/retry"
	"chainguard.dev/hookagent/agents/metrics"
	"chainguard.dev/hookagent/agents/promptbuilder"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "claude-sonnet-4-5"

// Interface runs a request through Claude and returns the reply text.
type Interface[Request promptbuilder.Bindable] interface {
	Execute(ctx context.Context, request Request) (string, error)
}

type executor[Request promptbuilder.Bindable] struct {
	client       anthropic.Client
	modelName    string
	system       string
	prompt       *promptbuilder.Prompt
	maxTokens    int64
	temperature  float64
	genaiMetrics *metrics.GenAI
	retryConfig  retry.RetryConfig
}

// New returns an executor for prompt.
func New[Request promptbuilder.Bindable](client anthropic.Client, prompt *promptbuilder.Prompt, opts ...Option[Request]) (Interface[Request], error) {
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}
	e := &executor[Request]{
		client:       client,
		modelName:    DefaultModel,
		prompt:       prompt,
		maxTokens:    1024,
		temperature:  0.2,
		genaiMetrics: metrics.NewGenAI(metrics.MeterName),
		retryConfig:  retry.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

// Execute binds request, sends one message and returns the text reply.
func (e *executor[Request]) Execute(ctx context.Context, request Request) (text string, err error) {
	bound, err := request.Bind(e.prompt)
	if err != nil {
		return "", fmt.Errorf("failed to bind request to prompt: %w", err)
	}
	prompt, err := bound.Build()
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	trace := agenttrace.StartTrace(ctx, e.modelName, prompt)
	defer func() { trace.Complete(text, err) }()

	log := clog.FromContext(ctx).With("model", e.modelName)
	log.With("prompt_length", len(prompt)).Debug("Sending Claude completion")

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(e.modelName),
		MaxTokens:   e.maxTokens,
		Temperature: anthropic.Float(e.temperature),
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
	}
	if e.system != "" {
		params.System = []anthropic.TextBlockParam{{Text: e.system}}
	}

	msg, err := retry.RetryWithBackoff(ctx, e.retryConfig, "claude_messages", isRetryableClaudeError, func() (*anthropic.Message, error) {
		return e.client.Messages.New(ctx, params)
	})
	if err != nil {
		e.genaiMetrics.RecordCall(ctx, e.modelName, "error")
		return "", fmt.Errorf("claude completion: %w", err)
	}

	e.genaiMetrics.RecordCall(ctx, e.modelName, "ok")
	e.genaiMetrics.RecordTokens(ctx, e.modelName, msg.Usage.InputTokens, msg.Usage.OutputTokens)
	trace.RecordTokenUsage(msg.Usage.InputTokens, msg.Usage.OutputTokens)

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	text = strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return "", fmt.Errorf("claude completion: empty response (stop reason %q)", msg.StopReason)
	}
	log.With("tokens_input", msg.Usage.InputTokens, "tokens_output", msg.Usage.OutputTokens).Info("Claude completion finished")
	return text, nil
}
