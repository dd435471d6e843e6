/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/executor/retry"
	"chainguard.dev/hookagent/agents/metrics"
	"chainguard.dev/hookagent/agents/promptbuilder"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "gpt-4o-mini"

// Interface runs a request through a chat completion and returns the reply.
type Interface[Request promptbuilder.Bindable] interface {
	Execute(ctx context.Context, request Request) (string, error)
}

type executor[Request promptbuilder.Bindable] struct {
	client       openai.Client
	model        string
	system       string
	prompt       *promptbuilder.Prompt
	temperature  float64
	maxTokens    int64
	genaiMetrics *metrics.GenAI
	retryConfig  retry.RetryConfig
}

// New returns an executor for prompt.
func New[Request promptbuilder.Bindable](client openai.Client, prompt *promptbuilder.Prompt, opts ...Option[Request]) (Interface[Request], error) {
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}
	e := &executor[Request]{
		client:       client,
		model:        DefaultModel,
		prompt:       prompt,
		temperature:  0.2,
		maxTokens:    1024,
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

// Execute binds request, sends the system and user messages and returns the
// first choice.
func (e *executor[Request]) Execute(ctx context.Context, request Request) (text string, err error) {
	bound, err := request.Bind(e.prompt)
	if err != nil {
		return "", fmt.Errorf("failed to bind request to prompt: %w", err)
	}
	prompt, err := bound.Build()
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	trace := agenttrace.StartTrace(ctx, e.model, prompt)
	defer func() { trace.Complete(text, err) }()

	var messages []openai.ChatCompletionMessageParamUnion
	if e.system != "" {
		messages = append(messages, openai.SystemMessage(e.system))
	}
	messages = append(messages, openai.UserMessage(prompt))
	params := openai.ChatCompletionNewParams{
		Model:               e.model,
		Messages:            messages,
		Temperature:         openai.Float(e.temperature),
		MaxCompletionTokens: openai.Int(e.maxTokens),
	}

	resp, err := retry.RetryWithBackoff(ctx, e.retryConfig, "openai_chat", isRetryableOpenAIError, func() (*openai.ChatCompletion, error) {
		return e.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		e.genaiMetrics.RecordCall(ctx, e.model, "error")
		return "", fmt.Errorf("openai completion: %w", err)
	}
	e.genaiMetrics.RecordCall(ctx, e.model, "ok")
	e.genaiMetrics.RecordTokens(ctx, e.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	trace.RecordTokenUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", errors.New("openai completion: no choices returned")
	}
	text = strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai completion: empty response (finish reason %q)", resp.Choices[0].FinishReason)
	}
	clog.FromContext(ctx).With("model", e.model, "tokens_input", resp.Usage.PromptTokens, "tokens_output", resp.Usage.CompletionTokens).
		Info("OpenAI completion finished")
	return text, nil
}
