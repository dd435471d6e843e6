/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleexecutor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/executor/retry"
	"chainguard.dev/hookagent/agents/metrics"
	"chainguard.dev/hookagent/agents/promptbuilder"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "gemini-2.5-flash"

// Interface runs a request through Gemini and returns the reply text.
type Interface[Request promptbuilder.Bindable] interface {
	Execute(ctx context.Context, request Request) (string, error)
}

type executor[Request promptbuilder.Bindable] struct {
	client          *genai.Client
	model           string
	system          string
	prompt          *promptbuilder.Prompt
	temperature     float32
	maxOutputTokens int32
	genaiMetrics    *metrics.GenAI
	retryConfig     retry.RetryConfig
}

// New returns an executor for prompt.
func New[Request promptbuilder.Bindable](client *genai.Client, prompt *promptbuilder.Prompt, opts ...Option[Request]) (Interface[Request], error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if prompt == nil {
		return nil, errors.New("prompt cannot be nil")
	}
	e := &executor[Request]{
		client:          client,
		model:           DefaultModel,
		prompt:          prompt,
		temperature:     0.2,
		maxOutputTokens: 1024,
		genaiMetrics:    metrics.NewGenAI(metrics.MeterName),
		retryConfig:     retry.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

// Execute binds request, sends one user turn and returns the text reply.
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

	log := clog.FromContext(ctx).With("model", e.model)

	temp := e.temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: e.maxOutputTokens,
	}
	if e.system != "" {
		config.SystemInstruction = genai.NewContentFromText(e.system, genai.RoleUser)
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := retry.RetryWithBackoff(ctx, e.retryConfig, "gemini_generate", isRetryableGeminiError, func() (*genai.GenerateContentResponse, error) {
		return e.client.Models.GenerateContent(ctx, e.model, contents, config)
	})
	if err != nil {
		e.genaiMetrics.RecordCall(ctx, e.model, "error")
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	e.genaiMetrics.RecordCall(ctx, e.model, "ok")

	if usage := resp.UsageMetadata; usage != nil {
		in, out := int64(usage.PromptTokenCount), int64(usage.CandidatesTokenCount)
		e.genaiMetrics.RecordTokens(ctx, e.model, in, out)
		trace.RecordTokenUsage(in, out)
	}

	text = strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini completion: empty response")
	}
	log.Info("Gemini completion finished")
	return text, nil
}
