/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentation = "chainguard.dev/hookagent/agents/agenttrace"

// Trace is one prompt sent to one model and what came back.
type Trace struct {
	ID           string           `json:"id"`
	Model        string           `json:"model"`
	Prompt       string           `json:"prompt"`
	ExecContext  ExecutionContext `json:"exec_context,omitempty"`
	Result       string           `json:"result"`
	Error        error            `json:"error,omitempty"`
	InputTokens  int64            `json:"input_tokens"`
	OutputTokens int64            `json:"output_tokens"`
	StartTime    time.Time        `json:"start_time"`
	EndTime      time.Time        `json:"end_time"`

	mu     sync.Mutex
	tracer Tracer
	span   oteltrace.Span
	done   bool
}

func newTrace(ctx context.Context, tracer Tracer, model, prompt string) *Trace {
	execCtx := GetExecutionContext(ctx)

	attrs := []attribute.KeyValue{
		attribute.String("model", model),
		attribute.Int("prompt.length", len(prompt)),
	}
	if execCtx.DeliveryID != "" {
		attrs = append(attrs, attribute.String("delivery_id", execCtx.DeliveryID))
	}
	attrs = execCtx.EnrichAttributes(attrs)

	_, span := otel.Tracer(instrumentation).Start(ctx, "agent.completion", oteltrace.WithAttributes(attrs...))

	return &Trace{
		ID:          uuid.NewString(),
		Model:       model,
		Prompt:      prompt,
		ExecContext: execCtx,
		StartTime:   time.Now(),
		tracer:      tracer,
		span:        span,
	}
}

// RecordTokenUsage stores token counts on the trace and its span.
func (t *Trace) RecordTokenUsage(inputTokens, outputTokens int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.InputTokens += inputTokens
	t.OutputTokens += outputTokens
	t.span.SetAttributes(
		attribute.Int64("tokens.input", t.InputTokens),
		attribute.Int64("tokens.output", t.OutputTokens),
	)
}

// Complete closes the trace and hands it to its tracer. Later calls are
// ignored.
func (t *Trace) Complete(result string, err error) {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return
	}
	t.done = true
	t.Result = result
	t.Error = err
	t.EndTime = time.Now()
	t.mu.Unlock()

	if err != nil {
		t.span.RecordError(err)
		t.span.SetStatus(codes.Error, err.Error())
	} else {
		t.span.SetStatus(codes.Ok, "")
	}
	t.span.End()

	t.tracer.RecordTrace(t)
}

// Duration is the elapsed time, up to now if the trace is still open.
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.EndTime.IsZero() {
		return time.Since(t.StartTime)
	}
	return t.EndTime.Sub(t.StartTime)
}

// String renders the trace for logs, clipping long text.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Trace %s (%s) ===\n", t.ID, t.Model)
	fmt.Fprintf(&sb, "Prompt: %q\n", clip(t.Prompt, 500))
	fmt.Fprintf(&sb, "Tokens: %d in, %d out\n", t.InputTokens, t.OutputTokens)
	if t.Error != nil {
		fmt.Fprintf(&sb, "Error: %v\n", t.Error)
	} else {
		fmt.Fprintf(&sb, "Result: %s\n", clip(t.Result, 500))
	}
	return sb.String()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
