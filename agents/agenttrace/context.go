/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// ExecutionContext identifies the webhook delivery a model call serves.
type ExecutionContext struct {
	DeliveryID string `json:"delivery_id,omitempty"`
	EventType  string `json:"event_type,omitempty"`
	Action     string `json:"action,omitempty"`
}

// EnrichAttributes appends the bounded fields of e to baseAttrs.
//
// DeliveryID is unique per request and stays out of metric labels; it is
// only set on spans.
func (e ExecutionContext) EnrichAttributes(baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(baseAttrs), len(baseAttrs)+2)
	copy(attrs, baseAttrs)
	if e.EventType != "" {
		attrs = append(attrs, attribute.String("event_type", e.EventType))
	}
	if e.Action != "" {
		attrs = append(attrs, attribute.String("action", e.Action))
	}
	return attrs
}

type executionContextKey struct{}

// WithExecutionContext attaches execCtx to ctx.
func WithExecutionContext(ctx context.Context, execCtx ExecutionContext) context.Context {
	return context.WithValue(ctx, executionContextKey{}, execCtx)
}

// GetExecutionContext returns the ExecutionContext on ctx, or the zero value.
func GetExecutionContext(ctx context.Context) ExecutionContext {
	execCtx, _ := ctx.Value(executionContextKey{}).(ExecutionContext)
	return execCtx
}
