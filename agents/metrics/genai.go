/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records OpenTelemetry measurements for model calls.
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is shared by every executor; the model is an attribute.
const MeterName = "chainguard.dev/hookagent"

// GenAI holds the token and call counters. A counter that fails to register
// is replaced with a no-op so metrics never block a completion.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	calls            metric.Int64Counter
	attrEnricher     AttributeEnricher
}

// NewGenAI registers the counters on the global meter provider.
func NewGenAI(meterName string) *GenAI {
	return NewGenAIWithProvider(otel.GetMeterProvider(), meterName)
}

// NewGenAIWithProvider registers the counters on mp.
func NewGenAIWithProvider(mp metric.MeterProvider, meterName string) *GenAI {
	meter := mp.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			slog.Warn("Failed to create counter, metric disabled", "error", err, "counter", name)
			return noop.Int64Counter{}
		}
		return c
	}

	return &GenAI{
		promptTokens:     counter("genai.token.prompt", "The number of prompt tokens used", "{tokens}"),
		completionTokens: counter("genai.token.completion", "The number of completion tokens used", "{tokens}"),
		calls:            counter("genai.calls", "The number of model calls by outcome", "{calls}"),
		attrEnricher:     ExecutionContextEnricher,
	}
}

// SetAttributeEnricher replaces the enricher applied before each measurement.
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.attrEnricher = enricher
}

func (m *GenAI) attrs(ctx context.Context, base []attribute.KeyValue, extra []attribute.KeyValue) metric.MeasurementOption {
	if m.attrEnricher != nil {
		base = m.attrEnricher(ctx, base)
	}
	return metric.WithAttributes(append(base, extra...)...)
}

// RecordTokens adds prompt and completion token counts for model.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	opt := m.attrs(ctx, []attribute.KeyValue{attribute.String("model", model)}, attrs)
	m.promptTokens.Add(ctx, promptTokens, opt)
	m.completionTokens.Add(ctx, completionTokens, opt)
}

// RecordCall counts one model call. status is "ok" or "error".
func (m *GenAI) RecordCall(ctx context.Context, model, status string, attrs ...attribute.KeyValue) {
	m.calls.Add(ctx, 1, m.attrs(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("status", status),
	}, attrs))
}
