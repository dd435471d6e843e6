/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"chainguard.dev/hookagent/agents/agenttrace"
)

// AttributeEnricher adds contextual attributes to the base attributes of a
// measurement.
type AttributeEnricher func(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue

// ExecutionContextEnricher labels measurements with the event type and
// action of the delivery on ctx.
func ExecutionContextEnricher(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	return agenttrace.GetExecutionContext(ctx).EnrichAttributes(baseAttrs)
}
