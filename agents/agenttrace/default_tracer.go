/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// NewDefaultTracer returns a tracer that logs completed traces to the clog
// logger on ctx.
func NewDefaultTracer(ctx context.Context) Tracer {
	logger := clog.FromContext(ctx)
	return ByCode(func(trace *Trace) {
		log := logger.With(
			"trace_id", trace.ID,
			"model", trace.Model,
			"duration_ms", trace.Duration().Milliseconds(),
			"tokens_input", trace.InputTokens,
			"tokens_output", trace.OutputTokens,
		)
		if trace.Error != nil {
			log.Warn("Model call failed", "error", trace.Error)
			return
		}
		log.Debug("Model call completed", "trace", trace.String())
	})
}
