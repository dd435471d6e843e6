/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Tracer creates traces and receives them once complete.
type Tracer interface {
	NewTrace(ctx context.Context, model, prompt string) *Trace
	RecordTrace(trace *Trace)
}

type tracerKey struct{}

// WithTracer returns a context carrying tracer.
func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// TracerFromContext returns the tracer on ctx, or the default clog tracer.
func TracerFromContext(ctx context.Context) Tracer {
	if tracer, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return tracer
	}
	return NewDefaultTracer(ctx)
}

// StartTrace opens a trace with the tracer from ctx.
func StartTrace(ctx context.Context, model, prompt string) *Trace {
	return TracerFromContext(ctx).NewTrace(ctx, model, prompt)
}

// TraceCallback receives completed traces.
type TraceCallback func(*Trace)

type byCodeTracer struct {
	callbacks []TraceCallback
}

// ByCode returns a Tracer that hands each completed trace to every callback.
func ByCode(callbacks ...TraceCallback) Tracer {
	return &byCodeTracer{callbacks: callbacks}
}

func (t *byCodeTracer) NewTrace(ctx context.Context, model, prompt string) *Trace {
	return newTrace(ctx, t, model, prompt)
}

// RecordTrace runs the callbacks in parallel and waits for all of them.
func (t *byCodeTracer) RecordTrace(trace *Trace) {
	var g errgroup.Group
	for _, cb := range t.callbacks {
		if cb == nil {
			continue
		}
		g.Go(func() error {
			cb(trace)
			return nil
		})
	}
	_ = g.Wait()
}
