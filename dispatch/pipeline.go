/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package dispatch turns verified webhook deliveries into actions.
//
// A Pipeline runs the steps for one envelope in order: summarize, classify,
// log, dispatch to exactly one of the fix executor or the scaffold builder,
// and notify. Logging and notification failures are recorded and ignored.
// The Handler adapts a Pipeline to HTTP and performs signature checks.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/config"
	"chainguard.dev/hookagent/tools/activitylog"
	"chainguard.dev/hookagent/tools/notify"
	"chainguard.dev/hookagent/tools/scaffold"
	"chainguard.dev/hookagent/webhook"
)

// ActivityLogger records one decision.
type ActivityLogger interface {
	Log(ctx context.Context, rec activitylog.Record) error
}

// FixExecutor produces guidance for a fix or feature request.
type FixExecutor interface {
	Respond(ctx context.Context, summary webhook.Summary) (string, error)
}

// ScaffoldBuilder creates a new agent repository.
type ScaffoldBuilder interface {
	Build(ctx context.Context, req scaffold.Request) (scaffold.Result, error)
}

// Notifier announces a finished dispatch.
type Notifier interface {
	Notify(ctx context.Context, m notify.Message) (string, error)
}

// Outcome is everything one run decided and produced.
type Outcome struct {
	Summary webhook.Summary
	Action  webhook.Action
	// Result is the executor reply, the scaffold confirmation, or the
	// configuration message when the chosen collaborator is not set up.
	Result string
	// NotConfigured is set when Result is a configuration message.
	NotConfigured bool
	// Notification is the notifier status, or "failed" when it errored.
	Notification string
}

// Pipeline runs the per-delivery steps. It holds no per-request state and is
// safe for concurrent use.
type Pipeline struct {
	logger   ActivityLogger
	executor FixExecutor
	builder  ScaffoldBuilder
	notifier Notifier
	timeouts config.Timeouts
	now      func() time.Time
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithTimeouts sets the per-step deadlines.
func WithTimeouts(t config.Timeouts) PipelineOption {
	return func(p *Pipeline) { p.timeouts = t }
}

// WithClock replaces time.Now for log timestamps.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline wires the four collaborators.
func NewPipeline(logger ActivityLogger, executor FixExecutor, builder ScaffoldBuilder, notifier Notifier, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		logger:   logger,
		executor: executor,
		builder:  builder,
		notifier: notifier,
		timeouts: config.Timeouts{
			Log:      10 * time.Second,
			Dispatch: 90 * time.Second,
			Notify:   10 * time.Second,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes env. The returned error is a dispatch failure: the executor
// or builder failed for a reason other than missing configuration. The
// Outcome is populated even then, and the notifier has already run.
func (p *Pipeline) Run(ctx context.Context, env webhook.Envelope) (Outcome, error) {
	summary := webhook.Summarize(env)
	action := webhook.Classify(summary)
	out := Outcome{Summary: summary, Action: action}

	log := clog.FromContext(ctx).With("action", string(action))
	ctx = clog.WithLogger(ctx, log)
	execCtx := agenttrace.GetExecutionContext(ctx)
	execCtx.EventType, execCtx.Action = env.EventType, string(action)
	ctx = agenttrace.WithExecutionContext(ctx, execCtx)

	log.With("summary", string(summary)).Info("Classified event")

	p.logActivity(ctx, activitylog.Record{
		Timestamp: p.now(),
		EventType: env.EventType,
		Action:    string(action),
		Summary:   string(summary),
	})

	result, err := p.dispatch(ctx, action, summary)
	switch {
	case err == nil:
		out.Result = result
		dispatches.WithLabelValues(string(action), "ok").Inc()
	case errors.Is(err, toolcall.ErrNotConfigured):
		out.Result, out.NotConfigured = err.Error(), true
		err = nil
		dispatches.WithLabelValues(string(action), "not_configured").Inc()
		log.Warnf("Dispatch skipped: %v", out.Result)
	default:
		dispatches.WithLabelValues(string(action), "error").Inc()
		log.Errorf("Dispatch failed: %v", err)
		err = fmt.Errorf("%s: %w", action, err)
	}

	notified := out.Result
	if err != nil {
		notified = "failed: " + err.Error()
	}
	out.Notification = p.notify(ctx, notify.Message{Action: string(action), Summary: string(summary), Result: notified})
	return out, err
}

func (p *Pipeline) dispatch(ctx context.Context, action webhook.Action, summary webhook.Summary) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeouts.Dispatch)
	defer cancel()
	defer func(start time.Time) {
		dispatchDuration.WithLabelValues(string(action)).Observe(time.Since(start).Seconds())
	}(time.Now())

	if action == webhook.BuildAgent {
		res, err := p.builder.Build(ctx, scaffold.Request{Summary: string(summary)})
		if err != nil {
			return "", err
		}
		return res.String(), nil
	}
	return p.executor.Respond(ctx, summary)
}

func (p *Pipeline) logActivity(ctx context.Context, rec activitylog.Record) {
	ctx, cancel := context.WithTimeout(ctx, p.timeouts.Log)
	defer cancel()
	if err := p.logger.Log(ctx, rec); err != nil {
		sideEffectFailures.WithLabelValues("activity_log").Inc()
		clog.FromContext(ctx).Warnf("Activity log failed, continuing: %v", err)
	}
}

func (p *Pipeline) notify(ctx context.Context, m notify.Message) string {
	ctx, cancel := context.WithTimeout(ctx, p.timeouts.Notify)
	defer cancel()
	status, err := p.notifier.Notify(ctx, m)
	if err != nil {
		sideEffectFailures.WithLabelValues("notify").Inc()
		clog.FromContext(ctx).Warnf("Notification failed, continuing: %v", err)
		return "failed"
	}
	return status
}
