/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace records what happened during a single model call.

A Trace captures the prompt, the model, token usage and the final text or
error. Each trace is also an OpenTelemetry span, so a webhook delivery can be
followed from the HTTP request down to the completion.

# Usage

The dispatcher tags the context with the delivery being handled:

	ctx = agenttrace.WithExecutionContext(ctx, agenttrace.ExecutionContext{
		DeliveryID: "72d3162e-cc78-11e3-81ab-4c9367dc0958",
		EventType:  "issues",
		Action:     "fix_or_feature",
	})

Executors then open and close a trace around each completion:

	trace := agenttrace.StartTrace(ctx, model, prompt)
	text, err := call(ctx)
	trace.RecordTokenUsage(in, out)
	trace.Complete(text, err)

Completed traces go to the Tracer stored with WithTracer, or to a tracer
that logs them through clog when none is set.
*/
package agenttrace
