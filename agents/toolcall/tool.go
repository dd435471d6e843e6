/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/hookagent/agents/toolcall/params"
)

// ToolCall is one invocation of a named tool.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// Definition describes a tool's schema (name, description, parameters).
type Definition struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// Parameter describes a single tool parameter.
type Parameter struct {
	Name        string
	Type        string // "string", "integer", "boolean", "number"
	Description string
	Required    bool
}

// Tool pairs a definition with its handler.
type Tool struct {
	Def     Definition
	Handler func(ctx context.Context, call ToolCall) map[string]any
}

// Param extracts a required parameter from the call args. On failure it
// logs the bad call and returns an error response for the handler to return.
func Param[T any](ctx context.Context, call ToolCall, name string) (T, map[string]any) {
	v, err := params.Extract[T](call.Args, name)
	if err != nil {
		clog.FromContext(ctx).With("tool", call.Name, "call_id", call.ID).Warnf("Bad tool call: %v", err)
		return v, params.Error("%s", err)
	}
	return v, nil
}

// OptionalParam extracts an optional parameter from the call args.
func OptionalParam[T any](call ToolCall, name string, defaultValue T) (T, map[string]any) {
	v, err := params.ExtractOptional[T](call.Args, name, defaultValue)
	if err != nil {
		return v, params.Error("%s", err)
	}
	return v, nil
}
