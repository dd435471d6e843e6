/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"chainguard.dev/hookagent/agents/toolcall/params"
)

// Registry is an immutable set of tools keyed by name.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry builds a registry. A later tool replaces an earlier one with
// the same name.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Def.Name] = t
	}
	return r
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns every tool definition sorted by name.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Def)
	}
	slices.SortFunc(defs, func(a, b Definition) int {
		return strings.Compare(a.Name, b.Name)
	})
	return defs
}

// Invoke runs the named tool with args. Unknown tools produce an error response.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) map[string]any {
	t, ok := r.tools[name]
	if !ok {
		return params.Error("unknown tool %q", name)
	}
	if args == nil {
		args = map[string]any{}
	}
	return t.Handler(ctx, ToolCall{
		ID:   uuid.NewString(),
		Name: name,
		Args: args,
	})
}
