/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolcall defines the named, independently invocable operations the
// agent exposes: activity logging, document reads, web search, file commits
// and chat notifications.
//
// Each capability package (tools/activitylog, tools/docreader, ...) provides a
// Tool that validates its own configuration before doing anything. A Registry
// collects them so that both the CLI and the dispatch pipeline can look them
// up by name:
//
//	reg := toolcall.NewRegistry(
//		activitylog.Tool(logger),
//		websearch.Tool(searcher),
//	)
//	out := reg.Invoke(ctx, "web_search", map[string]any{"query": "otel go"})
//
// Handlers report failure in-band with an "error" key, the same shape a model
// would see as a tool result. Configuration problems wrap ErrNotConfigured.
package toolcall
