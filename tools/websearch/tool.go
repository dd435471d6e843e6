/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package websearch

import (
	"context"

	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/agents/toolcall/params"
)

// ToolName is the registry name of the search tool.
const ToolName = "web_search"

// Tool exposes s as a named operation.
func Tool(s *Searcher) toolcall.Tool {
	return toolcall.Tool{
		Def: toolcall.Definition{
			Name:        ToolName,
			Description: "Search the web and return ranked results with url and snippet.",
			Parameters: []toolcall.Parameter{
				{Name: "query", Type: "string", Description: "Search query", Required: true},
				{Name: "max_results", Type: "integer", Description: "Maximum results (1-20, default 5)"},
			},
		},
		Handler: func(ctx context.Context, call toolcall.ToolCall) map[string]any {
			query, errResp := toolcall.Param[string](ctx, call, "query")
			if errResp != nil {
				return errResp
			}
			limit, errResp := toolcall.OptionalParam(call, "max_results", defaultMaxResults)
			if errResp != nil {
				return errResp
			}
			results, err := s.Search(ctx, query, limit)
			if err != nil {
				return params.ErrorWithContext(err, map[string]any{"query": query})
			}
			hits := make([]map[string]any, 0, len(results))
			for _, r := range results {
				hits = append(hits, map[string]any{
					"title":   r.Title,
					"url":     r.URL,
					"snippet": r.Snippet,
					"score":   r.Score,
				})
			}
			return map[string]any{"query": query, "results": hits}
		},
	}
}
