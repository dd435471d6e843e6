/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package docreader

import (
	"context"

	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/agents/toolcall/params"
)

// ToolName is the registry name of the document reader tool.
const ToolName = "read_document"

// Tool exposes r as a named operation.
func Tool(r *Reader) toolcall.Tool {
	return toolcall.Tool{
		Def: toolcall.Definition{
			Name:        ToolName,
			Description: "Fetch a Google Doc by id and return its plain text.",
			Parameters: []toolcall.Parameter{
				{Name: "document_id", Type: "string", Description: "The id from the document URL", Required: true},
			},
		},
		Handler: func(ctx context.Context, call toolcall.ToolCall) map[string]any {
			id, errResp := toolcall.Param[string](ctx, call, "document_id")
			if errResp != nil {
				return errResp
			}
			doc, err := r.Read(ctx, id)
			if err != nil {
				return params.ErrorWithContext(err, map[string]any{"document_id": id})
			}
			return map[string]any{
				"document_id": doc.ID,
				"title":       doc.Title,
				"text":        doc.Text,
			}
		},
	}
}
