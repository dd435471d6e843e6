/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package activitylog

import (
	"context"
	"time"

	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/agents/toolcall/params"
)

// ToolName is the registry name of the activity log tool.
const ToolName = "log_activity"

// Tool exposes l as a named operation.
func Tool(l *Logger) toolcall.Tool {
	return toolcall.Tool{
		Def: toolcall.Definition{
			Name:        ToolName,
			Description: "Append a (timestamp, event type, action, summary) row to the activity log spreadsheet.",
			Parameters: []toolcall.Parameter{
				{Name: "event_type", Type: "string", Description: "GitHub event type, e.g. push", Required: true},
				{Name: "action", Type: "string", Description: "Dispatch action", Required: true},
				{Name: "summary", Type: "string", Description: "Event summary", Required: true},
			},
		},
		Handler: func(ctx context.Context, call toolcall.ToolCall) map[string]any {
			if !l.Configured() {
				return params.ErrorWithContext(toolcall.NotConfigured("activity log", "SHEETS_SPREADSHEET_ID"), nil)
			}
			eventType, errResp := toolcall.Param[string](ctx, call, "event_type")
			if errResp != nil {
				return errResp
			}
			action, errResp := toolcall.Param[string](ctx, call, "action")
			if errResp != nil {
				return errResp
			}
			summary, errResp := toolcall.Param[string](ctx, call, "summary")
			if errResp != nil {
				return errResp
			}

			rec := Record{Timestamp: time.Now(), EventType: eventType, Action: action, Summary: summary}
			if err := l.Log(ctx, rec); err != nil {
				return params.Error("%v", err)
			}
			return map[string]any{"status": "appended", "range": l.rng}
		},
	}
}
