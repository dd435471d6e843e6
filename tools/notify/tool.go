/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package notify

import (
	"context"

	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/agents/toolcall/params"
)

// ToolName is the registry name of the notification tool.
const ToolName = "notify"

// Tool exposes n as a named operation.
func Tool(n *Notifier) toolcall.Tool {
	return toolcall.Tool{
		Def: toolcall.Definition{
			Name:        ToolName,
			Description: "Send a message to the configured chat channel.",
			Parameters: []toolcall.Parameter{
				{Name: "message", Type: "string", Description: "Message text", Required: true},
			},
		},
		Handler: func(ctx context.Context, call toolcall.ToolCall) map[string]any {
			if !n.Configured() {
				return params.ErrorWithContext(toolcall.NotConfigured("notifier", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"),
					map[string]any{"status": StatusNotConfigured})
			}
			text, errResp := toolcall.Param[string](ctx, call, "message")
			if errResp != nil {
				return errResp
			}
			status, err := n.Send(ctx, text)
			if err != nil {
				return params.Error("%v", err)
			}
			return map[string]any{"status": status}
		},
	}
}
