/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scaffold

import (
	"context"
	"fmt"

	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/agents/toolcall/params"
)

// ToolName is the registry name of the commit tool.
const ToolName = "commit_file"

// Committer returns the Builder's committer, for use outside scaffolding.
func (b *Builder) Committer() *Committer {
	return &Committer{client: b.client}
}

// Tool exposes c as a named operation. defaultOwner is used when the call
// omits owner.
func Tool(c *Committer, defaultOwner string) toolcall.Tool {
	return toolcall.Tool{
		Def: toolcall.Definition{
			Name:        ToolName,
			Description: "Commit a single file to an existing repository branch.",
			Parameters: []toolcall.Parameter{
				{Name: "repo", Type: "string", Description: "Repository name", Required: true},
				{Name: "path", Type: "string", Description: "File path within the repository", Required: true},
				{Name: "content", Type: "string", Description: "Full file content", Required: true},
				{Name: "owner", Type: "string", Description: "Repository owner (defaults to GITHUB_OWNER)"},
				{Name: "message", Type: "string", Description: "Commit message"},
				{Name: "branch", Type: "string", Description: "Target branch (defaults to the repository default branch)"},
			},
		},
		Handler: func(ctx context.Context, call toolcall.ToolCall) map[string]any {
			if c == nil || c.client == nil {
				return params.ErrorWithContext(toolcall.NotConfigured("committer", "GITHUB_TOKEN"), nil)
			}
			repo, errResp := toolcall.Param[string](ctx, call, "repo")
			if errResp != nil {
				return errResp
			}
			path, errResp := toolcall.Param[string](ctx, call, "path")
			if errResp != nil {
				return errResp
			}
			content, errResp := toolcall.Param[string](ctx, call, "content")
			if errResp != nil {
				return errResp
			}
			owner, errResp := toolcall.OptionalParam(call, "owner", defaultOwner)
			if errResp != nil {
				return errResp
			}
			message, errResp := toolcall.OptionalParam(call, "message", fmt.Sprintf("Update %s", path))
			if errResp != nil {
				return errResp
			}
			branch, errResp := toolcall.OptionalParam(call, "branch", "")
			if errResp != nil {
				return errResp
			}
			if owner == "" || repo == "" {
				return params.Error("%v", errNoRepo)
			}

			handle := RepositoryHandle{Owner: owner, Name: repo, DefaultBranch: branch}
			if handle.DefaultBranch == "" {
				r, _, err := c.client.Repositories.Get(ctx, owner, repo)
				if err != nil {
					return params.ErrorWithContext(fmt.Errorf("reading repository: %w", err), map[string]any{"repo": handle.FullName()})
				}
				handle.DefaultBranch = r.GetDefaultBranch()
			}

			sha, err := c.Commit(ctx, handle, CommittedFile{Path: path, Message: message, Content: content, Branch: handle.DefaultBranch})
			if err != nil {
				return params.ErrorWithContext(err, map[string]any{"repo": handle.FullName()})
			}
			return map[string]any{
				"repo":   handle.FullName(),
				"branch": handle.DefaultBranch,
				"path":   path,
				"sha":    sha,
			}
		},
	}
}
