/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scaffold

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"

	"chainguard.dev/hookagent/agents/executor/retry"
	"chainguard.dev/hookagent/agents/toolcall"
)

// RepositoryHandle identifies a repository and the branch files land on.
type RepositoryHandle struct {
	Owner         string
	Name          string
	DefaultBranch string
}

// FullName returns "owner/name".
func (r RepositoryHandle) FullName() string {
	return r.Owner + "/" + r.Name
}

// CommittedFile is a single file written by one commit.
type CommittedFile struct {
	Path    string
	Message string
	Content string
	Branch  string
}

// Committer writes single-file commits through the Git Data API.
type Committer struct {
	client *github.Client
	// refWait retries reading the branch ref while a new repository is
	// still initializing.
	refWait retry.RetryConfig
}

// NewCommitter returns a Committer that does not wait for refs to appear.
func NewCommitter(client *github.Client) *Committer {
	return &Committer{client: client}
}

// Commit writes f onto f.Branch of repo and returns the new commit SHA.
//
// The sequence is read-ref, read-commit, create-blob, create-tree,
// create-commit, update-ref. Objects created before a failure are
// unreachable; only the final non-forced ref update makes the file visible,
// so a concurrent push causes a failure rather than a lost commit.
func (c *Committer) Commit(ctx context.Context, repo RepositoryHandle, f CommittedFile) (string, error) {
	if c == nil || c.client == nil {
		return "", toolcall.NotConfigured("committer", "GITHUB_TOKEN")
	}
	branch := f.Branch
	if branch == "" {
		branch = repo.DefaultBranch
	}
	if branch == "" {
		return "", errors.New("branch is required")
	}
	if f.Path == "" {
		return "", errors.New("path is required")
	}
	owner, name, ref := repo.Owner, repo.Name, "heads/"+branch
	log := clog.FromContext(ctx).With("repo", repo.FullName(), "branch", branch, "path", f.Path)

	head, err := retry.RetryWithBackoff(ctx, c.refWait, "get_ref", refNotReady, func() (*github.Reference, error) {
		r, _, err := c.client.Git.GetRef(ctx, owner, name, ref)
		return r, err
	})
	if err != nil {
		return "", fmt.Errorf("reading ref %s: %w", ref, err)
	}
	parent, _, err := c.client.Git.GetCommit(ctx, owner, name, head.GetObject().GetSHA())
	if err != nil {
		return "", fmt.Errorf("reading commit %s: %w", head.GetObject().GetSHA(), err)
	}
	blob, _, err := c.client.Git.CreateBlob(ctx, owner, name, github.Blob{
		Content:  github.Ptr(f.Content),
		Encoding: github.Ptr("utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("creating blob: %w", err)
	}
	tree, _, err := c.client.Git.CreateTree(ctx, owner, name, parent.GetTree().GetSHA(), []*github.TreeEntry{{
		Path: github.Ptr(f.Path),
		Mode: github.Ptr("100644"),
		Type: github.Ptr("blob"),
		SHA:  blob.SHA,
	}})
	if err != nil {
		return "", fmt.Errorf("creating tree: %w", err)
	}
	commit, _, err := c.client.Git.CreateCommit(ctx, owner, name, github.Commit{
		Message: github.Ptr(f.Message),
		Tree:    &github.Tree{SHA: tree.SHA},
		Parents: []*github.Commit{{SHA: parent.SHA}},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("creating commit: %w", err)
	}
	if _, _, err := c.client.Git.UpdateRef(ctx, owner, name, ref, github.UpdateRef{
		SHA:   commit.GetSHA(),
		Force: github.Ptr(false),
	}); err != nil {
		return "", fmt.Errorf("updating ref %s: %w", ref, err)
	}

	log.Infof("Committed %s as %s", f.Path, commit.GetSHA())
	return commit.GetSHA(), nil
}

// refNotReady matches the 404 and 409 GitHub returns while a freshly created
// repository has no initial commit yet.
func refNotReady(err error) bool {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) || ghErr.Response == nil {
		return false
	}
	switch ghErr.Response.StatusCode {
	case http.StatusNotFound, http.StatusConflict:
		return true
	}
	return false
}
