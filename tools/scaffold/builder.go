/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package scaffold creates agent repositories on GitHub and commits files
// to them.
//
// A Builder turns a summary into a new private repository holding a single
// README. The remote calls are sequential and not transactional: a failure
// after repository creation leaves an empty repository behind.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v75/github"

	"chainguard.dev/hookagent/agents/executor/retry"
	"chainguard.dev/hookagent/agents/toolcall"
)

const (
	// Description is set on every generated repository.
	Description = "Agent scaffold generated by hookagent"

	readmePath    = "README.md"
	commitMessage = "Add agent scaffold README"
	namePrefix    = "agent-"
)

// Request asks for one scaffold.
type Request struct {
	Summary string
}

// Result describes a completed scaffold.
type Result struct {
	Repository RepositoryHandle
	File       CommittedFile
	CommitSHA  string
}

// String is the confirmation reported back to the webhook caller.
func (r Result) String() string {
	sha := r.CommitSHA
	if len(sha) > 7 {
		sha = sha[:7]
	}
	return fmt.Sprintf("Created repository %s with scaffold commit %s", r.Repository.FullName(), sha)
}

// Builder creates scaffold repositories under a fixed owner.
type Builder struct {
	owner     string
	client    *github.Client
	committer *Committer
	now       func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock replaces time.Now for repository naming.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithRefWait overrides how long to wait for a new repository's default branch.
func WithRefWait(cfg retry.RetryConfig) Option {
	return func(b *Builder) { b.committer.refWait = cfg }
}

// NewBuilder returns a Builder. client may be nil and owner may be empty;
// Build then fails with a configuration error.
func NewBuilder(client *github.Client, owner string, opts ...Option) *Builder {
	b := &Builder{
		owner:  owner,
		client: client,
		committer: &Committer{
			client: client,
			refWait: retry.RetryConfig{
				MaxRetries:  4,
				BaseBackoff: 500 * time.Millisecond,
				MaxBackoff:  4 * time.Second,
				MaxJitter:   100 * time.Millisecond,
			},
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Configured reports whether both credentials and an owner are present.
func (b *Builder) Configured() bool {
	return b.client != nil && b.owner != ""
}

// Build creates a private repository named agent-<unix millis> and commits a
// README naming it and quoting req.Summary. Any failing step aborts the rest.
func (b *Builder) Build(ctx context.Context, req Request) (Result, error) {
	if !b.Configured() {
		var missing []string
		if b.client == nil {
			missing = append(missing, "GITHUB_TOKEN")
		}
		if b.owner == "" {
			missing = append(missing, "GITHUB_OWNER")
		}
		return Result{}, toolcall.NotConfigured("scaffold builder", missing...)
	}

	name := fmt.Sprintf("%s%d", namePrefix, b.now().UnixMilli())
	log := clog.FromContext(ctx).With("owner", b.owner, "repo", name)

	if _, resp, err := b.client.Repositories.Get(ctx, b.owner, name); err == nil {
		return Result{}, fmt.Errorf("repository %s/%s already exists", b.owner, name)
	} else if resp == nil || resp.StatusCode != http.StatusNotFound {
		return Result{}, fmt.Errorf("checking for %s/%s: %w", b.owner, name, err)
	}

	org, err := b.orgFor(ctx)
	if err != nil {
		return Result{}, err
	}
	repo, _, err := b.client.Repositories.Create(ctx, org, &github.Repository{
		Name:        github.Ptr(name),
		Description: github.Ptr(Description),
		Private:     github.Ptr(true),
		AutoInit:    github.Ptr(true),
	})
	if err != nil {
		return Result{}, fmt.Errorf("creating repository %s/%s: %w", b.owner, name, err)
	}
	log.Info("Created scaffold repository")

	owner := repo.GetOwner().GetLogin()
	if owner == "" {
		owner = b.owner
	}
	handle := RepositoryHandle{
		Owner:         owner,
		Name:          repo.GetName(),
		DefaultBranch: repo.GetDefaultBranch(),
	}
	if handle.Name == "" {
		handle.Name = name
	}
	if handle.DefaultBranch == "" {
		handle.DefaultBranch = "main"
	}

	file := CommittedFile{
		Path:    readmePath,
		Message: commitMessage,
		Content: Readme(handle.Name, req.Summary),
		Branch:  handle.DefaultBranch,
	}
	sha, err := b.committer.Commit(ctx, handle, file)
	if err != nil {
		return Result{}, fmt.Errorf("committing scaffold to %s: %w", handle.FullName(), err)
	}
	return Result{Repository: handle, File: file, CommitSHA: sha}, nil
}

// orgFor returns the owner when it is an organization, and "" (the
// authenticated user) otherwise, matching the two repository-creation
// endpoints. A user owner must be the authenticated account: POST /user/repos
// cannot create under anyone else.
func (b *Builder) orgFor(ctx context.Context) (string, error) {
	user, _, err := b.client.Users.Get(ctx, b.owner)
	if err != nil {
		return "", fmt.Errorf("looking up owner %s: %w", b.owner, err)
	}
	if user.GetType() == "Organization" {
		return b.owner, nil
	}

	self, _, err := b.client.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("resolving authenticated user for owner %s: %w", b.owner, err)
	}
	if !strings.EqualFold(self.GetLogin(), b.owner) {
		return "", fmt.Errorf("scaffold builder: %w (GITHUB_OWNER %s is a user account, but the credentials belong to %s)",
			toolcall.ErrNotConfigured, b.owner, self.GetLogin())
	}
	return "", nil
}

// Readme renders the scaffold README.
func Readme(repoName, summary string) string {
	return fmt.Sprintf("# %s\n\n%s.\n\n## Origin\n\n%s\n", repoName, Description, summary)
}

// errNoRepo is returned by the commit tool when owner or repo is missing.
var errNoRepo = errors.New("owner and repo are required")
