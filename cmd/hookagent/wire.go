/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/clog"
	"google.golang.org/api/option"

	"chainguard.dev/hookagent/agents/devagent"
	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/config"
	"chainguard.dev/hookagent/tools/activitylog"
	"chainguard.dev/hookagent/tools/docreader"
	"chainguard.dev/hookagent/tools/notify"
	"chainguard.dev/hookagent/tools/scaffold"
	"chainguard.dev/hookagent/tools/websearch"
)

// components are the collaborators shared by the server and the tools command.
type components struct {
	cfg       config.Config
	logger    *activitylog.Logger
	reader    *docreader.Reader
	searcher  *websearch.Searcher
	committer *scaffold.Committer
	builder   *scaffold.Builder
	notifier  *notify.Notifier
	agent     *devagent.Agent
}

// newComponents builds every collaborator from cfg. Missing optional
// credentials leave the affected component unconfigured; only malformed
// credentials are errors.
func newComponents(ctx context.Context, cfg config.Config) (*components, error) {
	log := clog.FromContext(ctx)
	c := &components{cfg: cfg}

	var googleOpts []option.ClientOption
	if cfg.GoogleCredentialsFile != "" {
		googleOpts = append(googleOpts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
	}

	var appender activitylog.Appender
	if cfg.Sheets.SpreadsheetID != "" {
		a, err := activitylog.NewSheetsAppender(ctx, googleOpts...)
		if err != nil {
			log.Warnf("Activity log disabled: %v", err)
		} else {
			appender = a
		}
	}
	c.logger = activitylog.New(cfg.Sheets, appender)

	if r, err := docreader.New(ctx, googleOpts...); err != nil {
		log.Warnf("Document reader disabled: %v", err)
	} else {
		c.reader = r
	}

	c.searcher = websearch.New(cfg.Search)
	c.notifier = notify.New(cfg.Telegram)

	gh, err := scaffold.NewClient(ctx, cfg.GitHub)
	if err != nil {
		return nil, fmt.Errorf("creating GitHub client: %w", err)
	}
	c.committer = scaffold.NewCommitter(gh)
	c.builder = scaffold.NewBuilder(gh, cfg.GitHub.Owner)

	agent, err := devagent.New(ctx, cfg.Reasoning)
	if err != nil {
		return nil, fmt.Errorf("creating reasoning agent: %w", err)
	}
	c.agent = agent
	return c, nil
}

// registry exposes every capability as a named tool.
func (c *components) registry() *toolcall.Registry {
	return toolcall.NewRegistry(
		activitylog.Tool(c.logger),
		docreader.Tool(c.reader),
		websearch.Tool(c.searcher),
		scaffold.Tool(c.committer, c.cfg.GitHub.Owner),
		notify.Tool(c.notifier),
	)
}

// report logs which optional integrations are live.
func (c *components) report(ctx context.Context) {
	clog.FromContext(ctx).With(
		"activity_log", c.logger.Configured(),
		"document_reader", c.reader != nil,
		"web_search", c.searcher.Configured(),
		"scaffold", c.cfg.GitHub.HasCredentials(),
		"notifier", c.notifier.Configured(),
		"reasoning_provider", string(c.agent.Provider()),
		"reasoning_model", c.agent.Model(),
		"reasoning_configured", c.agent.Configured(),
	).Info("Components initialized")
}
