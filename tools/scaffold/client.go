/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package scaffold

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"

	"chainguard.dev/hookagent/config"
)

// NewClient returns a GitHub client for cfg, or nil when cfg carries no
// credentials. GitHub App credentials win over a personal token.
func NewClient(ctx context.Context, cfg config.GitHub) (*github.Client, error) {
	var httpClient *http.Client
	switch {
	case cfg.HasApp():
		tr, err := ghinstallation.New(http.DefaultTransport, cfg.AppID, cfg.InstallationID, []byte(cfg.AppPrivateKey))
		if err != nil {
			return nil, fmt.Errorf("creating installation transport: %w", err)
		}
		if cfg.APIURL != "" {
			tr.BaseURL = strings.TrimSuffix(cfg.APIURL, "/")
		}
		httpClient = &http.Client{Transport: tr}
	case cfg.Token != "":
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
	default:
		return nil, nil
	}

	client := github.NewClient(httpClient)
	if cfg.APIURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing GITHUB_API_URL: %w", err)
		}
		client.BaseURL = base
	}
	return client, nil
}
