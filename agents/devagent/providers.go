/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package devagent

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/compute/metadata"
	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"golang.org/x/oauth2/google"
	"google.golang.org/genai"

	"chainguard.dev/hookagent/agents/executor/claudeexecutor"
	"chainguard.dev/hookagent/agents/executor/googleexecutor"
	"chainguard.dev/hookagent/agents/executor/openaiexecutor"
	"chainguard.dev/hookagent/config"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Option configures New.
type Option func(*options)

type options struct {
	detectProject    func(context.Context) string
	anthropicBaseURL string
	geminiBaseURL    string
}

// WithProjectDetector replaces the GCE metadata lookup used when no project
// is configured for Vertex AI.
func WithProjectDetector(detect func(context.Context) string) Option {
	return func(o *options) { o.detectProject = detect }
}

// WithAnthropicBaseURL points the Anthropic client at another endpoint.
func WithAnthropicBaseURL(u string) Option {
	return func(o *options) { o.anthropicBaseURL = u }
}

// WithGeminiBaseURL points the Gemini client at another endpoint.
func WithGeminiBaseURL(u string) Option {
	return func(o *options) { o.geminiBaseURL = u }
}

func metadataProject(ctx context.Context) string {
	if !metadata.OnGCE() {
		return ""
	}
	id, err := metadata.ProjectIDWithContext(ctx)
	if err != nil {
		clog.FromContext(ctx).Warnf("Failed to read project from metadata server: %v", err)
		return ""
	}
	return id
}

// New selects a provider from cfg.Model and builds its executor. Missing
// credentials are not an error: the returned Agent reports them from
// Respond.
func New(ctx context.Context, cfg config.Reasoning, opts ...Option) (*Agent, error) {
	o := options{detectProject: metadataProject}
	for _, opt := range opts {
		opt(&o)
	}

	model := strings.TrimSpace(cfg.Model)
	switch lower := strings.ToLower(model); {
	case strings.HasPrefix(lower, "claude-"):
		return newClaude(ctx, cfg, model, o)
	case strings.HasPrefix(lower, "gemini-"):
		return newGemini(ctx, cfg, model, o)
	default:
		return newOpenAI(cfg, model)
	}
}

func (o options) project(ctx context.Context, cfg config.Reasoning) string {
	if cfg.GCPProjectID != "" {
		return cfg.GCPProjectID
	}
	if o.detectProject == nil {
		return ""
	}
	return o.detectProject(ctx)
}

func newOpenAI(cfg config.Reasoning, model string) (*Agent, error) {
	a := &Agent{provider: ProviderOpenAI, model: model}
	if cfg.OpenAIAPIKey == "" && cfg.OpenAIBaseURL == "" {
		a.missing = []string{"OPENAI_API_KEY"}
		return a, nil
	}
	clientOpts := []openaioption.RequestOption{openaioption.WithMaxRetries(0)}
	if cfg.OpenAIAPIKey != "" {
		clientOpts = append(clientOpts, openaioption.WithAPIKey(cfg.OpenAIAPIKey))
	}
	if cfg.OpenAIBaseURL != "" {
		clientOpts = append(clientOpts, openaioption.WithBaseURL(cfg.OpenAIBaseURL))
	}
	exec, err := openaiexecutor.New[request](openai.NewClient(clientOpts...), userPrompt,
		openaiexecutor.WithModel[request](model),
		openaiexecutor.WithTemperature[request](cfg.Temperature),
		openaiexecutor.WithMaxTokens[request](cfg.MaxTokens),
		openaiexecutor.WithSystemInstructions[request](systemPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI executor: %w", err)
	}
	a.exec = exec
	return a, nil
}

func newClaude(ctx context.Context, cfg config.Reasoning, model string, o options) (*Agent, error) {
	a := &Agent{provider: ProviderAnthropic, model: model}
	clientOpts := []anthropicoption.RequestOption{anthropicoption.WithMaxRetries(0)}

	if cfg.AnthropicAPIKey != "" {
		clientOpts = append(clientOpts, anthropicoption.WithAPIKey(cfg.AnthropicAPIKey))
		if o.anthropicBaseURL != "" {
			clientOpts = append(clientOpts, anthropicoption.WithBaseURL(o.anthropicBaseURL))
		}
	} else {
		a.provider = ProviderVertex
		project := o.project(ctx, cfg)
		if project == "" {
			a.missing = []string{"ANTHROPIC_API_KEY", "GCP_PROJECT_ID"}
			return a, nil
		}
		creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
		if err != nil {
			clog.FromContext(ctx).Warnf("No application default credentials for Vertex AI: %v", err)
			a.missing = []string{"ANTHROPIC_API_KEY", "application default credentials"}
			return a, nil
		}
		clientOpts = append(clientOpts, vertex.WithCredentials(ctx, cfg.GCPRegion, project, creds))
	}

	exec, err := claudeexecutor.New[request](anthropic.NewClient(clientOpts...), userPrompt,
		claudeexecutor.WithModel[request](model),
		claudeexecutor.WithTemperature[request](min(cfg.Temperature, 1.0)),
		claudeexecutor.WithMaxTokens[request](cfg.MaxTokens),
		claudeexecutor.WithSystemInstructions[request](systemPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("creating Claude executor: %w", err)
	}
	a.exec = exec
	return a, nil
}

func newGemini(ctx context.Context, cfg config.Reasoning, model string, o options) (*Agent, error) {
	a := &Agent{provider: ProviderGemini, model: model}
	clientCfg := &genai.ClientConfig{HTTPOptions: genai.HTTPOptions{BaseURL: o.geminiBaseURL}}

	if cfg.GeminiAPIKey != "" {
		clientCfg.APIKey = cfg.GeminiAPIKey
		clientCfg.Backend = genai.BackendGeminiAPI
	} else {
		a.provider = ProviderVertex
		project := o.project(ctx, cfg)
		if project == "" {
			a.missing = []string{"GEMINI_API_KEY", "GCP_PROJECT_ID"}
			return a, nil
		}
		if _, err := google.FindDefaultCredentials(ctx, cloudPlatformScope); err != nil {
			clog.FromContext(ctx).Warnf("No application default credentials for Vertex AI: %v", err)
			a.missing = []string{"GEMINI_API_KEY", "application default credentials"}
			return a, nil
		}
		clientCfg.Backend = genai.BackendVertexAI
		clientCfg.Project = project
		clientCfg.Location = cfg.GCPRegion
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	exec, err := googleexecutor.New[request](client, userPrompt,
		googleexecutor.WithModel[request](model),
		googleexecutor.WithTemperature[request](float32(cfg.Temperature)),
		googleexecutor.WithMaxOutputTokens[request](int32(min(cfg.MaxTokens, 65536))),
		googleexecutor.WithSystemInstructions[request](systemPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini executor: %w", err)
	}
	a.exec = exec
	return a, nil
}
