/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiexecutor

import (
	"errors"
	"fmt"

	"chainguard.dev/hookagent/agents/executor/retry"
	"chainguard.dev/hookagent/agents/metrics"
	"chainguard.dev/hookagent/agents/promptbuilder"
)

// Option configures an executor.
type Option[Request promptbuilder.Bindable] func(*executor[Request]) error

// WithModel overrides the model name. Any name is accepted since
// compatible servers use their own.
func WithModel[Request promptbuilder.Bindable](model string) Option[Request] {
	return func(e *executor[Request]) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		e.model = model
		return nil
	}
}

// WithTemperature sets the sampling temperature, 0.0 to 2.0.
func WithTemperature[Request promptbuilder.Bindable](temp float64) Option[Request] {
	return func(e *executor[Request]) error {
		if temp < 0.0 || temp > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		e.temperature = temp
		return nil
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens[Request promptbuilder.Bindable](tokens int64) Option[Request] {
	return func(e *executor[Request]) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		e.maxTokens = tokens
		return nil
	}
}

// WithSystemInstructions sets the system message. It must have no unbound
// placeholders.
func WithSystemInstructions[Request promptbuilder.Bindable](prompt *promptbuilder.Prompt) Option[Request] {
	return func(e *executor[Request]) error {
		if prompt == nil {
			return errors.New("system instructions prompt cannot be nil")
		}
		text, err := prompt.Build()
		if err != nil {
			return fmt.Errorf("building system instructions: %w", err)
		}
		e.system = text
		return nil
	}
}

// WithMetrics replaces the metrics sink.
func WithMetrics[Request promptbuilder.Bindable](m *metrics.GenAI) Option[Request] {
	return func(e *executor[Request]) error {
		if m == nil {
			return errors.New("metrics cannot be nil")
		}
		e.genaiMetrics = m
		return nil
	}
}

// WithRetryConfig sets the retry policy for rate limits and server errors.
func WithRetryConfig[Request promptbuilder.Bindable](cfg retry.RetryConfig) Option[Request] {
	return func(e *executor[Request]) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		e.retryConfig = cfg
		return nil
	}
}
