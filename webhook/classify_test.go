/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package webhook_test

import (
	"testing"

	"chainguard.dev/hookagent/webhook"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		summary webhook.Summary
		want    webhook.Action
	}{
		{"please build an agent for X", webhook.BuildAgent},
		{"BUILD AN AGENT now", webhook.BuildAgent},
		{"Issue: Generate a New Agent for billing", webhook.BuildAgent},
		{"fix the login bug", webhook.FixOrFeature},
		{"build agent", webhook.FixOrFeature},
		{"rebuild an agentless setup", webhook.BuildAgent},
		{"", webhook.FixOrFeature},
		{"Unhandled event ping", webhook.FixOrFeature},
	}

	for _, tt := range tests {
		if got := webhook.Classify(tt.summary); got != tt.want {
			t.Errorf("Classify(%q): got = %v, wanted = %v", tt.summary, got, tt.want)
		}
	}
}

func TestClassifySelfConcatenation(t *testing.T) {
	t.Parallel()

	for _, s := range []webhook.Summary{
		"please build an agent for X",
		"fix the login bug",
		"generate a new agent",
		"build an",
		"agent build an",
	} {
		first := webhook.Classify(s)
		if got := webhook.Classify(s + s); first == webhook.BuildAgent && got != webhook.BuildAgent {
			t.Errorf("Classify(%q+%q) = %v, wanted = %v", s, s, got, first)
		}
		if got := webhook.Classify(webhook.Summary(first.String()) + webhook.Summary(first.String())); got != webhook.FixOrFeature {
			t.Errorf("Classify(action label %q doubled) = %v, wanted = %v", first, got, webhook.FixOrFeature)
		}
	}
}
