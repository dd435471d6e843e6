/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package webhook

import "strings"

// Action is the dispatch decision for a summary.
type Action string

const (
	// BuildAgent routes to the scaffold builder.
	BuildAgent Action = "build_agent"
	// FixOrFeature routes to the reasoning executor.
	FixOrFeature Action = "fix_or_feature"
)

func (a Action) String() string { return string(a) }

// buildPhrases trigger BuildAgent when found anywhere in a lower-cased summary.
var buildPhrases = []string{
	"build an agent",
	"generate a new agent",
}

// Classify maps a summary to an Action. It never fails.
func Classify(s Summary) Action {
	lower := strings.ToLower(string(s))
	for _, phrase := range buildPhrases {
		if strings.Contains(lower, phrase) {
			return BuildAgent
		}
	}
	return FixOrFeature
}
