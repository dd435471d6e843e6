/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package webhook

import (
	"fmt"
	"strings"
)

// Summary is a one-line description of an event.
type Summary string

func (s Summary) String() string { return string(s) }

// Summarize describes env in a single sentence. It is deterministic and
// performs no I/O.
func Summarize(env Envelope) Summary {
	switch p := env.Payload.(type) {
	case Push:
		repo := p.RepositoryFullName
		if repo == "" {
			repo = "unknown"
		}
		return Summary(fmt.Sprintf("Push to %s: %s", repo, strings.Join(p.CommitMessages, " | ")))
	case Issue:
		return Summary(strings.TrimSpace("Issue: " + p.Title + " " + p.Body))
	case IssueComment:
		return Summary(strings.TrimSpace("Issue comment: " + p.Body))
	default:
		return Summary("Unhandled event " + env.EventType)
	}
}
