/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package webhook

import (
	"errors"

	"github.com/tidwall/gjson"
)

// ErrInvalidPayload is returned when the body is not a JSON object.
var ErrInvalidPayload = errors.New("webhook payload is not a JSON object")

// Event types with a dedicated payload variant.
const (
	EventPush         = "push"
	EventIssues       = "issues"
	EventIssueComment = "issue_comment"
)

// Payload is the closed set of payload variants. The concrete type is one of
// Push, Issue, IssueComment or Unrecognized.
type Payload interface {
	isPayload()
}

// Push is the subset of a push event that the agent reads.
type Push struct {
	// RepositoryFullName is empty when repository.full_name is absent.
	RepositoryFullName string
	// CommitMessages holds one entry per element of commits, in order.
	CommitMessages []string
}

// Issue is the subset of an issues event that the agent reads.
type Issue struct {
	Title string
	Body  string
}

// IssueComment is the subset of an issue_comment event that the agent reads.
type IssueComment struct {
	Body string
}

// Unrecognized carries the decoded payload of any other event type.
type Unrecognized struct {
	Fields map[string]any
}

func (Push) isPayload()         {}
func (Issue) isPayload()        {}
func (IssueComment) isPayload() {}
func (Unrecognized) isPayload() {}

// Envelope pairs an event type with its decoded payload. It is never
// modified after ParseEnvelope returns it.
type Envelope struct {
	EventType string
	// Repository is repository.full_name when present, for log context.
	Repository string
	Payload    Payload
}

// ParseEnvelope decodes body according to eventType. Missing or mistyped
// nested fields decode to their zero value rather than an error; only a body
// that is not a JSON object is rejected.
func ParseEnvelope(eventType string, body []byte) (Envelope, error) {
	if !gjson.ValidBytes(body) {
		return Envelope{}, ErrInvalidPayload
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return Envelope{}, ErrInvalidPayload
	}

	env := Envelope{
		EventType:  eventType,
		Repository: text(root.Get("repository.full_name")),
	}
	switch eventType {
	case EventPush:
		p := Push{RepositoryFullName: env.Repository}
		if commits := root.Get("commits"); commits.IsArray() {
			for _, c := range commits.Array() {
				p.CommitMessages = append(p.CommitMessages, text(c.Get("message")))
			}
		}
		env.Payload = p
	case EventIssues:
		env.Payload = Issue{
			Title: text(root.Get("issue.title")),
			Body:  text(root.Get("issue.body")),
		}
	case EventIssueComment:
		env.Payload = IssueComment{
			Body: text(root.Get("comment.body")),
		}
	default:
		fields, _ := root.Value().(map[string]any)
		env.Payload = Unrecognized{Fields: fields}
	}
	return env, nil
}

// text returns the scalar value of r, or "" for null, absent, objects and arrays.
func text(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return r.String()
	default:
		return ""
	}
}
