/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googleexecutor runs single-turn text completions against Gemini.
//
// It mirrors claudeexecutor: a request is bound to a prompt template, sent
// as one user turn, and the text of the first candidate is returned.
// Quota and availability errors are retried; each call is traced and its
// token usage recorded.
package googleexecutor
