/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package claudeexecutor runs single-turn text completions against Claude.

The executor binds a request to a prompt template, sends it as one user
message with optional system instructions, and returns the concatenated
text blocks of the reply. Rate limits and overloads are retried with
backoff; every call is traced and its token usage recorded.

	client := anthropic.NewClient(option.WithAPIKey(key), option.WithMaxRetries(0))
	exec, err := claudeexecutor.New[*myRequest](client, prompt,
		claudeexecutor.WithModel[*myRequest]("claude-sonnet-4-5"),
		claudeexecutor.WithTemperature[*myRequest](0.2),
	)
	text, err := exec.Execute(ctx, req)

The SDK's own retries should be disabled so the executor's retry budget is
the only one in effect.
*/
package claudeexecutor
