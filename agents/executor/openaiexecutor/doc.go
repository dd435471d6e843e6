/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiexecutor runs single-turn chat completions against the
// OpenAI API or any server that speaks its chat completions protocol.
package openaiexecutor
