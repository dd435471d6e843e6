/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package webhook holds the pure half of webhook intake: signature
// verification over the raw request body, decoding of the payload into a
// typed envelope, summarization of that envelope into a short sentence, and
// classification of the sentence into a dispatch action.
//
// Nothing in this package performs I/O.
//
//	if !webhook.VerifySignature(body, r.Header.Get(webhook.SignatureHeader), secret) {
//		// reject
//	}
//	env, err := webhook.ParseEnvelope(r.Header.Get(webhook.EventHeader), body)
//	summary := webhook.Summarize(env)
//	action := webhook.Classify(summary)
package webhook
