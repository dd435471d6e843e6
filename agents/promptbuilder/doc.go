/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package promptbuilder assembles model prompts from templates with
// {{name}} placeholders.
//
// Templates are string literals supplied by the program. Values that
// originate outside the program (webhook text, document bodies) are bound
// through BindXML, BindJSON or BindYAML so they arrive structurally
// delimited and escaped instead of spliced into the instructions:
//
//	p := promptbuilder.MustNewPrompt(`Summarize:
//	{{event}}`)
//	p, err := p.BindXML("event", struct {
//		XMLName xml.Name `xml:"event"`
//		Text    string   `xml:"text"`
//	}{Text: untrusted})
//	text, err := p.Build()
//
// Every placeholder must be bound exactly once before Build succeeds. Bind
// methods return a new Prompt and leave the receiver untouched, so a
// package-level template can be shared across goroutines.
package promptbuilder
