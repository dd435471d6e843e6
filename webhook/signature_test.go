/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package webhook_test

import (
	"strings"
	"testing"

	"chainguard.dev/hookagent/webhook"
)

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	body := []byte(`{"zen":"Keep it logically awesome."}`)
	secret := []byte("s3cret")
	valid := webhook.Sign(body, secret)

	tests := []struct {
		name   string
		body   []byte
		header string
		secret []byte
		want   bool
	}{
		{name: "valid", body: body, header: valid, secret: secret, want: true},
		{name: "empty secret", body: body, header: valid, secret: nil, want: false},
		{name: "empty header", body: body, header: "", secret: secret, want: false},
		{name: "missing prefix", body: body, header: strings.TrimPrefix(valid, "sha256="), secret: secret, want: false},
		{name: "sha1 prefix", body: body, header: "sha1=" + strings.TrimPrefix(valid, "sha256="), secret: secret, want: false},
		{name: "not hex", body: body, header: "sha256=zzzz", secret: secret, want: false},
		{name: "truncated", body: body, header: valid[:len(valid)-2], secret: secret, want: false},
		{name: "wrong secret", body: body, header: valid, secret: []byte("other"), want: false},
		{name: "reformatted body", body: []byte(`{"zen": "Keep it logically awesome."}`), header: valid, secret: secret, want: false},
		{name: "uppercase hex", body: body, header: "sha256=" + strings.ToUpper(strings.TrimPrefix(valid, "sha256=")), secret: secret, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := webhook.VerifySignature(tt.body, tt.header, tt.secret); got != tt.want {
				t.Errorf("VerifySignature() = %v, wanted = %v", got, tt.want)
			}
		})
	}
}

func TestSignFormat(t *testing.T) {
	t.Parallel()

	// Known vector: HMAC-SHA256("It's a Secret to Everybody", "Hello, World!").
	got := webhook.Sign([]byte("Hello, World!"), []byte("It's a Secret to Everybody"))
	want := "sha256=757107ea0eb2509fc211221cce984b8a37570b6d7586c22c46f4379c8b043e17"
	if got != want {
		t.Errorf("Sign: got = %s, wanted = %s", got, want)
	}
}
