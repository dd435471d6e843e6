/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	// SignatureHeader carries the HMAC-SHA256 of the raw body.
	SignatureHeader = "X-Hub-Signature-256"
	// EventHeader carries the event type, e.g. "push".
	EventHeader = "X-GitHub-Event"
	// DeliveryHeader carries the unique delivery id GitHub assigns.
	DeliveryHeader = "X-GitHub-Delivery"

	signaturePrefix = "sha256="
)

// VerifySignature reports whether header is a valid "sha256=<hex>" HMAC of
// body under secret. It fails closed: an empty secret, an empty header, a
// missing prefix or undecodable hex all report false.
//
// body must be the exact bytes received on the wire.
func VerifySignature(body []byte, header string, secret []byte) bool {
	if len(secret) == 0 || header == "" {
		return false
	}
	hexSig, ok := strings.CutPrefix(header, signaturePrefix)
	if !ok {
		return false
	}
	provided, err := hex.DecodeString(hexSig)
	if err != nil || len(provided) != sha256.Size {
		return false
	}

	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write(body)
	return hmac.Equal(mac.Sum(nil), provided)
}

// Sign returns the header value GitHub would send for body under secret.
func Sign(body, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}
