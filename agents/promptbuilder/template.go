/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// expand rewrites every {{name}} in template with resolve(name).
func expand(template string, resolve func(name string) (string, error)) (string, error) {
	var out strings.Builder
	for {
		start := strings.Index(template, "{{")
		if start < 0 {
			out.WriteString(template)
			return out.String(), nil
		}
		out.WriteString(template[:start])

		end := strings.Index(template[start:], "}}")
		if end < 0 {
			return "", errors.New("unclosed placeholder: missing '}}'")
		}
		name := strings.TrimSpace(template[start+2 : start+end])
		if !isIdentifier(name) {
			return "", fmt.Errorf("invalid placeholder %q", name)
		}
		val, err := resolve(name)
		if err != nil {
			return "", err
		}
		out.WriteString(val)
		template = template[start+end+2:]
	}
}

// isIdentifier accepts a letter followed by letters, digits or underscores.
func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
