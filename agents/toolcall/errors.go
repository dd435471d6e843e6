/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured marks a capability whose credentials or destination are absent.
var ErrNotConfigured = errors.New("not configured")

// NotConfigured returns an error wrapping ErrNotConfigured that names the
// capability and the missing settings.
func NotConfigured(capability string, missing ...string) error {
	if len(missing) == 0 {
		return fmt.Errorf("%s: %w", capability, ErrNotConfigured)
	}
	return fmt.Errorf("%s: %w (missing %s)", capability, ErrNotConfigured, strings.Join(missing, ", "))
}
