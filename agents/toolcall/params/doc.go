/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package params extracts typed tool arguments from loosely typed maps and
// formats in-band error responses.
//
// Arguments arrive either from JSON (numbers as float64) or from the command
// line (everything as string); Extract accepts both.
package params
