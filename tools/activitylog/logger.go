/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package activitylog appends one spreadsheet row per dispatch decision.
package activitylog

import (
	"context"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/hookagent/config"
)

// DefaultRange is used when no range is configured.
const DefaultRange = "Logs!A:D"

// Record is one decision: when it happened, which event, which action, and
// the summary it was based on.
type Record struct {
	Timestamp time.Time
	EventType string
	Action    string
	Summary   string
}

// Row renders r in column order A through D.
func (r Record) Row() []any {
	return []any{r.Timestamp.UTC().Format(time.RFC3339), r.EventType, r.Action, r.Summary}
}

// Appender appends rows to a range of a spreadsheet.
type Appender interface {
	Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) error
}

// Logger writes Records to the configured spreadsheet.
type Logger struct {
	spreadsheetID string
	rng           string
	appender      Appender
}

// New returns a Logger for cfg. appender may be nil when cfg has no
// spreadsheet id; Log is then a no-op.
func New(cfg config.Sheets, appender Appender) *Logger {
	rng := cfg.Range
	if rng == "" {
		rng = DefaultRange
	}
	return &Logger{
		spreadsheetID: cfg.SpreadsheetID,
		rng:           rng,
		appender:      appender,
	}
}

// Configured reports whether Log will write anywhere.
func (l *Logger) Configured() bool {
	return l.spreadsheetID != "" && l.appender != nil
}

// Log appends rec as a single row. It returns nil without any I/O when no
// destination is configured. It never retries.
func (l *Logger) Log(ctx context.Context, rec Record) error {
	if !l.Configured() {
		clog.FromContext(ctx).Debug("Activity log not configured, skipping")
		return nil
	}
	if err := l.appender.Append(ctx, l.spreadsheetID, l.rng, [][]any{rec.Row()}); err != nil {
		return fmt.Errorf("appending to %s: %w", l.rng, err)
	}
	return nil
}
