/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package activitylog

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsAppender appends rows through the Google Sheets API.
type SheetsAppender struct {
	svc *sheets.Service
}

var _ Appender = (*SheetsAppender)(nil)

// NewSheetsAppender creates a Sheets client. Without options it uses
// application default credentials.
func NewSheetsAppender(ctx context.Context, opts ...option.ClientOption) (*SheetsAppender, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &SheetsAppender{svc: svc}, nil
}

// Append implements Appender. Values are parsed as if typed by a user so
// timestamps land as dates, and each call inserts new rows rather than
// overwriting.
func (a *SheetsAppender) Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) error {
	_, err := a.svc.Spreadsheets.Values.Append(spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}
