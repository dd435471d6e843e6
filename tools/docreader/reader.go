/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package docreader fetches a Google Doc by id and flattens it to plain text.
package docreader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/option"

	"chainguard.dev/hookagent/agents/toolcall"
)

// Document is the plain-text rendering of a Google Doc.
type Document struct {
	ID    string
	Title string
	Text  string
}

// Reader reads documents through the Google Docs API. The zero value and a
// nil *Reader report not configured.
type Reader struct {
	svc *docs.Service
}

// New creates a Reader. Without options it uses application default credentials.
func New(ctx context.Context, opts ...option.ClientOption) (*Reader, error) {
	svc, err := docs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating docs service: %w", err)
	}
	return &Reader{svc: svc}, nil
}

// Read fetches documentID and returns its text.
func (r *Reader) Read(ctx context.Context, documentID string) (Document, error) {
	if r == nil || r.svc == nil {
		return Document{}, toolcall.NotConfigured("document reader", "Google credentials")
	}
	if strings.TrimSpace(documentID) == "" {
		return Document{}, errors.New("document id is required")
	}

	doc, err := r.svc.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return Document{}, fmt.Errorf("fetching document %s: %w", documentID, err)
	}

	var b strings.Builder
	if doc.Body != nil {
		flatten(&b, doc.Body.Content)
	}
	clog.FromContext(ctx).With("document_id", documentID).Infof("Read document %q (%d bytes)", doc.Title, b.Len())
	return Document{ID: doc.DocumentId, Title: doc.Title, Text: b.String()}, nil
}

// flatten writes the text runs of elems in document order, descending into
// tables and tables of contents.
func flatten(b *strings.Builder, elems []*docs.StructuralElement) {
	for _, el := range elems {
		switch {
		case el == nil:
		case el.Paragraph != nil:
			for _, pe := range el.Paragraph.Elements {
				if pe != nil && pe.TextRun != nil {
					b.WriteString(pe.TextRun.Content)
				}
			}
		case el.Table != nil:
			for _, row := range el.Table.TableRows {
				if row == nil {
					continue
				}
				for _, cell := range row.TableCells {
					if cell != nil {
						flatten(b, cell.Content)
					}
				}
			}
		case el.TableOfContents != nil:
			flatten(b, el.TableOfContents.Content)
		}
	}
}
