// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// utf8BOM makes spreadsheet applications read the file as UTF-8.
const utf8BOM = "\uFEFF"

// Delimited renders the surveys as comma-separated text. Each survey starts
// with a quoted metadata block, then a header row and one row per
// completed response. Every cell is quoted.
func (s *Service) Delimited(ctx context.Context, ids []string) (string, error) {
	text, err := s.delimited(ctx, ids)
	if err != nil {
		return "", err
	}
	s.metrics.Export("csv")
	return text, nil
}

// Spreadsheet is Delimited with a UTF-8 byte order mark, which spreadsheet
// applications need to show non-Latin text correctly.
func (s *Service) Spreadsheet(ctx context.Context, ids []string) ([]byte, error) {
	text, err := s.delimited(ctx, ids)
	if err != nil {
		return nil, err
	}
	s.metrics.Export("excel")
	return []byte(utf8BOM + text), nil
}

func (s *Service) delimited(ctx context.Context, ids []string) (string, error) {
	data, err := s.load(ctx, ids)
	if err != nil {
		slog.Warn("delimited export failed", "surveys", len(ids), "error", err)
		return "", err
	}

	var b strings.Builder
	for i, d := range data {
		if i > 0 {
			b.WriteString("\n\n")
		}
		writeRow(&b, "Survey: "+d.survey.Title)
		writeRow(&b, "Type: "+d.survey.Type)
		writeRow(&b, "Status: "+d.survey.Status)
		writeRow(&b, "Created: "+d.survey.CreatedAt.UTC().Format(timestampLayout))
		writeRow(&b, "Total Responses: "+strconv.Itoa(len(d.responses)))
		b.WriteString("\n")

		writeRow(&b, d.header()...)
		for _, r := range d.responses {
			writeRow(&b, d.row(r, "")...)
		}
	}

	slog.Info("delimited export generated", "surveys", len(data), "bytes", b.Len())
	return b.String(), nil
}

// writeRow writes cells as one line, each wrapped in double quotes with
// embedded quotes doubled.
func writeRow(b *strings.Builder, cells ...string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(c, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
