// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"context"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html dir="ltr">
<head>
<meta charset="UTF-8">
<title>Survey Export Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; color: #333; }
h1 { color: #3B82F6; border-bottom: 2px solid #3B82F6; padding-bottom: 10px; }
h2 { color: #1E40AF; margin-top: 30px; }
.survey-info { background: #F3F4F6; padding: 15px; border-radius: 8px; margin-bottom: 20px; }
.survey-info p { margin: 5px 0; }
table { width: 100%; border-collapse: collapse; margin: 20px 0; font-size: 12px; }
th { background: #3B82F6; color: white; padding: 10px; text-align: left; }
td { padding: 8px; border-bottom: 1px solid #E5E7EB; }
tr:nth-child(even) { background: #F9FAFB; }
.page-break { page-break-after: always; }
.muted { color: #6B7280; }
.footer { margin-top: 30px; text-align: center; color: #6B7280; font-size: 10px; }
</style>
</head>
<body>
<h1>Survey Export Report</h1>
<p class="muted">Generated on: {{.Generated}}</p>
{{range $i, $s := .Surveys}}
{{if $i}}<div class="page-break"></div>{{end}}
<h2>Survey: {{$s.Title}}</h2>
<div class="survey-info">
<p><strong>Type:</strong> {{$s.Type}}</p>
<p><strong>Status:</strong> {{$s.Status}}</p>
{{if $s.Client}}<p><strong>Client:</strong> {{$s.Client}}</p>{{end}}
<p><strong>Created:</strong> {{$s.Created}}</p>
<p><strong>Total Responses:</strong> {{$s.Responses}}</p>
<p><strong>Total Views:</strong> {{$s.Views}}</p>
<p><strong>Completion Rate:</strong> {{$s.CompletionRate}}%</p>
{{if $s.AvgDuration}}<p><strong>Average Time:</strong> {{$s.AvgDuration}}</p>{{end}}
</div>
{{if $s.Rows}}
<table>
<thead><tr>{{range $s.Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range $s.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{else}}
<p class="muted">No responses yet.</p>
{{end}}
{{end}}
<div class="footer"><p>Confidential</p></div>
</body>
</html>
`))

type reportPage struct {
	Generated string
	Surveys   []reportSurvey
}

type reportSurvey struct {
	Title          string
	Type           string
	Status         string
	Client         string
	Created        string
	Responses      string
	Views          string
	CompletionRate int
	AvgDuration    string
	Header         []string
	Rows           [][]string
}

// Report renders the surveys as a printable HTML document, one section per
// survey separated by page breaks.
func (s *Service) Report(ctx context.Context, ids []string) (string, error) {
	data, err := s.load(ctx, ids)
	if err != nil {
		slog.Warn("report export failed", "surveys", len(ids), "error", err)
		return "", err
	}

	page := reportPage{Generated: s.now().UTC().Format(timestampLayout)}
	for _, d := range data {
		rs := reportSurvey{
			Title:          d.survey.Title,
			Type:           strings.ToUpper(d.survey.Type[:1]) + d.survey.Type[1:],
			Status:         d.survey.Status,
			Client:         d.survey.ClientName,
			Created:        d.survey.CreatedAt.UTC().Format(timestampLayout),
			Responses:      humanize.Comma(int64(len(d.responses))),
			Views:          humanize.Comma(int64(d.survey.TotalViews)),
			CompletionRate: d.completionRate(),
			AvgDuration:    averageDuration(d),
			Header:         d.header(),
		}
		for _, r := range d.responses {
			rs.Rows = append(rs.Rows, d.row(r, "-"))
		}
		page.Surveys = append(page.Surveys, rs)
	}

	var b strings.Builder
	if err := reportTemplate.Execute(&b, page); err != nil {
		slog.Error("failed to render report", "error", err)
		return "", err
	}

	s.metrics.Export("report")
	slog.Info("report export generated", "surveys", len(data), "bytes", b.Len())
	return b.String(), nil
}

// averageDuration describes the mean completion time in words, or "" when
// no response recorded a duration.
func averageDuration(d surveyData) string {
	var sum, n int
	for _, r := range d.responses {
		if r.DurationSeconds != nil {
			sum += *r.DurationSeconds
			n++
		}
	}
	if n == 0 {
		return ""
	}
	start := time.Unix(0, 0)
	return strings.TrimSpace(humanize.RelTime(start, start.Add(time.Duration(sum/n)*time.Second), "", ""))
}
