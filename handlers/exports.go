// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-survey/export"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
)

type ExportHandler struct {
	exports *export.Service
}

func NewExportHandler(exports *export.Service) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// ExportCSV handles POST /exports/csv
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	ids, ok := surveyIDs(w, r)
	if !ok {
		return
	}
	text, err := h.exports.Delimited(r.Context(), ids)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	attachment(w, "text/csv; charset=utf-8", "csv", []byte(text))
}

// ExportExcel handles POST /exports/excel
func (h *ExportHandler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	ids, ok := surveyIDs(w, r)
	if !ok {
		return
	}
	body, err := h.exports.Spreadsheet(r.Context(), ids)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	attachment(w, "text/csv; charset=utf-8", "csv", body)
}

// ExportReport handles POST /exports/report
func (h *ExportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	ids, ok := surveyIDs(w, r)
	if !ok {
		return
	}
	html, err := h.exports.Report(r.Context(), ids)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	attachment(w, "text/html; charset=utf-8", "html", []byte(html))
}

// ExportStats handles POST /exports/stats
func (h *ExportHandler) ExportStats(w http.ResponseWriter, r *http.Request) {
	ids, ok := surveyIDs(w, r)
	if !ok {
		return
	}
	stats, err := h.exports.Stats(r.Context(), ids)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, stats)
}

func surveyIDs(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req models.ExportRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	return req.SurveyIDs, true
}

func attachment(w http.ResponseWriter, contentType, ext string, body []byte) {
	name := "survey-export-" + time.Now().UTC().Format("20060102-150405") + "." + ext
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
