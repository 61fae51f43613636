// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-survey/analytics"
	"github.com/danielhkuo/quickly-survey/middleware"
)

type AnalyticsHandler struct {
	analytics *analytics.Service
}

func NewAnalyticsHandler(a *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: a}
}

// GetAnalytics handles GET /surveys/{id}/analytics
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := h.analytics.Compute(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, report)
}
