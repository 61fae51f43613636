// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/survey"
)

type SurveyHandler struct {
	surveys *survey.Service
}

func NewSurveyHandler(surveys *survey.Service) *SurveyHandler {
	return &SurveyHandler{surveys: surveys}
}

// CreateSurvey handles POST /surveys
func (h *SurveyHandler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSurveyInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sv, err := h.surveys.Create(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSurveyResponse{
		ID:   sv.ID,
		Slug: sv.Slug,
	})
}

// ListSurveys handles GET /surveys?status=&type=
func (h *SurveyHandler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	surveys, err := h.surveys.List(r.Context(), models.ListFilter{
		Status: q.Get("status"),
		Type:   q.Get("type"),
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, surveys)
}

// GetSurvey handles GET /surveys/{id}
func (h *SurveyHandler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	sv, err := h.surveys.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sv)
}

// UpdateSurvey handles PATCH /surveys/{id}
func (h *SurveyHandler) UpdateSurvey(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSurveyInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	sv, err := h.surveys.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sv)
}

// SurveyAction handles POST /surveys/{id}/{action} for publish, pause,
// close and duplicate.
func (h *SurveyHandler) SurveyAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ctx := r.Context()

	var (
		sv     *models.Survey
		err    error
		status = http.StatusOK
	)
	switch r.PathValue("action") {
	case "publish":
		sv, err = h.surveys.Publish(ctx, id)
	case "pause":
		sv, err = h.surveys.Pause(ctx, id)
	case "close":
		sv, err = h.surveys.Close(ctx, id)
	case "duplicate":
		sv, err = h.surveys.Duplicate(ctx, id)
		status = http.StatusCreated
	default:
		middleware.ErrorResponse(w, http.StatusNotFound, "unknown survey action")
		return
	}
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, status, sv)
}

// DeleteSurvey handles DELETE /surveys/{id}
func (h *SurveyHandler) DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	if err := h.surveys.Delete(r.Context(), r.PathValue("id")); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ShareSurvey handles GET /surveys/{id}/share
func (h *SurveyHandler) ShareSurvey(w http.ResponseWriter, r *http.Request) {
	info, err := h.surveys.Share(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, info)
}

// AddTargets handles POST /surveys/{id}/targets
func (h *SurveyHandler) AddTargets(w http.ResponseWriter, r *http.Request) {
	var req models.AddTargetsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	added, err := h.surveys.AddTargets(r.Context(), r.PathValue("id"), req.Targets)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]int{"added": added})
}

// ListTargets handles GET /surveys/{id}/targets
func (h *SurveyHandler) ListTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.surveys.ListTargets(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, targets)
}
