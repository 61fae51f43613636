// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/response"
	"github.com/danielhkuo/quickly-survey/survey"
)

type ResponseHandler struct {
	surveys   *survey.Service
	responses *response.Service
}

func NewResponseHandler(surveys *survey.Service, responses *response.Service) *ResponseHandler {
	return &ResponseHandler{surveys: surveys, responses: responses}
}

// GetPublicSurvey handles GET /s/{slug}
// Drafts are not public yet and read as not found.
func (h *ResponseHandler) GetPublicSurvey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("slug")

	sv, err := h.surveys.GetBySlug(ctx, slug)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if sv.Status == models.StatusDraft {
		middleware.WriteError(w, &models.NotFoundError{Entity: "survey", ID: slug})
		return
	}

	questions, err := h.surveys.Questions(ctx, sv.ID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	if err := h.surveys.RecordView(ctx, sv.ID); err != nil {
		// a lost view count should not fail the page
		slog.Warn("failed to record view", "survey_id", sv.ID, "error", err)
	} else {
		sv.TotalViews++
	}

	middleware.JSONResponse(w, http.StatusOK, models.PublicSurvey{
		Survey:    *sv,
		Questions: questions,
	})
}

// CheckEligibility handles GET /surveys/{id}/eligibility
func (h *ResponseHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	result, err := h.responses.CanUserRespond(r.Context(), r.PathValue("id"), middleware.EmployeeID(r))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

// SubmitResponse handles POST /surveys/{id}/responses
func (h *ResponseHandler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	respondent := req.Respondent
	respondent.EmployeeID = middleware.EmployeeID(r)

	ctx := r.Context()
	resp, err := h.responses.SubmitResponse(ctx, models.Submission{
		SurveyID:        r.PathValue("id"),
		Respondent:      respondent,
		Client:          middleware.ClientInfo(r),
		StartedAt:       req.StartedAt,
		DurationSeconds: req.DurationSeconds,
		Answers:         req.Answers,
	})
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	out := models.SubmitResponseResponse{ResponseID: resp.ID}
	if sv, err := h.surveys.Get(ctx, resp.SurveyID); err == nil {
		out.ThankYouMessage = sv.ThankYouMessage
		out.RedirectURL = sv.RedirectURL
	}
	middleware.JSONResponse(w, http.StatusCreated, out)
}

// GetResponse handles GET /responses/{id}
func (h *ResponseHandler) GetResponse(w http.ResponseWriter, r *http.Request) {
	resp, err := h.responses.GetResponse(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// UpdateResponse handles PUT /responses/{id}
func (h *ResponseHandler) UpdateResponse(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	resp, err := h.responses.UpdateResponse(r.Context(), r.PathValue("id"), middleware.EmployeeID(r), req.Answers)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// DeleteResponse handles DELETE /responses/{id}
func (h *ResponseHandler) DeleteResponse(w http.ResponseWriter, r *http.Request) {
	if err := h.responses.DeleteResponse(r.Context(), r.PathValue("id")); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteResponses handles POST /responses/delete
func (h *ResponseHandler) DeleteResponses(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteResponsesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	n, err := h.responses.DeleteResponses(r.Context(), req.ResponseIDs)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, map[string]int{"deleted": n})
}
