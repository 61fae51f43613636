// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/survey"
)

type QuestionHandler struct {
	surveys *survey.Service
}

func NewQuestionHandler(surveys *survey.Service) *QuestionHandler {
	return &QuestionHandler{surveys: surveys}
}

// ListQuestions handles GET /surveys/{id}/questions
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.surveys.Questions(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, questions)
}

// CreateQuestion handles POST /surveys/{id}/questions
func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	q, err := h.surveys.CreateQuestion(r.Context(), r.PathValue("id"), req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, q)
}

// ReorderQuestions handles PUT /surveys/{id}/questions/order
func (h *QuestionHandler) ReorderQuestions(w http.ResponseWriter, r *http.Request) {
	var req models.ReorderQuestionsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	questions, err := h.surveys.ReorderQuestions(r.Context(), r.PathValue("id"), req.QuestionIDs)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, questions)
}

// UpdateQuestion handles PUT /questions/{id}
func (h *QuestionHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.QuestionInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	q, err := h.surveys.UpdateQuestion(r.Context(), r.PathValue("id"), req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, q)
}

// DeleteQuestion handles DELETE /questions/{id}
func (h *QuestionHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.surveys.DeleteQuestion(r.Context(), r.PathValue("id")); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
