// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-survey/analytics"
	"github.com/danielhkuo/quickly-survey/export"
	"github.com/danielhkuo/quickly-survey/handlers"
	"github.com/danielhkuo/quickly-survey/metrics"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/response"
	"github.com/danielhkuo/quickly-survey/survey"
)

// Deps are the services the routes dispatch to. Metrics may be nil.
type Deps struct {
	Surveys   *survey.Service
	Responses *response.Service
	Analytics *analytics.Service
	Exports   *export.Service
	Metrics   *metrics.Metrics
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	surveyHandler := handlers.NewSurveyHandler(deps.Surveys)
	questionHandler := handlers.NewQuestionHandler(deps.Surveys)
	responseHandler := handlers.NewResponseHandler(deps.Surveys, deps.Responses)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Analytics)
	exportHandler := handlers.NewExportHandler(deps.Exports)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithMetrics(deps.Metrics, pattern, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	// Survey administration
	handle("POST /surveys", surveyHandler.CreateSurvey)
	handle("GET /surveys", surveyHandler.ListSurveys)
	handle("GET /surveys/{id}", surveyHandler.GetSurvey)
	handle("PATCH /surveys/{id}", surveyHandler.UpdateSurvey)
	handle("DELETE /surveys/{id}", surveyHandler.DeleteSurvey)
	handle("POST /surveys/{id}/{action}", surveyHandler.SurveyAction)
	handle("GET /surveys/{id}/share", surveyHandler.ShareSurvey)
	handle("POST /surveys/{id}/targets", surveyHandler.AddTargets)
	handle("GET /surveys/{id}/targets", surveyHandler.ListTargets)

	// Questions
	handle("GET /surveys/{id}/questions", questionHandler.ListQuestions)
	handle("POST /surveys/{id}/questions", questionHandler.CreateQuestion)
	handle("PUT /surveys/{id}/questions/order", questionHandler.ReorderQuestions)
	handle("PUT /questions/{id}", questionHandler.UpdateQuestion)
	handle("DELETE /questions/{id}", questionHandler.DeleteQuestion)

	// Responding (public, keyed by slug or survey ID)
	handle("GET /s/{slug}", responseHandler.GetPublicSurvey)
	handle("GET /surveys/{id}/eligibility", responseHandler.CheckEligibility)
	handle("POST /surveys/{id}/responses", responseHandler.SubmitResponse)

	// Response management
	handle("GET /responses/{id}", responseHandler.GetResponse)
	handle("PUT /responses/{id}", responseHandler.UpdateResponse)
	handle("DELETE /responses/{id}", responseHandler.DeleteResponse)
	handle("POST /responses/delete", responseHandler.DeleteResponses)

	// Analytics and exports
	handle("GET /surveys/{id}/analytics", analyticsHandler.GetAnalytics)
	handle("POST /exports/csv", exportHandler.ExportCSV)
	handle("POST /exports/excel", exportHandler.ExportExcel)
	handle("POST /exports/report", exportHandler.ExportReport)
	handle("POST /exports/stats", exportHandler.ExportStats)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			middleware.ErrorResponse(w, http.StatusNotFound, "not found")
			return
		}
		w.Write([]byte("quickly-survey API v1"))
	})

	return mux
}
