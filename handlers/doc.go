// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Survey API.

# Handler Types

Each handler is a struct over the services it dispatches to:

  - SurveyHandler: survey lifecycle, targets and share links
  - QuestionHandler: question editing and ordering
  - ResponseHandler: public survey page, eligibility, submission and response management
  - AnalyticsHandler: computed analytics for one survey
  - ExportHandler: CSV, spreadsheet, HTML report and summary exports

	surveyHandler := handlers.NewSurveyHandler(surveySvc)

Handlers parse input, call one service operation and map its error with
middleware.WriteError. They hold no business rules.

# Survey Lifecycle

	POST /surveys                → CreateSurvey (draft, returns unique_slug)
	POST /surveys/{id}/publish   → SurveyAction
	POST /surveys/{id}/pause     → SurveyAction
	POST /surveys/{id}/close     → SurveyAction
	POST /surveys/{id}/duplicate → SurveyAction (new draft)
	DELETE /surveys/{id}         → DeleteSurvey (soft)

Edits to an active survey return 409 Conflict.

# Responding

Internal surveys identify the caller by the X-Employee-ID header, which an
upstream gateway sets after authenticating the employee:

	GET  /s/{slug}                 → GetPublicSurvey (counts a view)
	GET  /surveys/{id}/eligibility → CheckEligibility
	POST /surveys/{id}/responses   → SubmitResponse

A refused submission returns 403 with a machine-readable reason:

	{"error": "Forbidden", "message": "...", "reason": "already responded"}

# Exports

Export endpoints take {"survey_ids": [...]} and return an attachment,
except stats which returns JSON.
*/
package handlers
