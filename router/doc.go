// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Survey API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{
		Surveys:   surveySvc,
		Responses: responseSvc,
		Analytics: analyticsSvc,
		Exports:   exportSvc,
		Metrics:   m,
	})

Every API route is wrapped with request logging and, when Metrics is set,
per-pattern request counters and latency histograms.

# Endpoints

Health and metrics:

	GET /health
	GET /metrics   - Prometheus exposition (only when metrics are enabled)

Survey administration:

	POST   /surveys                  - Create survey (draft)
	GET    /surveys?status=&type=    - List surveys
	GET    /surveys/{id}             - Survey details
	PATCH  /surveys/{id}             - Update draft or paused survey
	DELETE /surveys/{id}             - Soft delete
	POST   /surveys/{id}/publish     - Publish
	POST   /surveys/{id}/pause       - Pause
	POST   /surveys/{id}/close       - Close
	POST   /surveys/{id}/duplicate   - Copy into a new draft
	GET    /surveys/{id}/share       - Public link
	POST   /surveys/{id}/targets     - Add targeted employees
	GET    /surveys/{id}/targets     - List targeted employees

Questions:

	GET    /surveys/{id}/questions        - Ordered questions
	POST   /surveys/{id}/questions        - Add question
	PUT    /surveys/{id}/questions/order  - Reorder
	PUT    /questions/{id}                - Update question
	DELETE /questions/{id}                - Delete question

Responding (identity from the X-Employee-ID header for internal surveys):

	GET  /s/{slug}                   - Public survey with questions
	GET  /surveys/{id}/eligibility   - Can the caller respond
	POST /surveys/{id}/responses     - Submit a response

Responses:

	GET    /responses/{id}     - Response with answers
	PUT    /responses/{id}     - Edit answers
	DELETE /responses/{id}     - Delete
	POST   /responses/delete   - Delete a batch

Analytics and exports (exports take {"survey_ids": [...]}):

	GET  /surveys/{id}/analytics
	POST /exports/csv
	POST /exports/excel
	POST /exports/report
	POST /exports/stats
*/
package router
