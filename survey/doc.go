// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package survey administers surveys: creation, editing, lifecycle
transitions, questions, and target employees.

# Lifecycle

Every status change goes through one transaction that locks the survey row
and checks lifecycle.CheckTransition:

	draft   -> active (Publish)
	active  -> paused (Pause), closed (Close)
	paused  -> active (Publish), closed (Close)
	expired -> closed (Close)
	any     -> deleted (Delete, soft)

ExpireOverdue stores "expired" on active surveys past their end date. The
scheduler package calls it periodically.

# Editing

Metadata, questions, and targets can only change while a survey is not
active. Question order_index values are kept dense (0..n-1) by every
question operation.

# Usage

	svc := survey.New(st, survey.WithMetrics(m), survey.WithBaseURL(cfg.PublicBaseURL))
	sv, err := svc.Create(ctx, models.CreateSurveyInput{Title: "Pulse", Type: models.SurveyExternal})
	q, err := svc.CreateQuestion(ctx, sv.ID, models.QuestionInput{Type: models.QuestionRating, Text: "How was it?"})
	sv, err = svc.Publish(ctx, sv.ID)
*/
package survey
