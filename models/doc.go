// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, input, and response types shared by every layer.

# Domain Types

  - Survey: metadata, feature flags, lifecycle state, and derived counters
  - Question: typed question with validation rules and options
  - TargetEmployee: link between an internal survey and an employee
  - Response: one respondent's submission plus tracking metadata
  - Answer: a single tagged answer value for one question

# Answer Values

AnswerValue is a tagged union. The tag (Kind) is chosen from the question
type by KindFor and stored alongside the answer:

	rating, nps, slider, number        -> number
	yes_no                             -> boolean
	other choice and all text types    -> text
	date                               -> date
	time                               -> time
	file                               -> json

BindAnswer turns loosely typed input (decoded JSON) into a tagged value and
checks it against the question:

	v, err := models.BindAnswer(question, raw)

Multiple-choice picks are stored as one text value joined by ", ".

# Errors

Every service returns one of the error types in errors.go. Each supports
errors.As, and the sentinels support errors.Is:

	ValidationError      -> ErrValidation
	IneligibleError      -> ErrIneligible
	NotFoundError        -> ErrNotFound
	EditingDisabledError -> ErrEditingDisabled
	StateError           -> ErrInvalidState
	PersistenceError     unwraps to the driver error

# Constants

Survey status values:

	StatusDraft, StatusActive, StatusPaused,
	StatusClosed, StatusExpired, StatusDeleted

Survey types:

	SurveyInternal = "internal"
	SurveyExternal = "external"

Response status values:

	ResponseInProgress = "in_progress"
	ResponseCompleted  = "completed"
*/
package models
