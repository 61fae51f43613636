// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrIneligible      = errors.New("not eligible to respond")
	ErrValidation      = errors.New("validation failed")
	ErrEditingDisabled = errors.New("editing disabled")
	ErrInvalidState    = errors.New("invalid state")
)

// Reason explains why a respondent may not submit.
type Reason string

const (
	ReasonNotAccepting     Reason = "not accepting responses"
	ReasonLimitReached     Reason = "response limit reached"
	ReasonNotTargeted      Reason = "not targeted"
	ReasonAlreadyResponded Reason = "already responded"
	ReasonDuplicateEmail   Reason = "duplicate email"
)

// ValidationError collects every problem found in one request.
type ValidationError struct {
	Problems []string
}

func NewValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// OrNil returns nil when no problems were recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Problems) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type IneligibleError struct {
	Reason  Reason
	Message string
}

func (e *IneligibleError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Reason, e.Message)
	}
	return string(e.Reason)
}

func (e *IneligibleError) Is(target error) bool { return target == ErrIneligible }

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError wraps a storage failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type EditingDisabledError struct {
	ResponseID string
}

func (e *EditingDisabledError) Error() string {
	return fmt.Sprintf("editing is disabled for response %q", e.ResponseID)
}

func (e *EditingDisabledError) Is(target error) bool { return target == ErrEditingDisabled }

// StateError reports an action that the survey's current status forbids.
type StateError struct {
	Action string
	Status string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s a survey in status %q", e.Action, e.Status)
}

func (e *StateError) Is(target error) bool { return target == ErrInvalidState }
