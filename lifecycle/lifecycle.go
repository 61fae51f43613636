// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"time"

	"github.com/danielhkuo/quickly-survey/models"
)

// transitions lists the statuses reachable from each status
var transitions = map[string][]string{
	models.StatusDraft:   {models.StatusActive, models.StatusDeleted},
	models.StatusActive:  {models.StatusPaused, models.StatusClosed, models.StatusExpired, models.StatusDeleted},
	models.StatusPaused:  {models.StatusActive, models.StatusClosed, models.StatusDeleted},
	models.StatusExpired: {models.StatusClosed, models.StatusDeleted},
	models.StatusClosed:  {models.StatusDeleted},
	models.StatusDeleted: nil,
}

// IsExpired reports whether a limited survey's end date has passed.
func IsExpired(s *models.Survey, now time.Time) bool {
	if s.DurationType != models.DurationLimited || s.EndDate == nil {
		return false
	}
	return now.After(*s.EndDate)
}

// EffectiveStatus is the status a reader should see: an active survey past
// its end date reads as expired even before the sweep stores it.
func EffectiveStatus(s *models.Survey, now time.Time) string {
	if s.Status == models.StatusActive && IsExpired(s, now) {
		return models.StatusExpired
	}
	return s.Status
}

// NotAcceptingReason returns why a survey refuses responses, or "" if it accepts them.
func NotAcceptingReason(s *models.Survey, now time.Time) models.Reason {
	if EffectiveStatus(s, now) != models.StatusActive {
		return models.ReasonNotAccepting
	}
	if s.StartDate != nil && now.Before(*s.StartDate) {
		return models.ReasonNotAccepting
	}
	if s.MaxResponses != nil && s.TotalResponses >= *s.MaxResponses {
		return models.ReasonLimitReached
	}
	return ""
}

// CanAcceptResponses reports whether a survey currently takes submissions.
func CanAcceptResponses(s *models.Survey, now time.Time) bool {
	return NotAcceptingReason(s, now) == ""
}

// CanTransition reports whether a survey may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition is CanTransition returning a StateError named after action.
func CheckTransition(s *models.Survey, to, action string) error {
	if !CanTransition(s.Status, to) {
		return &models.StateError{Action: action, Status: s.Status}
	}
	return nil
}

// CheckEditable rejects metadata and question edits on active or deleted surveys.
func CheckEditable(s *models.Survey, action string) error {
	if s.Status == models.StatusActive || s.Status == models.StatusDeleted {
		return &models.StateError{Action: action, Status: s.Status}
	}
	return nil
}
