// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package response

import (
	"context"
	"errors"
	"time"

	"github.com/danielhkuo/quickly-survey/lifecycle"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/store"
)

// CanUserRespond reports whether actorID may submit to the survey right now.
// actorID is the employee ID for internal surveys and ignored otherwise.
func (s *Service) CanUserRespond(ctx context.Context, surveyID, actorID string) (models.Eligibility, error) {
	sv, err := s.store.GetLiveSurvey(ctx, surveyID)
	if err != nil {
		return models.Eligibility{}, err
	}
	reason, err := eligibility(ctx, s.store.Queries, sv, actorID, s.clock())
	if err != nil {
		return models.Eligibility{}, err
	}
	return models.Eligibility{Allowed: reason == "", Reason: reason}, nil
}

// eligibility returns the reason actorID may not respond, or "" if they may.
func eligibility(ctx context.Context, q *store.Queries, sv *models.Survey, actorID string, now time.Time) (models.Reason, error) {
	if reason := lifecycle.NotAcceptingReason(sv, now); reason != "" {
		return reason, nil
	}
	if sv.Type != models.SurveyInternal {
		return "", nil
	}

	if actorID == "" {
		return models.ReasonNotTargeted, nil
	}
	target, err := q.GetTarget(ctx, sv.ID, actorID)
	if errors.Is(err, models.ErrNotFound) {
		return models.ReasonNotTargeted, nil
	}
	if err != nil {
		return "", err
	}
	if !sv.AllowMultiple && target.HasResponded {
		return models.ReasonAlreadyResponded, nil
	}
	return "", nil
}

func ineligible(reason models.Reason, surveyID string) error {
	return &models.IneligibleError{Reason: reason, Message: "survey " + surveyID}
}
