// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"log/slog"
	"strings"

	"github.com/danielhkuo/quickly-survey/lifecycle"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/store"
)

// AddTargets links more employees to an internal survey and returns how
// many were new.
func (s *Service) AddTargets(ctx context.Context, surveyID string, targets []models.TargetInput) (int, error) {
	verr := &models.ValidationError{}
	if len(targets) == 0 {
		verr.Add("targets are required")
	}
	validateTargets(verr, targets)
	if err := verr.OrNil(); err != nil {
		return 0, err
	}
	for i := range targets {
		targets[i].EmployeeID = strings.TrimSpace(targets[i].EmployeeID)
	}

	added := 0
	err := s.store.WithTx(ctx, func(tx *store.Queries) error {
		sv, err := tx.LockSurvey(ctx, surveyID)
		if err != nil {
			return err
		}
		if sv.Status == models.StatusDeleted {
			return &models.NotFoundError{Entity: "survey", ID: surveyID}
		}
		if sv.Type != models.SurveyInternal {
			return models.NewValidationError("targets are only allowed on internal surveys")
		}
		if err := lifecycle.CheckEditable(sv, "add targets to"); err != nil {
			return err
		}
		added, err = tx.InsertTargets(ctx, surveyID, targets, s.clock())
		return err
	})
	if err != nil {
		return 0, err
	}

	slog.Info("targets added", "survey_id", surveyID, "added", added)
	return added, nil
}

func (s *Service) ListTargets(ctx context.Context, surveyID string) ([]models.TargetEmployee, error) {
	if _, err := s.store.GetLiveSurvey(ctx, surveyID); err != nil {
		return nil, err
	}
	return s.store.ListTargets(ctx, surveyID)
}
