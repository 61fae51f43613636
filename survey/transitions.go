// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/quickly-survey/identity"
	"github.com/danielhkuo/quickly-survey/lifecycle"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/store"
)

// Publish moves a draft survey to active, or resumes a paused one.
// A draft needs at least one question and an end date still in the future.
func (s *Service) Publish(ctx context.Context, id string) (*models.Survey, error) {
	return s.transition(ctx, id, models.StatusActive, "publish", func(tx *store.Queries, sv *models.Survey) error {
		now := s.clock()
		if lifecycle.IsExpired(sv, now) {
			return models.NewValidationError("end_date has already passed")
		}
		if sv.Status == models.StatusDraft {
			questions, err := tx.ListQuestions(ctx, sv.ID)
			if err != nil {
				return err
			}
			if len(questions) == 0 {
				return models.NewValidationError("survey must have at least one question")
			}
		}
		if sv.PublishedAt == nil {
			sv.PublishedAt = &now
		}
		return nil
	})
}

func (s *Service) Pause(ctx context.Context, id string) (*models.Survey, error) {
	return s.transition(ctx, id, models.StatusPaused, "pause", nil)
}

// Close ends a survey for good; only deletion can follow.
func (s *Service) Close(ctx context.Context, id string) (*models.Survey, error) {
	return s.transition(ctx, id, models.StatusClosed, "close", func(_ *store.Queries, sv *models.Survey) error {
		now := s.clock()
		sv.ClosedAt = &now
		return nil
	})
}

// Delete soft-deletes a survey. Its responses stay in place.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.transition(ctx, id, models.StatusDeleted, "delete", nil)
	return err
}

// transition locks the survey, checks the state machine, runs prepare, and
// stores the new status.
func (s *Service) transition(ctx context.Context, id, to, action string, prepare func(*store.Queries, *models.Survey) error) (*models.Survey, error) {
	var sv *models.Survey
	err := s.store.WithTx(ctx, func(tx *store.Queries) error {
		var err error
		sv, err = tx.LockSurvey(ctx, id)
		if err != nil {
			return err
		}
		if sv.Status == models.StatusDeleted {
			return &models.NotFoundError{Entity: "survey", ID: id}
		}
		if err := lifecycle.CheckTransition(sv, to, action); err != nil {
			return err
		}
		if prepare != nil {
			if err := prepare(tx, sv); err != nil {
				return err
			}
		}
		sv.Status = to
		sv.UpdatedAt = s.clock()
		return tx.UpdateSurveyStatus(ctx, sv)
	})
	if err != nil {
		slog.Warn("survey transition rejected", "survey_id", id, "action", action, "error", err)
		return nil, err
	}

	s.metrics.Transition(to)
	slog.Info("survey "+pastTense(action), "survey_id", id, "status", to)
	return sv, nil
}

func pastTense(action string) string {
	switch action {
	case "publish":
		return "published"
	case "pause":
		return "paused"
	case "close":
		return "closed"
	case "delete":
		return "deleted"
	}
	return action
}

// Duplicate copies a survey and its questions into a new draft.
// Counters, targets, schedule and password are not copied.
func (s *Service) Duplicate(ctx context.Context, id string) (*models.Survey, error) {
	orig, err := s.store.GetLiveSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	questions, err := s.store.ListQuestions(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	copySurvey := &models.Survey{
		Title:           orig.Title + " (Copy)",
		Description:     orig.Description,
		WelcomeMessage:  orig.WelcomeMessage,
		ThankYouMessage: orig.ThankYouMessage,
		Type:            orig.Type,
		ClientName:      orig.ClientName,
		DurationType:    models.DurationUnlimited, // dates are not copied
		Status:          models.StatusDraft,
		MaxResponses:    orig.MaxResponses,
		IsAnonymous:     orig.IsAnonymous,
		AllowMultiple:   orig.AllowMultiple,
		AllowEditing:    orig.AllowEditing,
		ShowProgressBar: orig.ShowProgressBar,
		TrackIP:         orig.TrackIP,
		TrackLocation:   orig.TrackLocation,
		RedirectURL:     orig.RedirectURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = s.insertWithSlug(ctx, copySurvey, orig.Title+" Copy", func(tx *store.Queries) error {
		for _, q := range questions {
			q.ID = identity.NewID()
			q.SurveyID = copySurvey.ID
			q.CreatedAt = now
			q.UpdatedAt = now
			if err := tx.InsertQuestion(ctx, &q); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("survey duplicated", "from", id, "survey_id", copySurvey.ID, "questions", len(questions))
	return copySurvey, nil
}

// ExpireOverdue stores the expired status on every active survey whose end
// date has passed and returns how many changed. Reads already see these
// surveys as expired through EffectiveStatus.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.clock()
	expired := 0

	err := s.store.WithTx(ctx, func(tx *store.Queries) error {
		candidates, err := tx.ListActiveLimited(ctx)
		if err != nil {
			return err
		}
		for i := range candidates {
			sv := &candidates[i]
			if !lifecycle.IsExpired(sv, now) {
				continue
			}
			sv.Status = models.StatusExpired
			sv.UpdatedAt = now
			if err := tx.UpdateSurveyStatus(ctx, sv); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	if err != nil {
		slog.Error("expiry sweep failed", "error", err)
		return 0, err
	}

	if expired > 0 {
		s.metrics.Expired(expired)
		slog.Info("surveys expired", "count", expired)
	}
	return expired, nil
}

// RecordView counts one view of a survey's public page.
func (s *Service) RecordView(ctx context.Context, id string) error {
	return s.store.IncrementViews(ctx, id)
}
