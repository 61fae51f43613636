// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package response

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-survey/identity"
	"github.com/danielhkuo/quickly-survey/lifecycle"
	"github.com/danielhkuo/quickly-survey/metrics"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/store"
)

// Service ingests, edits, and removes survey responses.
type Service struct {
	store   *store.Store
	now     func() time.Time
	ipSalt  string
	metrics *metrics.Metrics
}

type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New returns a Service. ipSalt keys the hash stored for surveys that track
// IP addresses.
func New(st *store.Store, ipSalt string, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now, ipSalt: ipSalt}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// SubmitResponse validates and stores one completed response.
func (s *Service) SubmitResponse(ctx context.Context, sub models.Submission) (*models.Response, error) {
	sv, err := s.store.GetLiveSurvey(ctx, sub.SurveyID)
	if err != nil {
		return nil, err
	}
	questions, err := s.store.ListQuestions(ctx, sv.ID)
	if err != nil {
		return nil, err
	}

	respondent := normalizeRespondent(sub.Respondent)
	verr := &models.ValidationError{}
	if respondent.Email != "" {
		if _, err := mail.ParseAddress(respondent.Email); err != nil {
			verr.Add("respondent_email is not a valid email address")
		}
	}
	if sub.DurationSeconds != nil && *sub.DurationSeconds < 0 {
		verr.Add("duration_seconds must not be negative")
	}
	values, bindErr := bindAnswers(questions, sub.Answers)
	mergeProblems(verr, bindErr)
	if err := verr.OrNil(); err != nil {
		slog.Warn("response rejected", "survey_id", sv.ID, "error", err)
		return nil, err
	}

	if sv.Type == models.SurveyExternal && !sv.AllowMultiple && respondent.Email != "" {
		taken, err := s.store.EmailResponded(ctx, sv.ID, respondent.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			s.reject(sv.ID, models.ReasonDuplicateEmail)
			return nil, ineligible(models.ReasonDuplicateEmail, sv.ID)
		}
	}

	now := s.clock()
	r := s.newResponse(sv, respondent, sub, now)

	err = s.store.WithTx(ctx, func(tx *store.Queries) error {
		locked, err := tx.LockSurvey(ctx, sv.ID)
		if err != nil {
			return err
		}
		if locked.Status == models.StatusDeleted {
			return &models.NotFoundError{Entity: "survey", ID: sv.ID}
		}
		reason, err := eligibility(ctx, tx, locked, respondent.EmployeeID, now)
		if err != nil {
			return err
		}
		if reason != "" {
			return ineligible(reason, sv.ID)
		}

		if err := tx.InsertResponse(ctx, r); err != nil {
			return err
		}
		if err := insertAnswers(ctx, tx, r, values, now); err != nil {
			return err
		}
		if locked.Type == models.SurveyInternal {
			if err := tx.MarkResponded(ctx, sv.ID, respondent.EmployeeID, now); err != nil {
				return err
			}
		}
		return tx.RecomputeCounters(ctx, sv.ID, now)
	})
	if err != nil {
		var ie *models.IneligibleError
		if errors.As(err, &ie) {
			s.reject(sv.ID, ie.Reason)
		} else {
			slog.Error("failed to store response", "survey_id", sv.ID, "error", err)
		}
		return nil, err
	}

	s.metrics.ResponseSubmitted(sv.Type)
	slog.Info("response submitted", "survey_id", sv.ID, "response_id", r.ID, "answers", len(r.Answers))
	return r, nil
}

func (s *Service) reject(surveyID string, reason models.Reason) {
	s.metrics.ResponseRejected(string(reason))
	slog.Warn("response rejected", "survey_id", surveyID, "reason", reason)
}

func (s *Service) newResponse(sv *models.Survey, who models.Respondent, sub models.Submission, now time.Time) *models.Response {
	r := &models.Response{
		ID:              identity.NewID(),
		SurveyID:        sv.ID,
		Status:          models.ResponseCompleted,
		StartedAt:       now,
		CompletedAt:     &now,
		DurationSeconds: sub.DurationSeconds,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	switch {
	case sub.StartedAt != nil && !sub.StartedAt.After(now):
		r.StartedAt = sub.StartedAt.UTC()
		if r.DurationSeconds == nil {
			d := int(now.Sub(r.StartedAt).Round(time.Second) / time.Second)
			r.DurationSeconds = &d
		}
	case sub.DurationSeconds != nil:
		r.StartedAt = now.Add(-time.Duration(*sub.DurationSeconds) * time.Second)
	}

	if sv.Type == models.SurveyInternal {
		r.EmployeeID = optional(who.EmployeeID)
	} else {
		r.RespondentName = optional(who.Name)
		r.RespondentEmail = optional(who.Email)
		r.RespondentPhone = optional(who.Phone)
	}

	c := sub.Client
	if sv.TrackIP && c.IP != "" {
		r.IPHash = optional(identity.HashIP(c.IP, s.ipSalt))
	}
	r.UserAgent = optional(c.UserAgent)
	r.DeviceType = optional(c.DeviceType)
	r.Browser = optional(c.Browser)
	r.OS = optional(c.OS)
	return r
}

// GetResponse returns a response with its answers in question order.
func (s *Service) GetResponse(ctx context.Context, id string) (*models.Response, error) {
	r, err := s.store.GetResponse(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Answers, err = s.store.ListAnswersByResponse(ctx, id)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateResponse replaces every answer of a response. actorID must be the
// employee who submitted it. External responses carry no owner that could
// be proven, so they are never editable.
func (s *Service) UpdateResponse(ctx context.Context, responseID, actorID string, answers []models.AnswerInput) (*models.Response, error) {
	r, err := s.store.GetResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}
	if r.EmployeeID == nil {
		return nil, &models.EditingDisabledError{ResponseID: responseID}
	}
	if *r.EmployeeID != actorID {
		return nil, &models.NotFoundError{Entity: "response", ID: responseID}
	}

	sv, err := s.store.GetLiveSurvey(ctx, r.SurveyID)
	if err != nil {
		return nil, err
	}
	if !sv.AllowEditing {
		return nil, &models.EditingDisabledError{ResponseID: responseID}
	}
	questions, err := s.store.ListQuestions(ctx, sv.ID)
	if err != nil {
		return nil, err
	}
	values, err := bindAnswers(questions, answers)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	err = s.store.WithTx(ctx, func(tx *store.Queries) error {
		locked, err := tx.LockSurvey(ctx, sv.ID)
		if err != nil {
			return err
		}
		if locked.Status == models.StatusDeleted {
			return &models.NotFoundError{Entity: "survey", ID: sv.ID}
		}
		if !locked.AllowEditing {
			return &models.EditingDisabledError{ResponseID: responseID}
		}
		if reason := notAcceptingEdits(locked, now); reason != "" {
			return ineligible(reason, sv.ID)
		}

		if err := tx.DeleteAnswers(ctx, responseID); err != nil {
			return err
		}
		r.Answers = nil
		if err := insertAnswers(ctx, tx, r, values, now); err != nil {
			return err
		}
		if err := tx.TouchResponse(ctx, responseID, now); err != nil {
			return err
		}
		return tx.RecomputeCounters(ctx, sv.ID, now)
	})
	if err != nil {
		slog.Warn("response update failed", "response_id", responseID, "error", err)
		return nil, err
	}

	r.UpdatedAt = now
	slog.Info("response updated", "survey_id", sv.ID, "response_id", responseID, "answers", len(r.Answers))
	return r, nil
}

// DeleteResponse removes one response and its answers.
func (s *Service) DeleteResponse(ctx context.Context, id string) error {
	_, err := s.DeleteResponses(ctx, []string{id})
	return err
}

// DeleteResponses removes responses in one transaction and recomputes the
// counters of every affected survey. Any unknown ID aborts the whole batch.
func (s *Service) DeleteResponses(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, models.NewValidationError("response_ids are required")
	}

	now := s.clock()
	err := s.store.WithTx(ctx, func(tx *store.Queries) error {
		surveys := make(map[string]bool)
		type link struct{ surveyID, employeeID string }
		var links []link

		for _, id := range ids {
			r, err := tx.GetResponse(ctx, id)
			if err != nil {
				return err
			}
			if err := tx.DeleteResponse(ctx, id); err != nil {
				return err
			}
			surveys[r.SurveyID] = true
			if r.EmployeeID != nil {
				links = append(links, link{r.SurveyID, *r.EmployeeID})
			}
		}

		for _, l := range links {
			if err := tx.ResetRespondedIfNone(ctx, l.surveyID, l.employeeID); err != nil {
				return err
			}
		}
		for surveyID := range surveys {
			if err := tx.RecomputeCounters(ctx, surveyID, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Warn("response delete failed", "count", len(ids), "error", err)
		return 0, err
	}

	slog.Info("responses deleted", "count", len(ids))
	return len(ids), nil
}

// notAcceptingEdits blocks edits once a survey stops collecting answers.
// Reaching the response cap does not block editing an existing response.
func notAcceptingEdits(sv *models.Survey, now time.Time) models.Reason {
	reason := lifecycle.NotAcceptingReason(sv, now)
	if reason == models.ReasonLimitReached {
		return ""
	}
	return reason
}

func insertAnswers(ctx context.Context, tx *store.Queries, r *models.Response, values []boundAnswer, now time.Time) error {
	for _, v := range values {
		a := models.Answer{
			ID:         identity.NewID(),
			ResponseID: r.ID,
			QuestionID: v.questionID,
			Value:      v.value,
			CreatedAt:  now,
		}
		if err := tx.InsertAnswer(ctx, &a); err != nil {
			return err
		}
		r.Answers = append(r.Answers, a)
	}
	return nil
}

func normalizeRespondent(r models.Respondent) models.Respondent {
	return models.Respondent{
		EmployeeID: strings.TrimSpace(r.EmployeeID),
		Name:       strings.TrimSpace(r.Name),
		Email:      strings.TrimSpace(r.Email),
		Phone:      strings.TrimSpace(r.Phone),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
