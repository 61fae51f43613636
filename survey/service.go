// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/identity"
	"github.com/danielhkuo/quickly-survey/lifecycle"
	"github.com/danielhkuo/quickly-survey/metrics"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/store"
)

const maxTitleLen = 255

// slugAttempts bounds retries when a concurrent create takes the same slug
const slugAttempts = 3

// Service administers surveys, their questions, and their target employees.
type Service struct {
	store   *store.Store
	now     func() time.Time
	metrics *metrics.Metrics
	baseURL string
}

type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithBaseURL sets the prefix used to build public survey links.
func WithBaseURL(base string) Option {
	return func(s *Service) { s.baseURL = strings.TrimRight(base, "/") }
}

func New(st *store.Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// Create validates the input and stores a draft survey with its targets.
func (s *Service) Create(ctx context.Context, in models.CreateSurveyInput) (*models.Survey, error) {
	verr := &models.ValidationError{}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		verr.Add("title is required")
	} else if len(title) > maxTitleLen {
		verr.Add("title must be at most %d characters", maxTitleLen)
	}
	if in.Type != models.SurveyInternal && in.Type != models.SurveyExternal {
		verr.Add("survey_type must be internal or external")
	}
	durationType := in.DurationType
	if durationType == "" {
		durationType = models.DurationUnlimited
	}
	validateSchedule(verr, durationType, in.StartDate, in.EndDate)
	if in.MaxResponses != nil && *in.MaxResponses < 1 {
		verr.Add("max_responses must be at least 1")
	}
	validateRedirect(verr, in.RedirectURL)
	if in.Type == models.SurveyExternal && len(in.Targets) > 0 {
		verr.Add("targets are only allowed on internal surveys")
	}
	validateTargets(verr, in.Targets)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	now := s.clock()
	sv := &models.Survey{
		Title:           title,
		Description:     in.Description,
		WelcomeMessage:  in.WelcomeMessage,
		ThankYouMessage: in.ThankYouMessage,
		Type:            in.Type,
		ClientName:      in.ClientName,
		DurationType:    durationType,
		StartDate:       utcPtr(in.StartDate),
		EndDate:         utcPtr(in.EndDate),
		Status:          models.StatusDraft,
		HasPassword:     in.HasPassword,
		PasswordHash:    in.PasswordHash,
		MaxResponses:    in.MaxResponses,
		IsAnonymous:     in.IsAnonymous,
		AllowMultiple:   in.AllowMultiple,
		AllowEditing:    in.AllowEditing,
		ShowProgressBar: in.ShowProgressBar == nil || *in.ShowProgressBar,
		TrackIP:         in.TrackIP,
		TrackLocation:   in.TrackLocation,
		RedirectURL:     strings.TrimSpace(in.RedirectURL),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.insertWithSlug(ctx, sv, title, func(tx *store.Queries) error {
		if sv.Type != models.SurveyInternal || len(in.Targets) == 0 {
			return nil
		}
		_, err := tx.InsertTargets(ctx, sv.ID, in.Targets, sv.CreatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("survey created", "survey_id", sv.ID, "slug", sv.Slug, "type", sv.Type, "targets", len(in.Targets))
	return sv, nil
}

// insertWithSlug assigns an ID and slug and inserts sv, then runs fill in the
// same transaction for rows that hang off the survey. A slug taken between
// the check and the insert is retried.
func (s *Service) insertWithSlug(ctx context.Context, sv *models.Survey, slugSource string, fill func(tx *store.Queries) error) error {
	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		sv.ID = identity.NewID()
		sv.Slug, err = identity.GenerateUniqueSlug(ctx, slugSource, s.store.SlugExists)
		if err != nil {
			return &models.PersistenceError{Op: "generate slug", Err: err}
		}

		err = s.store.WithTx(ctx, func(tx *store.Queries) error {
			if err := tx.InsertSurvey(ctx, sv); err != nil {
				return err
			}
			if fill == nil {
				return nil
			}
			return fill(tx)
		})
		if err == nil || !db.IsUniqueViolation(err) {
			break
		}
		slog.Warn("slug collision on insert, retrying", "slug", sv.Slug, "attempt", attempt+1)
	}
	if err != nil {
		slog.Error("failed to insert survey", "error", err)
	}
	return err
}

// Get returns a survey by ID. Deleted surveys are reported as not found.
func (s *Service) Get(ctx context.Context, id string) (*models.Survey, error) {
	return s.store.GetLiveSurvey(ctx, id)
}

// GetBySlug returns a non-deleted survey by its public slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Survey, error) {
	return s.store.GetSurveyBySlug(ctx, slug)
}

// List returns non-deleted surveys with their effective status.
// filter.Status matches the effective status, so "expired" includes active
// surveys whose end date has passed.
func (s *Service) List(ctx context.Context, filter models.ListFilter) ([]models.SurveySummary, error) {
	surveys, err := s.store.ListSurveys(ctx, filter.Type)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	out := make([]models.SurveySummary, 0, len(surveys))
	for i := range surveys {
		eff := lifecycle.EffectiveStatus(&surveys[i], now)
		if filter.Status != "" && eff != filter.Status {
			continue
		}
		out = append(out, models.SurveySummary{Survey: surveys[i], EffectiveStatus: eff})
	}
	return out, nil
}

// Update applies a partial metadata update. Active surveys must be paused first.
func (s *Service) Update(ctx context.Context, id string, in models.UpdateSurveyInput) (*models.Survey, error) {
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
		if err := lifecycle.CheckEditable(sv, "edit"); err != nil {
			return err
		}

		if err := applyUpdate(sv, in); err != nil {
			return err
		}
		sv.UpdatedAt = s.clock()
		return tx.UpdateSurvey(ctx, sv)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("survey updated", "survey_id", id)
	return sv, nil
}

func applyUpdate(sv *models.Survey, in models.UpdateSurveyInput) error {
	verr := &models.ValidationError{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			verr.Add("title cannot be empty")
		} else if len(title) > maxTitleLen {
			verr.Add("title must be at most %d characters", maxTitleLen)
		}
		sv.Title = title
	}
	setString(&sv.Description, in.Description)
	setString(&sv.WelcomeMessage, in.WelcomeMessage)
	setString(&sv.ThankYouMessage, in.ThankYouMessage)
	setString(&sv.ClientName, in.ClientName)
	setString(&sv.DurationType, in.DurationType)
	if in.StartDate != nil {
		sv.StartDate = utcPtr(in.StartDate)
	}
	if in.EndDate != nil {
		sv.EndDate = utcPtr(in.EndDate)
	}
	if in.MaxResponses != nil {
		if *in.MaxResponses < 1 {
			verr.Add("max_responses must be at least 1")
		}
		sv.MaxResponses = in.MaxResponses
	}
	setBool(&sv.IsAnonymous, in.IsAnonymous)
	setBool(&sv.AllowMultiple, in.AllowMultiple)
	setBool(&sv.AllowEditing, in.AllowEditing)
	setBool(&sv.ShowProgressBar, in.ShowProgressBar)
	if in.RedirectURL != nil {
		sv.RedirectURL = strings.TrimSpace(*in.RedirectURL)
		validateRedirect(verr, sv.RedirectURL)
	}
	if sv.DurationType != models.DurationLimited && sv.DurationType != models.DurationUnlimited {
		verr.Add("duration_type must be limited or unlimited")
	} else {
		validateSchedule(verr, sv.DurationType, sv.StartDate, sv.EndDate)
	}
	return verr.OrNil()
}

// ShareInfo is what an admin needs to distribute a survey.
type ShareInfo struct {
	PublicURL   string `json:"public_url"`
	EmbedCode   string `json:"embed_code"`
	HasPassword bool   `json:"has_password"`
}

// Share builds the public link and embed snippet for a survey.
func (s *Service) Share(ctx context.Context, id string) (*ShareInfo, error) {
	sv, err := s.store.GetLiveSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	link := s.baseURL + "/s/" + url.PathEscape(sv.Slug)
	return &ShareInfo{
		PublicURL:   link,
		EmbedCode:   `<iframe src="` + link + `" width="100%" height="600" frameborder="0"></iframe>`,
		HasPassword: sv.HasPassword,
	}, nil
}

func validateSchedule(verr *models.ValidationError, durationType string, start, end *time.Time) {
	switch durationType {
	case models.DurationLimited:
		if end == nil {
			verr.Add("end_date is required for limited surveys")
		}
	case models.DurationUnlimited:
	default:
		verr.Add("duration_type must be limited or unlimited")
	}
	if start != nil && end != nil && !end.After(*start) {
		verr.Add("end_date must be after start_date")
	}
}

func validateRedirect(verr *models.ValidationError, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		verr.Add("redirect_url must be an absolute http(s) URL")
	}
}

func validateTargets(verr *models.ValidationError, targets []models.TargetInput) {
	for i, t := range targets {
		if strings.TrimSpace(t.EmployeeID) == "" {
			verr.Add("targets[%d]: employee_id is required", i)
		}
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
