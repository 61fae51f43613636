// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
)

const surveyColumns = `id, title, description, welcome_message, thank_you_message,
	survey_type, client_name, duration_type, start_date, end_date, status,
	unique_slug, has_password, password_hash, max_responses, is_anonymous,
	allow_multiple, allow_editing, show_progress_bar, track_ip, track_location,
	redirect_url, total_responses, completed_responses, total_views,
	created_at, updated_at, published_at, closed_at`

func scanSurvey(row scanner) (*models.Survey, error) {
	var (
		s                                         models.Survey
		startDate, endDate, publishedAt, closedAt sql.NullTime
		passwordHash                              sql.NullString
		maxResponses                              sql.NullInt64
	)
	err := row.Scan(
		&s.ID, &s.Title, &s.Description, &s.WelcomeMessage, &s.ThankYouMessage,
		&s.Type, &s.ClientName, &s.DurationType, &startDate, &endDate, &s.Status,
		&s.Slug, &s.HasPassword, &passwordHash, &maxResponses, &s.IsAnonymous,
		&s.AllowMultiple, &s.AllowEditing, &s.ShowProgressBar, &s.TrackIP, &s.TrackLocation,
		&s.RedirectURL, &s.TotalResponses, &s.CompletedResponses, &s.TotalViews,
		&s.CreatedAt, &s.UpdatedAt, &publishedAt, &closedAt,
	)
	if err != nil {
		return nil, err
	}
	s.StartDate = timePtr(startDate)
	s.EndDate = timePtr(endDate)
	s.PublishedAt = timePtr(publishedAt)
	s.ClosedAt = timePtr(closedAt)
	s.PasswordHash = stringPtr(passwordHash)
	s.MaxResponses = intPtr(maxResponses)
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

func (q *Queries) InsertSurvey(ctx context.Context, s *models.Survey) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO surveys (`+surveyColumns+`)
		VALUES (`+placeholders(1, 29)+`)
	`,
		s.ID, s.Title, s.Description, s.WelcomeMessage, s.ThankYouMessage,
		s.Type, s.ClientName, s.DurationType, nullTime(s.StartDate), nullTime(s.EndDate), s.Status,
		s.Slug, s.HasPassword, nullString(s.PasswordHash), nullInt(s.MaxResponses), s.IsAnonymous,
		s.AllowMultiple, s.AllowEditing, s.ShowProgressBar, s.TrackIP, s.TrackLocation,
		s.RedirectURL, s.TotalResponses, s.CompletedResponses, s.TotalViews,
		s.CreatedAt.UTC(), s.UpdatedAt.UTC(), nullTime(s.PublishedAt), nullTime(s.ClosedAt),
	)
	if err != nil {
		return fail("insert survey", err)
	}
	return nil
}

// GetSurvey returns the survey with the given ID, including soft-deleted ones.
func (q *Queries) GetSurvey(ctx context.Context, id string) (*models.Survey, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+surveyColumns+` FROM surveys WHERE id = $1`, id)
	s, err := scanSurvey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("survey", id)
	}
	if err != nil {
		return nil, fail("get survey", err)
	}
	return s, nil
}

// GetLiveSurvey is GetSurvey with soft-deleted surveys reported as missing.
func (q *Queries) GetLiveSurvey(ctx context.Context, id string) (*models.Survey, error) {
	s, err := q.GetSurvey(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Status == models.StatusDeleted {
		return nil, notFound("survey", id)
	}
	return s, nil
}

// LockSurvey loads a survey and holds a write lock on its row until the
// transaction ends. Postgres uses SELECT ... FOR UPDATE; SQLite takes the
// database write lock with a no-op update.
func (q *Queries) LockSurvey(ctx context.Context, id string) (*models.Survey, error) {
	if q.dialect == db.Postgres {
		row := q.q.QueryRowContext(ctx, `SELECT `+surveyColumns+` FROM surveys WHERE id = $1 FOR UPDATE`, id)
		s, err := scanSurvey(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("survey", id)
		}
		if err != nil {
			return nil, fail("lock survey", err)
		}
		return s, nil
	}

	if _, err := q.q.ExecContext(ctx, `UPDATE surveys SET id = id WHERE id = $1`, id); err != nil {
		return nil, fail("lock survey", err)
	}
	return q.GetSurvey(ctx, id)
}

func (q *Queries) GetSurveyBySlug(ctx context.Context, slug string) (*models.Survey, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT `+surveyColumns+` FROM surveys
		WHERE unique_slug = $1 AND status <> 'deleted'
	`, slug)
	s, err := scanSurvey(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("survey", slug)
	}
	if err != nil {
		return nil, fail("get survey by slug", err)
	}
	return s, nil
}

// SlugExists matches identity.SlugChecker. Deleted surveys keep their slug.
func (q *Queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := q.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM surveys WHERE unique_slug = $1`, slug).Scan(&n)
	if err != nil {
		return false, fail("check slug", err)
	}
	return n > 0, nil
}

// ListSurveys returns non-deleted surveys, newest first.
// An empty surveyType matches both types.
func (q *Queries) ListSurveys(ctx context.Context, surveyType string) ([]models.Survey, error) {
	query := `SELECT ` + surveyColumns + ` FROM surveys WHERE status <> 'deleted'`
	var args []any
	if surveyType != "" {
		query += ` AND survey_type = $1`
		args = append(args, surveyType)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fail("list surveys", err)
	}
	defer rows.Close()

	var surveys []models.Survey
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, fail("scan survey", err)
		}
		surveys = append(surveys, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("list surveys", err)
	}
	return surveys, nil
}

// ListActiveLimited returns active surveys with an end date, the only ones
// the expiry sweep can change.
func (q *Queries) ListActiveLimited(ctx context.Context) ([]models.Survey, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+surveyColumns+` FROM surveys
		WHERE status = 'active' AND duration_type = 'limited' AND end_date IS NOT NULL
	`)
	if err != nil {
		return nil, fail("list active surveys", err)
	}
	defer rows.Close()

	var surveys []models.Survey
	for rows.Next() {
		s, err := scanSurvey(rows)
		if err != nil {
			return nil, fail("scan survey", err)
		}
		surveys = append(surveys, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("list active surveys", err)
	}
	return surveys, nil
}

// UpdateSurvey writes the editable metadata of s.
func (q *Queries) UpdateSurvey(ctx context.Context, s *models.Survey) error {
	res, err := q.q.ExecContext(ctx, `
		UPDATE surveys SET
			title = $2, description = $3, welcome_message = $4, thank_you_message = $5,
			client_name = $6, duration_type = $7, start_date = $8, end_date = $9,
			max_responses = $10, is_anonymous = $11, allow_multiple = $12,
			allow_editing = $13, show_progress_bar = $14, redirect_url = $15,
			updated_at = $16
		WHERE id = $1
	`,
		s.ID, s.Title, s.Description, s.WelcomeMessage, s.ThankYouMessage,
		s.ClientName, s.DurationType, nullTime(s.StartDate), nullTime(s.EndDate),
		nullInt(s.MaxResponses), s.IsAnonymous, s.AllowMultiple,
		s.AllowEditing, s.ShowProgressBar, s.RedirectURL,
		s.UpdatedAt.UTC(),
	)
	return expectOne(res, err, "update survey", "survey", s.ID)
}

// UpdateSurveyStatus writes the lifecycle columns of s.
func (q *Queries) UpdateSurveyStatus(ctx context.Context, s *models.Survey) error {
	res, err := q.q.ExecContext(ctx, `
		UPDATE surveys SET status = $2, published_at = $3, closed_at = $4, updated_at = $5
		WHERE id = $1
	`, s.ID, s.Status, nullTime(s.PublishedAt), nullTime(s.ClosedAt), s.UpdatedAt.UTC())
	return expectOne(res, err, "update survey status", "survey", s.ID)
}

func (q *Queries) IncrementViews(ctx context.Context, id string) error {
	res, err := q.q.ExecContext(ctx, `UPDATE surveys SET total_views = total_views + 1 WHERE id = $1`, id)
	return expectOne(res, err, "record view", "survey", id)
}

// RecomputeCounters sets total_responses and completed_responses from the
// actual row counts.
func (q *Queries) RecomputeCounters(ctx context.Context, surveyID string, now time.Time) error {
	_, err := q.q.ExecContext(ctx, `
		UPDATE surveys SET
			total_responses = (SELECT COUNT(*) FROM survey_responses WHERE survey_id = $1),
			completed_responses = (SELECT COUNT(*) FROM survey_responses WHERE survey_id = $1 AND status = 'completed'),
			updated_at = $2
		WHERE id = $1
	`, surveyID, now.UTC())
	if err != nil {
		return fail("recompute counters", err)
	}
	return nil
}

func expectOne(res sql.Result, err error, op, entity, id string) error {
	if err != nil {
		return fail(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fail(op, err)
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}
