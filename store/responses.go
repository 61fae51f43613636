// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/danielhkuo/quickly-survey/models"
)

const responseColumns = `id, survey_id, employee_id, respondent_name, respondent_email,
	respondent_phone, status, started_at, completed_at, duration_seconds, ip_hash,
	user_agent, device_type, browser, os, created_at, updated_at`

func scanResponse(row scanner) (*models.Response, error) {
	var (
		r                                  models.Response
		employeeID, name, email, phone     sql.NullString
		ipHash, userAgent, device, browser sql.NullString
		osName                             sql.NullString
		completedAt                        sql.NullTime
		duration                           sql.NullInt64
	)
	err := row.Scan(
		&r.ID, &r.SurveyID, &employeeID, &name, &email,
		&phone, &r.Status, &r.StartedAt, &completedAt, &duration, &ipHash,
		&userAgent, &device, &browser, &osName, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.EmployeeID = stringPtr(employeeID)
	r.RespondentName = stringPtr(name)
	r.RespondentEmail = stringPtr(email)
	r.RespondentPhone = stringPtr(phone)
	r.IPHash = stringPtr(ipHash)
	r.UserAgent = stringPtr(userAgent)
	r.DeviceType = stringPtr(device)
	r.Browser = stringPtr(browser)
	r.OS = stringPtr(osName)
	r.CompletedAt = timePtr(completedAt)
	r.DurationSeconds = intPtr(duration)
	r.StartedAt = r.StartedAt.UTC()
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return &r, nil
}

func (q *Queries) InsertResponse(ctx context.Context, r *models.Response) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO survey_responses (`+responseColumns+`)
		VALUES (`+placeholders(1, 17)+`)
	`,
		r.ID, r.SurveyID, nullString(r.EmployeeID), nullString(r.RespondentName), nullString(r.RespondentEmail),
		nullString(r.RespondentPhone), r.Status, r.StartedAt.UTC(), nullTime(r.CompletedAt), nullInt(r.DurationSeconds), nullString(r.IPHash),
		nullString(r.UserAgent), nullString(r.DeviceType), nullString(r.Browser), nullString(r.OS), r.CreatedAt.UTC(), r.UpdatedAt.UTC(),
	)
	if err != nil {
		return fail("insert response", err)
	}
	return nil
}

func (q *Queries) GetResponse(ctx context.Context, id string) (*models.Response, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+responseColumns+` FROM survey_responses WHERE id = $1`, id)
	r, err := scanResponse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("response", id)
	}
	if err != nil {
		return nil, fail("get response", err)
	}
	return r, nil
}

// ListResponses returns every response of a survey. With completedOnly set
// only completed responses are returned, newest completion first.
func (q *Queries) ListResponses(ctx context.Context, surveyID string, completedOnly bool) ([]models.Response, error) {
	query := `SELECT ` + responseColumns + ` FROM survey_responses WHERE survey_id = $1`
	if completedOnly {
		query += ` AND status = 'completed' ORDER BY completed_at DESC, id`
	} else {
		query += ` ORDER BY created_at DESC, id`
	}

	rows, err := q.q.QueryContext(ctx, query, surveyID)
	if err != nil {
		return nil, fail("list responses", err)
	}
	defer rows.Close()

	var responses []models.Response
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, fail("scan response", err)
		}
		responses = append(responses, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("list responses", err)
	}
	return responses, nil
}

// EmailResponded reports whether a completed response with this email
// already exists in the survey. Comparison ignores case.
func (q *Queries) EmailResponded(ctx context.Context, surveyID, email string) (bool, error) {
	var n int
	err := q.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM survey_responses
		WHERE survey_id = $1 AND LOWER(respondent_email) = LOWER($2)
		  AND status = 'completed'
	`, surveyID, email).Scan(&n)
	if err != nil {
		return false, fail("check duplicate email", err)
	}
	return n > 0, nil
}

func (q *Queries) TouchResponse(ctx context.Context, id string, now time.Time) error {
	res, err := q.q.ExecContext(ctx, `UPDATE survey_responses SET updated_at = $2 WHERE id = $1`, id, now.UTC())
	return expectOne(res, err, "touch response", "response", id)
}

// DeleteResponse removes a response and its answers.
func (q *Queries) DeleteResponse(ctx context.Context, id string) error {
	if err := q.DeleteAnswers(ctx, id); err != nil {
		return err
	}
	res, err := q.q.ExecContext(ctx, `DELETE FROM survey_responses WHERE id = $1`, id)
	return expectOne(res, err, "delete response", "response", id)
}
