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

// InsertTargets links employees to a survey. Employees already linked are skipped.
func (q *Queries) InsertTargets(ctx context.Context, surveyID string, targets []models.TargetInput, now time.Time) (int, error) {
	added := 0
	for _, t := range targets {
		res, err := q.q.ExecContext(ctx, `
			INSERT INTO survey_target_employees (survey_id, employee_id, employee_name, employee_email, has_responded, created_at)
			VALUES ($1, $2, $3, $4, FALSE, $5)
			ON CONFLICT (survey_id, employee_id) DO NOTHING
		`, surveyID, t.EmployeeID, t.EmployeeName, t.EmployeeEmail, now.UTC())
		if err != nil {
			return added, fail("insert target", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}
	return added, nil
}

func scanTarget(row scanner) (*models.TargetEmployee, error) {
	var (
		t           models.TargetEmployee
		respondedAt sql.NullTime
	)
	if err := row.Scan(&t.SurveyID, &t.EmployeeID, &t.EmployeeName, &t.EmployeeEmail, &t.HasResponded, &respondedAt); err != nil {
		return nil, err
	}
	t.RespondedAt = timePtr(respondedAt)
	return &t, nil
}

// GetTarget returns the link between a survey and an employee.
func (q *Queries) GetTarget(ctx context.Context, surveyID, employeeID string) (*models.TargetEmployee, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT survey_id, employee_id, employee_name, employee_email, has_responded, responded_at
		FROM survey_target_employees
		WHERE survey_id = $1 AND employee_id = $2
	`, surveyID, employeeID)
	t, err := scanTarget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("target", employeeID)
	}
	if err != nil {
		return nil, fail("get target", err)
	}
	return t, nil
}

func (q *Queries) ListTargets(ctx context.Context, surveyID string) ([]models.TargetEmployee, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT survey_id, employee_id, employee_name, employee_email, has_responded, responded_at
		FROM survey_target_employees
		WHERE survey_id = $1
		ORDER BY employee_id
	`, surveyID)
	if err != nil {
		return nil, fail("list targets", err)
	}
	defer rows.Close()

	var targets []models.TargetEmployee
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, fail("scan target", err)
		}
		targets = append(targets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("list targets", err)
	}
	return targets, nil
}

// MarkResponded flags the employee's link as answered.
func (q *Queries) MarkResponded(ctx context.Context, surveyID, employeeID string, now time.Time) error {
	_, err := q.q.ExecContext(ctx, `
		UPDATE survey_target_employees SET has_responded = TRUE, responded_at = $3
		WHERE survey_id = $1 AND employee_id = $2
	`, surveyID, employeeID, now.UTC())
	if err != nil {
		return fail("mark target responded", err)
	}
	return nil
}

// ResetRespondedIfNone clears the responded flag once the employee has no
// completed responses left in the survey.
func (q *Queries) ResetRespondedIfNone(ctx context.Context, surveyID, employeeID string) error {
	_, err := q.q.ExecContext(ctx, `
		UPDATE survey_target_employees SET has_responded = FALSE, responded_at = NULL
		WHERE survey_id = $1 AND employee_id = $2
		AND NOT EXISTS (
			SELECT 1 FROM survey_responses
			WHERE survey_id = $1 AND employee_id = $2 AND status = 'completed'
		)
	`, surveyID, employeeID)
	if err != nil {
		return fail("reset target responded", err)
	}
	return nil
}

// EmployeeDirectory maps employee IDs to their denormalized name and email.
func (q *Queries) EmployeeDirectory(ctx context.Context, surveyID string) (map[string]models.TargetEmployee, error) {
	targets, err := q.ListTargets(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	dir := make(map[string]models.TargetEmployee, len(targets))
	for _, t := range targets {
		dir[t.EmployeeID] = t
	}
	return dir, nil
}
