// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-survey/models"
)

const answerColumns = `a.id, a.response_id, a.question_id, a.value_kind, a.answer_text,
	a.answer_number, a.answer_boolean, a.answer_date, a.answer_time, a.answer_json, a.created_at`

// valueColumns spreads a tagged value over the answer_* columns.
// Exactly one column is non-null and value_kind names it.
func valueColumns(v models.AnswerValue) (text, number, boolean, date, clock, raw any, err error) {
	switch v.Kind {
	case models.KindText:
		text = v.Text
	case models.KindNumber:
		number = v.Number
	case models.KindBoolean:
		boolean = v.Bool
	case models.KindDate:
		date = v.Date.Format(models.DateLayout)
	case models.KindTime:
		clock = v.Time
	case models.KindJSON:
		raw = string(v.JSON)
	default:
		err = fmt.Errorf("unknown answer kind %q", v.Kind)
	}
	return
}

func scanAnswer(row scanner) (*models.Answer, error) {
	var (
		a                      models.Answer
		kind                   string
		text, date, clock, raw sql.NullString
		number                 sql.NullFloat64
		boolean                sql.NullBool
	)
	err := row.Scan(&a.ID, &a.ResponseID, &a.QuestionID, &kind, &text,
		&number, &boolean, &date, &clock, &raw, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()

	missing := func() error {
		return fmt.Errorf("answer %s: %s value is missing", a.ID, kind)
	}
	switch models.ValueKind(kind) {
	case models.KindText:
		if !text.Valid {
			return nil, missing()
		}
		a.Value = models.TextValue(text.String)
	case models.KindNumber:
		if !number.Valid {
			return nil, missing()
		}
		a.Value = models.NumberValue(number.Float64)
	case models.KindBoolean:
		if !boolean.Valid {
			return nil, missing()
		}
		a.Value = models.BoolValue(boolean.Bool)
	case models.KindDate:
		if !date.Valid {
			return nil, missing()
		}
		d, err := time.Parse(models.DateLayout, date.String)
		if err != nil {
			return nil, fmt.Errorf("answer %s: %w", a.ID, err)
		}
		a.Value = models.DateValue(d)
	case models.KindTime:
		if !clock.Valid {
			return nil, missing()
		}
		a.Value = models.TimeValue(clock.String)
	case models.KindJSON:
		if !raw.Valid || !json.Valid([]byte(raw.String)) {
			return nil, missing()
		}
		a.Value = models.JSONValue([]byte(raw.String))
	default:
		return nil, fmt.Errorf("answer %s: unknown kind %q", a.ID, kind)
	}
	return &a, nil
}

func (q *Queries) InsertAnswer(ctx context.Context, a *models.Answer) error {
	text, number, boolean, date, clock, raw, err := valueColumns(a.Value)
	if err != nil {
		return fail("encode answer", err)
	}
	_, err = q.q.ExecContext(ctx, `
		INSERT INTO survey_answers (id, response_id, question_id, value_kind, answer_text,
			answer_number, answer_boolean, answer_date, answer_time, answer_json, created_at)
		VALUES (`+placeholders(1, 11)+`)
	`, a.ID, a.ResponseID, a.QuestionID, string(a.Value.Kind), text,
		number, boolean, date, clock, raw, a.CreatedAt.UTC())
	if err != nil {
		return fail("insert answer", err)
	}
	return nil
}

func (q *Queries) DeleteAnswers(ctx context.Context, responseID string) error {
	if _, err := q.q.ExecContext(ctx, `DELETE FROM survey_answers WHERE response_id = $1`, responseID); err != nil {
		return fail("delete answers", err)
	}
	return nil
}

// ListAnswersByResponse returns a response's answers in question order.
func (q *Queries) ListAnswersByResponse(ctx context.Context, responseID string) ([]models.Answer, error) {
	return q.listAnswers(ctx, "list answers", `
		SELECT `+answerColumns+`
		FROM survey_answers a
		JOIN survey_questions qn ON qn.id = a.question_id
		WHERE a.response_id = $1
		ORDER BY qn.order_index, a.id
	`, responseID)
}

// ListCompletedAnswers returns every answer on a survey's completed
// responses in a single query.
func (q *Queries) ListCompletedAnswers(ctx context.Context, surveyID string) ([]models.Answer, error) {
	return q.listAnswers(ctx, "list survey answers", `
		SELECT `+answerColumns+`
		FROM survey_answers a
		JOIN survey_responses r ON r.id = a.response_id
		WHERE r.survey_id = $1 AND r.status = 'completed'
		ORDER BY r.completed_at DESC, a.response_id, a.question_id
	`, surveyID)
}

func (q *Queries) listAnswers(ctx context.Context, op, query string, args ...any) ([]models.Answer, error) {
	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fail(op, err)
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fail("scan answer", err)
		}
		answers = append(answers, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fail(op, err)
	}
	return answers, nil
}

func (q *Queries) CountAnswers(ctx context.Context, questionID string) (int, error) {
	var n int
	err := q.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM survey_answers WHERE question_id = $1`, questionID).Scan(&n)
	if err != nil {
		return 0, fail("count answers", err)
	}
	return n, nil
}
