// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-survey/models"
)

const questionColumns = `id, survey_id, question_type, question_text, description,
	is_required, order_index, validation_rules, options, created_at, updated_at`

func scanQuestion(row scanner) (*models.Question, error) {
	var (
		qn             models.Question
		rules, options string
	)
	err := row.Scan(
		&qn.ID, &qn.SurveyID, &qn.Type, &qn.Text, &qn.Description,
		&qn.Required, &qn.OrderIndex, &rules, &options, &qn.CreatedAt, &qn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(rules), &qn.Rules); err != nil {
		return nil, fmt.Errorf("question %s: decode validation rules: %w", qn.ID, err)
	}
	if err := json.Unmarshal([]byte(options), &qn.Options); err != nil {
		return nil, fmt.Errorf("question %s: decode options: %w", qn.ID, err)
	}
	qn.CreatedAt = qn.CreatedAt.UTC()
	qn.UpdatedAt = qn.UpdatedAt.UTC()
	return &qn, nil
}

func encodeQuestionJSON(qn *models.Question) (string, string, error) {
	rules, err := json.Marshal(qn.Rules)
	if err != nil {
		return "", "", err
	}
	options, err := json.Marshal(qn.Options)
	if err != nil {
		return "", "", err
	}
	return string(rules), string(options), nil
}

func (q *Queries) InsertQuestion(ctx context.Context, qn *models.Question) error {
	rules, options, err := encodeQuestionJSON(qn)
	if err != nil {
		return fail("encode question", err)
	}
	_, err = q.q.ExecContext(ctx, `
		INSERT INTO survey_questions (`+questionColumns+`)
		VALUES (`+placeholders(1, 11)+`)
	`,
		qn.ID, qn.SurveyID, qn.Type, qn.Text, qn.Description,
		qn.Required, qn.OrderIndex, rules, options, qn.CreatedAt.UTC(), qn.UpdatedAt.UTC(),
	)
	if err != nil {
		return fail("insert question", err)
	}
	return nil
}

func (q *Queries) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	row := q.q.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM survey_questions WHERE id = $1`, id)
	qn, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("question", id)
	}
	if err != nil {
		return nil, fail("get question", err)
	}
	return qn, nil
}

// ListQuestions returns a survey's questions in order_index order.
func (q *Queries) ListQuestions(ctx context.Context, surveyID string) ([]models.Question, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+questionColumns+` FROM survey_questions
		WHERE survey_id = $1
		ORDER BY order_index, created_at, id
	`, surveyID)
	if err != nil {
		return nil, fail("list questions", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		qn, err := scanQuestion(rows)
		if err != nil {
			return nil, fail("scan question", err)
		}
		questions = append(questions, *qn)
	}
	if err := rows.Err(); err != nil {
		return nil, fail("list questions", err)
	}
	return questions, nil
}

func (q *Queries) UpdateQuestion(ctx context.Context, qn *models.Question) error {
	rules, options, err := encodeQuestionJSON(qn)
	if err != nil {
		return fail("encode question", err)
	}
	res, err := q.q.ExecContext(ctx, `
		UPDATE survey_questions SET
			question_type = $2, question_text = $3, description = $4, is_required = $5,
			validation_rules = $6, options = $7, updated_at = $8
		WHERE id = $1
	`, qn.ID, qn.Type, qn.Text, qn.Description, qn.Required, rules, options, qn.UpdatedAt.UTC())
	return expectOne(res, err, "update question", "question", qn.ID)
}

func (q *Queries) SetQuestionOrder(ctx context.Context, id string, index int, now time.Time) error {
	res, err := q.q.ExecContext(ctx, `
		UPDATE survey_questions SET order_index = $2, updated_at = $3 WHERE id = $1
	`, id, index, now.UTC())
	return expectOne(res, err, "reorder question", "question", id)
}

// DeleteQuestion removes a question. Its answers go with it.
func (q *Queries) DeleteQuestion(ctx context.Context, id string) error {
	if _, err := q.q.ExecContext(ctx, `DELETE FROM survey_answers WHERE question_id = $1`, id); err != nil {
		return fail("delete question answers", err)
	}
	res, err := q.q.ExecContext(ctx, `DELETE FROM survey_questions WHERE id = $1`, id)
	return expectOne(res, err, "delete question", "question", id)
}
