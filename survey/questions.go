// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey

import (
	"context"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/danielhkuo/quickly-survey/identity"
	"github.com/danielhkuo/quickly-survey/lifecycle"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/store"
)

// Questions returns a survey's questions in order.
func (s *Service) Questions(ctx context.Context, surveyID string) ([]models.Question, error) {
	if _, err := s.store.GetLiveSurvey(ctx, surveyID); err != nil {
		return nil, err
	}
	return s.store.ListQuestions(ctx, surveyID)
}

// CreateQuestion adds a question at in.OrderIndex, or at the end when no
// index is given. Later questions shift down so indices stay 0..n-1.
func (s *Service) CreateQuestion(ctx context.Context, surveyID string, in models.QuestionInput) (*models.Question, error) {
	if err := validateQuestion(in.Type, in.Text, in.Options, in.Rules); err != nil {
		return nil, err
	}

	now := s.clock()
	q := &models.Question{
		ID:          identity.NewID(),
		SurveyID:    surveyID,
		Type:        in.Type,
		Text:        strings.TrimSpace(in.Text),
		Description: in.Description,
		Required:    in.Required,
		Rules:       in.Rules,
		Options:     in.Options,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.editQuestions(ctx, surveyID, "add questions to", func(tx *store.Queries, questions []models.Question) error {
		pos := len(questions)
		if in.OrderIndex != nil {
			if *in.OrderIndex < 0 || *in.OrderIndex > len(questions) {
				return models.NewValidationError("order_index out of range")
			}
			pos = *in.OrderIndex
		}
		q.OrderIndex = pos
		if err := tx.InsertQuestion(ctx, q); err != nil {
			return err
		}

		ordered := slices.Insert(questions, pos, *q)
		return s.writeOrder(ctx, tx, ordered, q.ID)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("question created", "survey_id", surveyID, "question_id", q.ID, "order_index", q.OrderIndex)
	return q, nil
}

// UpdateQuestion replaces a question's content. Its position is unchanged;
// use ReorderQuestions for that.
func (s *Service) UpdateQuestion(ctx context.Context, questionID string, in models.QuestionInput) (*models.Question, error) {
	if err := validateQuestion(in.Type, in.Text, in.Options, in.Rules); err != nil {
		return nil, err
	}

	existing, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	var q *models.Question
	err = s.editQuestions(ctx, existing.SurveyID, "edit questions of", func(tx *store.Queries, _ []models.Question) error {
		if in.Type != existing.Type {
			n, err := tx.CountAnswers(ctx, questionID)
			if err != nil {
				return err
			}
			if n > 0 {
				return models.NewValidationError("cannot change the type of a question that has answers")
			}
		}

		q = existing
		q.Type = in.Type
		q.Text = strings.TrimSpace(in.Text)
		q.Description = in.Description
		q.Required = in.Required
		q.Rules = in.Rules
		q.Options = in.Options
		q.UpdatedAt = s.clock()
		return tx.UpdateQuestion(ctx, q)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("question updated", "question_id", questionID)
	return q, nil
}

// DeleteQuestion removes a question and its answers, then closes the gap in
// the ordering.
func (s *Service) DeleteQuestion(ctx context.Context, questionID string) error {
	existing, err := s.store.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}

	err = s.editQuestions(ctx, existing.SurveyID, "delete questions from", func(tx *store.Queries, questions []models.Question) error {
		if err := tx.DeleteQuestion(ctx, questionID); err != nil {
			return err
		}
		remaining := slices.DeleteFunc(questions, func(q models.Question) bool { return q.ID == questionID })
		return s.writeOrder(ctx, tx, remaining, "")
	})
	if err != nil {
		return err
	}

	slog.Info("question deleted", "survey_id", existing.SurveyID, "question_id", questionID)
	return nil
}

// ReorderQuestions sets the order to orderedIDs, which must list every
// question of the survey exactly once.
func (s *Service) ReorderQuestions(ctx context.Context, surveyID string, orderedIDs []string) ([]models.Question, error) {
	var result []models.Question
	err := s.editQuestions(ctx, surveyID, "reorder questions of", func(tx *store.Queries, questions []models.Question) error {
		byID := make(map[string]models.Question, len(questions))
		for _, q := range questions {
			byID[q.ID] = q
		}

		if len(orderedIDs) != len(questions) {
			return models.NewValidationError("question_ids must list every question exactly once")
		}
		ordered := make([]models.Question, 0, len(orderedIDs))
		seen := make(map[string]bool, len(orderedIDs))
		for _, id := range orderedIDs {
			q, ok := byID[id]
			if !ok || seen[id] {
				return models.NewValidationError("question_ids must list every question exactly once")
			}
			seen[id] = true
			ordered = append(ordered, q)
		}

		if err := s.writeOrder(ctx, tx, ordered, ""); err != nil {
			return err
		}
		result = ordered
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("questions reordered", "survey_id", surveyID, "count", len(result))
	return result, nil
}

// editQuestions locks the survey, checks it can be edited, loads its
// questions, and runs fn in the same transaction.
func (s *Service) editQuestions(ctx context.Context, surveyID, action string, fn func(*store.Queries, []models.Question) error) error {
	return s.store.WithTx(ctx, func(tx *store.Queries) error {
		sv, err := tx.LockSurvey(ctx, surveyID)
		if err != nil {
			return err
		}
		if sv.Status == models.StatusDeleted {
			return &models.NotFoundError{Entity: "survey", ID: surveyID}
		}
		if err := lifecycle.CheckEditable(sv, action); err != nil {
			return err
		}
		questions, err := tx.ListQuestions(ctx, surveyID)
		if err != nil {
			return err
		}
		return fn(tx, questions)
	})
}

// writeOrder stores index i on the i-th question wherever it changed.
// The question with ID fresh was just inserted at its index.
func (s *Service) writeOrder(ctx context.Context, tx *store.Queries, ordered []models.Question, fresh string) error {
	now := s.clock()
	for i := range ordered {
		if ordered[i].ID == fresh || ordered[i].OrderIndex == i {
			ordered[i].OrderIndex = i
			continue
		}
		if err := tx.SetQuestionOrder(ctx, ordered[i].ID, i, now); err != nil {
			return err
		}
		ordered[i].OrderIndex = i
		ordered[i].UpdatedAt = now
	}
	return nil
}

func validateQuestion(qType, text string, opts models.QuestionOptions, rules models.ValidationRules) error {
	verr := &models.ValidationError{}
	if !models.IsValidQuestionType(qType) {
		verr.Add("unknown question_type %q", qType)
	}
	if strings.TrimSpace(text) == "" {
		verr.Add("question_text is required")
	}

	switch qType {
	case models.QuestionSingleChoice, models.QuestionMultipleChoice, models.QuestionDropdown:
		if len(opts.Choices) < 2 {
			verr.Add("choice questions need at least 2 choices")
		}
		seen := make(map[string]bool, len(opts.Choices))
		for _, c := range opts.Choices {
			c = strings.TrimSpace(c)
			if c == "" {
				verr.Add("choices cannot be empty")
			} else if seen[c] {
				verr.Add("duplicate choice %q", c)
			}
			seen[c] = true
		}
	}

	if opts.Min != nil && opts.Max != nil && *opts.Min > *opts.Max {
		verr.Add("options.min must not exceed options.max")
	}
	if rules.MinLength != nil && *rules.MinLength < 0 {
		verr.Add("min_length must not be negative")
	}
	if rules.MinLength != nil && rules.MaxLength != nil && *rules.MinLength > *rules.MaxLength {
		verr.Add("min_length must not exceed max_length")
	}
	if rules.Pattern != "" {
		if _, err := regexp.Compile(rules.Pattern); err != nil {
			verr.Add("pattern is not a valid regular expression")
		}
	}
	return verr.OrNil()
}
