// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package response

import (
	"errors"

	"github.com/danielhkuo/quickly-survey/models"
)

type boundAnswer struct {
	questionID string
	value      models.AnswerValue
}

// bindAnswers checks a full answer set against the survey's questions and
// returns the typed values in question order. Blank values count as
// unanswered. Every problem found is reported in one ValidationError.
func bindAnswers(questions []models.Question, inputs []models.AnswerInput) ([]boundAnswer, error) {
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	verr := &models.ValidationError{}
	given := make(map[string]models.AnswerValue, len(inputs))
	seen := make(map[string]bool, len(inputs))
	invalid := make(map[string]bool)
	for _, in := range inputs {
		q, ok := byID[in.QuestionID]
		if !ok {
			verr.Add("question %s: not part of this survey", in.QuestionID)
			continue
		}
		if seen[in.QuestionID] {
			verr.Add("question %s: answered more than once", in.QuestionID)
			continue
		}
		seen[in.QuestionID] = true
		if models.IsBlank(in.Value) {
			continue
		}

		v, err := models.BindAnswer(q, in.Value)
		if err != nil {
			invalid[q.ID] = true
			mergeProblems(verr, err)
			continue
		}
		given[q.ID] = v
	}

	values := make([]boundAnswer, 0, len(given))
	for _, q := range questions {
		v, ok := given[q.ID]
		if !ok {
			// an invalid value already produced a problem for this question
			if q.Required && !invalid[q.ID] {
				verr.Add("question %s: answer is required", q.ID)
			}
			continue
		}
		values = append(values, boundAnswer{questionID: q.ID, value: v})
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return values, nil
}

func mergeProblems(dst *models.ValidationError, err error) {
	if err == nil {
		return
	}
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		dst.Problems = append(dst.Problems, ve.Problems...)
		return
	}
	dst.Add("%v", err)
}
