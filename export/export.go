// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-survey/metrics"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/store"
)

// timestampLayout formats dates in every export.
const timestampLayout = "2006-01-02 15:04:05 UTC"

// Service renders completed responses of one or more surveys.
type Service struct {
	store   *store.Store
	now     func() time.Time
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

func New(st *store.Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// surveyData is everything an export needs for one survey.
type surveyData struct {
	survey    *models.Survey
	questions []models.Question
	responses []models.Response
	directory map[string]models.TargetEmployee
}

// load fetches each survey with its questions and its completed responses,
// newest completion first, answers attached.
func (s *Service) load(ctx context.Context, ids []string) ([]surveyData, error) {
	if len(ids) == 0 {
		return nil, models.NewValidationError("survey_ids are required")
	}

	data := make([]surveyData, 0, len(ids))
	for _, id := range ids {
		sv, err := s.store.GetLiveSurvey(ctx, id)
		if err != nil {
			return nil, err
		}
		questions, err := s.store.ListQuestions(ctx, id)
		if err != nil {
			return nil, err
		}
		responses, err := s.store.ListResponses(ctx, id, true)
		if err != nil {
			return nil, err
		}
		answers, err := s.store.ListCompletedAnswers(ctx, id)
		if err != nil {
			return nil, err
		}

		byResponse := make(map[string][]models.Answer, len(responses))
		for _, a := range answers {
			byResponse[a.ResponseID] = append(byResponse[a.ResponseID], a)
		}
		for i := range responses {
			responses[i].Answers = byResponse[responses[i].ID]
		}

		d := surveyData{survey: sv, questions: questions, responses: responses}
		if sv.Type == models.SurveyInternal && !sv.IsAnonymous {
			d.directory, err = s.store.EmployeeDirectory(ctx, id)
			if err != nil {
				return nil, err
			}
		}
		data = append(data, d)
	}
	return data, nil
}

// header returns the column titles shared by the delimited and report exports.
func (d surveyData) header() []string {
	cols := []string{"Response ID", "Submitted At", "Duration (seconds)"}
	if d.survey.Type == models.SurveyInternal {
		cols = append(cols, "Employee Name", "Employee Email")
	} else {
		cols = append(cols, "Respondent Name", "Respondent Email", "Respondent Phone")
	}
	for _, q := range d.questions {
		cols = append(cols, q.Text)
	}
	return cols
}

// row renders one response. missing fills questions with no answer.
func (d surveyData) row(r models.Response, missing string) []string {
	cells := []string{r.ID, "", ""}
	if r.CompletedAt != nil {
		cells[1] = r.CompletedAt.UTC().Format(timestampLayout)
	}
	if r.DurationSeconds != nil {
		cells[2] = strconv.Itoa(*r.DurationSeconds)
	}

	if d.survey.Type == models.SurveyInternal {
		// anonymous surveys load no directory, so the employee stays blank
		var name, email string
		if r.EmployeeID != nil {
			if t, ok := d.directory[*r.EmployeeID]; ok {
				name, email = t.EmployeeName, t.EmployeeEmail
			}
		}
		cells = append(cells, name, email)
	} else {
		cells = append(cells, deref(r.RespondentName), deref(r.RespondentEmail), deref(r.RespondentPhone))
	}

	answers := make(map[string]models.AnswerValue, len(r.Answers))
	for _, a := range r.Answers {
		answers[a.QuestionID] = a.Value
	}
	for _, q := range d.questions {
		v, ok := answers[q.ID]
		if !ok {
			cells = append(cells, missing)
			continue
		}
		cells = append(cells, v.Display())
	}
	return cells
}

// completionRate uses the stored counters, which include in-progress responses.
func (d surveyData) completionRate() int {
	if d.survey.TotalResponses == 0 {
		return 0
	}
	return int(math.Round(100 * float64(d.survey.CompletedResponses) / float64(d.survey.TotalResponses)))
}

// Stats returns per-survey response and question counts.
func (s *Service) Stats(ctx context.Context, ids []string) (*models.ExportStats, error) {
	if len(ids) == 0 {
		return nil, models.NewValidationError("survey_ids are required")
	}

	stats := &models.ExportStats{TotalSurveys: len(ids), Surveys: make([]models.SurveyStats, 0, len(ids))}
	for _, id := range ids {
		sv, err := s.store.GetLiveSurvey(ctx, id)
		if err != nil {
			return nil, err
		}
		questions, err := s.store.ListQuestions(ctx, id)
		if err != nil {
			return nil, err
		}
		stats.TotalResponses += sv.CompletedResponses
		stats.TotalQuestions += len(questions)
		stats.Surveys = append(stats.Surveys, models.SurveyStats{
			SurveyID:       sv.ID,
			Title:          sv.Title,
			TotalResponses: sv.CompletedResponses,
			TotalQuestions: len(questions),
		})
	}
	return stats, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
