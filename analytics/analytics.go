// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/store"
)

const (
	textSampleSize = 10
	timelineDays   = 30
)

// Service computes survey analytics from stored responses.
type Service struct {
	store *store.Store
}

func New(st *store.Store) *Service {
	return &Service{store: st}
}

// Compute builds the full analytics report for a survey.
func (s *Service) Compute(ctx context.Context, surveyID string) (*models.AnalyticsReport, error) {
	sv, err := s.store.GetLiveSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	questions, err := s.store.ListQuestions(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	responses, err := s.store.ListResponses(ctx, surveyID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}
	answers, err := s.store.ListCompletedAnswers(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}

	report := Build(sv, questions, responses, answers)
	slog.Info("analytics computed", "survey_id", surveyID, "responses", report.Overview.TotalResponses)
	return report, nil
}

// Build aggregates already-loaded rows. answers must belong to completed
// responses and be ordered newest completion first.
func Build(sv *models.Survey, questions []models.Question, responses []models.Response, answers []models.Answer) *models.AnalyticsReport {
	overview := buildOverview(sv, responses)

	byQuestion := make(map[string][]models.Answer, len(questions))
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}

	perQuestion := make([]models.QuestionAnalytics, 0, len(questions))
	for _, q := range questions {
		perQuestion = append(perQuestion, buildQuestion(q, byQuestion[q.ID], overview.CompletedResponses))
	}

	return &models.AnalyticsReport{
		SurveyID:     sv.ID,
		Overview:     overview,
		Questions:    perQuestion,
		Demographics: buildDemographics(responses),
		Timeline:     buildTimeline(responses),
	}
}

func buildOverview(sv *models.Survey, responses []models.Response) models.Overview {
	o := models.Overview{
		TotalResponses: len(responses),
		TotalViews:     sv.TotalViews,
	}

	durations := 0
	sum := 0
	for _, r := range responses {
		if r.Status != models.ResponseCompleted {
			o.InProgress++
			continue
		}
		o.CompletedResponses++
		if r.DurationSeconds != nil {
			durations++
			sum += *r.DurationSeconds
		}
	}

	o.CompletionRate = percent(o.CompletedResponses, o.TotalResponses)
	if durations > 0 {
		avg := int(math.Round(float64(sum) / float64(durations)))
		o.AvgDurationSeconds = &avg
	}
	return o
}

func buildQuestion(q models.Question, answers []models.Answer, completed int) models.QuestionAnalytics {
	qa := models.QuestionAnalytics{
		QuestionID:   q.ID,
		QuestionText: q.Text,
		QuestionType: q.Type,
		OrderIndex:   q.OrderIndex,
		TotalAnswers: len(answers),
	}

	respondents := make(map[string]bool, len(answers))
	for _, a := range answers {
		respondents[a.ResponseID] = true
	}
	qa.UniqueRespondents = len(respondents)
	qa.ResponseRate = percent(qa.UniqueRespondents, completed)

	if len(answers) == 0 {
		return qa
	}

	switch models.CategoryOf(q.Type) {
	case models.CategoryNumeric:
		numericStats(&qa, answers)
	case models.CategoryChoice:
		c := newCounter()
		for _, a := range answers {
			c.add(a.Value.Display())
		}
		qa.Distribution = c.byCount()
	case models.CategoryText:
		n := min(len(answers), textSampleSize)
		qa.TextSamples = make([]string, 0, n)
		for _, a := range answers[:n] {
			qa.TextSamples = append(qa.TextSamples, a.Value.Display())
		}
	}
	return qa
}

func numericStats(qa *models.QuestionAnalytics, answers []models.Answer) {
	values := make([]float64, 0, len(answers))
	counts := make(map[float64]int)
	for _, a := range answers {
		if a.Value.Kind != models.KindNumber {
			continue
		}
		values = append(values, a.Value.Number)
		counts[a.Value.Number]++
	}
	if len(values) == 0 {
		return
	}
	sort.Float64s(values)

	avg := round2(mean(values))
	median := round2(percentile(values, 0.5))
	lo, hi := values[0], values[len(values)-1]
	qa.Average = &avg
	qa.Median = &median
	qa.Min = &lo
	qa.Max = &hi

	keys := make([]float64, 0, len(counts))
	for v := range counts {
		keys = append(keys, v)
	}
	sort.Float64s(keys)
	qa.Distribution = make([]models.ValueCount, 0, len(keys))
	for _, v := range keys {
		qa.Distribution = append(qa.Distribution, models.ValueCount{
			Value: models.NumberValue(v).Display(),
			Count: counts[v],
		})
	}
}

func buildDemographics(responses []models.Response) models.Demographics {
	devices, browsers, systems := newCounter(), newCounter(), newCounter()
	for _, r := range responses {
		if r.DeviceType != nil {
			devices.add(*r.DeviceType)
		}
		if r.Browser != nil {
			browsers.add(*r.Browser)
		}
		if r.OS != nil {
			systems.add(*r.OS)
		}
	}
	return models.Demographics{
		Devices:  devices.byCount(),
		Browsers: browsers.byCount(),
		OS:       systems.byCount(),
	}
}

// buildTimeline counts completions per UTC day, newest day first, keeping
// the most recent days that have any.
func buildTimeline(responses []models.Response) []models.TimelinePoint {
	perDay := make(map[string]int)
	for _, r := range responses {
		if r.Status != models.ResponseCompleted || r.CompletedAt == nil {
			continue
		}
		perDay[r.CompletedAt.UTC().Format(time.DateOnly)]++
	}

	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	if len(days) > timelineDays {
		days = days[:timelineDays]
	}

	timeline := make([]models.TimelinePoint, 0, len(days))
	for _, d := range days {
		timeline = append(timeline, models.TimelinePoint{Date: d, Count: perDay[d]})
	}
	return timeline
}
