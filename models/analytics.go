// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// AnalyticsReport is the computed analytics for one survey.
type AnalyticsReport struct {
	SurveyID     string              `json:"survey_id"`
	Overview     Overview            `json:"overview"`
	Questions    []QuestionAnalytics `json:"questions"`
	Demographics Demographics        `json:"demographics"`
	Timeline     []TimelinePoint     `json:"timeline"`
}

type Overview struct {
	TotalResponses     int  `json:"total_responses"`
	CompletedResponses int  `json:"completed_responses"`
	InProgress         int  `json:"in_progress"`
	TotalViews         int  `json:"total_views"`
	CompletionRate     int  `json:"completion_rate"`
	AvgDurationSeconds *int `json:"avg_duration_seconds"`
}

// QuestionAnalytics holds per-question aggregates. Which of the optional
// sections is filled depends on the question's category.
type QuestionAnalytics struct {
	QuestionID        string       `json:"question_id"`
	QuestionText      string       `json:"question_text"`
	QuestionType      string       `json:"question_type"`
	OrderIndex        int          `json:"order_index"`
	TotalAnswers      int          `json:"total_answers"`
	UniqueRespondents int          `json:"unique_respondents"`
	ResponseRate      int          `json:"response_rate"`
	Distribution      []ValueCount `json:"distribution,omitempty"`
	Average           *float64     `json:"average,omitempty"`
	Median            *float64     `json:"median,omitempty"`
	Min               *float64     `json:"min,omitempty"`
	Max               *float64     `json:"max,omitempty"`
	TextSamples       []string     `json:"text_samples,omitempty"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type Demographics struct {
	Devices  []ValueCount `json:"devices"`
	Browsers []ValueCount `json:"browsers"`
	OS       []ValueCount `json:"os"`
}

type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SurveyStats is the per-survey summary returned by the stats export.
type SurveyStats struct {
	SurveyID       string `json:"survey_id"`
	Title          string `json:"title"`
	TotalResponses int    `json:"total_responses"`
	TotalQuestions int    `json:"total_questions"`
}

// ExportStats totals the surveys selected for an export.
type ExportStats struct {
	TotalSurveys   int           `json:"total_surveys"`
	TotalResponses int           `json:"total_responses"`
	TotalQuestions int           `json:"total_questions"`
	Surveys        []SurveyStats `json:"surveys"`
}
