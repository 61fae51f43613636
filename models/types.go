// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Survey status constants
const (
	StatusDraft   = "draft"
	StatusActive  = "active"
	StatusPaused  = "paused"
	StatusClosed  = "closed"
	StatusExpired = "expired"
	StatusDeleted = "deleted"
)

// Survey type constants
const (
	SurveyInternal = "internal"
	SurveyExternal = "external"
)

// Duration type constants
const (
	DurationLimited   = "limited"
	DurationUnlimited = "unlimited"
)

// Response status constants
const (
	ResponseInProgress = "in_progress"
	ResponseCompleted  = "completed"
)

// Domain types

type Survey struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	WelcomeMessage  string     `json:"welcome_message"`
	ThankYouMessage string     `json:"thank_you_message"`
	Type            string     `json:"survey_type"`
	ClientName      string     `json:"client_name,omitempty"`
	DurationType    string     `json:"duration_type"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Status          string     `json:"status"`
	Slug            string     `json:"unique_slug"`
	HasPassword     bool       `json:"has_password"`
	PasswordHash    *string    `json:"-"` // Verified by the auth layer, never exposed
	MaxResponses    *int       `json:"max_responses,omitempty"`
	IsAnonymous     bool       `json:"is_anonymous"`
	AllowMultiple   bool       `json:"allow_multiple"`
	AllowEditing    bool       `json:"allow_editing"`
	ShowProgressBar bool       `json:"show_progress_bar"`
	TrackIP         bool       `json:"track_ip"`
	TrackLocation   bool       `json:"track_location"`
	RedirectURL     string     `json:"redirect_url,omitempty"`

	TotalResponses     int `json:"total_responses"`
	CompletedResponses int `json:"completed_responses"`
	TotalViews         int `json:"total_views"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

// SurveySummary is a listing row: the stored survey plus its status as of now.
type SurveySummary struct {
	Survey
	EffectiveStatus string `json:"effective_status"`
}

type Question struct {
	ID          string          `json:"id"`
	SurveyID    string          `json:"survey_id"`
	Type        string          `json:"question_type"`
	Text        string          `json:"question_text"`
	Description string          `json:"description,omitempty"`
	Required    bool            `json:"is_required"`
	OrderIndex  int             `json:"order_index"`
	Rules       ValidationRules `json:"validation_rules"`
	Options     QuestionOptions `json:"options"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ValidationRules are optional per-question constraints checked at ingestion.
type ValidationRules struct {
	MinLength *int   `json:"min_length,omitempty"`
	MaxLength *int   `json:"max_length,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
}

// QuestionOptions holds type-specific configuration.
// Choices apply to choice questions, Min/Max to numeric ones.
type QuestionOptions struct {
	Choices []string  `json:"choices,omitempty"`
	Min     *float64  `json:"min,omitempty"`
	Max     *float64  `json:"max,omitempty"`
	Step    *float64  `json:"step,omitempty"`
	Labels  []string  `json:"labels,omitempty"`
	Extra   MapString `json:"extra,omitempty"`
}

type MapString map[string]string

type TargetEmployee struct {
	SurveyID      string     `json:"survey_id"`
	EmployeeID    string     `json:"employee_id"`
	EmployeeName  string     `json:"employee_name,omitempty"`
	EmployeeEmail string     `json:"employee_email,omitempty"`
	HasResponded  bool       `json:"has_responded"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
}

type Response struct {
	ID              string     `json:"id"`
	SurveyID        string     `json:"survey_id"`
	EmployeeID      *string    `json:"employee_id,omitempty"`
	RespondentName  *string    `json:"respondent_name,omitempty"`
	RespondentEmail *string    `json:"respondent_email,omitempty"`
	RespondentPhone *string    `json:"respondent_phone,omitempty"`
	Status          string     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	IPHash          *string    `json:"-"` // Never expose in JSON
	UserAgent       *string    `json:"-"` // Never expose in JSON
	DeviceType      *string    `json:"device_type,omitempty"`
	Browser         *string    `json:"browser,omitempty"`
	OS              *string    `json:"os,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Answers []Answer `json:"answers,omitempty"`
}

type Answer struct {
	ID         string      `json:"id"`
	ResponseID string      `json:"response_id"`
	QuestionID string      `json:"question_id"`
	Value      AnswerValue `json:"value"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Eligibility is the outcome of a can-respond check.
type Eligibility struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason,omitempty"`
}

// Input types

type TargetInput struct {
	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name"`
	EmployeeEmail string `json:"employee_email"`
}

type CreateSurveyInput struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	WelcomeMessage  string        `json:"welcome_message"`
	ThankYouMessage string        `json:"thank_you_message"`
	Type            string        `json:"survey_type"`
	ClientName      string        `json:"client_name"`
	DurationType    string        `json:"duration_type"`
	StartDate       *time.Time    `json:"start_date"`
	EndDate         *time.Time    `json:"end_date"`
	HasPassword     bool          `json:"has_password"`
	PasswordHash    *string       `json:"-"`
	MaxResponses    *int          `json:"max_responses"`
	IsAnonymous     bool          `json:"is_anonymous"`
	AllowMultiple   bool          `json:"allow_multiple"`
	AllowEditing    bool          `json:"allow_editing"`
	ShowProgressBar *bool         `json:"show_progress_bar"`
	TrackIP         bool          `json:"track_ip"`
	TrackLocation   bool          `json:"track_location"`
	RedirectURL     string        `json:"redirect_url"`
	Targets         []TargetInput `json:"targets"`
}

// UpdateSurveyInput is a partial update; nil fields are left alone.
type UpdateSurveyInput struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	WelcomeMessage  *string    `json:"welcome_message"`
	ThankYouMessage *string    `json:"thank_you_message"`
	ClientName      *string    `json:"client_name"`
	DurationType    *string    `json:"duration_type"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	MaxResponses    *int       `json:"max_responses"`
	IsAnonymous     *bool      `json:"is_anonymous"`
	AllowMultiple   *bool      `json:"allow_multiple"`
	AllowEditing    *bool      `json:"allow_editing"`
	ShowProgressBar *bool      `json:"show_progress_bar"`
	RedirectURL     *string    `json:"redirect_url"`
}

type QuestionInput struct {
	Type        string          `json:"question_type"`
	Text        string          `json:"question_text"`
	Description string          `json:"description"`
	Required    bool            `json:"is_required"`
	OrderIndex  *int            `json:"order_index"`
	Rules       ValidationRules `json:"validation_rules"`
	Options     QuestionOptions `json:"options"`
}

// AnswerInput is one (question, raw value) pair as supplied by a respondent.
// Value is bound to a typed AnswerValue using the question's type.
type AnswerInput struct {
	QuestionID string `json:"question_id"`
	Value      any    `json:"value"`
}

// Respondent identifies who is submitting: an employee for internal
// surveys, optional free-text contact fields for external ones.
type Respondent struct {
	EmployeeID string `json:"-"`
	Name       string `json:"respondent_name"`
	Email      string `json:"respondent_email"`
	Phone      string `json:"respondent_phone"`
}

// ClientInfo is tracking metadata captured at submission time.
type ClientInfo struct {
	IP         string
	UserAgent  string
	DeviceType string
	Browser    string
	OS         string
}

type Submission struct {
	SurveyID        string
	Respondent      Respondent
	Client          ClientInfo
	StartedAt       *time.Time
	DurationSeconds *int
	Answers         []AnswerInput
}

type ListFilter struct {
	Status string
	Type   string
}

// Request types (HTTP)

type SubmitResponseRequest struct {
	Respondent
	StartedAt       *time.Time    `json:"started_at"`
	DurationSeconds *int          `json:"duration_seconds"`
	Answers         []AnswerInput `json:"answers"`
}

type UpdateResponseRequest struct {
	Answers []AnswerInput `json:"answers"`
}

type ReorderQuestionsRequest struct {
	QuestionIDs []string `json:"question_ids"`
}

type AddTargetsRequest struct {
	Targets []TargetInput `json:"targets"`
}

type ExportRequest struct {
	SurveyIDs []string `json:"survey_ids"`
}

type DeleteResponsesRequest struct {
	ResponseIDs []string `json:"response_ids"`
}

// Response types (HTTP)

type CreateSurveyResponse struct {
	ID   string `json:"id"`
	Slug string `json:"unique_slug"`
}

type SubmitResponseResponse struct {
	ResponseID      string `json:"id"`
	ThankYouMessage string `json:"thank_you_message,omitempty"`
	RedirectURL     string `json:"redirect_url,omitempty"`
}

type PublicSurvey struct {
	Survey    Survey     `json:"survey"`
	Questions []Question `json:"questions,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Reason  string `json:"reason,omitempty"`
}
