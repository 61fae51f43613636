// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/identity"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/store"
)

// Epoch is the fixed "now" most tests start from
var Epoch = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// SetupTestDB creates a fresh SQLite database in a temp directory with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.SQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore wraps SetupTestDB in a store
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t), db.SQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     "test.db",
		DatabaseType:    "sqlite",
		IPHashSalt:      "test-ip-salt",
		PublicBaseURL:   "http://localhost:3318",
		ExpireSweepSpec: "@every 5m",
		MetricsEnabled:  true,
		LogFormat:       "text",
	}
}

// Clock is a settable time source for services under test
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// CreateTestSurvey inserts a survey directly and returns it.
// surveyType is "internal" or "external"; mutators adjust fields before insert.
func CreateTestSurvey(t *testing.T, st *store.Store, surveyType, status string, mutators ...func(*models.Survey)) *models.Survey {
	t.Helper()

	id := identity.NewID()
	s := &models.Survey{
		ID:              id,
		Title:           "Test Survey",
		Description:     "A test survey",
		ThankYouMessage: "Thanks!",
		Type:            surveyType,
		DurationType:    models.DurationUnlimited,
		Status:          status,
		Slug:            "test-survey-" + id[:8],
		ShowProgressBar: true,
		CreatedAt:       Epoch,
		UpdatedAt:       Epoch,
	}
	if status == models.StatusActive || status == models.StatusPaused || status == models.StatusClosed {
		published := Epoch
		s.PublishedAt = &published
	}
	for _, m := range mutators {
		m(s)
	}

	if err := st.InsertSurvey(context.Background(), s); err != nil {
		t.Fatalf("Failed to create test survey: %v", err)
	}
	return s
}

// AddTestQuestion appends a question to a survey and returns it
func AddTestQuestion(t *testing.T, st *store.Store, surveyID, questionType string, required bool, mutators ...func(*models.Question)) *models.Question {
	t.Helper()

	ctx := context.Background()
	existing, err := st.ListQuestions(ctx, surveyID)
	if err != nil {
		t.Fatalf("Failed to list questions: %v", err)
	}

	q := &models.Question{
		ID:         identity.NewID(),
		SurveyID:   surveyID,
		Type:       questionType,
		Text:       "Question " + questionType,
		Required:   required,
		OrderIndex: len(existing),
		CreatedAt:  Epoch,
		UpdatedAt:  Epoch,
	}
	for _, m := range mutators {
		m(q)
	}

	if err := st.InsertQuestion(ctx, q); err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return q
}

// AddTestTarget links an employee to an internal survey
func AddTestTarget(t *testing.T, st *store.Store, surveyID, employeeID, name, email string) {
	t.Helper()

	_, err := st.InsertTargets(context.Background(), surveyID, []models.TargetInput{
		{EmployeeID: employeeID, EmployeeName: name, EmployeeEmail: email},
	}, Epoch)
	if err != nil {
		t.Fatalf("Failed to create test target: %v", err)
	}
}

// TestResponse describes a response row to seed directly
type TestResponse struct {
	EmployeeID string
	Email      string
	Status     string
	Completed  time.Time
	Duration   *int
	DeviceType string
	Browser    string
	OS         string
	Answers    map[string]models.AnswerValue
}

// InsertTestResponse writes a response and its answers without going through
// ingestion, then recomputes the survey counters.
func InsertTestResponse(t *testing.T, st *store.Store, surveyID string, tr TestResponse) *models.Response {
	t.Helper()

	ctx := context.Background()
	if tr.Status == "" {
		tr.Status = models.ResponseCompleted
	}
	if tr.Completed.IsZero() {
		tr.Completed = Epoch
	}

	r := &models.Response{
		ID:              identity.NewID(),
		SurveyID:        surveyID,
		Status:          tr.Status,
		StartedAt:       tr.Completed.Add(-time.Minute),
		DurationSeconds: tr.Duration,
		CreatedAt:       tr.Completed,
		UpdatedAt:       tr.Completed,
	}
	if tr.Status == models.ResponseCompleted {
		completed := tr.Completed
		r.CompletedAt = &completed
	}
	if tr.EmployeeID != "" {
		r.EmployeeID = &tr.EmployeeID
	}
	if tr.Email != "" {
		r.RespondentEmail = &tr.Email
	}
	if tr.DeviceType != "" {
		r.DeviceType = &tr.DeviceType
	}
	if tr.Browser != "" {
		r.Browser = &tr.Browser
	}
	if tr.OS != "" {
		r.OS = &tr.OS
	}

	err := st.WithTx(ctx, func(tx *store.Queries) error {
		if err := tx.InsertResponse(ctx, r); err != nil {
			return err
		}
		for questionID, v := range tr.Answers {
			if err := tx.InsertAnswer(ctx, &models.Answer{
				ID:         identity.NewID(),
				ResponseID: r.ID,
				QuestionID: questionID,
				Value:      v,
				CreatedAt:  tr.Completed,
			}); err != nil {
				return err
			}
		}
		if tr.EmployeeID != "" && tr.Status == models.ResponseCompleted {
			if err := tx.MarkResponded(ctx, surveyID, tr.EmployeeID, tr.Completed); err != nil {
				return err
			}
		}
		return tx.RecomputeCounters(ctx, surveyID, tr.Completed)
	})
	if err != nil {
		t.Fatalf("Failed to create test response: %v", err)
	}
	return r
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
