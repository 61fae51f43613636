// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/store"
	"github.com/danielhkuo/quickly-survey/testutil"
)

func TestSurveyRoundTrip(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()

	end := testutil.Epoch.Add(48 * time.Hour)
	maxResponses := 10
	s := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusDraft, func(s *models.Survey) {
		s.DurationType = models.DurationLimited
		s.EndDate = &end
		s.MaxResponses = &maxResponses
		s.AllowEditing = true
	})

	got, err := st.GetSurvey(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetSurvey failed: %v", err)
	}
	if got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Errorf("Expected end date %v, got %v", end, got.EndDate)
	}
	if got.MaxResponses == nil || *got.MaxResponses != 10 {
		t.Errorf("Expected max responses 10, got %v", got.MaxResponses)
	}
	if !got.AllowEditing || got.AllowMultiple {
		t.Error("Feature flags did not round trip")
	}
	if !got.CreatedAt.Equal(testutil.Epoch) {
		t.Errorf("Expected created_at %v, got %v", testutil.Epoch, got.CreatedAt)
	}

	bySlug, err := st.GetSurveyBySlug(ctx, s.Slug)
	if err != nil || bySlug.ID != s.ID {
		t.Fatalf("GetSurveyBySlug failed: %v", err)
	}

	taken, err := st.SlugExists(ctx, s.Slug)
	if err != nil || !taken {
		t.Errorf("Expected slug to be taken, got %v (%v)", taken, err)
	}
}

func TestGetSurveyNotFound(t *testing.T) {
	st := testutil.SetupTestStore(t)

	_, err := st.GetSurvey(context.Background(), "missing")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeletedSurveyHiddenBySlug(t *testing.T) {
	st := testutil.SetupTestStore(t)
	s := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusDeleted)

	if _, err := st.GetSurveyBySlug(context.Background(), s.Slug); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected deleted survey to be hidden, got %v", err)
	}
	if _, err := st.GetLiveSurvey(context.Background(), s.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected GetLiveSurvey to hide deleted survey, got %v", err)
	}
}

func TestDuplicateSlugIsUniqueViolation(t *testing.T) {
	st := testutil.SetupTestStore(t)
	s := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusDraft)

	dup := *s
	dup.ID = "other-id"
	err := st.InsertSurvey(context.Background(), &dup)
	if err == nil {
		t.Fatal("Expected duplicate slug to fail")
	}
	var pe *models.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected PersistenceError, got %T", err)
	}
	if !db.IsUniqueViolation(err) {
		t.Errorf("Expected unique violation, got %v", err)
	}
}

func TestAnswerKindsRoundTrip(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	s := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusActive)

	values := map[string]models.AnswerValue{
		models.QuestionRating: models.NumberValue(4),
		models.QuestionYesNo:  models.BoolValue(false),
		models.QuestionText:   models.TextValue("hello"),
		models.QuestionDate:   models.DateValue(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)),
		models.QuestionTime:   models.TimeValue("13:45"),
		models.QuestionFile:   models.JSONValue([]byte(`{"name":"a.txt"}`)),
	}
	answers := make(map[string]models.AnswerValue)
	questionKinds := make(map[string]models.ValueKind)
	for qType, v := range values {
		q := testutil.AddTestQuestion(t, st, s.ID, qType, false)
		answers[q.ID] = v
		questionKinds[q.ID] = v.Kind
	}
	r := testutil.InsertTestResponse(t, st, s.ID, testutil.TestResponse{Answers: answers})

	got, err := st.ListAnswersByResponse(ctx, r.ID)
	if err != nil {
		t.Fatalf("ListAnswersByResponse failed: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("Expected %d answers, got %d", len(values), len(got))
	}
	for _, a := range got {
		want := answers[a.QuestionID]
		if a.Value.Kind != questionKinds[a.QuestionID] {
			t.Errorf("Question %s: expected kind %s, got %s", a.QuestionID, want.Kind, a.Value.Kind)
		}
		if a.Value.Display() != want.Display() {
			t.Errorf("Question %s: expected %q, got %q", a.QuestionID, want.Display(), a.Value.Display())
		}
	}

	// Boolean false must survive as a real value, not as a missing one
	for _, a := range got {
		if a.Value.Kind == models.KindBoolean && a.Value.Display() != "No" {
			t.Errorf("Expected No, got %q", a.Value.Display())
		}
	}
}

func TestRecomputeCounters(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	s := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusActive)

	testutil.InsertTestResponse(t, st, s.ID, testutil.TestResponse{})
	testutil.InsertTestResponse(t, st, s.ID, testutil.TestResponse{})
	r := testutil.InsertTestResponse(t, st, s.ID, testutil.TestResponse{Status: models.ResponseInProgress})

	got, _ := st.GetSurvey(ctx, s.ID)
	if got.TotalResponses != 3 || got.CompletedResponses != 2 {
		t.Fatalf("Expected 3/2, got %d/%d", got.TotalResponses, got.CompletedResponses)
	}

	err := st.WithTx(ctx, func(tx *store.Queries) error {
		if err := tx.DeleteResponse(ctx, r.ID); err != nil {
			return err
		}
		return tx.RecomputeCounters(ctx, s.ID, testutil.Epoch)
	})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, _ = st.GetSurvey(ctx, s.ID)
	if got.TotalResponses != 2 || got.CompletedResponses != 2 {
		t.Errorf("Expected 2/2, got %d/%d", got.TotalResponses, got.CompletedResponses)
	}
}

func TestWithTxRollsBack(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	s := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusActive)

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(tx *store.Queries) error {
		if _, err := tx.LockSurvey(ctx, s.ID); err != nil {
			return err
		}
		if err := tx.IncrementViews(ctx, s.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	got, _ := st.GetSurvey(ctx, s.ID)
	if got.TotalViews != 0 {
		t.Errorf("Expected rollback to discard the view, got %d", got.TotalViews)
	}
}

func TestTargets(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	s := testutil.CreateTestSurvey(t, st, models.SurveyInternal, models.StatusActive)

	added, err := st.InsertTargets(ctx, s.ID, []models.TargetInput{
		{EmployeeID: "e1", EmployeeName: "Ann", EmployeeEmail: "ann@example.com"},
		{EmployeeID: "e2"},
		{EmployeeID: "e1"},
	}, testutil.Epoch)
	if err != nil {
		t.Fatalf("InsertTargets failed: %v", err)
	}
	if added != 2 {
		t.Errorf("Expected 2 new targets, got %d", added)
	}

	r := testutil.InsertTestResponse(t, st, s.ID, testutil.TestResponse{EmployeeID: "e1"})
	target, err := st.GetTarget(ctx, s.ID, "e1")
	if err != nil {
		t.Fatalf("GetTarget failed: %v", err)
	}
	if !target.HasResponded || target.RespondedAt == nil {
		t.Error("Expected e1 to be marked responded")
	}

	err = st.WithTx(ctx, func(tx *store.Queries) error {
		if err := tx.DeleteResponse(ctx, r.ID); err != nil {
			return err
		}
		return tx.ResetRespondedIfNone(ctx, s.ID, "e1")
	})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	target, _ = st.GetTarget(ctx, s.ID, "e1")
	if target.HasResponded {
		t.Error("Expected e1 responded flag to be cleared")
	}

	if _, err := st.GetTarget(ctx, s.ID, "e9"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown target, got %v", err)
	}
}

func TestEmailResponded(t *testing.T) {
	st := testutil.SetupTestStore(t)
	ctx := context.Background()
	s := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusActive)
	testutil.InsertTestResponse(t, st, s.ID, testutil.TestResponse{Email: "Ann@Example.com"})

	found, err := st.EmailResponded(ctx, s.ID, "ann@example.com")
	if err != nil || !found {
		t.Errorf("Expected case-insensitive match, got %v (%v)", found, err)
	}
	found, _ = st.EmailResponded(ctx, s.ID, "bob@example.com")
	if found {
		t.Error("Expected no match for a new email")
	}

	testutil.InsertTestResponse(t, st, s.ID, testutil.TestResponse{Email: "cat@example.com", Status: models.ResponseInProgress})
	found, _ = st.EmailResponded(ctx, s.ID, "cat@example.com")
	if found {
		t.Error("Expected an in-progress response not to count as responded")
	}
}
