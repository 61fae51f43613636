// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/store"
	"github.com/danielhkuo/quickly-survey/survey"
	"github.com/danielhkuo/quickly-survey/testutil"
)

func newService(t *testing.T) (*survey.Service, *store.Store, *testutil.Clock) {
	t.Helper()
	st := testutil.SetupTestStore(t)
	clock := testutil.NewClock(testutil.Epoch)
	svc := survey.New(st, survey.WithClock(clock.Now), survey.WithBaseURL("https://surveys.example.com/"))
	return svc, st, clock
}

func TestCreateSurvey(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()

	sv, err := svc.Create(ctx, models.CreateSurveyInput{
		Title: "  Café Feedback ",
		Type:  models.SurveyInternal,
		Targets: []models.TargetInput{
			{EmployeeID: "E1", EmployeeName: "Ana"},
			{EmployeeID: "E2"},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if sv.Status != models.StatusDraft {
		t.Errorf("Expected draft, got %s", sv.Status)
	}
	if sv.Title != "Café Feedback" {
		t.Errorf("Expected trimmed title, got %q", sv.Title)
	}
	if sv.Slug != "cafe-feedback" {
		t.Errorf("Expected slug derived from title, got %q", sv.Slug)
	}
	if sv.DurationType != models.DurationUnlimited {
		t.Errorf("Expected unlimited duration by default, got %s", sv.DurationType)
	}
	if !sv.ShowProgressBar {
		t.Error("Expected progress bar on by default")
	}

	targets, err := st.ListTargets(ctx, sv.ID)
	if err != nil {
		t.Fatalf("ListTargets failed: %v", err)
	}
	if len(targets) != 2 {
		t.Errorf("Expected 2 targets, got %d", len(targets))
	}
}

func TestCreateSurveyValidation(t *testing.T) {
	svc, _, _ := newService(t)
	past := testutil.Epoch.Add(-time.Hour)
	zero := 0

	tests := []struct {
		name  string
		input models.CreateSurveyInput
	}{
		{"missing title", models.CreateSurveyInput{Type: models.SurveyExternal}},
		{"bad type", models.CreateSurveyInput{Title: "X", Type: "public"}},
		{"limited without end", models.CreateSurveyInput{Title: "X", Type: models.SurveyExternal, DurationType: models.DurationLimited}},
		{"end before start", models.CreateSurveyInput{Title: "X", Type: models.SurveyExternal, StartDate: &testutil.Epoch, EndDate: &past}},
		{"zero max responses", models.CreateSurveyInput{Title: "X", Type: models.SurveyExternal, MaxResponses: &zero}},
		{"relative redirect", models.CreateSurveyInput{Title: "X", Type: models.SurveyExternal, RedirectURL: "/thanks"}},
		{"external with targets", models.CreateSurveyInput{Title: "X", Type: models.SurveyExternal, Targets: []models.TargetInput{{EmployeeID: "E1"}}}},
		{"blank target id", models.CreateSurveyInput{Title: "X", Type: models.SurveyInternal, Targets: []models.TargetInput{{EmployeeID: " "}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestPublishRules(t *testing.T) {
	svc, st, clock := newService(t)
	ctx := context.Background()

	empty := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusDraft)
	if _, err := svc.Publish(ctx, empty.ID); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected validation error for survey without questions, got %v", err)
	}

	end := testutil.Epoch.Add(time.Hour)
	sv := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusDraft, func(s *models.Survey) {
		s.DurationType = models.DurationLimited
		s.EndDate = &end
	})
	testutil.AddTestQuestion(t, st, sv.ID, models.QuestionText, false)

	published, err := svc.Publish(ctx, sv.ID)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if published.Status != models.StatusActive {
		t.Errorf("Expected active, got %s", published.Status)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(testutil.Epoch) {
		t.Errorf("Expected published_at %v, got %v", testutil.Epoch, published.PublishedAt)
	}

	if _, err := svc.Pause(ctx, sv.ID); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}

	clock.Advance(2 * time.Hour)
	if _, err := svc.Publish(ctx, sv.ID); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected resume past end date to fail validation, got %v", err)
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		action  func(*survey.Service, context.Context, string) error
		want    string
		wantErr error
	}{
		{"pause active", models.StatusActive, pause, models.StatusPaused, nil},
		{"pause draft", models.StatusDraft, pause, "", models.ErrInvalidState},
		{"close paused", models.StatusPaused, closeSurvey, models.StatusClosed, nil},
		{"close draft", models.StatusDraft, closeSurvey, "", models.ErrInvalidState},
		{"close expired", models.StatusExpired, closeSurvey, models.StatusClosed, nil},
		{"publish closed", models.StatusClosed, publish, "", models.ErrInvalidState},
		{"delete closed", models.StatusClosed, deleteSurvey, models.StatusDeleted, nil},
		{"delete deleted", models.StatusDeleted, deleteSurvey, "", models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st, _ := newService(t)
			sv := testutil.CreateTestSurvey(t, st, models.SurveyExternal, tt.from)
			testutil.AddTestQuestion(t, st, sv.ID, models.QuestionText, false)

			err := tt.action(svc, context.Background(), sv.ID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			got, err := st.GetSurvey(context.Background(), sv.ID)
			if err != nil {
				t.Fatalf("GetSurvey failed: %v", err)
			}
			if got.Status != tt.want {
				t.Errorf("Expected status %s, got %s", tt.want, got.Status)
			}
		})
	}
}

func pause(s *survey.Service, ctx context.Context, id string) error {
	_, err := s.Pause(ctx, id)
	return err
}

func closeSurvey(s *survey.Service, ctx context.Context, id string) error {
	_, err := s.Close(ctx, id)
	return err
}

func publish(s *survey.Service, ctx context.Context, id string) error {
	_, err := s.Publish(ctx, id)
	return err
}

func deleteSurvey(s *survey.Service, ctx context.Context, id string) error {
	return s.Delete(ctx, id)
}

func TestCloseSetsClosedAt(t *testing.T) {
	svc, st, _ := newService(t)
	sv := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusActive)

	closed, err := svc.Close(context.Background(), sv.ID)
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if closed.ClosedAt == nil || !closed.ClosedAt.Equal(testutil.Epoch) {
		t.Errorf("Expected closed_at %v, got %v", testutil.Epoch, closed.ClosedAt)
	}
}

func TestUpdateBlockedWhileActive(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	title := "Renamed"

	active := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusActive)
	if _, err := svc.Update(ctx, active.ID, models.UpdateSurveyInput{Title: &title}); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("Expected invalid state, got %v", err)
	}

	paused := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusPaused)
	updated, err := svc.Update(ctx, paused.ID, models.UpdateSurveyInput{Title: &title})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != title {
		t.Errorf("Expected title %q, got %q", title, updated.Title)
	}

	limited := models.DurationLimited
	if _, err := svc.Update(ctx, paused.ID, models.UpdateSurveyInput{DurationType: &limited}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected validation error for limited survey without end date, got %v", err)
	}
}

func TestListUsesEffectiveStatus(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()

	past := testutil.Epoch.Add(-time.Minute)
	overdue := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusActive, func(s *models.Survey) {
		s.DurationType = models.DurationLimited
		s.EndDate = &past
	})
	testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusActive)
	testutil.CreateTestSurvey(t, st, models.SurveyInternal, models.StatusDraft)
	testutil.CreateTestSurvey(t, st, models.SurveyInternal, models.StatusDeleted)

	all, err := svc.List(ctx, models.ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 non-deleted surveys, got %d", len(all))
	}

	expired, err := svc.List(ctx, models.ListFilter{Status: models.StatusExpired})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != overdue.ID {
		t.Fatalf("Expected only the overdue survey, got %+v", expired)
	}
	if expired[0].Status != models.StatusActive {
		t.Errorf("Stored status should still be active before the sweep, got %s", expired[0].Status)
	}

	internal, err := svc.List(ctx, models.ListFilter{Type: models.SurveyInternal})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(internal) != 1 {
		t.Errorf("Expected 1 internal survey, got %d", len(internal))
	}
}

func TestExpireOverdue(t *testing.T) {
	svc, st, clock := newService(t)
	ctx := context.Background()

	end := testutil.Epoch.Add(time.Hour)
	sv := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusActive, func(s *models.Survey) {
		s.DurationType = models.DurationLimited
		s.EndDate = &end
	})

	n, err := svc.ExpireOverdue(ctx)
	if err != nil {
		t.Fatalf("ExpireOverdue failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected nothing to expire yet, got %d", n)
	}

	clock.Advance(2 * time.Hour)
	n, err = svc.ExpireOverdue(ctx)
	if err != nil {
		t.Fatalf("ExpireOverdue failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 expired survey, got %d", n)
	}

	got, _ := st.GetSurvey(ctx, sv.ID)
	if got.Status != models.StatusExpired {
		t.Errorf("Expected stored status expired, got %s", got.Status)
	}

	n, _ = svc.ExpireOverdue(ctx)
	if n != 0 {
		t.Errorf("Second sweep should be a no-op, got %d", n)
	}
}

func TestDuplicate(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()

	end := testutil.Epoch.Add(time.Hour)
	orig := testutil.CreateTestSurvey(t, st, models.SurveyInternal, models.StatusActive, func(s *models.Survey) {
		s.Title = "Onboarding"
		s.DurationType = models.DurationLimited
		s.EndDate = &end
		s.HasPassword = true
	})
	testutil.AddTestQuestion(t, st, orig.ID, models.QuestionRating, true)
	testutil.AddTestQuestion(t, st, orig.ID, models.QuestionText, false)
	testutil.AddTestTarget(t, st, orig.ID, "E1", "Ana", "ana@example.com")

	dup, err := svc.Duplicate(ctx, orig.ID)
	if err != nil {
		t.Fatalf("Duplicate failed: %v", err)
	}

	if dup.Title != "Onboarding (Copy)" {
		t.Errorf("Unexpected title %q", dup.Title)
	}
	if dup.Slug != "onboarding-copy" {
		t.Errorf("Unexpected slug %q", dup.Slug)
	}
	if dup.Status != models.StatusDraft || dup.DurationType != models.DurationUnlimited || dup.EndDate != nil {
		t.Errorf("Expected an unscheduled draft, got status=%s duration=%s end=%v", dup.Status, dup.DurationType, dup.EndDate)
	}
	if dup.HasPassword {
		t.Error("Password should not be copied")
	}

	questions, _ := st.ListQuestions(ctx, dup.ID)
	if len(questions) != 2 || questions[0].Type != models.QuestionRating || !questions[0].Required {
		t.Errorf("Expected questions copied in order, got %+v", questions)
	}
	targets, _ := st.ListTargets(ctx, dup.ID)
	if len(targets) != 0 {
		t.Errorf("Targets should not be copied, got %d", len(targets))
	}
}

func TestDuplicateRollsBackOnQuestionFailure(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn, db.SQLite)
	svc := survey.New(st, survey.WithClock(testutil.NewClock(testutil.Epoch).Now))
	ctx := context.Background()

	orig := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusDraft)
	testutil.AddTestQuestion(t, st, orig.ID, models.QuestionText, false)

	_, err := conn.Exec(`
		CREATE TRIGGER reject_questions BEFORE INSERT ON survey_questions
		BEGIN SELECT RAISE(ABORT, 'question insert rejected'); END`)
	if err != nil {
		t.Fatalf("Failed to create trigger: %v", err)
	}

	if _, err := svc.Duplicate(ctx, orig.ID); err == nil {
		t.Fatal("Expected Duplicate to fail when questions cannot be copied")
	}

	surveys, err := svc.List(ctx, models.ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(surveys) != 1 || surveys[0].ID != orig.ID {
		t.Errorf("Expected only the original survey, got %d surveys", len(surveys))
	}
}

func TestShare(t *testing.T) {
	svc, st, _ := newService(t)
	sv := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusActive)

	info, err := svc.Share(context.Background(), sv.ID)
	if err != nil {
		t.Fatalf("Share failed: %v", err)
	}
	want := "https://surveys.example.com/s/" + sv.Slug
	if info.PublicURL != want {
		t.Errorf("Expected %q, got %q", want, info.PublicURL)
	}
	if !strings.Contains(info.EmbedCode, `src="`+want+`"`) {
		t.Errorf("Embed code does not reference the link: %s", info.EmbedCode)
	}
}
