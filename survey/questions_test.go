// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package survey_test

import (
	"context"
	"errors"
	"testing"

	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/testutil"
)

func questionIDs(qs []models.Question) []string {
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	return ids
}

func assertDenseOrder(t *testing.T, qs []models.Question) {
	t.Helper()
	for i, q := range qs {
		if q.OrderIndex != i {
			t.Errorf("Question %s has order_index %d, want %d", q.ID, q.OrderIndex, i)
		}
	}
}

func TestCreateQuestionOrdering(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	sv := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusDraft)

	first, err := svc.CreateQuestion(ctx, sv.ID, models.QuestionInput{Type: models.QuestionText, Text: "First"})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}
	last, err := svc.CreateQuestion(ctx, sv.ID, models.QuestionInput{Type: models.QuestionText, Text: "Last"})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	one := 1
	middle, err := svc.CreateQuestion(ctx, sv.ID, models.QuestionInput{Type: models.QuestionYesNo, Text: "Middle", OrderIndex: &one})
	if err != nil {
		t.Fatalf("CreateQuestion failed: %v", err)
	}

	qs, err := svc.Questions(ctx, sv.ID)
	if err != nil {
		t.Fatalf("Questions failed: %v", err)
	}
	want := []string{first.ID, middle.ID, last.ID}
	got := questionIDs(qs)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, got)
		}
	}
	assertDenseOrder(t, qs)

	nine := 9
	if _, err := svc.CreateQuestion(ctx, sv.ID, models.QuestionInput{Type: models.QuestionText, Text: "X", OrderIndex: &nine}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected out of range index to fail, got %v", err)
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	svc, st, _ := newService(t)
	sv := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusDraft)
	lo, hi := 10.0, 1.0

	tests := []struct {
		name  string
		input models.QuestionInput
	}{
		{"unknown type", models.QuestionInput{Type: "matrix", Text: "Q"}},
		{"blank text", models.QuestionInput{Type: models.QuestionText, Text: "  "}},
		{"one choice", models.QuestionInput{Type: models.QuestionSingleChoice, Text: "Q", Options: models.QuestionOptions{Choices: []string{"A"}}}},
		{"duplicate choice", models.QuestionInput{Type: models.QuestionDropdown, Text: "Q", Options: models.QuestionOptions{Choices: []string{"A", "A"}}}},
		{"min above max", models.QuestionInput{Type: models.QuestionSlider, Text: "Q", Options: models.QuestionOptions{Min: &lo, Max: &hi}}},
		{"bad pattern", models.QuestionInput{Type: models.QuestionText, Text: "Q", Rules: models.ValidationRules{Pattern: "("}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateQuestion(context.Background(), sv.ID, tt.input)
			if !errors.Is(err, models.ErrValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestQuestionEditsBlockedWhileActive(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	sv := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusActive)
	q := testutil.AddTestQuestion(t, st, sv.ID, models.QuestionText, false)

	if _, err := svc.CreateQuestion(ctx, sv.ID, models.QuestionInput{Type: models.QuestionText, Text: "New"}); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("CreateQuestion: expected invalid state, got %v", err)
	}
	if _, err := svc.UpdateQuestion(ctx, q.ID, models.QuestionInput{Type: models.QuestionText, Text: "Edit"}); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("UpdateQuestion: expected invalid state, got %v", err)
	}
	if err := svc.DeleteQuestion(ctx, q.ID); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("DeleteQuestion: expected invalid state, got %v", err)
	}
	if _, err := svc.ReorderQuestions(ctx, sv.ID, []string{q.ID}); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("ReorderQuestions: expected invalid state, got %v", err)
	}
}

func TestUpdateQuestionTypeChangeWithAnswers(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	sv := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusPaused)
	q := testutil.AddTestQuestion(t, st, sv.ID, models.QuestionText, false)

	updated, err := svc.UpdateQuestion(ctx, q.ID, models.QuestionInput{Type: models.QuestionText, Text: "Reworded", Required: true})
	if err != nil {
		t.Fatalf("UpdateQuestion failed: %v", err)
	}
	if updated.Text != "Reworded" || !updated.Required || updated.OrderIndex != 0 {
		t.Errorf("Unexpected question after update: %+v", updated)
	}

	testutil.InsertTestResponse(t, st, sv.ID, testutil.TestResponse{
		Answers: map[string]models.AnswerValue{q.ID: models.TextValue("hi")},
	})

	_, err = svc.UpdateQuestion(ctx, q.ID, models.QuestionInput{Type: models.QuestionNumber, Text: "Reworded"})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected type change with answers to fail, got %v", err)
	}
}

func TestDeleteQuestionCompacts(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	sv := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusDraft)
	a := testutil.AddTestQuestion(t, st, sv.ID, models.QuestionText, false)
	b := testutil.AddTestQuestion(t, st, sv.ID, models.QuestionText, false)
	c := testutil.AddTestQuestion(t, st, sv.ID, models.QuestionText, false)

	if err := svc.DeleteQuestion(ctx, b.ID); err != nil {
		t.Fatalf("DeleteQuestion failed: %v", err)
	}

	qs, _ := svc.Questions(ctx, sv.ID)
	if len(qs) != 2 || qs[0].ID != a.ID || qs[1].ID != c.ID {
		t.Fatalf("Unexpected questions after delete: %v", questionIDs(qs))
	}
	assertDenseOrder(t, qs)

	if err := svc.DeleteQuestion(ctx, b.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected not found for deleted question, got %v", err)
	}
}

func TestReorderQuestions(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()
	sv := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusDraft)
	a := testutil.AddTestQuestion(t, st, sv.ID, models.QuestionText, false)
	b := testutil.AddTestQuestion(t, st, sv.ID, models.QuestionText, false)
	c := testutil.AddTestQuestion(t, st, sv.ID, models.QuestionText, false)

	if _, err := svc.ReorderQuestions(ctx, sv.ID, []string{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("ReorderQuestions failed: %v", err)
	}
	qs, _ := svc.Questions(ctx, sv.ID)
	got := questionIDs(qs)
	if got[0] != c.ID || got[1] != a.ID || got[2] != b.ID {
		t.Errorf("Unexpected order %v", got)
	}
	assertDenseOrder(t, qs)

	bad := [][]string{
		{a.ID, b.ID},
		{a.ID, a.ID, b.ID},
		{a.ID, b.ID, "missing"},
	}
	for _, ids := range bad {
		if _, err := svc.ReorderQuestions(ctx, sv.ID, ids); !errors.Is(err, models.ErrValidation) {
			t.Errorf("ReorderQuestions(%v): expected validation error, got %v", ids, err)
		}
	}
}

func TestAddTargets(t *testing.T) {
	svc, st, _ := newService(t)
	ctx := context.Background()

	internal := testutil.CreateTestSurvey(t, st, models.SurveyInternal, models.StatusDraft)
	testutil.AddTestTarget(t, st, internal.ID, "E1", "Ana", "")

	added, err := svc.AddTargets(ctx, internal.ID, []models.TargetInput{{EmployeeID: "E1"}, {EmployeeID: " E2 "}})
	if err != nil {
		t.Fatalf("AddTargets failed: %v", err)
	}
	if added != 1 {
		t.Errorf("Expected 1 new target, got %d", added)
	}
	targets, _ := svc.ListTargets(ctx, internal.ID)
	if len(targets) != 2 {
		t.Errorf("Expected 2 targets, got %d", len(targets))
	}

	external := testutil.CreateTestSurvey(t, st, models.SurveyExternal, models.StatusDraft)
	if _, err := svc.AddTargets(ctx, external.ID, []models.TargetInput{{EmployeeID: "E1"}}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Expected validation error on external survey, got %v", err)
	}

	active := testutil.CreateTestSurvey(t, st, models.SurveyInternal, models.StatusActive)
	if _, err := svc.AddTargets(ctx, active.ID, []models.TargetInput{{EmployeeID: "E1"}}); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("Expected invalid state on active survey, got %v", err)
	}
}
