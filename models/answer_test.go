// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestKindFor(t *testing.T) {
	tests := []struct {
		questionType string
		want         ValueKind
	}{
		{QuestionRating, KindNumber},
		{QuestionNPS, KindNumber},
		{QuestionSlider, KindNumber},
		{QuestionNumber, KindNumber},
		{QuestionYesNo, KindBoolean},
		{QuestionSingleChoice, KindText},
		{QuestionMultipleChoice, KindText},
		{QuestionDropdown, KindText},
		{QuestionText, KindText},
		{QuestionTextarea, KindText},
		{QuestionEmail, KindText},
		{QuestionPhone, KindText},
		{QuestionURL, KindText},
		{QuestionDate, KindDate},
		{QuestionTime, KindTime},
		{QuestionFile, KindJSON},
	}

	for _, tt := range tests {
		t.Run(tt.questionType, func(t *testing.T) {
			if got := KindFor(tt.questionType); got != tt.want {
				t.Errorf("KindFor(%q) = %q, want %q", tt.questionType, got, tt.want)
			}
		})
	}
}

func TestBindAnswer(t *testing.T) {
	five := 5.0
	three := 3
	tests := []struct {
		name     string
		question Question
		raw      any
		want     AnswerValue
		wantErr  bool
	}{
		{"rating in range", Question{Type: QuestionRating}, 4.0, NumberValue(4), false},
		{"rating above default max", Question{Type: QuestionRating}, 6.0, AnswerValue{}, true},
		{"rating fractional", Question{Type: QuestionRating}, 2.5, AnswerValue{}, true},
		{"nps zero", Question{Type: QuestionNPS}, 0.0, NumberValue(0), false},
		{"nps eleven", Question{Type: QuestionNPS}, 11.0, AnswerValue{}, true},
		{"slider custom max", Question{Type: QuestionSlider, Options: QuestionOptions{Max: &five}}, 7.0, AnswerValue{}, true},
		{"number from string", Question{Type: QuestionNumber}, "12.5", NumberValue(12.5), false},
		{"number from text", Question{Type: QuestionNumber}, "abc", AnswerValue{}, true},
		{"yes_no bool", Question{Type: QuestionYesNo}, true, BoolValue(true), false},
		{"yes_no word", Question{Type: QuestionYesNo}, "No", BoolValue(false), false},
		{"yes_no number", Question{Type: QuestionYesNo}, 1.0, AnswerValue{}, true},
		{"single choice valid", Question{Type: QuestionSingleChoice, Options: QuestionOptions{Choices: []string{"A", "B"}}}, "B", TextValue("B"), false},
		{"single choice unknown", Question{Type: QuestionSingleChoice, Options: QuestionOptions{Choices: []string{"A", "B"}}}, "C", AnswerValue{}, true},
		{"multiple choice list", Question{Type: QuestionMultipleChoice, Options: QuestionOptions{Choices: []string{"A", "B", "C"}}}, []any{"A", "C"}, TextValue("A, C"), false},
		{"multiple choice repeated", Question{Type: QuestionMultipleChoice}, []any{"A", "A"}, AnswerValue{}, true},
		{"dropdown list of two", Question{Type: QuestionDropdown}, []any{"A", "B"}, AnswerValue{}, true},
		{"email valid", Question{Type: QuestionEmail}, "a@example.com", TextValue("a@example.com"), false},
		{"email invalid", Question{Type: QuestionEmail}, "not-an-email", AnswerValue{}, true},
		{"url valid", Question{Type: QuestionURL}, "https://example.com/x", TextValue("https://example.com/x"), false},
		{"url missing scheme", Question{Type: QuestionURL}, "example.com", AnswerValue{}, true},
		{"phone valid", Question{Type: QuestionPhone}, "+1 (555) 123-4567", TextValue("+1 (555) 123-4567"), false},
		{"text too short", Question{Type: QuestionText, Rules: ValidationRules{MinLength: &three}}, "ab", AnswerValue{}, true},
		{"text trimmed", Question{Type: QuestionText}, "  hello ", TextValue("hello"), false},
		{"date", Question{Type: QuestionDate}, "2024-03-01", DateValue(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)), false},
		{"date bad", Question{Type: QuestionDate}, "03/01/2024", AnswerValue{}, true},
		{"time", Question{Type: QuestionTime}, "09:30", TimeValue("09:30"), false},
		{"time bad", Question{Type: QuestionTime}, "25:00", AnswerValue{}, true},
		{"blank", Question{Type: QuestionText}, "   ", AnswerValue{}, true},
		{"nil", Question{Type: QuestionNumber}, nil, AnswerValue{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BindAnswer(tt.question, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got value %+v", got)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("Expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got.Kind != tt.want.Kind || got.Display() != tt.want.Display() {
				t.Errorf("Expected %s %q, got %s %q", tt.want.Kind, tt.want.Display(), got.Kind, got.Display())
			}
		})
	}
}

func TestBindAnswerFile(t *testing.T) {
	raw := map[string]any{"name": "cv.pdf", "size": 1024.0}
	got, err := BindAnswer(Question{Type: QuestionFile}, raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got.Kind != KindJSON {
		t.Fatalf("Expected json kind, got %s", got.Kind)
	}
	if got.Display() != `{"name":"cv.pdf","size":1024}` {
		t.Errorf("Unexpected display: %s", got.Display())
	}
}

func TestAnswerValueDisplay(t *testing.T) {
	tests := []struct {
		name  string
		value AnswerValue
		want  string
	}{
		{"true", BoolValue(true), "Yes"},
		{"false", BoolValue(false), "No"},
		{"integer", NumberValue(7), "7"},
		{"decimal", NumberValue(0.25), "0.25"},
		{"date drops time", DateValue(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)), "2024-12-31"},
		{"json compacted", JSONValue([]byte(`{ "a": 1 }`)), `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Display(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestAnswerValueMarshalJSON(t *testing.T) {
	b, err := json.Marshal(NumberValue(3))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `{"kind":"number","value":3}` {
		t.Errorf("Unexpected JSON: %s", b)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"validation", NewValidationError("x"), ErrValidation},
		{"ineligible", &IneligibleError{Reason: ReasonNotTargeted}, ErrIneligible},
		{"not found", &NotFoundError{Entity: "survey", ID: "1"}, ErrNotFound},
		{"editing", &EditingDisabledError{ResponseID: "r"}, ErrEditingDisabled},
		{"state", &StateError{Action: "publish", Status: StatusClosed}, ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.target)
			}
		})
	}

	base := errors.New("disk full")
	perr := &PersistenceError{Op: "insert response", Err: base}
	if !errors.Is(perr, base) {
		t.Error("PersistenceError should unwrap to its cause")
	}

	var ve *ValidationError
	if err := (&ValidationError{}).OrNil(); err != nil {
		t.Errorf("Empty ValidationError should be nil, got %v", err)
	}
	if !errors.As(error(NewValidationError("a", "b")), &ve) || len(ve.Problems) != 2 {
		t.Error("errors.As should expose the problem list")
	}
}
