// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Question type constants
const (
	QuestionRating         = "rating"
	QuestionNPS            = "nps"
	QuestionSlider         = "slider"
	QuestionNumber         = "number"
	QuestionSingleChoice   = "single_choice"
	QuestionMultipleChoice = "multiple_choice"
	QuestionDropdown       = "dropdown"
	QuestionYesNo          = "yes_no"
	QuestionText           = "text"
	QuestionTextarea       = "textarea"
	QuestionEmail          = "email"
	QuestionPhone          = "phone"
	QuestionURL            = "url"
	QuestionDate           = "date"
	QuestionTime           = "time"
	QuestionFile           = "file"
)

// Question categories used by analytics
const (
	CategoryNumeric = "numeric"
	CategoryChoice  = "choice"
	CategoryText    = "text"
	CategoryOther   = "other"
)

var questionCategories = map[string]string{
	QuestionRating:         CategoryNumeric,
	QuestionNPS:            CategoryNumeric,
	QuestionSlider:         CategoryNumeric,
	QuestionNumber:         CategoryNumeric,
	QuestionSingleChoice:   CategoryChoice,
	QuestionMultipleChoice: CategoryChoice,
	QuestionDropdown:       CategoryChoice,
	QuestionYesNo:          CategoryChoice,
	QuestionText:           CategoryText,
	QuestionTextarea:       CategoryText,
	QuestionEmail:          CategoryText,
	QuestionPhone:          CategoryText,
	QuestionURL:            CategoryText,
	QuestionDate:           CategoryOther,
	QuestionTime:           CategoryOther,
	QuestionFile:           CategoryOther,
}

// IsValidQuestionType reports whether t belongs to the closed set of question types.
func IsValidQuestionType(t string) bool {
	_, ok := questionCategories[t]
	return ok
}

// CategoryOf returns the analytics category for a question type.
func CategoryOf(t string) string {
	return questionCategories[t]
}

// ValueKind tags which field of an AnswerValue carries the answer.
type ValueKind string

const (
	KindText    ValueKind = "text"
	KindNumber  ValueKind = "number"
	KindBoolean ValueKind = "boolean"
	KindDate    ValueKind = "date"
	KindTime    ValueKind = "time"
	KindJSON    ValueKind = "json"
)

// DateLayout is the storage and display layout for date answers.
const DateLayout = "2006-01-02"

// KindFor maps a question type to the kind of value its answers carry.
func KindFor(questionType string) ValueKind {
	switch questionType {
	case QuestionYesNo:
		return KindBoolean
	case QuestionDate:
		return KindDate
	case QuestionTime:
		return KindTime
	case QuestionFile:
		return KindJSON
	}
	if CategoryOf(questionType) == CategoryNumeric {
		return KindNumber
	}
	return KindText
}

// AnswerValue is a tagged union. Only the field selected by Kind is meaningful.
type AnswerValue struct {
	Kind   ValueKind
	Text   string
	Number float64
	Bool   bool
	Date   time.Time
	Time   string
	JSON   json.RawMessage
}

func TextValue(s string) AnswerValue { return AnswerValue{Kind: KindText, Text: s} }
func NumberValue(f float64) AnswerValue { return AnswerValue{Kind: KindNumber, Number: f} }
func BoolValue(b bool) AnswerValue { return AnswerValue{Kind: KindBoolean, Bool: b} }
func TimeValue(s string) AnswerValue { return AnswerValue{Kind: KindTime, Time: s} }
func JSONValue(raw []byte) AnswerValue { return AnswerValue{Kind: KindJSON, JSON: raw} }
func DateValue(t time.Time) AnswerValue {
	y, m, d := t.Date()
	return AnswerValue{Kind: KindDate, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Raw returns the value as a plain Go value suitable for JSON encoding.
func (v AnswerValue) Raw() any {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return v.Number
	case KindBoolean:
		return v.Bool
	case KindDate:
		return v.Date.Format(DateLayout)
	case KindTime:
		return v.Time
	case KindJSON:
		return v.JSON
	}
	return nil
}

// Display renders the value for exports.
// Booleans become Yes/No and numbers use their shortest form.
func (v AnswerValue) Display() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBoolean:
		if v.Bool {
			return "Yes"
		}
		return "No"
	case KindDate:
		return v.Date.Format(DateLayout)
	case KindTime:
		return v.Time
	case KindJSON:
		var buf bytes.Buffer
		if err := json.Compact(&buf, v.JSON); err != nil {
			return string(v.JSON)
		}
		return buf.String()
	}
	return ""
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	raw := v.Raw()
	if v.Kind == KindJSON && len(v.JSON) == 0 {
		raw = nil
	}
	return json.Marshal(struct {
		Kind  ValueKind `json:"kind"`
		Value any       `json:"value"`
	}{v.Kind, raw})
}

// IsBlank reports whether a raw answer carries no value at all.
func IsBlank(raw any) bool {
	switch x := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}

var (
	timePattern  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-.]{7,20}$`)
)

// BindAnswer converts a loosely typed raw value into the tagged value for q
// and checks it against the question's options and validation rules.
// Blank input is rejected; callers decide whether a blank answer is allowed.
func BindAnswer(q Question, raw any) (AnswerValue, error) {
	if IsBlank(raw) {
		return AnswerValue{}, NewValidationError(fmt.Sprintf("question %s: answer is empty", q.ID))
	}

	var (
		v   AnswerValue
		err error
	)
	switch KindFor(q.Type) {
	case KindNumber:
		v, err = bindNumber(q, raw)
	case KindBoolean:
		v, err = bindBool(raw)
	case KindDate:
		v, err = bindDate(raw)
	case KindTime:
		v, err = bindTime(raw)
	case KindJSON:
		v, err = bindJSON(raw)
	default:
		v, err = bindText(q, raw)
	}
	if err != nil {
		return AnswerValue{}, NewValidationError(fmt.Sprintf("question %s: %v", q.ID, err))
	}
	return v, nil
}

func bindNumber(q Question, raw any) (AnswerValue, error) {
	var f float64
	switch x := raw.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return AnswerValue{}, fmt.Errorf("expected a number, got %q", x.String())
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return AnswerValue{}, fmt.Errorf("expected a number, got %q", x)
		}
		f = parsed
	default:
		return AnswerValue{}, fmt.Errorf("expected a number, got %T", raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return AnswerValue{}, fmt.Errorf("expected a finite number")
	}

	lo, hi := q.Options.Min, q.Options.Max
	switch q.Type {
	case QuestionRating:
		lo, hi = orDefault(lo, 1), orDefault(hi, 5)
	case QuestionNPS:
		lo, hi = orDefault(lo, 0), orDefault(hi, 10)
	}
	if (q.Type == QuestionRating || q.Type == QuestionNPS) && f != math.Trunc(f) {
		return AnswerValue{}, fmt.Errorf("expected a whole number, got %v", f)
	}
	if lo != nil && f < *lo {
		return AnswerValue{}, fmt.Errorf("value %v is below the minimum %v", f, *lo)
	}
	if hi != nil && f > *hi {
		return AnswerValue{}, fmt.Errorf("value %v is above the maximum %v", f, *hi)
	}
	return NumberValue(f), nil
}

func orDefault(p *float64, def float64) *float64 {
	if p != nil {
		return p
	}
	return &def
}

func bindBool(raw any) (AnswerValue, error) {
	switch x := raw.(type) {
	case bool:
		return BoolValue(x), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes":
			return BoolValue(true), nil
		case "false", "no":
			return BoolValue(false), nil
		}
		return AnswerValue{}, fmt.Errorf("expected yes or no, got %q", x)
	}
	return AnswerValue{}, fmt.Errorf("expected a boolean, got %T", raw)
}

func bindDate(raw any) (AnswerValue, error) {
	switch x := raw.(type) {
	case time.Time:
		return DateValue(x.UTC()), nil
	case string:
		s := strings.TrimSpace(x)
		if t, err := time.Parse(DateLayout, s); err == nil {
			return DateValue(t), nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return DateValue(t.UTC()), nil
		}
		return AnswerValue{}, fmt.Errorf("expected a date (YYYY-MM-DD), got %q", x)
	}
	return AnswerValue{}, fmt.Errorf("expected a date, got %T", raw)
}

func bindTime(raw any) (AnswerValue, error) {
	s, ok := raw.(string)
	if !ok {
		return AnswerValue{}, fmt.Errorf("expected a time, got %T", raw)
	}
	s = strings.TrimSpace(s)
	if !timePattern.MatchString(s) {
		return AnswerValue{}, fmt.Errorf("expected a time (HH:MM), got %q", s)
	}
	return TimeValue(s), nil
}

func bindJSON(raw any) (AnswerValue, error) {
	if b, ok := raw.(json.RawMessage); ok {
		if !json.Valid(b) {
			return AnswerValue{}, fmt.Errorf("invalid JSON value")
		}
		var buf bytes.Buffer
		_ = json.Compact(&buf, b)
		return JSONValue(buf.Bytes()), nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return AnswerValue{}, fmt.Errorf("value is not JSON encodable: %v", err)
	}
	return JSONValue(b), nil
}

func bindText(q Question, raw any) (AnswerValue, error) {
	var s string
	switch x := raw.(type) {
	case string:
		s = strings.TrimSpace(x)
	case []string:
		return bindSelections(q, x)
	case []any:
		picks := make([]string, 0, len(x))
		for _, item := range x {
			str, ok := item.(string)
			if !ok {
				return AnswerValue{}, fmt.Errorf("expected a list of strings, got %T", item)
			}
			picks = append(picks, str)
		}
		return bindSelections(q, picks)
	case float64, int, int64, bool:
		s = fmt.Sprint(x)
	default:
		return AnswerValue{}, fmt.Errorf("expected text, got %T", raw)
	}

	switch q.Type {
	case QuestionMultipleChoice:
		return bindSelections(q, []string{s})
	case QuestionSingleChoice, QuestionDropdown:
		if len(q.Options.Choices) > 0 && !slices.Contains(q.Options.Choices, s) {
			return AnswerValue{}, fmt.Errorf("%q is not one of the available choices", s)
		}
	case QuestionEmail:
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return AnswerValue{}, fmt.Errorf("%q is not a valid email address", s)
		}
	case QuestionURL:
		u, err := url.ParseRequestURI(s)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return AnswerValue{}, fmt.Errorf("%q is not a valid URL", s)
		}
	case QuestionPhone:
		if !phonePattern.MatchString(s) {
			return AnswerValue{}, fmt.Errorf("%q is not a valid phone number", s)
		}
	}

	if err := checkRules(q.Rules, s); err != nil {
		return AnswerValue{}, err
	}
	return TextValue(s), nil
}

// bindSelections stores multiple-choice picks as one text value joined by ", ".
func bindSelections(q Question, picks []string) (AnswerValue, error) {
	if q.Type != QuestionMultipleChoice && len(picks) != 1 {
		return AnswerValue{}, fmt.Errorf("expected a single value, got %d", len(picks))
	}
	picks = slices.Clone(picks)
	seen := make(map[string]bool, len(picks))
	for i, p := range picks {
		p = strings.TrimSpace(p)
		if p == "" {
			return AnswerValue{}, fmt.Errorf("empty selection")
		}
		if seen[p] {
			return AnswerValue{}, fmt.Errorf("%q selected more than once", p)
		}
		seen[p] = true
		if len(q.Options.Choices) > 0 && !slices.Contains(q.Options.Choices, p) {
			return AnswerValue{}, fmt.Errorf("%q is not one of the available choices", p)
		}
		picks[i] = p
	}
	return TextValue(strings.Join(picks, ", ")), nil
}

func checkRules(r ValidationRules, s string) error {
	n := utf8.RuneCountInString(s)
	if r.MinLength != nil && n < *r.MinLength {
		return fmt.Errorf("must be at least %d characters", *r.MinLength)
	}
	if r.MaxLength != nil && n > *r.MaxLength {
		return fmt.Errorf("must be at most %d characters", *r.MaxLength)
	}
	if r.Pattern != "" {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("question has an invalid pattern")
		}
		if !re.MatchString(s) {
			return fmt.Errorf("does not match the required format")
		}
	}
	return nil
}
