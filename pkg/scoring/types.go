// Package scoring implements the applyscore grading engine.
// It evaluates a candidate's answers against a job's grading rules and produces
// a deterministic, itemized score report.
package scoring

import (
	"encoding/json"
	"time"
)

// QuestionType is the declared kind of a question. A question's scoring rule
// must be of the same kind.
type QuestionType string

const (
	TypeSingleChoice QuestionType = "single_choice"
	TypeMultiChoice  QuestionType = "multi_choice"
	TypeNumber       QuestionType = "number"
	TypeText         QuestionType = "text"
)

// QuestionTypes lists every known question type in declaration order.
var QuestionTypes = []QuestionType{TypeSingleChoice, TypeMultiChoice, TypeNumber, TypeText}

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Job is a posting with an ordered list of graded questions.
// Immutable once created.
type Job struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Location    string     `json:"location"`
	Customer    string     `json:"customer"`
	JobName     string     `json:"jobName"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Question is a single prompt with a declared type and a matching scoring rule.
type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
	Scoring Scoring      `json:"scoring"`
}

// MaxPoints returns the question's maximum award, or 0 when it has no rule.
func (q Question) MaxPoints() float64 {
	if q.Scoring.Rule == nil {
		return 0
	}
	return q.Scoring.Rule.Points()
}

// Candidate identifies the person submitting an application.
type Candidate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Answer is a candidate's response to one question.
type Answer struct {
	QuestionID string `json:"questionId"`
	Answer     Value  `json:"answer"`
}

// Application is a scored submission against a job. The score is computed
// once at creation and never recomputed.
type Application struct {
	ID        string      `json:"id"`
	JobID     string      `json:"jobId"`
	Candidate Candidate   `json:"candidate"`
	Answers   []Answer    `json:"answers"`
	Score     ScoreReport `json:"score"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ScoreReport is the complete output of scoring one application.
// Immutable once computed.
type ScoreReport struct {
	Total       float64         `json:"total"`    // rounded to 2 decimals
	MaxTotal    float64         `json:"maxTotal"` // unrounded sum of maxPoints
	PerQuestion []QuestionScore `json:"perQuestion"`
}

// Ratio returns Total/MaxTotal, or 0 for a job with no attainable points.
func (r ScoreReport) Ratio() float64 {
	if r.MaxTotal <= 0 {
		return 0
	}
	return r.Total / r.MaxTotal
}

// QuestionScore is the award for a single question with a human-readable
// explanation.
type QuestionScore struct {
	QuestionID string  `json:"questionId"`
	Awarded    float64 `json:"awarded"`
	Max        float64 `json:"max"`
	Reason     string  `json:"reason"`
}

// Value is the raw answer payload: a string, a sequence of strings or a number.
// The shape is not trusted; scorers inspect it and degrade to zero points
// when it does not fit the question.
type Value struct {
	raw any
}

// StringValue wraps a string answer.
func StringValue(s string) Value { return Value{raw: s} }

// StringsValue wraps a multi-selection answer.
func StringsValue(ss ...string) Value {
	if ss == nil {
		ss = []string{}
	}
	return Value{raw: ss}
}

// NumberValue wraps a numeric answer.
func NumberValue(f float64) Value { return Value{raw: f} }

// RawValue wraps an arbitrary decoded JSON value.
func RawValue(v any) Value { return Value{raw: v} }

// Raw returns the underlying value.
func (v Value) Raw() any { return v.raw }

// String returns the answer as a string if it is one.
func (v Value) String() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Strings returns the answer as a slice of strings if it is a sequence whose
// elements are all strings.
func (v Value) Strings() ([]string, bool) {
	switch t := v.raw.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// Number returns the answer as a float64 if it is numeric.
func (v Value) Number() (float64, bool) {
	switch t := v.raw.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.raw = raw
	return nil
}
