package questionnaire

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"esgboard/internal/dto"
)

// ErrInvalidAnswer is returned by SetAnswer for input the question's kind
// cannot hold.
var ErrInvalidAnswer = errors.New("invalid answer")

// AnswerKind is the behaviour of one question type: how raw input is parsed,
// how a stored server value is read back and how a value is serialized for
// submission. Values are nil when unanswered.
type AnswerKind interface {
	Type() dto.QuestionType
	// Parse converts user input. Blank input clears the answer.
	Parse(raw string) (any, error)
	// FromStored converts a value returned by the server.
	FromStored(v any) (any, bool)
	// Encode produces the submission value.
	Encode(v any) any
}

// KindOf selects the kind for a question. Unknown types are treated as
// free-text choice answers.
func KindOf(q dto.Question) AnswerKind {
	switch q.Type {
	case dto.TypeBoolean:
		return BooleanKind{}
	case dto.TypeNumeric:
		return NumericKind{}
	default:
		return ChoiceKind{Options: len(q.Options)}
	}
}

// BooleanKind answers are "1" (first option, yes) or "2" (second option, no).
type BooleanKind struct{}

func (BooleanKind) Type() dto.QuestionType { return dto.TypeBoolean }

func (BooleanKind) Parse(raw string) (any, error) {
	return parseIndex(raw, 2)
}

func (BooleanKind) FromStored(v any) (any, bool) {
	return storedIndex(v)
}

func (BooleanKind) Encode(v any) any { return encodeIndex(v) }

// ChoiceKind answers hold the 1-based index of one of Options choices.
type ChoiceKind struct {
	Options int
}

func (ChoiceKind) Type() dto.QuestionType { return dto.TypeChoice }

func (k ChoiceKind) Parse(raw string) (any, error) {
	return parseIndex(raw, k.Options)
}

func (ChoiceKind) FromStored(v any) (any, bool) {
	return storedIndex(v)
}

func (ChoiceKind) Encode(v any) any { return encodeIndex(v) }

// NumericKind answers are float64.
type NumericKind struct{}

func (NumericKind) Type() dto.QuestionType { return dto.TypeNumeric }

func (NumericKind) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidAnswer, raw)
	}
	return f, nil
}

func (NumericKind) FromStored(v any) (any, bool) {
	switch n := v.(type) {
	case nil:
		return nil, true
	case float64:
		return n, true
	case string:
		f, err := NumericKind{}.Parse(n)
		return f, err == nil
	}
	return nil, false
}

func (NumericKind) Encode(v any) any {
	if f, ok := v.(float64); ok {
		return f
	}
	return nil
}

func parseIndex(raw string, options int) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 1 || (options > 0 && idx > options) {
		return nil, fmt.Errorf("%w: %q is not an option between 1 and %d", ErrInvalidAnswer, raw, options)
	}
	return strconv.Itoa(idx), nil
}

func storedIndex(v any) (any, bool) {
	switch n := v.(type) {
	case nil:
		return nil, true
	case string:
		if n == "" {
			return nil, true
		}
		return n, true
	case float64:
		if n == math.Trunc(n) {
			return strconv.Itoa(int(n)), true
		}
	}
	return nil, false
}

func encodeIndex(v any) any {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return nil
}
