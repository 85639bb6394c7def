package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

// QuestionType is the answer-shape tag of a question.
type QuestionType int

const (
	TypeBoolean QuestionType = 1
	TypeChoice  QuestionType = 2
	TypeNumeric QuestionType = 3
)

// MaxOptions is the number of option slots a question carries on the wire.
const MaxOptions = 10

// EmptyOption marks an unused option slot.
const EmptyOption = "0"

func (t QuestionType) Valid() bool {
	return t >= TypeBoolean && t <= TypeNumeric
}

func (t QuestionType) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeChoice:
		return "choice"
	case TypeNumeric:
		return "numeric"
	default:
		return fmt.Sprintf("QuestionType(%d)", int(t))
	}
}

// Question is one prompt of a section questionnaire. Options holds only the
// used slots; on the wire they are spread over answer1..answer10 with unused
// slots set to "0".
type Question struct {
	Code        string
	Section     string
	Name        string
	Type        QuestionType
	Options     []string
	AnswerGuide string
}

type questionWire struct {
	QuestionCode string       `json:"questionCode"`
	Section      string       `json:"section,omitempty"`
	Name         string       `json:"name"`
	Type         QuestionType `json:"type"`
	Answer1      string       `json:"answer1"`
	Answer2      string       `json:"answer2"`
	Answer3      string       `json:"answer3"`
	Answer4      string       `json:"answer4"`
	Answer5      string       `json:"answer5"`
	Answer6      string       `json:"answer6"`
	Answer7      string       `json:"answer7"`
	Answer8      string       `json:"answer8"`
	Answer9      string       `json:"answer9"`
	Answer10     string       `json:"answer10"`
	AnswerGuide  string       `json:"answerGuide,omitempty"`
}

func (w *questionWire) slots() [MaxOptions]*string {
	return [MaxOptions]*string{
		&w.Answer1, &w.Answer2, &w.Answer3, &w.Answer4, &w.Answer5,
		&w.Answer6, &w.Answer7, &w.Answer8, &w.Answer9, &w.Answer10,
	}
}

func (q Question) MarshalJSON() ([]byte, error) {
	if len(q.Options) > MaxOptions {
		return nil, fmt.Errorf("question %s has %d options, at most %d allowed", q.Code, len(q.Options), MaxOptions)
	}
	w := questionWire{
		QuestionCode: q.Code,
		Section:      q.Section,
		Name:         q.Name,
		Type:         q.Type,
		AnswerGuide:  q.AnswerGuide,
	}
	for i, slot := range w.slots() {
		*slot = EmptyOption
		if i < len(q.Options) {
			*slot = q.Options[i]
		}
	}
	return json.Marshal(w)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*q = Question{
		Code:        w.QuestionCode,
		Section:     w.Section,
		Name:        w.Name,
		Type:        w.Type,
		AnswerGuide: w.AnswerGuide,
	}
	// Options fill slots from answer1 on; a used slot after an empty one would
	// shift every 1-based answer index behind it.
	end := 0
	for i, slot := range w.slots() {
		if *slot == "" || *slot == EmptyOption {
			continue
		}
		if i != end {
			return fmt.Errorf("question %s: option answer%d follows an empty slot", w.QuestionCode, i+1)
		}
		q.Options = append(q.Options, *slot)
		end++
	}
	return nil
}

// StoredAnswer is a previously submitted answer as returned by the server.
// Answer is nil, a string or a float64 after JSON decoding.
type StoredAnswer struct {
	QuestionCode string       `json:"questionCode"`
	QuestionType QuestionType `json:"questionType"`
	Answer       any          `json:"answer"`
}

// SubmittedAnswer is one entry of a Submission. Answer is nil, a string
// (option index) or a float64.
type SubmittedAnswer struct {
	QuestionCode string `json:"questionCode"`
	Answer       any    `json:"answer"`
}

// Submission is the full answer set for one section and year.
type Submission struct {
	Section string            `json:"section"`
	Year    int               `json:"year"`
	Answers []SubmittedAnswer `json:"answers"`
}

// SectionSubmitCount feeds the dashboard badges of the metrics page.
type SectionSubmitCount struct {
	SectionName string     `json:"sectionName"`
	SubmitCount int        `json:"submitCount"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// SectionProgress is the target-page counterpart of SectionSubmitCount.
type SectionProgress struct {
	SectionName         string     `json:"sectionName"`
	PercentileCompleted float64    `json:"percentileCompleted"`
	UpdatedAt           *time.Time `json:"updatedAt,omitempty"`
}
