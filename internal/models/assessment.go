package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"esgboard/internal/dto"
	"esgboard/internal/i18n"
)

// Question is one entry of the question bank. Names, options and guides are
// stored per language; options are JSON encoded so every driver can hold them.
type Question struct {
	ID             uint             `gorm:"primaryKey"`
	Code           string           `gorm:"uniqueIndex;size:64;not null"`
	Section        string           `gorm:"index;size:96;not null"`
	Position       int              `gorm:"not null;default:0"`
	Type           dto.QuestionType `gorm:"not null"`
	NameEn         string
	NameVi         string
	OptionsEn      []string `gorm:"serializer:json"`
	OptionsVi      []string `gorm:"serializer:json"`
	GuideEn        string
	GuideVi        string
	Weight         float64 `gorm:"not null"`
	HigherIsBetter bool    `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Localized converts the question into its wire form for lang.
func (q *Question) Localized(lang i18n.Lang) dto.Question {
	options := q.OptionsEn
	if lang == i18n.VI && len(q.OptionsVi) == len(q.OptionsEn) {
		options = q.OptionsVi
	}
	if q.Type == dto.TypeBoolean && len(options) == 0 {
		options = []string{i18n.Pick(lang, "Yes", "Có"), i18n.Pick(lang, "No", "Không")}
	}
	return dto.Question{
		Code:        q.Code,
		Section:     q.Section,
		Name:        i18n.Pick(lang, q.NameEn, q.NameVi),
		Type:        q.Type,
		Options:     append([]string(nil), options...),
		AnswerGuide: i18n.Pick(lang, q.GuideEn, q.GuideVi),
	}
}

// Text is a per-language string in the question bank file.
type Text struct {
	En string `yaml:"en"`
	Vi string `yaml:"vi"`
}

// TextList is a per-language option list in the question bank file.
type TextList struct {
	En []string `yaml:"en"`
	Vi []string `yaml:"vi"`
}

// BankQuestion matches the YAML structure of the question bank.
type BankQuestion struct {
	Code           string   `yaml:"code"`
	Section        string   `yaml:"section"`
	Type           string   `yaml:"type"`
	Name           Text     `yaml:"name"`
	Options        TextList `yaml:"options"`
	Guide          Text     `yaml:"guide"`
	Weight         *float64 `yaml:"weight"`
	HigherIsBetter *bool    `yaml:"higher_is_better"`
}

// QuestionBank holds all seed questions.
type QuestionBank struct {
	Questions []BankQuestion `yaml:"questions"`
}

// LoadQuestionBank reads and parses the question bank file.
func LoadQuestionBank(path string) (*QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank: %w", err)
	}
	return ParseQuestionBank(data)
}

// ParseQuestionBank parses a question bank document.
func ParseQuestionBank(data []byte) (*QuestionBank, error) {
	var bank QuestionBank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question bank YAML: %w", err)
	}
	return &bank, nil
}

// Models converts the bank into Question rows, keeping file order per section.
func (b *QuestionBank) Models() ([]Question, error) {
	seen := make(map[string]bool, len(b.Questions))
	positions := make(map[string]int)
	out := make([]Question, 0, len(b.Questions))
	for _, bq := range b.Questions {
		if bq.Code == "" || bq.Section == "" {
			return nil, fmt.Errorf("question bank entry is missing code or section: %+v", bq)
		}
		if seen[bq.Code] {
			return nil, fmt.Errorf("duplicate question code %q", bq.Code)
		}
		seen[bq.Code] = true

		typ, err := parseQuestionType(bq.Type)
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", bq.Code, err)
		}
		if len(bq.Options.En) > dto.MaxOptions {
			return nil, fmt.Errorf("question %s: at most %d options allowed", bq.Code, dto.MaxOptions)
		}
		if typ == dto.TypeChoice && len(bq.Options.En) == 0 {
			return nil, fmt.Errorf("question %s: choice questions need options", bq.Code)
		}

		q := Question{
			Code:           bq.Code,
			Section:        bq.Section,
			Position:       positions[bq.Section],
			Type:           typ,
			NameEn:         bq.Name.En,
			NameVi:         bq.Name.Vi,
			OptionsEn:      bq.Options.En,
			OptionsVi:      bq.Options.Vi,
			GuideEn:        bq.Guide.En,
			GuideVi:        bq.Guide.Vi,
			Weight:         1,
			HigherIsBetter: true,
		}
		if bq.Weight != nil {
			q.Weight = *bq.Weight
		}
		if bq.HigherIsBetter != nil {
			q.HigherIsBetter = *bq.HigherIsBetter
		}
		positions[bq.Section]++
		out = append(out, q)
	}
	return out, nil
}

func parseQuestionType(s string) (dto.QuestionType, error) {
	switch s {
	case "boolean":
		return dto.TypeBoolean, nil
	case "choice":
		return dto.TypeChoice, nil
	case "numeric":
		return dto.TypeNumeric, nil
	}
	return 0, fmt.Errorf("unknown question type %q", s)
}
