package models

import (
	"time"

	"esgboard/internal/dto"
)

// Target types of the target questionnaires. Reported metrics use NoTarget.
const (
	NoTarget     = ""
	ShortTarget  = "short"
	MediumTarget = "medium"
	LongTarget   = "long"
)

// ValidTargetType reports whether t names a target questionnaire.
func ValidTargetType(t string) bool {
	switch t {
	case ShortTarget, MediumTarget, LongTarget:
		return true
	}
	return false
}

// Answer is the stored answer of one company to one question for one year.
// Value holds the option index for choice questions and the decimal text for
// numeric ones; nil means unanswered.
type Answer struct {
	ID           uint             `gorm:"primaryKey"`
	UserID       uint             `gorm:"uniqueIndex:idx_answer_key;not null"`
	Year         int              `gorm:"uniqueIndex:idx_answer_key;not null"`
	TargetType   string           `gorm:"uniqueIndex:idx_answer_key;size:16;not null"`
	QuestionCode string           `gorm:"uniqueIndex:idx_answer_key;size:64;not null"`
	Section      string           `gorm:"index;size:96;not null"`
	QuestionType dto.QuestionType `gorm:"not null"`
	Value        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SubmissionLog records every accepted submission for the section badges.
type SubmissionLog struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index:idx_submission_lookup;not null"`
	Year        int    `gorm:"index:idx_submission_lookup;not null"`
	TargetType  string `gorm:"index:idx_submission_lookup;size:16;not null"`
	Section     string `gorm:"size:96;not null"`
	SubmittedAt time.Time
}

// Score is the computed ESG score of one company for one year.
type Score struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"uniqueIndex:idx_score_key;not null"`
	Year          int  `gorm:"uniqueIndex:idx_score_key;not null"`
	Environmental float64
	Social        float64
	Governance    float64
	ESG           float64
	ComputedAt    time.Time
}

// Company is the overall profile of a company, one row per user.
type Company struct {
	ID                 uint `gorm:"primaryKey"`
	UserID             uint `gorm:"uniqueIndex;not null"`
	CompanyName        string
	DateFounder        int
	MainAddress        string
	MainPhoneNumber    string
	CompanyWebsite     string
	CompanySector      string
	CompanyDescription string
	ContactInformation string
	UpdatedAt          time.Time
}

type Site struct {
	ID              uint `gorm:"primaryKey"`
	UserID          uint `gorm:"index;not null"`
	SiteName        string
	NumberEmployees int
	Comment         string
}

type Product struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index;not null"`
	ProductName string
	Revenue     float64
	Comment     string
}
