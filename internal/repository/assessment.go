package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"esgboard/internal/models"
)

// QuestionsBySection returns the questions of one section in display order.
func (r *Repository) QuestionsBySection(ctx context.Context, section string) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Where("section = ?", section).
		Order("position, id").
		Find(&questions).Error
	return questions, err
}

// QuestionsByCodes returns the named questions keyed by code.
func (r *Repository) QuestionsByCodes(ctx context.Context, codes []string) (map[string]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).Where("code IN ?", codes).Find(&questions).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		out[q.Code] = q
	}
	return out, nil
}

// AllQuestions returns the whole question bank.
func (r *Repository) AllQuestions(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).Order("section, position, id").Find(&questions).Error
	return questions, err
}

// AnswersOfYear returns a company's stored answers for one section and year.
func (r *Repository) AnswersOfYear(ctx context.Context, userID uint, section string, year int, targetType string) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND section = ? AND year = ? AND target_type = ?", userID, section, year, targetType).
		Find(&answers).Error
	return answers, err
}

// AnswersForYear returns every stored answer of a company for a year.
func (r *Repository) AnswersForYear(ctx context.Context, userID uint, year int, targetType string) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND target_type = ?", userID, year, targetType).
		Order("section, question_code").
		Find(&answers).Error
	return answers, err
}

// SaveSubmission replaces the stored values of the given answers and logs the
// submission, all in one transaction.
func (r *Repository) SaveSubmission(ctx context.Context, userID uint, targetType, section string, year int, answers []models.Answer) error {
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			answers[i].ID = 0
			answers[i].UserID = userID
			answers[i].Year = year
			answers[i].TargetType = targetType
			answers[i].Section = section
			answers[i].UpdatedAt = now
		}
		if len(answers) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "target_type"}, {Name: "question_code"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "question_type", "section", "updated_at"}),
			}).Create(&answers).Error
			if err != nil {
				return fmt.Errorf("upsert answers: %w", err)
			}
		}
		return tx.Create(&models.SubmissionLog{
			UserID:      userID,
			Year:        year,
			TargetType:  targetType,
			Section:     section,
			SubmittedAt: now,
		}).Error
	})
}

// SectionCount is the number of submissions of one section in a year.
type SectionCount struct {
	Section string
	Count   int
	LastAt  time.Time
}

// SubmitCounts aggregates the submission log of a company for a year.
func (r *Repository) SubmitCounts(ctx context.Context, userID uint, year int, targetType string) ([]SectionCount, error) {
	var logs []models.SubmissionLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND year = ? AND target_type = ?", userID, year, targetType).
		Order("submitted_at").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var out []SectionCount
	for _, l := range logs {
		i, ok := index[l.Section]
		if !ok {
			i = len(out)
			index[l.Section] = i
			out = append(out, SectionCount{Section: l.Section})
		}
		out[i].Count++
		if l.SubmittedAt.After(out[i].LastAt) {
			out[i].LastAt = l.SubmittedAt
		}
	}
	return out, nil
}

// SectionFill counts questions and answered questions of a section.
type SectionFill struct {
	Section  string
	Total    int
	Answered int
	LastAt   time.Time
}

// SectionProgress reports how much of every section a company has answered
// for a year and target type.
func (r *Repository) SectionProgress(ctx context.Context, userID uint, year int, targetType string) ([]SectionFill, error) {
	questions, err := r.AllQuestions(ctx)
	if err != nil {
		return nil, err
	}
	answers, err := r.AnswersForYear(ctx, userID, year, targetType)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var out []SectionFill
	for _, q := range questions {
		i, ok := index[q.Section]
		if !ok {
			i = len(out)
			index[q.Section] = i
			out = append(out, SectionFill{Section: q.Section})
		}
		out[i].Total++
	}
	for _, a := range answers {
		i, ok := index[a.Section]
		if !ok || a.Value == nil {
			continue
		}
		out[i].Answered++
		if a.UpdatedAt.After(out[i].LastAt) {
			out[i].LastAt = a.UpdatedAt
		}
	}
	return out, nil
}

// YearValue is one stored value of a question in a year.
type YearValue struct {
	Year         int
	QuestionCode string
	Value        string
}

// SeriesForQuestions returns a company's reported values of the given
// questions over all years, ordered by year.
func (r *Repository) SeriesForQuestions(ctx context.Context, userID uint, codes []string) ([]YearValue, error) {
	var answers []models.Answer
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND question_code IN ? AND value IS NOT NULL", userID, models.NoTarget, codes).
		Order("year").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	out := make([]YearValue, 0, len(answers))
	for _, a := range answers {
		out = append(out, YearValue{Year: a.Year, QuestionCode: a.QuestionCode, Value: *a.Value})
	}
	return out, nil
}

// ReportedAnswers returns every answered reported metric of every company,
// the input of the scorer.
func (r *Repository) ReportedAnswers(ctx context.Context) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND value IS NOT NULL", models.NoTarget).
		Order("year, question_code, user_id").
		Find(&answers).Error
	return answers, err
}
