package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"esgboard/internal/models"
)

// SaveScores upserts computed scores by (user, year).
func (r *Repository) SaveScores(ctx context.Context, scores []models.Score) error {
	if len(scores) == 0 {
		return nil
	}
	now := time.Now()
	for i := range scores {
		scores[i].ID = 0
		scores[i].ComputedAt = now
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"environmental", "social", "governance", "esg", "computed_at"}),
	}).Create(&scores).Error
}

// ScoresForUser returns a company's scores ordered by year.
func (r *Repository) ScoresForUser(ctx context.Context, userID uint) ([]models.Score, error) {
	var scores []models.Score
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("year").Find(&scores).Error
	return scores, err
}

// ScoreForYear returns one company-year score.
func (r *Repository) ScoreForYear(ctx context.Context, userID uint, year int) (*models.Score, error) {
	var score models.Score
	err := r.db.WithContext(ctx).Where("user_id = ? AND year = ?", userID, year).First(&score).Error
	return &score, translate(err)
}
