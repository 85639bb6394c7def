package database

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"esgboard/internal/config"
	logging "esgboard/internal/logging"
	"esgboard/internal/models"
)

// Open connects to the configured database and runs migrations.
func Open(conf config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch conf.Driver {
	case "postgres":
		dialector = postgres.Open(conf.DSN())
	case "sqlite":
		dialector = sqlite.Open(conf.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logging.NewGormZapLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully.", zap.String("driver", conf.Driver))

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("Database migrations completed successfully.")
	return db, nil
}

// OpenMemory opens a private in-memory SQLite database, used by tests.
func OpenMemory(log *zap.Logger) (*gorm.DB, error) {
	name := fmt.Sprintf("file:esg-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", Path: name}, log)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// one connection keeps the memory database alive and avoids table locks
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	// AutoMigrate creates tables, columns, foreign keys and the tagged indexes.
	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Question{},
		&models.Answer{},
		&models.SubmissionLog{},
		&models.Score{},
		&models.Company{},
		&models.Site{},
		&models.Product{},
	)
	if err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}

// SeedQuestions upserts the question bank by code.
func SeedQuestions(db *gorm.DB, bank *models.QuestionBank, log *zap.Logger) error {
	questions, err := bank.Models()
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return nil
	}
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"section", "position", "type", "name_en", "name_vi", "options_en", "options_vi",
			"guide_en", "guide_vi", "weight", "higher_is_better", "updated_at",
		}),
	}).Create(&questions).Error
	if err != nil {
		return fmt.Errorf("failed to seed questions: %w", err)
	}
	log.Info("Question bank seeded", zap.Int("questions", len(questions)))
	return nil
}
