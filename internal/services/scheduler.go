package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"esgboard/internal/catalog"
	"esgboard/internal/config"
	"esgboard/internal/repository"
	"esgboard/internal/scoring"
)

// ScoreService recomputes every company's ESG scores from reported answers.
type ScoreService struct {
	log     *zap.Logger
	repo    *repository.Repository
	catalog *catalog.Catalog
	weights func() config.PillarWeights
	mu      sync.Mutex
}

// NewScoreService reads the pillar weights through weights on every run so
// configuration reloads apply without a restart.
func NewScoreService(log *zap.Logger, repo *repository.Repository, cat *catalog.Catalog, weights func() config.PillarWeights) *ScoreService {
	return &ScoreService{log: log, repo: repo, catalog: cat, weights: weights}
}

// Recompute scores all company-years and stores the result.
func (s *ScoreService) Recompute(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions, err := s.repo.AllQuestions(ctx)
	if err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	answers, err := s.repo.ReportedAnswers(ctx)
	if err != nil {
		return fmt.Errorf("load answers: %w", err)
	}
	scores := scoring.Compute(scoring.Indexes(s.catalog, questions), answers, s.weights())
	if err := s.repo.SaveScores(ctx, scores); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	s.log.Debug("Scores recomputed", zap.Int("companyYears", len(scores)))
	return nil
}

type Scheduler struct {
	log      *zap.Logger
	scores   *ScoreService
	interval time.Duration
	trigger  chan struct{}
	done     chan struct{}
}

func NewScheduler(log *zap.Logger, scores *ScoreService, interval time.Duration) *Scheduler {
	return &Scheduler{
		log:      log,
		scores:   scores,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start runs the scheduler in a goroutine until ctx is cancelled. Scores are
// computed once at start, then on every tick and on every Trigger.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("Starting score scheduler...", zap.Duration("interval", s.interval))
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.run(ctx)
		for {
			select {
			case <-ctx.Done():
				s.log.Info("Score scheduler stopped")
				return
			case <-ticker.C:
				s.run(ctx)
			case <-s.trigger:
				s.run(ctx)
			}
		}
	}()
}

// Trigger requests a recomputation. Requests made while one is pending are
// coalesced.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Done is closed once the scheduler goroutine has exited.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) run(ctx context.Context) {
	if err := s.scores.Recompute(ctx); err != nil && ctx.Err() == nil {
		s.log.Error("Failed to recompute scores", zap.Error(err))
	}
}
