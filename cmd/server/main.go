package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"esgboard/internal/auth"
	"esgboard/internal/catalog"
	"esgboard/internal/config"
	"esgboard/internal/database"
	logger "esgboard/internal/logging"
	"esgboard/internal/models"
	"esgboard/internal/repository"
	"esgboard/internal/router"
	"esgboard/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Configuration is loaded with a console logger; the file logger needs it.
	bootLog := logger.NewConsole(false)
	conf, err := config.Init(".", bootLog)
	if err != nil {
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Logger
	log, err := logger.Init(conf.Logging)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := run(conf, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(conf *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := database.Open(conf.Database, log)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Load the question bank at startup
	data, err := os.ReadFile(conf.Seed.QuestionsFile)
	if err != nil {
		return err
	}
	bank, err := models.ParseQuestionBank(data)
	if err != nil {
		return err
	}
	if err := database.SeedQuestions(db, bank, log); err != nil {
		return err
	}

	repo := repository.New(db)
	cat := catalog.Default()

	scores := services.NewScoreService(log, repo, cat, func() config.PillarWeights {
		return config.Get().Scoring.Weights
	})
	scheduler := services.NewScheduler(log, scores, conf.Scoring.Interval)
	scheduler.Start(ctx)

	engine, err := router.Setup(router.Deps{
		Log:      log,
		Config:   conf,
		Repo:     repo,
		Tokens:   auth.NewManager(conf.Auth),
		Catalog:  cat,
		OnSubmit: scheduler.Trigger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + conf.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening on http://localhost:" + conf.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	err = g.Wait()

	stop()
	<-scheduler.Done()
	return err
}
