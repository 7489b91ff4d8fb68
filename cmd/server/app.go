package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-vocab/internal/badge"
	"github.com/phrazzld/scry-vocab/internal/config"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/notify"
	"github.com/phrazzld/scry-vocab/internal/platform/clock"
	"github.com/phrazzld/scry-vocab/internal/platform/lock"
	"github.com/phrazzld/scry-vocab/internal/quiz"
	"github.com/phrazzld/scry-vocab/internal/service"
	"github.com/phrazzld/scry-vocab/internal/service/auth"
	"github.com/phrazzld/scry-vocab/internal/service/card_review"
	"github.com/phrazzld/scry-vocab/internal/store"
	"github.com/phrazzld/scry-vocab/internal/sweep"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	clock  clock.Clock

	userStore store.UserStore
	locks     *lock.Keyed
	badges    []domain.Badge

	jwtService        auth.JWTService
	srsService        srs.Service
	userService       service.UserService
	cardService       service.CardService
	progressService   service.ProgressService
	cardReviewService card_review.CardReviewService

	dispatcher *notify.Dispatcher
	sweeper    *sweep.Sweeper
	quizzes    *quiz.Manager
}

// newApplication creates a new application instance with all dependencies
// initialized. Background workers are not started until Run.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	userStore, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	app, err := newApplicationWithStore(cfg, logger, userStore, clock.Real{})
	if err != nil {
		_ = userStore.Close()
		return nil, err
	}
	return app, nil
}

// newApplicationWithStore wires the services around an already open store.
func newApplicationWithStore(
	cfg *config.Config,
	logger *slog.Logger,
	userStore store.UserStore,
	clk clock.Clock,
) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		clock:     clk,
		userStore: userStore,
		locks:     lock.NewKeyed(),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.badges, err = badge.Load(cfg.Badges.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load badges: %w", err)
	}
	logger.Info("badge definitions loaded", "count", len(app.badges))

	params := srs.NewParams(srs.ParamsConfig{
		MaxIntervalDays: cfg.Review.MaxIntervalDays,
		ReremindAfter:   cfg.Review.ReremindAfter(),
	})
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduler parameters: %w", err)
	}
	app.srsService = srs.NewServiceWithParams(params)

	app.userService = service.NewUserService(userStore, app.badges, clk, logger)
	app.cardService = service.NewCardService(userStore, app.locks, nil, logger)
	app.progressService = service.NewProgressService(userStore, app.badges, clk, logger)
	app.cardReviewService = card_review.NewCardReviewService(userStore, app.srsService, app.locks, clk, logger)

	notifier, err := newNotifier(cfg.Notifier, logger)
	if err != nil {
		return nil, err
	}
	app.dispatcher = notify.NewDispatcher(notifier, notify.DispatcherConfig{
		QueueSize:       cfg.Notifier.QueueSize,
		Workers:         cfg.Notifier.Workers,
		DeliveryTimeout: notify.DefaultDispatcherConfig().DeliveryTimeout,
	}, logger)

	app.sweeper = sweep.New(userStore, app.srsService, app.dispatcher, app.locks, clk, sweep.Config{
		Interval:    cfg.Review.SweepInterval(),
		Concurrency: cfg.Review.Concurrency,
	}, logger)

	app.quizzes = quiz.NewManager(userStore, app.cardReviewService, app.progressService, clk, quiz.Config{
		PromptTimeout: cfg.Quiz.PromptTimeout(),
		DefaultCards:  cfg.Quiz.DefaultCards,
	}, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

func newNotifier(cfg config.NotifierConfig, logger *slog.Logger) (notify.Notifier, error) {
	switch cfg.Kind {
	case "log":
		return notify.NewLogNotifier(logger), nil
	case "webhook":
		client := &http.Client{Timeout: 15 * time.Second}
		return notify.NewWebhookNotifier(cfg.WebhookURL, cfg.RatePerSec, client, logger), nil
	default:
		return nil, fmt.Errorf("unsupported notifier kind %q", cfg.Kind)
	}
}

// start launches the background workers: notification delivery, the review
// sweep and the quiz reaper.
func (app *application) start(ctx context.Context) error {
	app.dispatcher.Start()
	if err := app.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start review sweep: %w", err)
	}
	app.quizzes.StartReaper(ctx)
	return nil
}

// Run starts the background workers and the HTTP server, and blocks until
// ctx is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	if err := app.start(ctx); err != nil {
		app.cleanup(context.Background())
		return err
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources. The sweep is
// stopped before the dispatcher so its last reminders are still delivered.
func (app *application) cleanup(ctx context.Context) {
	if app.quizzes != nil {
		app.quizzes.Close(ctx)
	}
	if app.sweeper != nil {
		app.sweeper.Stop()
	}
	if app.dispatcher != nil {
		app.dispatcher.Stop()
	}
	if app.userStore != nil {
		if err := app.userStore.Close(); err != nil {
			app.logger.Error("Error closing store", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
