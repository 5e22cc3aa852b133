package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xvierd/dreadline/internal/adapters/capture"
	"github.com/xvierd/dreadline/internal/adapters/estimator"
	"github.com/xvierd/dreadline/internal/adapters/git"
	"github.com/xvierd/dreadline/internal/adapters/notification"
	"github.com/xvierd/dreadline/internal/adapters/share"
	"github.com/xvierd/dreadline/internal/adapters/taunt"
	"github.com/xvierd/dreadline/internal/config"
	"github.com/xvierd/dreadline/internal/domain"
	"github.com/xvierd/dreadline/internal/drivers"
	"github.com/xvierd/dreadline/internal/ports"
	"github.com/xvierd/dreadline/internal/services"
)

// appDeps groups the dependencies initialized at startup.
// Populated by initializeServices() and accessible to all commands.
type appDeps struct {
	config   *config.Config
	notifier *notification.Notifier
	git      *ports.GitInfo
	session  *services.SessionService
}

var app appDeps

// staticTaunts serves the built-in line when taunt generation is
// switched off.
type staticTaunts struct{}

func (staticTaunts) Generate(context.Context, string, string) ports.TauntStyle {
	return taunt.DefaultStyle()
}

// initializeServices sets up the session service and its adapters.
func initializeServices() error {
	// Load configuration
	var err error
	app.config, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}

	app.notifier = notification.New(&app.config.Notifications)

	// Git context is optional; setup falls back to typed labels.
	workingDir, _ := os.Getwd()
	detector := git.NewDetector()
	if info, detectErr := detector.Detect(context.Background(), workingDir); detectErr == nil {
		app.git = info
	}

	hold, cancelReason, estimatorOn := app.config.ToFlowConfig()
	flowCfg := domain.FlowConfig{
		HoldDuration:        hold,
		CancelReasonEnabled: cancelReason,
		EstimatorEnabled:    estimatorOn,
	}

	repo := ""
	if app.git != nil {
		repo = app.git.Repository
	}

	var taunts ports.TauntGenerator = staticTaunts{}
	if app.config.Taunt.Enabled {
		taunts = newTauntClient(app.config)
	}

	app.session = services.NewSessionService(
		flowCfg,
		drivers.NewWallClock(),
		drivers.NewPressTimer(),
		newEstimatorClient(app.config),
		taunts,
		capture.NewRenderer(repo),
		share.NewPublisher(app.config.Share, app.notifier, os.Stdout),
	)

	return nil
}

// newEstimatorClient builds the estimator from config plus the
// environment API key.
func newEstimatorClient(cfg *config.Config) *estimator.Client {
	return estimator.NewClient(estimator.Config{
		BaseURL:         cfg.Estimator.BaseURL,
		APIKey:          config.APIKey(),
		Model:           cfg.Estimator.Model,
		Timeout:         time.Duration(cfg.Estimator.Timeout),
		FallbackMinutes: cfg.Estimator.FallbackMinutes,
		MinMinutes:      cfg.Estimator.MinMinutes,
		MaxMinutes:      cfg.Estimator.MaxMinutes,
	})
}

// newTauntClient builds the taunt generator. It rides the estimator
// endpoint and key.
func newTauntClient(cfg *config.Config) *taunt.Client {
	return taunt.NewClient(taunt.Config{
		BaseURL: cfg.Estimator.BaseURL,
		APIKey:  config.APIKey(),
		Model:   cfg.Estimator.Model,
		Timeout: time.Duration(cfg.Taunt.Timeout),
	})
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
