package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/asynctime/logger"
)

// App runs a finite task with uniform startup and shutdown handling.
// The type parameter C is the config type.
//
// Example:
//
//	app, err := bootstrap.NewApp(cfg)
//	app.OnStart(installMetrics)
//	app.RunTask(ctx, func(ctx context.Context) error {
//	    return runScenarios(ctx, app)
//	})
type App[C Config] struct {
	Name    string
	Version string
	RunID   string
	Cfg     C
	Logger  *logger.Logger
	Summary *Summary

	gracefulTimeout time.Duration
	onStart         []Hook
	onStop          []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		RunID:           uuid.NewString(),
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	app.Summary = NewSummary(base.Name, base.Version)
	return app, nil
}

// RunTask runs the OnStart hooks, then task, then the OnStop hooks. The
// task context carries the run ID and is canceled on SIGINT or SIGTERM.
// A task error takes precedence over a shutdown error. If a start hook
// fails, the task is skipped but the OnStop hooks registered so far still run.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	ctx = logger.ContextWithRunID(ctx, a.RunID)
	log := a.Logger.WithContext(ctx)

	log.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))
	start := time.Now()
	if err := runHooks(ctx, a.onStart); err != nil {
		// Release whatever the hooks that did succeed registered.
		_ = a.stop()
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	a.Summary.SetStartupDuration(time.Since(start))

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			log.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)
	a.Summary.Display(log)

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// stop runs the OnStop hooks within the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields(
		"timeout", a.gracefulTimeout.String(),
	))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	if err := runStopHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("shutdown", err))
		return err
	}

	a.Logger.Info("Application shutdown complete")
	return nil
}
