package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"shiftwatch/internal/agent/client"
	"shiftwatch/internal/agent/clock"
	"shiftwatch/internal/agent/device"
	"shiftwatch/internal/agent/engine"
	"shiftwatch/internal/agent/state"

	"go.uber.org/zap"
)

// RunAgent starts the device-side controller: it resumes any session
// the API still has open, then takes start/stop commands from stdin
// until interrupted.
func RunAgent() error {
	logger := zap.L().Named("app.agent")

	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:3000"
	}
	positionURL := os.Getenv("POSITION_PROVIDER_URL")
	if positionURL == "" {
		return fmt.Errorf("POSITION_PROVIDER_URL is required")
	}

	loc, err := loadTimezone()
	if err != nil {
		return err
	}

	statePath := os.Getenv("AGENT_STATE_FILE")
	if statePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		statePath = filepath.Join(home, ".shiftwatch", "state.json")
	}

	api := client.New(apiURL, os.Getenv("DEVICE_TOKEN"))
	notifier := device.NewLogNotifier(logger)
	prompter := device.NewTerminalPrompter(os.Stdin, os.Stdout)

	ctrl := engine.NewController(engine.Options{
		API:      api,
		Locator:  device.NewHTTPLocator(positionURL),
		Notifier: notifier,
		Prompter: prompter,
		Store:    state.NewStore(statePath),
		Clock:    clock.New(),
		Logger:   logger,
		Location: loc,
		OnElapsed: func(elapsed string) {
			fmt.Fprintf(os.Stdout, "\rworking %s", elapsed)
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ctrl.Resume(ctx); err != nil {
		logger.Warn("resume failed, starting idle", zap.Error(err))
	}

	go commandLoop(ctx, ctrl, prompter, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("agent shutting down")
	cancel()
	return nil
}

// commandLoop drives the controller from the terminal. Each round asks
// for the one action that makes sense in the current state.
func commandLoop(ctx context.Context, ctrl *engine.Controller, prompter device.Prompter, logger *zap.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var err error
		switch ctrl.State() {
		case engine.StateIdle:
			if prompter.Confirm("Start a work session?") {
				err = ctrl.StartWork(ctx)
			} else {
				time.Sleep(time.Second)
			}
		case engine.StateActive:
			if prompter.Confirm("Stop the current session?") {
				err = ctrl.StopWork(ctx)
			} else {
				time.Sleep(time.Second)
			}
		}
		if err != nil {
			logger.Warn("command failed", zap.Error(err))
		}
	}
}
