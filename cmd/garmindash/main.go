// Package main is the entry point for the GarminDashboard TUI.
// It loads configuration, asks for health data access, imports pending
// exports and runs the Bubble Tea program.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/jclabaut/GarminDashboard/internal/app"
	"github.com/jclabaut/GarminDashboard/internal/config"
	"github.com/jclabaut/GarminDashboard/internal/health"
	"github.com/jclabaut/GarminDashboard/internal/logger"
	"github.com/jclabaut/GarminDashboard/internal/observability"
	"github.com/jclabaut/GarminDashboard/internal/services"
	"github.com/jclabaut/GarminDashboard/internal/ui/tabs/dashboard"
	"github.com/jclabaut/GarminDashboard/internal/ui/tabs/info"
	"github.com/jclabaut/GarminDashboard/internal/version"
)

const importTimeout = time.Minute

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logCloser := logger.Setup(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	defer func() { _ = logCloser.Close() }()

	logger.Info("starting", "version", version.GetVersion(), "commit", version.GetCommit())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svcManager, err := services.NewManager(cfg, newAuthorizer(cfg.HealthAccess))
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// The consent prompt needs the terminal, so it runs before the UI takes over.
	if !svcManager.Authorize(ctx) {
		logger.Warn("health data access not granted, totals will read zero")
	}

	importCtx, cancel := context.WithTimeout(ctx, importTimeout)
	n, err := svcManager.ImportExisting(importCtx)
	cancel()
	if err != nil {
		logger.Error("initial import failed", "error", err)
	} else if n > 0 {
		logger.Info("imported pending exports", "workouts", n)
	}

	model := app.NewModel(svcManager, cfg.RefreshInterval)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state, cfg.WeeklyGoalKm),
		info.New(state, cfg),
	})

	// The metrics server lives as long as the UI.
	uiCtx, stopUI := context.WithCancel(ctx)
	defer stopUI()
	g, gctx := errgroup.WithContext(uiCtx)

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			if err := observability.Serve(gctx, cfg.MetricsAddr); err != nil {
				logger.Error("metrics server stopped", "addr", cfg.MetricsAddr, "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer stopUI()
		p := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithContext(gctx),
		)
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// newAuthorizer maps the configured access mode to an authorizer.
func newAuthorizer(access config.HealthAccess) health.Authorizer {
	switch access {
	case config.HealthAccessGrant:
		return health.StaticAuthorizer(true)
	case config.HealthAccessDeny:
		return health.StaticAuthorizer(false)
	default:
		return health.NewPromptAuthorizer(os.Stdin, os.Stdout)
	}
}

func printUsage() {
	fmt.Println(`GarminDashboard - running distance totals in your terminal

Usage:
  garmindash [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-2             Switch between tabs (Dashboard, Info)
  Tab/Shift+Tab   Navigate between tabs
  c               Edit the custom date range
  v               Toggle line/bar monthly chart
  r               Refresh all totals
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  DATABASE_PATH           SQLite workout store path
  IMPORT_DIR              Directory watched for workout exports (CSV or JSON)
  WORKOUT_CATEGORY        Workout category to aggregate (default: running)
  HEALTH_ACCESS           prompt, grant or deny (default: prompt)
  WEEKLY_GOAL_KM          Weekly distance goal, 0 disables (default: 0)
  AUTO_REFRESH_INTERVAL   Full reload interval, 0 disables (default: 15m)
  IMPORT_DEBOUNCE         Delay before importing changed files (default: 500ms)
  LOG_FILE                Log file path
  LOG_LEVEL               debug, info, warn or error (default: info)
  METRICS_ADDR            Serve Prometheus metrics on this address

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/garmindash/.env
  - ~/.garmindash/.env`)
}
