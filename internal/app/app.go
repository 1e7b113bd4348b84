package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dori/feedhub/internal/db"
	"github.com/dori/feedhub/internal/model"
	"github.com/dori/feedhub/internal/notify"
	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
)

// App holds the application state and dependencies
type App struct {
	DB       *db.DB
	Notifier *notify.Notifier
	Log      *log.Logger
	Config   *Config
	Project  *model.Project

	lockFile *flock.Flock
	logFile  *os.File
}

// Config holds application configuration
type Config struct {
	DataDir     string
	DBPath      string
	Viewer      string
	ProjectSlug string
	Addr        string
	Debug       bool
	// Notify turns desktop notifications on; FEEDHUB_NOTIFY=0 disables them
	Notify bool

	// LogToStderr sends logs to stderr instead of the data dir log file.
	// The TUI owns the terminal, so only the server sets it.
	LogToStderr bool
}

// DefaultConfig returns the default application configuration with
// environment overrides applied
func DefaultConfig() *Config {
	dataDir := db.DefaultDataDir()
	if v := os.Getenv("FEEDHUB_DATA_DIR"); v != "" {
		dataDir = v
	}

	viewer := os.Getenv("FEEDHUB_VIEWER")
	if viewer == "" {
		viewer = os.Getenv("USER")
	}
	if viewer == "" {
		viewer = "local"
	}

	project := os.Getenv("FEEDHUB_PROJECT")
	if project == "" {
		project = model.DefaultProjectSlug
	}

	addr := os.Getenv("FEEDHUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	debug, _ := strconv.ParseBool(os.Getenv("FEEDHUB_DEBUG"))

	notifyOn := true
	if v, err := strconv.ParseBool(os.Getenv("FEEDHUB_NOTIFY")); err == nil {
		notifyOn = v
	}

	return &Config{
		DataDir:     dataDir,
		DBPath:      filepath.Join(dataDir, "feedhub.db"),
		Viewer:      viewer,
		ProjectSlug: project,
		Addr:        addr,
		Debug:       debug,
		Notify:      notifyOn,
	}
}

// New creates a new application instance
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Config:   cfg,
		Notifier: notify.NewNotifier(),
	}
	app.Notifier.SetEnabled(cfg.Notify)

	if err := app.setupLogger(); err != nil {
		return nil, err
	}

	// Acquire lock to ensure single instance
	if err := app.acquireLock(); err != nil {
		app.closeLog()
		return nil, err
	}

	database, err := db.Open(cfg.DBPath, app.Log)
	if err != nil {
		app.releaseLock()
		app.closeLog()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database

	project, err := database.EnsureProject(context.Background(), cfg.ProjectSlug)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to load project %q: %w", cfg.ProjectSlug, err)
	}
	app.Project = project

	app.Log.WithFields(log.Fields{
		"project": project.Slug,
		"viewer":  cfg.Viewer,
		"notify":  app.Notifier.IsEnabled(),
	}).Info("feedhub started")

	return app, nil
}

// setupLogger builds the logrus logger for the configured mode
func (a *App) setupLogger() error {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if a.Config.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	switch {
	case a.Config.LogToStderr:
		logger.SetOutput(os.Stderr)
	case a.Config.Debug:
		f, err := os.OpenFile(filepath.Join(a.Config.DataDir, "feedhub.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		logger.SetOutput(f)
	default:
		logger.SetOutput(io.Discard)
	}

	a.Log = logger
	return nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, "feedhub.lock")
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of feedhub is already running")
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		a.lockFile.Unlock()
	}
}

func (a *App) closeLog() {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	a.releaseLock()
	a.closeLog()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
