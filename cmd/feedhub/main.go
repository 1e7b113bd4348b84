package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/feedhub/internal/api"
	"github.com/dori/feedhub/internal/app"
	"github.com/dori/feedhub/internal/db"
	"github.com/dori/feedhub/internal/model"
	"github.com/dori/feedhub/internal/ui"
	"github.com/dori/feedhub/internal/ui/theme"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

var (
	version = "0.1.0"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "add":
			handleAdd(os.Args[2:])
			return
		case "serve":
			if err := handleServe(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		case "version":
			fmt.Printf("feedhub v%s\n", version)
			return
		case "help", "-h", "--help":
			printHelp()
			return
		}
	}

	viewFlag := flag.String("view", "roadmap", "Starting view (roadmap, feedback, changelog)")
	themeFlag := flag.String("theme", "", "Theme name (nord, dracula, gruvbox, catppuccin)")
	projectFlag := flag.String("project", "", "Project slug")
	flag.Parse()

	if err := runTUI(*viewFlag, *themeFlag, *projectFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	help := `feedhub - collect feedback, plan the roadmap, ship changelogs

Usage:
  feedhub                   Start the TUI
  feedhub add <feedback>    Quick add feedback
  feedhub serve             Serve the JSON API
  feedhub version           Show version
  feedhub help              Show this help

Quick Add Syntax:
  feedhub add "Dark mode"
  feedhub add "Dark mode #ui #themes status:planned"

  Tags:      #tag          (e.g., #ui, #billing)
  Status:    status:open status:under-review status:planned
             status:in-progress status:done status:closed

TUI Options:
  --view <name>      Starting view (roadmap, feedback, changelog)
  --theme <name>     Theme (nord, dracula, gruvbox, catppuccin)
  --project <slug>   Project to open (default: $FEEDHUB_PROJECT or "default")

Serve Options:
  --addr <addr>      Listen address (default: $FEEDHUB_ADDR or ":8080")

Environment:
  FEEDHUB_DATA_DIR   Data directory
  FEEDHUB_VIEWER     Viewer id used for upvotes and authorship
  FEEDHUB_DEBUG=1    Write debug logs to <data dir>/feedhub.log
  FEEDHUB_NOTIFY=0   Turn off desktop notifications

Roadmap:
  Drag cards between columns with the mouse, or
  space to grab, h/l to pick a column, enter to drop, esc to cancel.`

	fmt.Println(help)
}

func handleAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	projectFlag := fs.String("project", "", "Project slug")
	fs.Parse(args)

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: feedhub add <feedback>")
		fmt.Fprintln(os.Stderr, "Example: feedhub add \"Dark mode #ui status:planned\"")
		os.Exit(1)
	}

	q := model.ParseQuickAdd(strings.Join(fs.Args(), " "))
	if q.Title == "" {
		fmt.Fprintln(os.Stderr, "Error: feedback needs a title")
		os.Exit(1)
	}

	cfg := app.DefaultConfig()
	if *projectFlag != "" {
		cfg.ProjectSlug = *projectFlag
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating data directory: %v\n", err)
		os.Exit(1)
	}

	// No lock needed for quick add, it only inserts
	logger := log.New()
	logger.SetLevel(log.WarnLevel)
	database, err := db.Open(cfg.DBPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	ctx := context.Background()
	project, err := database.EnsureProject(ctx, cfg.ProjectSlug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading project: %v\n", err)
		os.Exit(1)
	}

	f, err := database.CreateFeedback(ctx, project.ID, db.NewFeedback{
		Title:    q.Title,
		Status:   string(q.Status),
		UserID:   cfg.Viewer,
		TagNames: q.Tags,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating feedback: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created: %s\n", f.Title)
	fmt.Printf("Status: %s\n", f.Status.InfoOrDefault().Label)
	if len(q.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(q.Tags, ", "))
	}
}

func handleServe(args []string) error {
	cfg := app.DefaultConfig()

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "Listen address")
	fs.StringVar(&cfg.ProjectSlug, "project", cfg.ProjectSlug, "Project slug to create if missing")
	fs.Parse(args)
	cfg.LogToStderr = true

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			application.Log.WithFields(log.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			}).Info("request")
			return nil
		},
	}))
	e.Use(middleware.CORS())

	api.Register(e, application.DB, cfg.Viewer, application.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		application.Log.WithField("addr", cfg.Addr).Info("api listening")
		errc <- e.Start(cfg.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func runTUI(startView, themeName, projectSlug string) error {
	if themeName != "" {
		t, ok := theme.ByName(themeName)
		if !ok {
			return fmt.Errorf("unknown theme %q", themeName)
		}
		theme.SetTheme(t)
	}

	view, ok := ui.ViewByName(startView)
	if !ok {
		return fmt.Errorf("unknown view %q", startView)
	}

	cfg := app.DefaultConfig()
	if projectSlug != "" {
		cfg.ProjectSlug = projectSlug
	}

	application, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer application.Close()

	root := ui.NewRootModel(application).SetInitialView(view)

	p := tea.NewProgram(
		root,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()
	return err
}
