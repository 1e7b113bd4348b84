package app

import (
	"path/filepath"
	"testing"
)

func testConfig(t *testing.T) *Config {
	dir := t.TempDir()
	return &Config{
		DataDir:     dir,
		DBPath:      filepath.Join(dir, "feedhub.db"),
		Viewer:      "tester",
		ProjectSlug: "acme",
	}
}

func TestDefaultConfigEnv(t *testing.T) {
	t.Setenv("FEEDHUB_DATA_DIR", "/tmp/feedhub-test")
	t.Setenv("FEEDHUB_VIEWER", "alice")
	t.Setenv("FEEDHUB_PROJECT", "acme")
	t.Setenv("FEEDHUB_ADDR", ":9000")
	t.Setenv("FEEDHUB_DEBUG", "true")
	t.Setenv("FEEDHUB_NOTIFY", "0")

	cfg := DefaultConfig()
	if cfg.DataDir != "/tmp/feedhub-test" || cfg.DBPath != "/tmp/feedhub-test/feedhub.db" {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
	if cfg.Viewer != "alice" || cfg.ProjectSlug != "acme" || cfg.Addr != ":9000" || !cfg.Debug {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Notify {
		t.Fatal("FEEDHUB_NOTIFY=0 should disable notifications")
	}

	t.Setenv("FEEDHUB_NOTIFY", "")
	if !DefaultConfig().Notify {
		t.Fatal("notifications should default to on")
	}
}

func TestNewCreatesProjectAndLocks(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.Project == nil || a.Project.Slug != "acme" {
		t.Fatalf("project not ensured: %+v", a.Project)
	}
	if a.Notifier.IsEnabled() {
		t.Fatal("notifier should follow Config.Notify")
	}

	if _, err := New(cfg); err == nil {
		t.Fatal("second instance should fail to take the lock")
	}
}

func TestCloseReleasesLock(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := New(cfg)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	b.Close()
}
