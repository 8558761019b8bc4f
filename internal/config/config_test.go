package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TODO_API_URL", "TODO_API_TOKEN", "TODO_API_TIMEOUT", "TODO_ADDR", "TODO_DB_PATH"} {
		t.Setenv(key, "")
	}
}

func TestNew_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %q, got %q", dir, cfg.Dir)
	}
	if cfg.API.URL != DefaultAPIURL {
		t.Errorf("expected default URL, got %q", cfg.API.URL)
	}
	if cfg.API.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Server.DBPath != filepath.Join(dir, DefaultDBFile) {
		t.Errorf("unexpected db path %q", cfg.Server.DBPath)
	}
	if !cfg.UI.Color {
		t.Error("color should default to on")
	}
}

func TestNew_LoadsTOML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := `
[api]
url = "https://tasks.example.com/api/tasks"
token = "secret"
timeout = "250ms"

[server]
addr = ":9000"
db_path = "/tmp/other.db"

[ui]
color = false
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.URL != "https://tasks.example.com/api/tasks" {
		t.Errorf("unexpected URL %q", cfg.API.URL)
	}
	if cfg.API.Token != "secret" {
		t.Errorf("unexpected token %q", cfg.API.Token)
	}
	if cfg.API.Timeout != 250*time.Millisecond {
		t.Errorf("unexpected timeout %v", cfg.API.Timeout)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.DBPath != "/tmp/other.db" {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.UI.Color {
		t.Error("expected color disabled")
	}
}

func TestNew_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := "[api]\nurl = \"http://file/api/tasks\"\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TODO_API_URL", "http://env/api/tasks")
	t.Setenv("TODO_API_TIMEOUT", "0s")

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.URL != "http://env/api/tasks" {
		t.Errorf("env should win, got %q", cfg.API.URL)
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("expected timeout disabled, got %v", cfg.API.Timeout)
	}
}

func TestNew_InvalidFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("[api\nurl="), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNew_InvalidEnvTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("TODO_API_TIMEOUT", "soon")
	if _, err := New(t.TempDir()); err == nil {
		t.Fatal("expected error for bad timeout")
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/xdg", AppName) {
		t.Errorf("unexpected dir %q", got)
	}
}
