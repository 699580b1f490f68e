package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("expected addr %q, got %q", ":8080", cfg.Addr)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Fatalf("expected shutdown timeout 5s, got %s", cfg.ShutdownTimeout)
	}
	if cfg.MaxSessions != 1024 {
		t.Fatalf("expected max sessions 1024, got %d", cfg.MaxSessions)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected session ttl 30m, got %s", cfg.SessionTTL)
	}
	if cfg.MaxTokensPerRequest != 256 {
		t.Fatalf("expected max tokens 256, got %d", cfg.MaxTokensPerRequest)
	}
	if !cfg.TelemetryEnabled {
		t.Fatal("expected telemetry enabled by default")
	}
}

func TestLoadReadsDotEnvWithoutOverridingProcessEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	content := "CALC_ADDR=:9090\nCALC_MAX_SESSIONS=7\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("writing .env: %v", err)
	}
	t.Setenv("CALC_MAX_SESSIONS", "3")
	t.Cleanup(func() { os.Unsetenv("CALC_ADDR") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Fatalf("expected addr from .env, got %q", cfg.Addr)
	}
	if cfg.MaxSessions != 3 {
		t.Fatalf("expected process env to win, got %d", cfg.MaxSessions)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg Config
	t.Setenv("CALC_MAX_SESSIONS", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{MaxSessions: 1, MaxTokensPerRequest: 1, SessionTTL: time.Second}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "sessions", cfg: Config{MaxSessions: 0, MaxTokensPerRequest: 1, SessionTTL: time.Second}},
		{name: "tokens", cfg: Config{MaxSessions: 1, MaxTokensPerRequest: 0, SessionTTL: time.Second}},
		{name: "ttl", cfg: Config{MaxSessions: 1, MaxTokensPerRequest: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
