package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.DBName != "veritas" {
		t.Errorf("Database.DBName = %q, want veritas", cfg.Database.DBName)
	}
	if cfg.LocalStore.Path != "data/veritas.db" {
		t.Errorf("LocalStore.Path = %q", cfg.LocalStore.Path)
	}
	if cfg.Auth.PasswordScheme != "plain" {
		t.Errorf("Auth.PasswordScheme = %q, want plain", cfg.Auth.PasswordScheme)
	}
	if cfg.ProbeTimeout() != 2*time.Second {
		t.Errorf("ProbeTimeout() = %v, want 2s", cfg.ProbeTimeout())
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	content := `
server:
  port: "9090"
storage:
  probe_timeout: "500ms"
auth:
  password_scheme: "bcrypt"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.ProbeTimeout() != 500*time.Millisecond {
		t.Errorf("ProbeTimeout() = %v, want 500ms", cfg.ProbeTimeout())
	}
	if cfg.Auth.PasswordScheme != "bcrypt" {
		t.Errorf("Auth.PasswordScheme = %q, want bcrypt", cfg.Auth.PasswordScheme)
	}
	// File values for unset keys still fall back to defaults.
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want localhost", cfg.Database.Host)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal", cfg.Database.Host)
	}
	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("Database.MaxOpenConns = %d, want 25", cfg.Database.MaxOpenConns)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing jwt secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "bad probe timeout", env: map[string]string{"JWT_SECRET": "x", "STORAGE_PROBE_TIMEOUT": "soon"}},
		{name: "unknown password scheme", env: map[string]string{"JWT_SECRET": "x", "AUTH_PASSWORD_SCHEME": "rot13"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
				t.Fatal("LoadConfig() succeeded, want validation error")
			}
		})
	}
}
