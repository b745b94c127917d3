package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != DriverPostgres {
		t.Errorf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.JWT.Secret == "" {
		t.Error("development should get a fallback secret")
	}
	if cfg.Session.TTL != time.Hour {
		t.Errorf("session ttl = %v", cfg.Session.TTL)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("address = %q", cfg.Address())
	}
	if cfg.Database.URL != "postgres://taskboard:@localhost:5432/taskboard?sslmode=disable" {
		t.Errorf("database url = %q", cfg.Database.URL)
	}
}

func TestLoadReadsDotEnvAndSeconds(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SESSION_TTL", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "production")

	env := "JWT_SECRET=s3cret\nSTORAGE_DRIVER=sqlite\nSESSION_TTL=90\n"
	if err := os.WriteFile(filepath.Join(".", ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// godotenv does not override variables that are already set, even empty ones.
	os.Unsetenv("SESSION_TTL")
	os.Unsetenv("STORAGE_DRIVER")
	os.Unsetenv("JWT_SECRET")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.Session.TTL != 90*time.Second {
		t.Errorf("ttl = %v", cfg.Session.TTL)
	}
	if cfg.JWT.Secret != "s3cret" {
		t.Errorf("secret = %q", cfg.JWT.Secret)
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	chdirTemp(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE_DRIVER", "mongo")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}
