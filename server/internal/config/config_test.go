package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "soon")
	t.Setenv("GOST_WORKERS", "1")
	t.Setenv("LOG_DEBUG", "maybe")
	t.Setenv("DB_HOST", "")

	cfg := Load()
	if cfg.Server.Port != 8080 {
		t.Errorf("invalid SERVER_PORT should fall back to 8080, got %d", cfg.Server.Port)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %s", cfg.Addr())
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.Server.RequestTimeout)
	}
	if cfg.Cipher.Workers != 1 || cfg.Log.Debug {
		t.Errorf("unexpected cipher/log config: %+v %+v", cfg.Cipher, cfg.Log)
	}
	if cfg.Database.Enabled() {
		t.Error("database should be disabled without DB_HOST")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("GOST_WORKERS", "4")
	t.Setenv("GOST_DEFAULT_KEY", "ключ, впервые пришедший в голову")
	t.Setenv("LOG_DEBUG", "true")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "pg-pass")

	cfg := Load()
	if cfg.Addr() != "127.0.0.1:9090" {
		t.Errorf("Addr() = %s", cfg.Addr())
	}
	if cfg.JWT.Secret != "s3cret" || cfg.JWT.TokenTTL != time.Hour {
		t.Errorf("unexpected JWT config: %+v", cfg.JWT)
	}
	if cfg.Cipher.Workers != 4 || !cfg.Log.Debug {
		t.Errorf("unexpected cipher/log config: %+v %+v", cfg.Cipher, cfg.Log)
	}
	if !cfg.Database.Enabled() || cfg.Database.Port != 5432 {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}

	s := cfg.String()
	if strings.Contains(s, "s3cret") || strings.Contains(s, "впервые") || strings.Contains(s, "pg-pass") {
		t.Errorf("String() leaks secrets: %s", s)
	}
}
