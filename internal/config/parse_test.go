package config

import (
	"os"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	for _, name := range []string{
		"APP_LOG_LEVEL", "APP_PRETTY", "DEV_MODE", "STORE_BACKEND",
		"NOTES_TABLE", "NOTES_KMS_KEY_ID", "JWT_SECRET_PARAM", "HTTP_ADDR",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.App.LogLevel != "info" || cfg.App.Pretty {
		t.Errorf("Unexpected app config: %+v", cfg.App)
	}
	if cfg.Store.Backend != BackendDynamoDB || cfg.Store.Table != "Notes" || cfg.Store.KMSKeyID != "" {
		t.Errorf("Unexpected store config: %+v", cfg.Store)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("Expected :8080, got %q", cfg.HTTP.Addr)
	}
	if cfg.Secrets.Attempts != 3 || cfg.Secrets.Delay != 200*time.Millisecond {
		t.Errorf("Unexpected retry config: %+v", cfg.Secrets)
	}
	if cfg.DevMode {
		t.Error("DevMode should default to false")
	}
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_PRETTY", "true")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("NOTES_KMS_KEY_ID", "alias/notes")
	t.Setenv("JWT_SECRET_PARAM", "/notes-api/jwt-secret")
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.App.LogLevel != "debug" || !cfg.App.Pretty || !cfg.DevMode {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if cfg.Store.Backend != BackendMemory || cfg.Store.KMSKeyID != "alias/notes" {
		t.Errorf("Unexpected store config: %+v", cfg.Store)
	}
	if cfg.Auth.JWTSecretParam != "/notes-api/jwt-secret" {
		t.Errorf("Unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("Expected :9090, got %q", cfg.HTTP.Addr)
	}
}

func TestParse_UnknownBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")

	if _, err := Parse(); err == nil {
		t.Fatal("Expected error for unknown backend")
	}
}
