package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:5000/api" {
		t.Fatalf("unexpected base url %s", cfg.APIBaseURL)
	}
	if cfg.SearchDebounce != 500*time.Millisecond {
		t.Fatalf("expected 500ms debounce, got %s", cfg.SearchDebounce)
	}
	if cfg.RequestsPerMinute != 600 || cfg.LoginAttempts != 10 || cfg.TrustProxy {
		t.Fatalf("unexpected limits: %d/%d trustProxy=%v", cfg.RequestsPerMinute, cfg.LoginAttempts, cfg.TrustProxy)
	}
	if cfg.Storage.Driver != StorageFile {
		t.Fatalf("expected file storage by default, got %s", cfg.Storage.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"CONSOLE_ADDR":    ":4000",
		"API_BASE_URL":    "https://hr.example.com/api",
		"API_TIMEOUT":     "3s",
		"SEARCH_DEBOUNCE": "250ms",
		"STORAGE_DRIVER":  "redis",
		"REDIS_ADDR":      "cache:6379",
		"REDIS_DB":        "2",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":4000" || cfg.APITimeout != 3*time.Second || cfg.SearchDebounce != 250*time.Millisecond {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Storage.Driver != StorageRedis || cfg.Storage.RedisAddr != "cache:6379" || cfg.Storage.RedisDB != 2 {
		t.Fatalf("unexpected storage config: %+v", cfg.Storage)
	}
}

func TestValidate(t *testing.T) {
	base, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "relative base url", mutate: func(c *Config) { c.APIBaseURL = "/api" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.APITimeout = 0 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "sqlite" }, wantErr: true},
		{name: "postgres without url", mutate: func(c *Config) { c.Storage.Driver = StoragePostgres }, wantErr: true},
		{name: "production without key", mutate: func(c *Config) { c.Environment = "production" }, wantErr: true},
		{name: "production memory", mutate: func(c *Config) { c.Environment = "production"; c.Storage.Driver = StorageMemory }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
