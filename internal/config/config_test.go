package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AGRIQUERY_CONFIG", "")
	t.Setenv("DATA_GOV_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg := Load()

	if cfg.Server.Addr != ":8000" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.DataGov.BaseURL != "https://api.data.gov.in/resource/" {
		t.Fatalf("base url = %q", cfg.DataGov.BaseURL)
	}
	if cfg.DataGov.CacheTTL() != time.Hour {
		t.Fatalf("cache ttl = %v", cfg.DataGov.CacheTTL())
	}
	if cfg.LLM.Model != "gemini-2.5-pro" {
		t.Fatalf("model = %q", cfg.LLM.Model)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
server:
  addr: ":9000"
llm:
  model: file-model
logging:
  level: debug
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("AGRIQUERY_CONFIG", path)
	t.Setenv("DATA_GOV_API_KEY", "env-data-key")
	t.Setenv("GEMINI_MODEL", "env-model")

	cfg := Load()

	if cfg.Server.Addr != ":9000" {
		t.Fatalf("addr = %q, want file value", cfg.Server.Addr)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level = %q, want file value", cfg.Logging.Level)
	}
	if cfg.DataGov.APIKey != "env-data-key" {
		t.Fatalf("api key = %q, want env value", cfg.DataGov.APIKey)
	}
	// Environment beats the file.
	if cfg.LLM.Model != "env-model" {
		t.Fatalf("model = %q, want env value", cfg.LLM.Model)
	}
}
