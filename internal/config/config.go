// Package config loads application settings from YAML with environment
// overrides. A .env file in the working directory is honored for local runs.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"AgriQuery/internal/datagov"
)

const (
	configPathEnv = "AGRIQUERY_CONFIG"

	dataGovAPIKeyEnv      = "DATA_GOV_API_KEY"
	dataGovBaseURLEnv     = "DATA_GOV_BASE_URL"
	cropResourceIDEnv     = "CROP_RESOURCE_ID"
	rainfallResourceIDEnv = "RAINFALL_RESOURCE_ID"

	llmAPIKeyEnv   = "GEMINI_API_KEY"
	llmModelEnv    = "GEMINI_MODEL"
	llmEndpointEnv = "GEMINI_ENDPOINT"

	serverAddrEnv = "AGRIQUERY_ADDR"
	logLevelEnv   = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DataGov DataGovConfig `yaml:"datagov"`
	LLM     LLMConfig     `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DataGovConfig wires the data.gov.in API client.
type DataGovConfig struct {
	APIKey             string `yaml:"apiKey"`
	BaseURL            string `yaml:"baseUrl"`
	CropResourceID     string `yaml:"cropResourceId"`
	RainfallResourceID string `yaml:"rainfallResourceId"`
	CacheTTLMinutes    int    `yaml:"cacheTtlMinutes"`
	WireDebug          bool   `yaml:"wireDebug"`
}

// CacheTTL converts the configured minutes into a duration.
func (d DataGovConfig) CacheTTL() time.Duration {
	return time.Duration(d.CacheTTLMinutes) * time.Minute
}

// LLMConfig defines how to contact the OpenAI-compatible model endpoint.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	Model       string  `yaml:"model"`
	Endpoint    string  `yaml:"endpoint"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dataGovAPIKeyEnv); v != "" {
		c.DataGov.APIKey = v
	}
	if v := os.Getenv(dataGovBaseURLEnv); v != "" {
		c.DataGov.BaseURL = v
	}
	if v := os.Getenv(cropResourceIDEnv); v != "" {
		c.DataGov.CropResourceID = v
	}
	if v := os.Getenv(rainfallResourceIDEnv); v != "" {
		c.DataGov.RainfallResourceID = v
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(llmEndpointEnv); v != "" {
		c.LLM.Endpoint = v
	}

	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.DataGov.APIKey != "" {
		base.DataGov.APIKey = override.DataGov.APIKey
	}
	if override.DataGov.BaseURL != "" {
		base.DataGov.BaseURL = override.DataGov.BaseURL
	}
	if override.DataGov.CropResourceID != "" {
		base.DataGov.CropResourceID = override.DataGov.CropResourceID
	}
	if override.DataGov.RainfallResourceID != "" {
		base.DataGov.RainfallResourceID = override.DataGov.RainfallResourceID
	}
	if override.DataGov.CacheTTLMinutes > 0 {
		base.DataGov.CacheTTLMinutes = override.DataGov.CacheTTLMinutes
	}
	if override.DataGov.WireDebug {
		base.DataGov.WireDebug = true
	}

	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Temperature > 0 {
		base.LLM.Temperature = override.LLM.Temperature
	}
	if override.LLM.MaxTokens > 0 {
		base.LLM.MaxTokens = override.LLM.MaxTokens
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8000"},
		DataGov: DataGovConfig{
			BaseURL:            datagov.DefaultBaseURL,
			CropResourceID:     datagov.CropProductionResourceID,
			RainfallResourceID: datagov.RainfallResourceID,
			CacheTTLMinutes:    60,
		},
		LLM: LLMConfig{
			Model:       "gemini-2.5-pro",
			Endpoint:    "https://generativelanguage.googleapis.com/v1beta/openai/",
			Temperature: 0.1,
			MaxTokens:   2000,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
