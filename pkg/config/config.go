package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	envShopifyStoreURL  = "SHOPIFY_STORE_URL"
	envDashboardBaseURL = "DASHBOARD_BASE_URL"
)

// Config is the root runtime configuration loaded from config.json.
type Config struct {
	Server    ServerConfig    `json:"server"`
	AI        AIConfig        `json:"ai"`
	Shopify   ShopifyConfig   `json:"shopify"`
	Dashboard DashboardConfig `json:"dashboard"`
	Store     StoreConfig     `json:"store"`
	Widget    WidgetConfig    `json:"widget,omitempty"`
	Logging   LoggingConfig   `json:"logging,omitempty"`
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string `json:"format,omitempty"`
	Level     string `json:"level,omitempty"`
	AddSource bool   `json:"add_source,omitempty"`
}

// ServerConfig configures the webhook HTTP bind settings.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// AIConfig configures the OpenAI-compatible completion endpoint used for
// sentiment analysis and smart-reply generation. Groq is the default target.
type AIConfig struct {
	BaseURL               string `json:"base_url"`
	APIKeyEnv             string `json:"api_key_env"`
	Model                 string `json:"model"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
}

// ShopifyConfig configures the Shopify Admin API connection. When StoreURL or
// the access token are missing the client serves deterministic sample data.
type ShopifyConfig struct {
	StoreURL              string `json:"store_url"`
	AccessTokenEnv        string `json:"access_token_env"`
	APIVersion            string `json:"api_version"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
}

// DashboardConfig locates the companion operator dashboard.
type DashboardConfig struct {
	BaseURL string `json:"base_url"`
}

// StoreConfig configures the local SQLite database.
type StoreConfig struct {
	Path string `json:"path"`
}

// WidgetConfig tunes widget assembly limits.
type WidgetConfig struct {
	MaxOrders           int `json:"max_orders,omitempty"`
	MaxRecommendations  int `json:"max_recommendations,omitempty"`
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds,omitempty"`
}

// LoadConfig resolves config.json, unmarshals it, and applies environment overrides.
func LoadConfig() (*Config, error) {
	configPath, err := findConfigPath()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides injects selected env-driven settings on top of file config.
func applyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if storeURL := strings.TrimSpace(os.Getenv(envShopifyStoreURL)); storeURL != "" {
		cfg.Shopify.StoreURL = storeURL
	}

	if baseURL := strings.TrimSpace(os.Getenv(envDashboardBaseURL)); baseURL != "" {
		cfg.Dashboard.BaseURL = baseURL
	}
}

// findConfigPath resolves the active config file location.
//
// Precedence is SALESCOPILOT_CONFIG first, then cwd-local fallback paths.
func findConfigPath() (string, error) {
	if value := strings.TrimSpace(os.Getenv("SALESCOPILOT_CONFIG")); value != "" {
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return value, nil
		}
		return "", fmt.Errorf("SALESCOPILOT_CONFIG does not point to a file: %s", value)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get current working directory: %w", err)
	}

	candidates := []string{
		filepath.Join(cwd, "config.json"),
		filepath.Join(cwd, "config", "config.json"),
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("config.json not found (checked %s and %s)", candidates[0], candidates[1])
}
