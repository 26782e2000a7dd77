package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFromEnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
	  "server": {"host": "0.0.0.0", "port": 8090},
	  "ai": {"base_url": "https://api.groq.com/openai/v1", "api_key_env": "GROQ_API_KEY", "model": "llama3-8b-8192"},
	  "shopify": {"store_url": "https://demo.myshopify.com", "access_token_env": "SHOPIFY_ACCESS_TOKEN", "api_version": "2023-10"},
	  "dashboard": {"base_url": "https://sales-iq-widget.vercel.app"},
	  "store": {"path": "salescopilot.db"},
	  "widget": {"max_orders": 3, "max_recommendations": 2, "fetch_timeout_seconds": 3},
	  "logging": {"format": "json", "level": "debug", "add_source": true}
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("SALESCOPILOT_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Server.Port != 8090 {
		t.Fatalf("server.port = %d, want 8090", cfg.Server.Port)
	}
	if cfg.AI.Model != "llama3-8b-8192" {
		t.Fatalf("ai.model = %q, want %q", cfg.AI.Model, "llama3-8b-8192")
	}
	if cfg.Shopify.APIVersion != "2023-10" {
		t.Fatalf("shopify.api_version = %q, want %q", cfg.Shopify.APIVersion, "2023-10")
	}
	if cfg.Widget.MaxRecommendations != 2 {
		t.Fatalf("widget.max_recommendations = %d, want 2", cfg.Widget.MaxRecommendations)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("logging.format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadConfigInvalidEnvPath(t *testing.T) {
	t.Setenv("SALESCOPILOT_CONFIG", filepath.Join(t.TempDir(), "missing.json"))

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing config path")
	}
}

func TestEnvOverridesReplaceFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
	  "shopify": {"store_url": "https://file.myshopify.com"},
	  "dashboard": {"base_url": "https://file.example.com"}
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("SALESCOPILOT_CONFIG", path)
	t.Setenv("SHOPIFY_STORE_URL", "https://env.myshopify.com")
	t.Setenv("DASHBOARD_BASE_URL", "https://env.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Shopify.StoreURL != "https://env.myshopify.com" {
		t.Fatalf("shopify.store_url = %q, want env override", cfg.Shopify.StoreURL)
	}
	if cfg.Dashboard.BaseURL != "https://env.example.com" {
		t.Fatalf("dashboard.base_url = %q, want env override", cfg.Dashboard.BaseURL)
	}
}
