package config

import (
	"strings"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{"RECOMMENDATION_LIMIT", "SCAN_CONCURRENCY", "OUTPUT_FORMAT", "VERBOSE", "KUBECONFIG"} {
		t.Setenv(key, "")
	}

	cfg := NewConfig()

	if cfg.RecommendationLimit != 100 {
		t.Errorf("Expected default recommendation limit 100, got %d", cfg.RecommendationLimit)
	}

	if cfg.ScanConcurrency != 4 {
		t.Errorf("Expected default scan concurrency 4, got %d", cfg.ScanConcurrency)
	}

	if cfg.OutputFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.OutputFormat)
	}

	if cfg.Verbose {
		t.Error("Expected verbose to be off by default")
	}

	if cfg.Kubeconfig != "" {
		t.Errorf("Expected empty kubeconfig, got %s", cfg.Kubeconfig)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("RECOMMENDATION_LIMIT", "25")
	t.Setenv("SCAN_CONCURRENCY", "8")
	t.Setenv("OUTPUT_FORMAT", "yaml")
	t.Setenv("VERBOSE", "1")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("KUBECONFIG", "/tmp/kubeconfig")

	cfg := NewConfig()

	if cfg.RecommendationLimit != 25 {
		t.Errorf("Expected limit 25 from env, got %d", cfg.RecommendationLimit)
	}

	if cfg.ScanConcurrency != 8 {
		t.Errorf("Expected concurrency 8 from env, got %d", cfg.ScanConcurrency)
	}

	if cfg.OutputFormat != "yaml" {
		t.Errorf("Expected yaml output from env, got %s", cfg.OutputFormat)
	}

	if !cfg.Verbose || !cfg.MetricsEnabled {
		t.Error("Expected verbose and metrics enabled from env")
	}

	if cfg.Kubeconfig != "/tmp/kubeconfig" {
		t.Errorf("Expected custom kubeconfig, got %s", cfg.Kubeconfig)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name          string
		setupConfig   func(*Config)
		expectError   bool
		errorContains string
	}{
		{
			name: "valid default config",
			setupConfig: func(c *Config) {
				// Use defaults
			},
			expectError: false,
		},
		{
			name: "limit too low",
			setupConfig: func(c *Config) {
				c.RecommendationLimit = 0
			},
			expectError:   true,
			errorContains: "limit must be at least 1",
		},
		{
			name: "concurrency too low",
			setupConfig: func(c *Config) {
				c.ScanConcurrency = 0
			},
			expectError:   true,
			errorContains: "concurrency must be at least 1",
		},
		{
			name: "unknown output format",
			setupConfig: func(c *Config) {
				c.OutputFormat = "xml"
			},
			expectError:   true,
			errorContains: "output format",
		},
		{
			name: "storage disabled without database URL",
			setupConfig: func(c *Config) {
				c.StorageEnabled = false
				c.DatabaseURL = ""
			},
			expectError: false,
		},
		{
			name: "valid edge case - concurrency 1",
			setupConfig: func(c *Config) {
				c.ScanConcurrency = 1
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OUTPUT_FORMAT", "")
			cfg := NewConfig()
			tt.setupConfig(cfg)

			err := cfg.Validate()

			if tt.expectError && err == nil {
				t.Errorf("Expected error but got none")
			}

			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}

			if tt.expectError && err != nil && tt.errorContains != "" {
				if !strings.Contains(err.Error(), tt.errorContains) {
					t.Errorf("Expected error containing '%s', got '%s'",
						tt.errorContains, err.Error())
				}
			}
		})
	}
}

func TestInvalidEnvValues(t *testing.T) {
	t.Setenv("RECOMMENDATION_LIMIT", "invalid")

	cfg := NewConfig()

	// Should fall back to default
	if cfg.RecommendationLimit != 100 {
		t.Errorf("Expected fallback to default 100, got %d", cfg.RecommendationLimit)
	}
}

func TestStorageConfiguration(t *testing.T) {
	t.Setenv("STORAGE_ENABLED", "true")
	t.Setenv("DATABASE_URL", "postgres://test")

	cfg := NewConfig()

	if !cfg.StorageEnabled {
		t.Error("Expected storage to be enabled")
	}

	if cfg.DatabaseURL != "postgres://test" {
		t.Errorf("Expected custom database URL, got %s", cfg.DatabaseURL)
	}
}

func TestStorageValidation(t *testing.T) {
	cfg := NewConfig()
	cfg.OutputFormat = "text"
	cfg.StorageEnabled = true
	cfg.DatabaseURL = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected validation error when storage enabled but no database URL")
	}

	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("Expected error about DATABASE_URL, got: %v", err)
	}
}
