package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	// Storage
	StorageEnabled bool
	DatabaseURL    string

	// Kubernetes
	Kubeconfig string

	// Advisory
	RecommendationLimit int // max records fetched per VM
	ScanConcurrency     int // VMs fetched in parallel

	// Output
	OutputFormat   string // text, json, yaml, csv
	Verbose        bool
	MetricsEnabled bool
}

// NewConfig creates a new configuration with defaults, overridden by environment variables
func NewConfig() *Config {
	return &Config{
		StorageEnabled:      getEnvBool("STORAGE_ENABLED", true),
		DatabaseURL:         getEnv("DATABASE_URL", "host=localhost port=5432 user=advisor password=devpassword dbname=vmadvisor sslmode=disable"),
		Kubeconfig:          getEnv("KUBECONFIG", ""),
		RecommendationLimit: getEnvInt("RECOMMENDATION_LIMIT", 100),
		ScanConcurrency:     getEnvInt("SCAN_CONCURRENCY", 4),
		OutputFormat:        getEnv("OUTPUT_FORMAT", "text"),
		Verbose:             getEnvBool("VERBOSE", false),
		MetricsEnabled:      getEnvBool("METRICS_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.StorageEnabled && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must be set when storage is enabled")
	}
	if c.RecommendationLimit < 1 {
		return fmt.Errorf("recommendation limit must be at least 1")
	}
	if c.ScanConcurrency < 1 {
		return fmt.Errorf("scan concurrency must be at least 1")
	}
	switch c.OutputFormat {
	case "text", "json", "yaml", "csv":
	default:
		return fmt.Errorf("output format must be text, json, yaml, or csv, got %q", c.OutputFormat)
	}
	return nil
}
