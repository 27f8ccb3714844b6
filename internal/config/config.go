package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Schedule configuration
	ReportSchedule string // "daily" or "weekly"
	TimeZone       string

	// Azure Storage configuration
	StorageAccount   string
	StorageContainer string

	// Notification configuration
	WebhookURL        string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// LinkedIn API credentials
	LinkedInAccessToken string
	LinkedInOrgURN      string
	LinkedInAPIVersion  string
	FetchLimit          int

	// Analysis defaults
	TopN               int
	LookbackDays       int
	CategoryConfigPath string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Debug:          getBoolEnv("DEBUG", false),
		ReportSchedule: getEnv("REPORT_SCHEDULE", "weekly"),
		TimeZone:       getEnv("TIMEZONE", "UTC"),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "insights"),

		WebhookURL:        getEnv("WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		LinkedInAccessToken: getEnv("LINKEDIN_ACCESS_TOKEN", ""),
		LinkedInOrgURN:      resolveOrgURN(getEnv("LINKEDIN_ORGANIZATION", "")),
		LinkedInAPIVersion:  getEnv("LINKEDIN_API_VERSION", "202401"),
		FetchLimit:          getIntEnv("FETCH_LIMIT", 300),

		TopN:               getIntEnv("TOP_N", 5),
		LookbackDays:       getIntEnv("LOOKBACK_DAYS", 365),
		CategoryConfigPath: getEnv("CATEGORY_CONFIG", ""),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ReportSchedule != "daily" && c.ReportSchedule != "weekly" {
		return fmt.Errorf("REPORT_SCHEDULE must be 'daily' or 'weekly'")
	}

	if c.LinkedInAccessToken != "" && c.LinkedInOrgURN == "" {
		return fmt.Errorf("LINKEDIN_ORGANIZATION is required when LINKEDIN_ACCESS_TOKEN is set")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// resolveOrgURN accepts either a full organization URN or a bare
// numeric ID and returns the URN form.
func resolveOrgURN(value string) string {
	if value == "" {
		return ""
	}
	if _, err := strconv.Atoi(value); err == nil {
		return "urn:li:organization:" + value
	}
	return value
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
