package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Schedule configuration
	TimeZone         string
	EnableRiskChecks bool

	// Storage configuration
	StorageBackend   string // "file" or "azure"
	StorageAccount   string
	StorageContainer string
	DataDir          string
	DataFile         string

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// Twitter API credentials
	TwitterBearerToken string

	// Tracked accounts and brand keywords
	CompanyHandle string
	CEOHandle     string
	Keywords      []string

	// Terms inherent to the brand's domain that must not count as
	// sentiment signal (a cloud-seeding company gets mentioned next to
	// "flood" and "drought" constantly).
	DomainTerms []string

	// Scoring configuration
	ClassifierStrategy string // "lexicon" or "vader"
	ScorePolicy        string // "counts" or "reach"
	TopMentionsLimit   int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Debug:            getBoolEnv("DEBUG", false),
		TimeZone:         getEnv("TIMEZONE", "UTC"),
		EnableRiskChecks: getBoolEnv("ENABLE_RISK_CHECKS", true),

		StorageBackend:   getEnv("STORAGE_BACKEND", "file"),
		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "dashboard"),
		DataDir:          getEnv("DATA_DIR", "."),
		DataFile:         getEnv("DATA_FILE", "data.json"),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),

		CompanyHandle: getEnv("COMPANY_HANDLE", "rainmakercorp"),
		CEOHandle:     getEnv("CEO_HANDLE", "ADoricko"),

		Keywords: getSliceEnv("KEYWORDS", []string{
			"rain maker",
			"rainmaker corp",
			"cloud seeding",
			"weather modification",
		}),

		DomainTerms: getSliceEnv("DOMAIN_TERMS", []string{
			"flood",
			"drought",
		}),

		ClassifierStrategy: getEnv("CLASSIFIER_STRATEGY", "lexicon"),
		ScorePolicy:        getEnv("SCORE_POLICY", "counts"),
		TopMentionsLimit:   getIntEnv("TOP_MENTIONS_LIMIT", 10),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.StorageBackend != "file" && c.StorageBackend != "azure" {
		return fmt.Errorf("STORAGE_BACKEND must be 'file' or 'azure'")
	}

	if c.StorageBackend == "azure" && c.StorageAccount == "" {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT is required when STORAGE_BACKEND is 'azure'")
	}

	if c.ClassifierStrategy != "lexicon" && c.ClassifierStrategy != "vader" {
		return fmt.Errorf("CLASSIFIER_STRATEGY must be 'lexicon' or 'vader'")
	}

	if c.ScorePolicy != "counts" && c.ScorePolicy != "reach" {
		return fmt.Errorf("SCORE_POLICY must be 'counts' or 'reach'")
	}

	if c.TopMentionsLimit <= 0 {
		return fmt.Errorf("TOP_MENTIONS_LIMIT must be positive")
	}

	if c.CompanyHandle == "" && c.CEOHandle == "" {
		return fmt.Errorf("at least one tracked handle must be configured (COMPANY_HANDLE or CEO_HANDLE)")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// Targets returns the tracked handles in display form.
func (c *Config) Targets() []string {
	var targets []string
	if c.CompanyHandle != "" {
		targets = append(targets, "@"+c.CompanyHandle)
	}
	if c.CEOHandle != "" {
		targets = append(targets, "@"+c.CEOHandle)
	}
	return targets
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

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
