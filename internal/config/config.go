// Package config provides configuration management for the EDI bridge
// application. It handles loading configuration from environment variables
// with sensible defaults and validates the configuration to ensure the
// application starts safely.
//
// The package supports multiple storage backends (SQLite and PostgreSQL) for
// the job audit trail, the receiving ERP endpoint, submission retry budgets,
// the bundled simulated receiver, and the inbox directory poller.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - LOG_FILE: Log file path (default: edi-bridge.log, read by the logging package)
//
// Storage Configuration:
//   - STORAGE_TYPE: Job store backend - "sqlite", "postgres" or "none" (default: sqlite)
//   - SQLITE_PATH: SQLite database file path (default: ./edi_bridge.db)
//   - POSTGRES_HOST: PostgreSQL host (required if using PostgreSQL)
//   - POSTGRES_PORT: PostgreSQL port (default: 5432)
//   - POSTGRES_DB: PostgreSQL database name (required if using PostgreSQL)
//   - POSTGRES_USER: PostgreSQL username (required if using PostgreSQL)
//   - POSTGRES_PASSWORD: PostgreSQL password
//   - POSTGRES_SSL_MODE: PostgreSQL SSL mode (default: disable)
//
// Receiving System:
//   - ERP_URL: Base URL of the receiving ERP endpoint (default: http://localhost:8080/api/erp)
//   - ERP_TIMEOUT_SECONDS: Per-request timeout for submissions (default: 30)
//   - MAX_RETRIES: Submission attempt budget including the first attempt (default: 3, max: 10)
//   - RETRY_DELAY_SECONDS: Fixed delay between submission attempts (default: 2, max: 60)
//   - MOCK_ERP_ENABLED: Mount the simulated receiver under /api/erp (default: true)
//
// Document Format:
//   - EDI_SEGMENT_TERMINATOR: Segment terminator character (default: ~)
//   - EDI_ELEMENT_SEPARATOR: Element separator character (default: *)
//   - EDI_SUBELEMENT_SEPARATOR: Sub-element separator character (default: :)
//
// Inbox Poller:
//   - INBOX_DIR: Directory to poll for dropped .edi files (default: empty, poller disabled)
//   - INBOX_SCHEDULE: Cron spec for inbox scans (default: @every 30s)
//
// Example usage:
//
//	// Load configuration from environment
//	config := config.Load()
//
//	// Validate configuration
//	if err := config.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
//
//	// Use configuration
//	server := &http.Server{
//		Addr: ":" + config.Port,
//	}
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"
)

// Config holds all configuration values for the EDI bridge application.
// All fields correspond to environment variables that can be set to
// override the default values.
//
// The configuration is loaded using the Load() function and should be
// validated using the Validate() method before use.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)

	// Storage configuration for the job audit trail
	StorageType      string // Storage backend: "sqlite", "postgres" or "none"
	SQLitePath       string // Path to SQLite database file
	PostgresHost     string // PostgreSQL host address
	PostgresPort     string // PostgreSQL port number
	PostgresDB       string // PostgreSQL database name
	PostgresUser     string // PostgreSQL username
	PostgresPassword string // PostgreSQL password
	PostgresSSLMode  string // PostgreSQL SSL mode (disable, require, etc.)

	// Receiving system configuration
	ERPURL            string // Base URL of the receiving ERP endpoint
	ERPTimeoutSeconds int    // Per-request submission timeout
	MaxRetries        int    // Submission attempt budget, including the first attempt
	RetryDelaySeconds int    // Fixed delay between submission attempts
	MockERPEnabled    bool   // Whether to mount the simulated receiver

	// Document format delimiters
	SegmentTerminator   string // Segment terminator character
	ElementSeparator    string // Element separator character
	SubElementSeparator string // Sub-element separator character

	// Inbox poller configuration
	InboxDir      string // Directory polled for dropped documents; empty disables the poller
	InboxSchedule string // Cron spec controlling scan frequency
}

// Load creates a new Config instance with values loaded from environment variables.
// If an environment variable is not set, the corresponding default value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config to ensure all required values are properly set and valid.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Storage configuration
		StorageType:      getEnv("STORAGE_TYPE", "sqlite"),
		SQLitePath:       getEnv("SQLITE_PATH", "./edi_bridge.db"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDB:       getEnv("POSTGRES_DB", "edi_bridge"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),

		// Receiving system configuration
		ERPURL:            getEnv("ERP_URL", "http://localhost:8080/api/erp"),
		ERPTimeoutSeconds: getIntEnv("ERP_TIMEOUT_SECONDS", 30),
		MaxRetries:        getIntEnv("MAX_RETRIES", 3),
		RetryDelaySeconds: getIntEnv("RETRY_DELAY_SECONDS", 2),
		MockERPEnabled:    getBoolEnv("MOCK_ERP_ENABLED", true),

		// Document format delimiters
		SegmentTerminator:   getEnv("EDI_SEGMENT_TERMINATOR", "~"),
		ElementSeparator:    getEnv("EDI_ELEMENT_SEPARATOR", "*"),
		SubElementSeparator: getEnv("EDI_SUBELEMENT_SEPARATOR", ":"),

		// Inbox poller configuration
		InboxDir:      getEnv("INBOX_DIR", ""),
		InboxSchedule: getEnv("INBOX_SCHEDULE", "@every 30s"),
	}
}

// getEnv retrieves an environment variable value or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns a default value.
//
// This function accepts common boolean representations:
//   - "true", "1", "t", "TRUE", "True" -> true
//   - "false", "0", "f", "FALSE", "False" -> false
//   - Any other value or parsing error -> returns defaultValue
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable value or returns a default value.
// Values that are set but unparsable fall back to the default rather than failing;
// range checking happens in Validate().
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate performs comprehensive validation on the configuration to ensure
// all required fields are present and all values are valid.
//
// This method checks:
//   - Field format validation (ports, retry budgets)
//   - Cross-field dependencies (PostgreSQL configuration requirements)
//   - Delimiter sanity (single distinct characters)
//   - Inbox schedule parseability when the poller is enabled
//
// The application should call this method after loading configuration and
// before starting to ensure safe operation.
func (c *Config) Validate() error {
	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	// Validate storage type
	switch c.StorageType {
	case "sqlite", "postgres", "postgresql", "none":
		// Valid storage types
	default:
		return fmt.Errorf("STORAGE_TYPE must be 'sqlite', 'postgres' or 'none'")
	}

	// Validate PostgreSQL config if using PostgreSQL
	if c.StorageType == "postgres" || c.StorageType == "postgresql" {
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required when using PostgreSQL")
		}
		if c.PostgresDB == "" {
			return fmt.Errorf("POSTGRES_DB is required when using PostgreSQL")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required when using PostgreSQL")
		}
		// Validate PostgreSQL port
		if port, err := strconv.Atoi(c.PostgresPort); err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("POSTGRES_PORT must be a valid port number")
		}
	}

	// Validate receiving system config
	if c.ERPURL == "" {
		return fmt.Errorf("ERP_URL is required")
	}
	if c.ERPTimeoutSeconds < 1 || c.ERPTimeoutSeconds > 300 {
		return fmt.Errorf("ERP_TIMEOUT_SECONDS must be between 1 and 300")
	}
	if c.MaxRetries < 1 || c.MaxRetries > 10 {
		return fmt.Errorf("MAX_RETRIES must be between 1 and 10")
	}
	if c.RetryDelaySeconds < 0 || c.RetryDelaySeconds > 60 {
		return fmt.Errorf("RETRY_DELAY_SECONDS must be between 0 and 60")
	}

	// Validate delimiters: single characters, all distinct
	if len(c.SegmentTerminator) != 1 {
		return fmt.Errorf("EDI_SEGMENT_TERMINATOR must be a single character")
	}
	if len(c.ElementSeparator) != 1 {
		return fmt.Errorf("EDI_ELEMENT_SEPARATOR must be a single character")
	}
	if len(c.SubElementSeparator) != 1 {
		return fmt.Errorf("EDI_SUBELEMENT_SEPARATOR must be a single character")
	}
	if c.SegmentTerminator == c.ElementSeparator ||
		c.SegmentTerminator == c.SubElementSeparator ||
		c.ElementSeparator == c.SubElementSeparator {
		return fmt.Errorf("EDI delimiter characters must be distinct")
	}

	// Validate inbox schedule when the poller is enabled
	if c.InboxDir != "" {
		if _, err := cron.ParseStandard(c.InboxSchedule); err != nil {
			return fmt.Errorf("INBOX_SCHEDULE must be a valid cron spec: %w", err)
		}
	}

	return nil
}
