package config

import (
	"os"
	"strconv"
	"time"

	"datadash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Upload   UploadConfig
	Session  SessionConfig
	AI       AIConfig
	Database DatabaseConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// UploadConfig holds dataset upload limits
type UploadConfig struct {
	MaxFileSizeMB int
	MaxRows       int // 0 reads every row
}

// MaxBytes returns the upload limit in bytes
func (u UploadConfig) MaxBytes() int64 {
	return int64(u.MaxFileSizeMB) * 1024 * 1024
}

// SessionConfig holds in-memory session settings
type SessionConfig struct {
	TTL        time.Duration // idle time before a session's table is dropped; 0 keeps it
	CookieName string
}

// AIConfig holds settings of the question-answering text generator.
// Question answering is disabled when APIKey is empty.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	SampleRows  int
	PromptsDir  string // optional override of the built-in prompt templates
}

// Enabled reports whether a text generator can be constructed
func (a AIConfig) Enabled() bool {
	return a.APIKey != ""
}

// DatabaseConfig holds the optional question log database.
// The log is disabled when URL is empty.
type DatabaseConfig struct {
	URL    string
	Driver string
}

// Enabled reports whether the question log database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Log:      *loadLogConfig(),
		Upload:   *loadUploadConfig(),
		Session:  *loadSessionConfig(),
		AI:       *loadAIConfig(),
		Database: *loadDatabaseConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format: getEnvOrDefault("LOG_FORMAT", "console"),
	}
}

func loadUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSizeMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
		MaxRows:       getEnvIntOrDefault("MAX_ROWS", 0),
	}
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		TTL:        getEnvDurationOrDefault("SESSION_TTL", 2*time.Hour),
		CookieName: getEnvOrDefault("SESSION_COOKIE", "datadash_session"),
	}
}

func loadAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		BaseURL:     getEnvOrDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		Model:       getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
		MaxTokens:   getEnvIntOrDefault("LLM_MAX_TOKENS", 200),
		Temperature: getEnvFloatOrDefault("LLM_TEMPERATURE", 0.1),
		Timeout:     getEnvDurationOrDefault("LLM_TIMEOUT", 60*time.Second),
		SampleRows:  getEnvIntOrDefault("SAMPLE_ROWS", 10),
		PromptsDir:  os.Getenv("PROMPTS_DIR"),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URL:    os.Getenv("DATABASE_URL"),
		Driver: getEnvOrDefault("DATABASE_DRIVER", "postgres"),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Upload.MaxFileSizeMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Upload.MaxRows < 0 {
		return errors.ConfigInvalid("MAX_ROWS cannot be negative")
	}
	if config.Session.TTL < 0 {
		return errors.ConfigInvalid("SESSION_TTL cannot be negative")
	}
	if config.AI.MaxTokens <= 0 {
		return errors.ConfigInvalid("LLM_MAX_TOKENS must be positive")
	}
	if config.AI.SampleRows <= 0 {
		return errors.ConfigInvalid("SAMPLE_ROWS must be positive")
	}
	if config.AI.Timeout <= 0 {
		return errors.ConfigInvalid("LLM_TIMEOUT must be positive")
	}
	if config.AI.Enabled() && config.AI.Model == "" {
		return errors.ConfigInvalid("LLM_MODEL is required when OPENAI_API_KEY is set")
	}
	switch config.Database.Driver {
	case "postgres", "sqlite3":
	default:
		return errors.ConfigInvalid("DATABASE_DRIVER must be postgres or sqlite3")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
