package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Gemini
	GeminiAPIKey  string
	GeminiModelID string

	// AWS / DynamoDB (checkpoint persistence)
	AWSRegion              string
	AWSAccessKeyID         string
	AWSSecretAccessKey     string
	AWSEndpointOverride    string
	CheckpointsTable       string
	CheckpointHistoryTable string
	CheckpointWritesTable  string

	// Redis (booking locks)
	RedisAddr      string
	RedisPassword  string
	UseLocalLocks  bool
	BookingLockTTL time.Duration

	// Scheduling
	HorizonDays int
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.0-flash-001"),

		AWSRegion:              getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:         getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:     getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride:    getEnv("AWS_ENDPOINT_OVERRIDE", ""),
		CheckpointsTable:       getEnv("CHECKPOINTS_TABLE", "checkpoints"),
		CheckpointHistoryTable: getEnv("CHECKPOINT_HISTORY_TABLE", "checkpoint_history"),
		CheckpointWritesTable:  getEnv("CHECKPOINT_WRITES_TABLE", "checkpoint_writes"),

		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		UseLocalLocks:  getEnvAsBool("USE_LOCAL_LOCKS", false),
		BookingLockTTL: getEnvAsDuration("BOOKING_LOCK_TTL", 5*time.Second),

		HorizonDays: getEnvAsInt("HORIZON_DAYS", 7),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
