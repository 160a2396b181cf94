package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	// Server Configuration
	ServerPort string

	// Database Configuration
	DatabasePath string

	// Persistence backend for rate-limit state and sync checkpoint:
	// "sqlite" (stored in the main database) or "redis"
	KVBackend string
	RedisAddr string
	RedisDB   int

	// LLM Configuration
	LLMProvider string // "openai" or "groq"
	OpenAIKey   string
	GroqKey     string
	LLMBaseURL  string
	ChatModel   string

	// Rate Limiting Configuration
	RequestsPerMinute int
	DailyQuota        int

	// Geocoding Configuration
	GeocodingBaseURL string
	GeocodingCountry string

	// Sync Configuration
	SyncMaxAttempts int
	SyncBackoffMs   int

	// Response Limiting Configuration
	MaxReportsReturn int
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		ServerPort:        getEnv("PORT", "8080"),
		DatabasePath:      getEnv("DB_PATH", "healthwatch.db"),
		KVBackend:         getEnv("KV_BACKEND", "sqlite"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		LLMProvider:       getEnv("LLM_PROVIDER", "groq"),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		GroqKey:           os.Getenv("GROQ_API_KEY"),
		LLMBaseURL:        getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		ChatModel:         getEnv("CHAT_MODEL", "llama-3.3-70b-versatile"),
		RequestsPerMinute: getEnvInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 15),
		DailyQuota:        getEnvInt("RATE_LIMIT_DAILY_QUOTA", 1000),
		GeocodingBaseURL:  getEnv("GEOCODING_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodingCountry:  getEnv("GEOCODING_COUNTRY", "in"),
		SyncMaxAttempts:   getEnvInt("SYNC_MAX_ATTEMPTS", 3),
		SyncBackoffMs:     getEnvInt("SYNC_BACKOFF_MS", 500),
		MaxReportsReturn:  getEnvInt("MAX_REPORTS", 500),
	}

	// Validate configuration
	if AppConfig.KVBackend != "sqlite" && AppConfig.KVBackend != "redis" {
		log.Fatalf("Invalid KV_BACKEND: %s (must be 'sqlite' or 'redis')", AppConfig.KVBackend)
	}
	if AppConfig.RequestsPerMinute <= 0 {
		log.Fatal("RATE_LIMIT_REQUESTS_PER_MINUTE must be positive")
	}
	if AppConfig.DailyQuota <= 0 {
		log.Fatal("RATE_LIMIT_DAILY_QUOTA must be positive")
	}

	return AppConfig
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
