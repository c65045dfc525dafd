// Package config loads service configuration from the environment.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// AI provider
	AIProvider      string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	RequestTimeout  time.Duration

	// Product data
	DataDir     string // uploads land here
	DatasetDir  string // extra lookup directory for product files
	DatasetPath string // default single-product file

	// Server
	ServerPort   string
	StaticDir    string
	SnapshotPath string
}

// Load reads configuration from environment variables, after trying an
// optional .env file for local development.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AIProvider:      getEnv("AI_PROVIDER", "openai"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  os.Getenv("ANTHROPIC_MODEL"),
		RequestTimeout:  2 * time.Minute,

		DataDir:     getEnv("PRODUCT_DATA_DIR", "./data"),
		DatasetDir:  os.Getenv("PRODUCT_DATASET_DIR"),
		DatasetPath: os.Getenv("PRODUCT_DATASET_PATH"),

		ServerPort:   getEnv("SERVER_PORT", "8080"),
		StaticDir:    getEnv("STATIC_DIR", "./static"),
		SnapshotPath: os.Getenv("PA_SESSION_SNAPSHOT"),
	}

	switch cfg.AIProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Println("WARNING: OPENAI_API_KEY not set")
		}
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Println("WARNING: ANTHROPIC_API_KEY not set")
		}
	default:
		log.Printf("WARNING: Unknown AI_PROVIDER: %s (using openai as fallback)\n", cfg.AIProvider)
		cfg.AIProvider = "openai"
	}

	return cfg
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
