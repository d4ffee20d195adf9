// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	JWTSecretKey string

	// Generation provider (OpenAI-compatible endpoint).
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string

	// Text-to-speech vendor.
	TTSAPIKey  string
	TTSBaseURL string
	TTSVoice   string

	// Voice capture tuning.
	SilenceTimeout time.Duration

	Environment string
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		DatabasePath:   getEnv("DATABASE_PATH", "assistant.db"),
		JWTSecretKey:   getEnv("JWT_SECRET_KEY", ""),
		LLMAPIKey:      getEnv("LLM_API_KEY", ""),
		LLMBaseURL:     getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		TTSAPIKey:      getEnv("TTS_API_KEY", ""),
		TTSBaseURL:     getEnv("TTS_BASE_URL", "https://api.elevenlabs.io"),
		TTSVoice:       getEnv("TTS_VOICE", "Rachel"),
		SilenceTimeout: getEnvAsDuration("VOICE_SILENCE_TIMEOUT_MS", 2000) * time.Millisecond,
		Environment:    env,
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.LLMAPIKey == "" {
			missing = append(missing, "LLM_API_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsDuration gets an env var as an integer number of units, with a fallback.
func getEnvAsDuration(key string, defaultValue int) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return time.Duration(defaultValue)
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil || intValue <= 0 {
		log.Printf("Warning: could not parse env var %s as positive integer. Using default value.", key)
		return time.Duration(defaultValue)
	}
	return time.Duration(intValue)
}
