package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// content source kinds
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceMongo    = "mongo"
)

type Config struct {
	OllamaURL        string // "http://localhost:11434"
	OllamaEmbedModel string
	OllamaLLMModel   string

	Port        string
	Environment string
	CORSOrigins []string

	LogLevel  string
	LogFormat string

	// RAG pipeline
	TopK            int
	EmbedTimeout    time.Duration
	GenerateTimeout time.Duration
	EmbedRetries    int
	EmbedRate       float64 // embeddings per second during population, 0 = unlimited

	ContentSource string
	ContentFile   string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the .env file.
func Load() *Config {
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	getEnv := func(key, defaultValue string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		return defaultValue
	}

	getEnvInt := func(key string, defaultValue int) int {
		valueStr := os.Getenv(key)
		if valueStr == "" {
			return defaultValue
		}
		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return defaultValue
		}
		return value
	}

	getEnvFloat := func(key string, defaultValue float64) float64 {
		valueStr := os.Getenv(key)
		if valueStr == "" {
			return defaultValue
		}
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return defaultValue
		}
		return value
	}

	getEnvDuration := func(key string, defaultValue time.Duration) time.Duration {
		valueStr := os.Getenv(key)
		if valueStr == "" {
			return defaultValue
		}
		value, err := time.ParseDuration(valueStr)
		if err != nil || value <= 0 {
			return defaultValue
		}
		return value
	}

	return &Config{
		// Ollama
		OllamaURL:        strings.TrimRight(getEnv("OLLAMA_URL", "http://localhost:11434"), "/"),
		OllamaEmbedModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		OllamaLLMModel:   getEnv("OLLAMA_LLM_MODEL", "tinyllama"),

		// Application settings
		Port:        getEnv("PORT", "3000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),

		// RAG pipeline
		TopK:            getEnvInt("TOP_K", 3),
		EmbedTimeout:    getEnvDuration("EMBED_TIMEOUT", 30*time.Second),
		GenerateTimeout: getEnvDuration("GENERATE_TIMEOUT", 120*time.Second),
		EmbedRetries:    getEnvInt("EMBED_RETRIES", 0),
		EmbedRate:       getEnvFloat("EMBED_RATE", 0),

		// Content dataset
		ContentSource: strings.ToLower(getEnv("CONTENT_SOURCE", SourceEmbedded)),
		ContentFile:   getEnv("CONTENT_FILE", ""),

		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DATABASE", "plantcare"),
		MongoCollection: getEnv("MONGO_COLLECTION", "countries"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
