package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	GinMode       string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RabbitMQURI   string
	EventExchange string

	LLMAPIKey         string
	LLMBaseURL        string
	LLMModel          string
	LLMProvider       string
	EmbeddingModelURL string
	EmbeddingModel    string

	JWTSecret string

	// Learning-loop tunables. The advance threshold and the summary window
	// are deliberately configurable rather than hardcoded.
	PassingScore       float64
	MaxRecentSummaries int
	MaxChapter         int
	SearchTopK         int
	SessionTTLMinutes  int

	ServiceName    string
	ServiceVersion string
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		GinMode:       getEnvOrDefault("GIN_MODE", "debug"),
		MongoURI:      getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGO_DATABASE", "tutor_service"),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PWD", ""),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),
		RabbitMQURI:   getEnvOrDefault("RABBITMQ_URI", ""),
		EventExchange: getEnvOrDefault("RABBITMQ_EXCHANGE", "tutor.events"),

		LLMAPIKey:         getEnvOrDefault("API_KEY", ""),
		LLMBaseURL:        getEnvOrDefault("BASE_URL", "http://localhost:11434/v1"),
		LLMModel:          getEnvOrDefault("MODEL", "qwen3:1.7b"),
		LLMProvider:       getEnvOrDefault("PROVIDER", "ollama"),
		EmbeddingModelURL: getEnvOrDefault("EMBEDDING_URL", "http://localhost:11434/v1"),
		EmbeddingModel:    getEnvOrDefault("EMBEDDING_MODEL", "nomic-embed-text:latest"),

		JWTSecret: getEnvOrDefault("JWT_SECRET", "your-jwt-secret-key"),

		PassingScore:       getEnvFloatOrDefault("PASSING_SCORE", 70),
		MaxRecentSummaries: getEnvIntOrDefault("MAX_RECENT_SUMMARIES", 5),
		MaxChapter:         getEnvIntOrDefault("MAX_CHAPTER", 5),
		SearchTopK:         getEnvIntOrDefault("SEARCH_TOP_K", 3),
		SessionTTLMinutes:  getEnvIntOrDefault("SESSION_TTL_MINUTES", 120),

		ServiceName:    getEnvOrDefault("SERVICE_NAME", "tutor-service"),
		ServiceVersion: getEnvOrDefault("SERVICE_VERSION", "1.0.0"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
