package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Assistant AssistantConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LLMLogFilePath     string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	EventsEnabled      bool
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleAPIKey string
	HuggingFace  string
	JWTSecret    string
}

type AIConfig struct {
	LLMProvider       string // "gemini", "ollama" or "huggingface"
	LLMModel          string
	Temperature       float64
	CallTimeout       time.Duration
	EmbeddingProvider string // "gemini" or "ollama"
	EmbeddingModel    string
	OllamaBaseURL     string
	OllamaModel       string // embedding model when EMBEDDING_PROVIDER=ollama
}

type AssistantConfig struct {
	RetrievalK              int
	CompressEnabled         bool
	CompressMaxChunks       int
	CompressMaxSentences    int
	HistoryWindow           int
	ClassifierHistoryWindow int
	MemoryBackend           string // "memory" or "redis"
	VectorBackend           string // "pgvector" or "memory"
	ChunksDir               string
	SessionTTL              time.Duration
	NewsEnabled             bool
	NewsBaseURL             string
	NewsTimeout             time.Duration
	ContactPhone            string
	ContactEmail            string
	ContactWebsite          string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LLMLogFilePath:     getEnv("LLM_LOG_FILE_PATH", "logs/llm_rag.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			EventsEnabled:      getEnvAsBool("EVENTS_ENABLED", true),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleAPIKey: getEnv("GOOGLE_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
			JWTSecret:    getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-2.5-flash"),
			Temperature:       getEnvAsFloat("LLM_TEMPERATURE", 0.4),
			CallTimeout:       getEnvAsDuration("LLM_CALL_TIMEOUT", 30*time.Second),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "gemini-embedding-001"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
		},
		Assistant: AssistantConfig{
			RetrievalK:              getEnvAsInt("RETRIEVAL_K", 4),
			CompressEnabled:         getEnvAsBool("COMPRESS_ENABLED", true),
			CompressMaxChunks:       getEnvAsInt("COMPRESS_MAX_CHUNKS", 3),
			CompressMaxSentences:    getEnvAsInt("COMPRESS_MAX_SENTENCES", 3),
			HistoryWindow:           getEnvAsInt("HISTORY_WINDOW", 10),
			ClassifierHistoryWindow: getEnvAsInt("CLASSIFIER_HISTORY_WINDOW", 3),
			MemoryBackend:           getEnv("MEMORY_BACKEND", "memory"),
			VectorBackend:           getEnv("VECTOR_BACKEND", "pgvector"),
			ChunksDir:               getEnv("CHUNKS_DIR", "chunks"),
			SessionTTL:              getEnvAsDuration("SESSION_TTL", 2*time.Hour),
			NewsEnabled:             getEnvAsBool("NEWS_ENABLED", true),
			NewsBaseURL:             getEnv("NEWS_BASE_URL", "https://www.cozumkoleji.com.tr"),
			NewsTimeout:             getEnvAsDuration("NEWS_TIMEOUT", 10*time.Second),
			ContactPhone:            getEnv("CONTACT_PHONE", "[okul telefonu]"),
			ContactEmail:            getEnv("CONTACT_EMAIL", "[okul email]"),
			ContactWebsite:          getEnv("CONTACT_WEBSITE", "[okul website]"),
		},
	}
}

// ConfigurationError is fatal: the assistant must not start with it.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Problems, "; "))
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate checks that the credentials and backends selected by the
// environment can actually be constructed.
func (c *Config) Validate() error {
	var problems []string

	switch c.Ai.LLMProvider {
	case "gemini":
		if c.Keys.GoogleAPIKey == "" {
			problems = append(problems, "GOOGLE_API_KEY is required for LLM_PROVIDER=gemini")
		}
	case "huggingface":
		if c.Keys.HuggingFace == "" {
			problems = append(problems, "HUGGINGFACE_API_KEY is required for LLM_PROVIDER=huggingface")
		}
	case "ollama":
	default:
		problems = append(problems, fmt.Sprintf("unsupported LLM_PROVIDER %q", c.Ai.LLMProvider))
	}

	switch c.Ai.EmbeddingProvider {
	case "gemini":
		if c.Keys.GoogleAPIKey == "" {
			problems = append(problems, "GOOGLE_API_KEY is required for EMBEDDING_PROVIDER=gemini")
		}
	case "ollama":
	default:
		problems = append(problems, fmt.Sprintf("unsupported EMBEDDING_PROVIDER %q", c.Ai.EmbeddingProvider))
	}

	switch c.Assistant.VectorBackend {
	case "pgvector":
		if c.Database.Connection == "" {
			problems = append(problems, "DB_CONNECTION_STRING is required for VECTOR_BACKEND=pgvector")
		}
	case "memory":
	default:
		problems = append(problems, fmt.Sprintf("unsupported VECTOR_BACKEND %q", c.Assistant.VectorBackend))
	}

	if c.Assistant.MemoryBackend != "memory" && c.Assistant.MemoryBackend != "redis" {
		problems = append(problems, fmt.Sprintf("unsupported MEMORY_BACKEND %q", c.Assistant.MemoryBackend))
	}
	if c.Assistant.RetrievalK <= 0 {
		problems = append(problems, "RETRIEVAL_K must be positive")
	}
	if c.Assistant.CompressMaxChunks <= 0 || c.Assistant.CompressMaxSentences <= 0 {
		problems = append(problems, "COMPRESS_MAX_CHUNKS and COMPRESS_MAX_SENTENCES must be positive")
	}
	if c.Assistant.HistoryWindow < 0 {
		problems = append(problems, "HISTORY_WINDOW must not be negative")
	}
	if c.IsProduction() && c.Keys.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required in production")
	}

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}
