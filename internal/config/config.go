package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ProviderConfig holds the default credential and endpoint for one LLM provider.
// An empty APIKey is valid: the gateway degrades to a "key not configured"
// result instead of failing at startup.
type ProviderConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LLMConfig configures the generation gateway and its provider adapters.
type LLMConfig struct {
	TimeoutSec int
	Yandex     ProviderConfig
	GigaChat   ProviderConfig
	DeepSeek   ProviderConfig
}

// EmbeddingConfig configures the embedding backend. Type is "openai" for an
// OpenAI-compatible endpoint or "stub" for the deterministic local embedder.
type EmbeddingConfig struct {
	Type       string
	BaseURL    string
	APIKey     string
	Model      string
	Dimension  int
	TimeoutSec int
}

// ChunkingConfig configures document splitting.
type ChunkingConfig struct {
	Size    int
	Overlap int
}

// SessionConfig bounds the in-memory analysis session store.
type SessionConfig struct {
	TTLSec     int
	MaxEntries int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost         string
	Port            string
	MaxUploadSizeMB int
	Database        DatabaseConfig
	MinIO           MinIOConfig
	LLM             LLMConfig
	Embedding       EmbeddingConfig
	Chunking        ChunkingConfig
	Session         SessionConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:         getEnv("APP_HOST", "localhost:8080"),
		Port:            getEnv("PORT", "8080"), // default only for non-sensitive value
		MaxUploadSizeMB: getEnvInt("MAX_UPLOAD_SIZE_MB", 10),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		LLM: LLMConfig{
			TimeoutSec: getEnvInt("LLM_TIMEOUT_SEC", 30),
			Yandex: ProviderConfig{
				APIKey:  getEnv("YANDEX_API_KEY", ""),
				BaseURL: getEnv("YANDEX_API_BASE", "https://llm.api.cloud.yandex.net"),
				Model:   getEnv("YANDEX_MODEL", "yandexgpt-lite"),
			},
			GigaChat: ProviderConfig{
				APIKey:  getEnv("GIGACHAT_API_KEY", ""),
				BaseURL: getEnv("GIGACHAT_API_BASE", "https://gigachat.devices.sberbank.ru/api/v1"),
				Model:   getEnv("GIGACHAT_MODEL", "GigaChat"),
			},
			DeepSeek: ProviderConfig{
				APIKey:  getEnv("DEEPSEEK_API_KEY", ""),
				BaseURL: getEnv("DEEPSEEK_API_BASE", "https://api.deepseek.com"),
				Model:   getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
			},
		},
		Embedding: EmbeddingConfig{
			Type:       getEnv("EMBEDDING_TYPE", "stub"),
			BaseURL:    getEnv("EMBEDDING_API_BASE", "https://api.openai.com/v1"),
			APIKey:     getEnv("EMBEDDING_API_KEY", ""),
			Model:      getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			Dimension:  getEnvInt("EMBEDDING_DIMENSION", 1536),
			TimeoutSec: getEnvInt("EMBEDDING_TIMEOUT_SEC", 30),
		},
		Chunking: ChunkingConfig{
			Size:    getEnvInt("CHUNK_SIZE", 1000),
			Overlap: getEnvInt("CHUNK_OVERLAP", 200),
		},
		Session: SessionConfig{
			TTLSec:     getEnvInt("SESSION_TTL_SEC", 3600),
			MaxEntries: getEnvInt("SESSION_MAX_ENTRIES", 1024),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
