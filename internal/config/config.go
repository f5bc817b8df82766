package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Qdrant     QdrantConfig
	Gemini     GeminiConfig
	Groq       GroqConfig
	Perplexity PerplexityConfig
	Speech     SpeechConfig
	STT        STTConfig
	Router     RouterConfig
	Storage    StorageConfig
	Worker     WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type GroqConfig struct {
	APIKey  string
	BaseURL string
}

type PerplexityConfig struct {
	APIKey  string
	BaseURL string
}

type SpeechConfig struct {
	NeuralURL      string
	Voice          string
	DisableOffline bool
	AudioPath      string
	Retention      time.Duration
	MaxSpeechChars int
}

type STTConfig struct {
	WhisperModel   string
	DisableOffline bool
}

type RouterConfig struct {
	HistoryLimit int
	TopK         int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency      int
	RetryMaxAttempts int
	SweepInterval    time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "vocaresume"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "vocaresume_routing"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Groq: GroqConfig{
			APIKey:  getEnv("GROQ_API_KEY", ""),
			BaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		},
		Perplexity: PerplexityConfig{
			APIKey:  getEnv("PPLX_API_KEY", ""),
			BaseURL: getEnv("PPLX_BASE_URL", "https://api.perplexity.ai"),
		},
		Speech: SpeechConfig{
			NeuralURL:      getEnv("NEURAL_TTS_URL", "http://localhost:5050/synthesize"),
			Voice:          getEnv("TTS_VOICE", "en-US-JennyNeural"),
			DisableOffline: getEnvAsBool("DISABLE_OFFLINE_TTS", false),
			AudioPath:      getEnv("AUDIO_PATH", "./audio"),
			Retention:      getEnvAsDuration("AUDIO_RETENTION", "3600s"),
			MaxSpeechChars: getEnvAsInt("MAX_SPEECH_CHARS", 4800),
		},
		STT: STTConfig{
			WhisperModel:   getEnv("STT_WHISPER_MODEL", "whisper-large-v3"),
			DisableOffline: getEnvAsBool("DISABLE_OFFLINE_STT", false),
		},
		Router: RouterConfig{
			HistoryLimit: getEnvAsInt("ROUTER_HISTORY_LIMIT", 20),
			TopK:         getEnvAsInt("ROUTER_TOP_K", 3),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Worker: WorkerConfig{
			Concurrency:      getEnvAsInt("WORKER_CONCURRENCY", 3),
			RetryMaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			SweepInterval:    getEnvAsDuration("SWEEP_INTERVAL", "10m"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
