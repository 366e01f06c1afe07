package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port string

	// Durable store credentials. Empty selects the in-memory store.
	DatabaseURL string

	// LLM Configuration
	LLMProvider string // "openai", "groq", "ollama" or "gemini"
	LLMModel    string // "gpt-3.5-turbo", "llama-3.3-70b-versatile", "gemini-2.5-flash"
	LLMAPIKey   string // key of the selected provider
	LLMBaseURL  string // override for OpenAI-compatible endpoints
	LLMTimeout  time.Duration

	UploadsDir     string
	MaxUploadBytes int64
	AllowedOrigins []string
	SwaggerHost    string

	LogJSON  bool
	LogDebug bool

	Archive ArchiveConfig
}

// ArchiveConfig enables copying uploaded resumes to S3 when Bucket is set.
type ArchiveConfig struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

var defaultModels = map[string]string{
	"openai": "gpt-3.5-turbo",
	"groq":   "llama-3.3-70b-versatile",
	"ollama": "llama3.1",
	"gemini": "gemini-2.5-flash",
}

// LoadConfig reads .env (current or repository root) and then the environment.
func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		err = godotenv.Load("../../.env")
		if err != nil {
			log.Println("Warning: Could not load .env file, using environment variables")
		}
	}

	return Load(viper.New())
}

// Load resolves the configuration from v, which is bound to the environment.
func Load(v *viper.Viper) *Config {
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_TIMEOUT", "60s")
	v.SetDefault("UPLOADS_DIR", "./uploads")
	v.SetDefault("MAX_UPLOAD_MB", 10)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("SWAGGER_HOST", "localhost:8080")
	v.SetDefault("AWS_REGION", "us-east-2")

	provider := strings.ToLower(strings.TrimSpace(v.GetString("LLM_PROVIDER")))

	model := v.GetString("LLM_MODEL")
	if model == "" {
		model = defaultModels[provider]
	}

	// Get API key based on provider
	apiKey := v.GetString("LLM_API_KEY")
	if apiKey == "" {
		switch provider {
		case "openai":
			apiKey = v.GetString("OPENAI_API_KEY")
		case "groq":
			apiKey = v.GetString("GROQ_API_KEY")
		case "gemini":
			apiKey = v.GetString("GEMINI_API_KEY")
		}
	}

	timeout := v.GetDuration("LLM_TIMEOUT")
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	maxMB := v.GetInt64("MAX_UPLOAD_MB")
	if maxMB <= 0 {
		maxMB = 10
	}

	return &Config{
		Port:           v.GetString("PORT"),
		DatabaseURL:    strings.TrimSpace(v.GetString("DATABASE_URL")),
		LLMProvider:    provider,
		LLMModel:       model,
		LLMAPIKey:      apiKey,
		LLMBaseURL:     v.GetString("LLM_BASE_URL"),
		LLMTimeout:     timeout,
		UploadsDir:     v.GetString("UPLOADS_DIR"),
		MaxUploadBytes: maxMB << 20,
		AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		SwaggerHost:    v.GetString("SWAGGER_HOST"),
		LogJSON:        v.GetBool("LOG_JSON"),
		LogDebug:       v.GetBool("LOG_DEBUG"),
		Archive: ArchiveConfig{
			Bucket:    v.GetString("ARCHIVE_BUCKET"),
			Region:    v.GetString("AWS_REGION"),
			AccessKey: v.GetString("AWS_ACCESS_KEY"),
			SecretKey: v.GetString("AWS_SECRET_KEY"),
		},
	}
}

// StoreBackend names the candidate store selected by the presence of durable-store credentials.
func (c *Config) StoreBackend() string {
	if c.DatabaseURL != "" {
		return BackendPostgres
	}
	return BackendMemory
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
