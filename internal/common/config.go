package common

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `envPrefix:"DB_"`
	Server   ServerConfig
	Pipeline PipelineConfig
	LLM      LLMConfig
	Lock     LockConfig
	Log      LogConfig `envPrefix:"LOG_"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver           string        `env:"DRIVER" envDefault:"postgres"`
	DSN              string        `env:"URL"`
	MaxConns         int32         `env:"MAX_CONNS" envDefault:"20"`
	MinConns         int32         `env:"MIN_CONNS" envDefault:"2"`
	MaxConnLifetime  time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"30m"`
	MaxConnIdleTime  time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"5m"`
	DialTimeout      time.Duration `env:"DIAL_TIMEOUT" envDefault:"3s"`
	StatementTimeout time.Duration `env:"STATEMENT_TIMEOUT" envDefault:"0s"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8000"`
	GRPCAddr        string        `env:"GRPC_ADDR" envDefault:":8080"`
	MaxUploadMB     int           `env:"MAX_UPLOAD_MB" envDefault:"10"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// PipelineConfig sizes the background dispatcher.
type PipelineConfig struct {
	Workers        int           `env:"WORKERS" envDefault:"4"`
	QueueSize      int           `env:"QUEUE_SIZE" envDefault:"256"`
	ProcessTimeout time.Duration `env:"PROCESS_TIMEOUT" envDefault:"3m"`
	RecoverOnStart bool          `env:"PIPELINE_RECOVER_ON_START" envDefault:"false"`
	Pdftotext      string        `env:"PDFTOTEXT_BIN"`
}

// LLMConfig holds augmentation settings. Augmentation is off unless USE_LLM is set.
type LLMConfig struct {
	Enabled     bool          `env:"USE_LLM" envDefault:"false"`
	Provider    string        `env:"LLM_PROVIDER" envDefault:"openai"`
	Timeout     time.Duration `env:"LLM_TIMEOUT" envDefault:"45s"`
	Temperature float32       `env:"LLM_TEMPERATURE" envDefault:"0.2"`
	OpenAI      OpenAIConfig  `envPrefix:"OPENAI_"`
	Gemini      GeminiConfig  `envPrefix:"GEMINI_"`
}

type OpenAIConfig struct {
	APIKey  string `env:"API_KEY"`
	Model   string `env:"MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"BASE_URL" envDefault:"https://api.openai.com/v1"`
}

type GeminiConfig struct {
	APIKey string `env:"API_KEY"`
	Model  string `env:"MODEL" envDefault:"gemini-2.0-flash"`
}

// LockConfig selects the per-candidate commit lock.
type LockConfig struct {
	Backend string      `env:"LOCK_BACKEND" envDefault:"memory"`
	Redis   RedisConfig `envPrefix:"REDIS_"`
}

type RedisConfig struct {
	Addr      string        `env:"ADDR"`
	Password  string        `env:"PASSWORD"`
	DB        int           `env:"DB" envDefault:"0"`
	KeyPrefix string        `env:"KEY_PREFIX" envDefault:"resume-parser:lock:"`
	LockTTL   time.Duration `env:"LOCK_TTL" envDefault:"30s"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// LoadConfig loads a .env file when present and then parses the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}
	return ParseConfig()
}

// ParseConfig reads configuration from environment variables only.
func ParseConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.Lock.Backend = strings.ToLower(strings.TrimSpace(cfg.Lock.Backend))
	return &cfg, nil
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.DSN == "" {
			return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
		}
	case "sqlite":
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("DB_DRIVER %q is not supported", c.Database.Driver), ErrInvalidInput)
	}
	if c.Server.MaxUploadMB <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_UPLOAD_MB must be positive", ErrInvalidInput)
	}
	if c.Pipeline.Workers <= 0 || c.Pipeline.QueueSize <= 0 {
		return NewAppError("CONFIG_ERROR", "WORKERS and QUEUE_SIZE must be positive", ErrInvalidInput)
	}
	if c.LLM.Enabled {
		switch c.LLM.Provider {
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required when USE_LLM is set", ErrInvalidInput)
			}
		case "gemini":
			if c.LLM.Gemini.APIKey == "" {
				return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required when USE_LLM is set", ErrInvalidInput)
			}
		default:
			return NewAppError("CONFIG_ERROR", fmt.Sprintf("LLM_PROVIDER %q is not supported", c.LLM.Provider), ErrInvalidInput)
		}
	}
	switch c.Lock.Backend {
	case "memory":
	case "redis":
		if c.Lock.Redis.Addr == "" {
			return NewAppError("CONFIG_ERROR", "REDIS_ADDR is required when LOCK_BACKEND=redis", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", fmt.Sprintf("LOCK_BACKEND %q is not supported", c.Lock.Backend), ErrInvalidInput)
	}
	return nil
}
