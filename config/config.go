package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/yaoapp/kun/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds the service settings, read from the environment.
type Config struct {
	Mode           string        `json:"mode,omitempty" env:"TOWER_ENV" envDefault:"production"`             // production|development
	Host           string        `json:"host,omitempty" env:"TOWER_HOST" envDefault:"0.0.0.0"`
	Port           int           `json:"port,omitempty" env:"PORT" envDefault:"8000"`
	AllowOrigins   []string      `json:"allow_origins,omitempty" env:"TOWER_ALLOW_ORIGINS" envSeparator:"|" envDefault:"http://localhost:3000|http://127.0.0.1:3000"`
	DefaultModel   string        `json:"default_model,omitempty" env:"TOWER_DEFAULT_MODEL" envDefault:"gpt-4o-mini"`
	RequestTimeout time.Duration `json:"request_timeout,omitempty" env:"TOWER_REQUEST_TIMEOUT" envDefault:"60s"`
	MaxUploadBytes int64         `json:"max_upload_bytes,omitempty" env:"TOWER_MAX_UPLOAD_BYTES" envDefault:"33554432"`
	Log            string        `json:"log,omitempty" env:"TOWER_LOG"`                              // log file, stderr when empty
	LogMode        string        `json:"log_mode,omitempty" env:"TOWER_LOG_MODE" envDefault:"TEXT"` // TEXT|JSON
	LogMaxSize     int           `json:"log_max_size,omitempty" env:"TOWER_LOG_MAX_SIZE" envDefault:"100"`
	LogMaxBackups  int           `json:"log_max_backups,omitempty" env:"TOWER_LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAge      int           `json:"log_max_age,omitempty" env:"TOWER_LOG_MAX_AGE" envDefault:"28"`
	LLM            LLMConfig     `json:"llm,omitempty"`
}

// LLMConfig configures optional narration of canned answers. An empty
// Provider keeps the canned answers.
type LLMConfig struct {
	Provider string `json:"provider,omitempty" env:"TOWER_LLM_PROVIDER"` // openai|deepseek|mock
	Model    string `json:"model,omitempty" env:"TOWER_LLM_MODEL"`
	APIKey   string `json:"api_key,omitempty" env:"TOWER_LLM_API_KEY"`
	BaseURL  string `json:"base_url,omitempty" env:"TOWER_LLM_BASE_URL"`
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the configuration from the environment. When envfile is not
// empty its variables override the process environment; a missing envfile
// is not an error.
func Load(envfile string) (Config, error) {
	if envfile != "" {
		file, err := filepath.Abs(envfile)
		if err != nil {
			return Config{}, err
		}
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Overload(file); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", file, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("can't read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that env parsing can't.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.LLM.Provider {
	case "", "mock":
	case "openai":
		if c.LLM.APIKey == "" {
			return errors.New("llm provider openai requires TOWER_LLM_API_KEY")
		}
	case "deepseek":
		// DeepSeek exposes an OpenAI compatible API behind its own base URL.
		if c.LLM.BaseURL == "" {
			return errors.New("llm provider deepseek requires TOWER_LLM_BASE_URL")
		}
		if c.LLM.APIKey == "" {
			return errors.New("llm provider deepseek requires TOWER_LLM_API_KEY")
		}
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	return nil
}

// SetupLog applies the log level and format for the mode and opens the log
// file when one is configured. The returned closer releases the file.
func SetupLog(c Config) io.Closer {
	if c.Mode == "development" {
		log.SetLevel(log.TraceLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	log.SetFormatter(log.TEXT)
	if strings.EqualFold(c.LogMode, "JSON") {
		log.SetFormatter(log.JSON)
	}

	if c.Log == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil)
	}

	out := &lumberjack.Logger{
		Filename:   c.Log,
		MaxSize:    c.LogMaxSize, // megabytes
		MaxBackups: c.LogMaxBackups,
		MaxAge:     c.LogMaxAge, // days
		LocalTime:  true,
	}
	log.SetOutput(out)
	return out
}
