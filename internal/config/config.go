package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendGemini = "gemini"
	BackendOllama = "ollama"
)

type Config struct {
	Server struct {
		Port               int           `yaml:"port"`
		ReadTimeout        time.Duration `yaml:"readTimeout"`
		WriteTimeout       time.Duration `yaml:"writeTimeout"`
		IdleTimeout        time.Duration `yaml:"idleTimeout"`
		CORSAllowedOrigins []string      `yaml:"corsAllowedOrigins"`
	} `yaml:"server"`

	Upstream struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"upstream"`

	Vision struct {
		Backend string `yaml:"backend"`
	} `yaml:"vision"`

	Gemini struct {
		APIKey  string `yaml:"apiKey"`
		BaseURL string `yaml:"baseURL"`
		Model   string `yaml:"model"`
	} `yaml:"gemini"`

	Ollama struct {
		URL   string `yaml:"url"`
		Model string `yaml:"model"`
	} `yaml:"ollama"`

	Chat struct {
		APIKey      string  `yaml:"apiKey"`
		BaseURL     string  `yaml:"baseURL"`
		Model       string  `yaml:"model"`
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"maxTokens"`
	} `yaml:"chat"`

	Scan struct {
		MaxUploadBytes int64 `yaml:"maxUploadBytes"`
	} `yaml:"scan"`

	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Default returns a Config with every non-secret field filled in.
func Default() *Config {
	var c Config
	c.Server.Port = 8000
	c.Server.ReadTimeout = 30 * time.Second
	c.Server.WriteTimeout = 90 * time.Second
	c.Server.IdleTimeout = 60 * time.Second
	c.Server.CORSAllowedOrigins = []string{"*"}
	c.Upstream.Timeout = 60 * time.Second
	c.Vision.Backend = BackendGemini
	c.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	c.Gemini.Model = "gemini-2.0-flash"
	c.Ollama.URL = "http://localhost:11434"
	c.Ollama.Model = "llava"
	c.Chat.BaseURL = "https://api.groq.com/openai/v1"
	c.Chat.Model = "llama-3.3-70b-versatile"
	c.Chat.Temperature = 0.7
	c.Chat.MaxTokens = 800
	c.Scan.MaxUploadBytes = 20 << 20
	c.Log.Level = "info"
	return &c
}

// Load reads the yaml file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&c.Gemini.Model, "GEMINI_MODEL")
	setString(&c.Chat.APIKey, "GROQ_API_KEY")
	setString(&c.Chat.Model, "CHAT_MODEL")
	setString(&c.Vision.Backend, "VISION_BACKEND")
	setString(&c.Ollama.URL, "OLLAMA_URL")
	setString(&c.Ollama.Model, "OLLAMA_MODEL")
	setString(&c.Log.Level, "LOG_LEVEL")

	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		c.Server.CORSAllowedOrigins = splitList(v)
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate reports missing credentials and nonsensical limits.
func (c *Config) Validate() error {
	var errs []error
	switch c.Vision.Backend {
	case BackendGemini:
		if c.Gemini.APIKey == "" {
			errs = append(errs, errors.New("gemini api key is required (GEMINI_API_KEY)"))
		}
	case BackendOllama:
		if c.Ollama.URL == "" {
			errs = append(errs, errors.New("ollama.url is required when vision.backend is ollama"))
		}
	default:
		errs = append(errs, fmt.Errorf("vision.backend must be %q or %q, got %q", BackendGemini, BackendOllama, c.Vision.Backend))
	}
	if c.Chat.APIKey == "" {
		errs = append(errs, errors.New("chat api key is required (GROQ_API_KEY)"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Chat.MaxTokens <= 0 {
		errs = append(errs, errors.New("chat.maxTokens must be positive"))
	}
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		errs = append(errs, errors.New("chat.temperature must be between 0 and 2"))
	}
	if c.Scan.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("scan.maxUploadBytes must be positive"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
