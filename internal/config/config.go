package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/redflag-scanner/internal/domain/analysis"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	AI     AIConfig     `yaml:"ai"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	IdleTimeout    time.Duration `yaml:"idleTimeout"`
	MaxBodyBytes   int64         `yaml:"maxBodyBytes"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
}

type AIConfig struct {
	APIKey    string        `yaml:"apiKey"`
	BaseURL   string        `yaml:"baseURL"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"maxTokens"`
	Profile   string        `yaml:"profile"`
	Timeout   time.Duration `yaml:"timeout"`
}

// IsEnabled returns true if the provider credential is present
func (c AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// MarshalYAML never writes the key back out.
func (c AIConfig) MarshalYAML() (interface{}, error) {
	type plain AIConfig
	p := plain(c)
	if p.APIKey != "" {
		p.APIKey = "***"
	}
	return p, nil
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   120 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxBodyBytes:   20 << 20,
			AllowedOrigins: []string{"*"},
		},
		AI: AIConfig{
			Model:     "gpt-4o",
			MaxTokens: 2000,
			Profile:   string(analysis.DefaultProfile),
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
	}
}

// Load reads path on top of Default() and then applies env overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("REDFLAG_AI_API_KEY"); v != "" {
		c.AI.APIKey = v
	} else if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if v := os.Getenv("REDFLAG_AI_BASE_URL"); v != "" {
		c.AI.BaseURL = v
	}
	if v := os.Getenv("REDFLAG_AI_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := os.Getenv("REDFLAG_AI_PROFILE"); v != "" {
		c.AI.Profile = v
	}
	if v := os.Getenv("REDFLAG_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("REDFLAG_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDFLAG_PORT: %w", err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks ranges. A missing API key is allowed: the provider then
// fails each request with a dedicated error.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.maxBodyBytes must be positive")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai.maxTokens must be positive")
	}
	if err := validateBaseURL(c.AI.BaseURL); err != nil {
		return fmt.Errorf("ai.baseURL: %w", err)
	}
	if c.AI.Timeout < 0 {
		return fmt.Errorf("ai.timeout must not be negative")
	}
	if _, err := analysis.ParseProfile(c.AI.Profile); err != nil {
		return fmt.Errorf("ai.profile: %w", err)
	}
	return nil
}

// validateBaseURL accepts an empty value (provider default) or an absolute
// http(s) URL. Local hosts are allowed.
func validateBaseURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %q (allowed: http, https)", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// Profile returns the parsed default profile. Call after Validate.
func (c *Config) Profile() analysis.Profile {
	p, err := analysis.ParseProfile(c.AI.Profile)
	if err != nil {
		return analysis.DefaultProfile
	}
	return p
}
