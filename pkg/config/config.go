package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xhad/vidnotes/internal/types"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM       LLMSection       `yaml:"llm"`
	Processor ProcessorSection `yaml:"processor"`
	YouTube   YouTubeSection   `yaml:"youtube"`
	Store     StoreSection     `yaml:"store"`
	Server    ServerSection    `yaml:"server"`
	Logging   LoggingSection   `yaml:"logging"`
}

type LLMSection struct {
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TokenizerPath  string `yaml:"tokenizer_path"`
	MaxInputTokens int    `yaml:"max_input_tokens"`
	Seed           int    `yaml:"seed"`
}

type ProcessorSection struct {
	ChunkSize int `yaml:"chunk_size"`
}

type YouTubeSection struct {
	BaseURL   string        `yaml:"base_url"`
	RateLimit float64       `yaml:"rate_limit"`
	Timeout   time.Duration `yaml:"timeout"`
	Languages []string      `yaml:"languages"`
}

type StoreSection struct {
	// Driver is one of none, sqlite or postgres.
	Driver    string `yaml:"driver"`
	URL       string `yaml:"url"`
	TableName string `yaml:"table_name"`
}

type ServerSection struct {
	Port int `yaml:"port"`
}

type LoggingSection struct {
	Level string `yaml:"level"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/vidnotes/config.yaml"),
			"/etc/vidnotes/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Merge with environment variables
	mergeWithEnv(&config)

	// Apply defaults for unset values
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Model == "" {
		config.LLM.Model = "flan-t5-base"
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}
	if config.LLM.MaxInputTokens == 0 {
		config.LLM.MaxInputTokens = 1024
	}

	if config.Processor.ChunkSize == 0 {
		config.Processor.ChunkSize = 1200
	}

	if config.YouTube.BaseURL == "" {
		config.YouTube.BaseURL = "https://www.youtube.com"
	}
	if config.YouTube.RateLimit == 0 {
		config.YouTube.RateLimit = 2.0
	}
	if config.YouTube.Timeout == 0 {
		config.YouTube.Timeout = 30 * time.Second
	}
	if len(config.YouTube.Languages) == 0 {
		config.YouTube.Languages = []string{"en"}
	}

	if config.Store.Driver == "" {
		config.Store.Driver = "none"
	}
	if config.Store.TableName == "" {
		config.Store.TableName = "notes"
	}

	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
}

func mergeWithEnv(config *Config) {
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	// DATABASE_URL is a Postgres connection string; never use it as a sqlite path
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" && strings.EqualFold(config.Store.Driver, "postgres") {
		config.Store.URL = dbURL
	}
	if tokenizer := os.Getenv("VIDNOTES_TOKENIZER"); tokenizer != "" {
		config.LLM.TokenizerPath = tokenizer
	}
	if level := os.Getenv("VIDNOTES_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

func (c *Config) LLMConfig() types.LLMConfig {
	return types.LLMConfig{
		BaseURL:        c.LLM.BaseURL,
		Model:          c.LLM.Model,
		TokenizerPath:  c.LLM.TokenizerPath,
		MaxInputTokens: c.LLM.MaxInputTokens,
		Seed:           c.LLM.Seed,
	}
}

func (c *Config) YouTubeConfig() types.YouTubeConfig {
	return types.YouTubeConfig{
		BaseURL:   c.YouTube.BaseURL,
		RateLimit: c.YouTube.RateLimit,
		Timeout:   c.YouTube.Timeout,
		Languages: c.YouTube.Languages,
	}
}

func (c *Config) StoreConfig() types.StoreConfig {
	return types.StoreConfig{
		Driver:    c.Store.Driver,
		URL:       c.Store.URL,
		TableName: c.Store.TableName,
	}
}
