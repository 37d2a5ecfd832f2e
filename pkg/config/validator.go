package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	} else if !isHTTPURL(c.LLM.BaseURL) {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid Ollama base URL",
		})
	}

	if c.LLM.Model == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.model",
			Message: "model is required",
		})
	}

	if c.LLM.MaxInputTokens < 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_input_tokens",
			Message: "max_input_tokens must be positive",
		})
	}

	// Validate Processor config
	if c.Processor.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "processor.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	// Validate YouTube config
	if !isHTTPURL(c.YouTube.BaseURL) {
		errors = append(errors, ValidationError{
			Field:   "youtube.base_url",
			Message: "invalid YouTube base URL",
		})
	}

	if c.YouTube.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "youtube.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.YouTube.Timeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "youtube.timeout",
			Message: "timeout must be positive",
		})
	}

	// Validate Store config
	switch strings.ToLower(c.Store.Driver) {
	case "none", "sqlite":
	case "postgres":
		if c.Store.URL == "" {
			errors = append(errors, ValidationError{
				Field:   "store.url",
				Message: "database URL is required for the postgres driver",
			})
		} else if u, err := url.Parse(c.Store.URL); err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
			errors = append(errors, ValidationError{
				Field:   "store.url",
				Message: "invalid database URL",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "store.driver",
			Message: "driver must be one of none, sqlite, postgres",
		})
	}

	if !tableNamePattern.MatchString(c.Store.TableName) {
		errors = append(errors, ValidationError{
			Field:   "store.table_name",
			Message: "table_name must be a plain SQL identifier",
		})
	}

	// Validate Server config
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "server.port",
			Message: "port must be between 1 and 65535",
		})
	}

	// Validate Logging config
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be one of debug, info, warn, error",
		})
	}

	return errors
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
