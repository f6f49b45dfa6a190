package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the loaded configuration and returns every problem
// found, joined.
func ValidateConfig(cfg *Config) error {
	var errs []error
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if p, err := strconv.Atoi(cfg.Server.Port); err != nil || p < 1 || p > 65535 {
		add("server.port", fmt.Sprintf("invalid port %q", cfg.Server.Port))
	}
	if cfg.Server.RateLimit < 0 {
		add("server.rate_limit", "must not be negative")
	}
	if cfg.Server.RateLimit > 0 && cfg.Server.RateWindow <= 0 {
		add("server.rate_window", "must be positive when rate limiting is enabled")
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			add("database.host", "required for postgres")
		}
		if cfg.Database.Name == "" {
			add("database.name", "required for postgres")
		}
		if cfg.Environment == Production && cfg.Database.Password == "" {
			add("database.password", "required in production")
		}
	case "sqlite":
		if cfg.Database.Path == "" {
			add("database.path", "required for sqlite")
		}
	default:
		add("database.driver", fmt.Sprintf("unsupported driver %q", cfg.Database.Driver))
	}

	if cfg.Redis.URL != "" {
		if _, err := url.Parse(cfg.Redis.URL); err != nil {
			add("redis.url", err.Error())
		}
	}

	if cfg.LLM.APIKey != "" && cfg.LLM.APIURL == "" {
		add("llm.api_url", "required when an API key is set")
	}
	if cfg.Embedding.Dimensions < 1 {
		add("embedding.dimensions", "must be positive")
	}

	switch cfg.Catalog.Source {
	case "database":
	case "s3":
		if cfg.Catalog.S3Bucket == "" {
			add("catalog.s3_bucket", "required when catalog.source is s3")
		}
		if cfg.Catalog.S3Key == "" {
			add("catalog.s3_key", "required when catalog.source is s3")
		}
	default:
		add("catalog.source", fmt.Sprintf("unsupported source %q", cfg.Catalog.Source))
	}

	if err := cfg.Recommend.Validate(); err != nil {
		add("recommend", err.Error())
	}

	return errors.Join(errs...)
}
