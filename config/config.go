package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/pageza/epicourier/backend/internal/recommend"
)

// ConfigPathEnvVar names the optional YAML config file.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config holds all configuration for the application
type Config struct {
	Environment Environment `koanf:"-"`

	Server    ServerConfig     `koanf:"server"`
	Database  DatabaseConfig   `koanf:"database"`
	Redis     RedisConfig      `koanf:"redis"`
	LLM       LLMConfig        `koanf:"llm"`
	Embedding EmbeddingConfig  `koanf:"embedding"`
	Catalog   CatalogConfig    `koanf:"catalog"`
	Recommend recommend.Config `koanf:"recommend"`
	Logging   LoggingConfig    `koanf:"logging"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// RateLimit is the number of requests a client may make per RateWindow.
	// Zero disables rate limiting.
	RateLimit  int           `koanf:"rate_limit"`
	RateWindow time.Duration `koanf:"rate_window"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// DatabaseConfig configures the recipe catalog database
type DatabaseConfig struct {
	// Driver is postgres or sqlite.
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"ssl_mode"`

	// Path is the sqlite database file.
	Path string `koanf:"path"`

	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// RedisConfig configures the embedding cache and rate limiter store
type RedisConfig struct {
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// Enabled reports whether a redis server is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Host != ""
}

// LLMConfig configures the chat-completions endpoint used for goal
// expansion and preference filtering
type LLMConfig struct {
	APIKey  string        `koanf:"api_key"`
	APIURL  string        `koanf:"api_url"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

// EmbeddingConfig configures the text embedding endpoint. Without an API
// URL the service falls back to local hashed embeddings.
type EmbeddingConfig struct {
	APIKey     string        `koanf:"api_key"`
	APIURL     string        `koanf:"api_url"`
	Model      string        `koanf:"model"`
	Dimensions int           `koanf:"dimensions"`
	Timeout    time.Duration `koanf:"timeout"`
	CacheTTL   time.Duration `koanf:"cache_ttl"`
}

// Remote reports whether a remote embedding endpoint is configured.
func (e EmbeddingConfig) Remote() bool {
	return e.APIURL != ""
}

// CatalogConfig selects where recipes are read from
type CatalogConfig struct {
	// Source is database or s3.
	Source    string `koanf:"source"`
	S3Bucket  string `koanf:"s3_bucket"`
	S3Key     string `koanf:"s3_key"`
	AWSRegion string `koanf:"aws_region"`
}

// LoggingConfig configures zerolog output
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"http://localhost:3000"},
			RateLimit:       60,
			RateWindow:      time.Minute,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Name:            "epicourier",
			SSLMode:         "disable",
			Path:            "epicourier.db",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
		},
		LLM: LLMConfig{
			APIURL:  "https://api.deepseek.com/v1/chat/completions",
			Model:   "deepseek-chat",
			Timeout: 30 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Model:      "all-MiniLM-L6-v2",
			Dimensions: 384,
			Timeout:    30 * time.Second,
			CacheTTL:   24 * time.Hour,
		},
		Catalog: CatalogConfig{
			Source: "database",
			S3Key:  "catalog/recipes.json",
		},
		Recommend: recommend.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig builds the configuration from, in increasing priority:
// built-in defaults, the YAML file named by CONFIG_PATH, environment
// variables and finally docker secrets for credentials left empty.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := applyEnvAliases(k); err != nil {
		return nil, err
	}
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Environment = GetEnvironment()
	loadSecrets(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Variables not listed are ignored.
var envMappings = map[string]string{
	"server_host":           "server.host",
	"server_port":           "server.port",
	"cors_origins":          "server.cors_origins",
	"rate_limit":            "server.rate_limit",
	"rate_window":           "server.rate_window",
	"db_driver":             "database.driver",
	"db_host":               "database.host",
	"db_port":               "database.port",
	"db_user":               "database.user",
	"db_password":           "database.password",
	"db_name":               "database.name",
	"db_ssl_mode":           "database.ssl_mode",
	"db_path":               "database.path",
	"redis_url":             "redis.url",
	"redis_host":            "redis.host",
	"redis_port":            "redis.port",
	"redis_password":        "redis.password",
	"redis_db":              "redis.db",
	"llm_api_key":           "llm.api_key",
	"llm_api_url":           "llm.api_url",
	"llm_model":             "llm.model",
	"llm_timeout":           "llm.timeout",
	"embedding_api_key":     "embedding.api_key",
	"embedding_api_url":     "embedding.api_url",
	"embedding_model":       "embedding.model",
	"embedding_dimensions":  "embedding.dimensions",
	"embedding_timeout":     "embedding.timeout",
	"embedding_cache_ttl":   "embedding.cache_ttl",
	"catalog_source":        "catalog.source",
	"catalog_s3_bucket":     "catalog.s3_bucket",
	"s3_bucket_name":        "catalog.s3_bucket",
	"catalog_s3_key":        "catalog.s3_key",
	"aws_region":            "catalog.aws_region",
	"recommend_top_k":       "recommend.top_k",
	"recommend_seed":        "recommend.seed",
	"recommend_max_recipes": "recommend.max_num_recipes",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// envAliases are legacy variable names. An alias only applies when the
// primary variable is unset, so LLM_API_KEY always beats DEEPSEEK_API_KEY.
var envAliases = []struct {
	alias, primary, path string
}{
	{"DEEPSEEK_API_KEY", "LLM_API_KEY", "llm.api_key"},
	{"DEEPSEEK_API_URL", "LLM_API_URL", "llm.api_url"},
}

func applyEnvAliases(k *koanf.Koanf) error {
	for _, a := range envAliases {
		if _, ok := os.LookupEnv(a.primary); ok {
			continue
		}
		v, ok := os.LookupEnv(a.alias)
		if !ok {
			continue
		}
		if err := k.Set(a.path, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", a.path, err)
		}
	}
	return nil
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as
// a single string.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// secretTargets lists docker secrets that fill credentials when the
// environment left them empty.
func secretTargets(cfg *Config) map[string]*string {
	return map[string]*string{
		"db_password":       &cfg.Database.Password,
		"redis_password":    &cfg.Redis.Password,
		"llm_api_key":       &cfg.LLM.APIKey,
		"embedding_api_key": &cfg.Embedding.APIKey,
	}
}

func loadSecrets(cfg *Config) {
	for name, target := range secretTargets(cfg) {
		if *target != "" {
			continue
		}
		if v := readSecret(name); v != "" {
			*target = v
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
