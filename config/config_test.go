package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "epicourier", cfg.Database.Name)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 20, cfg.Recommend.TopK)
	assert.Equal(t, int64(42), cfg.Recommend.Seed)
	assert.Equal(t, 384, cfg.Embedding.Dimensions)
	assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	assert.Equal(t, "database", cfg.Catalog.Source)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "recipes")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("RECOMMEND_TOP_K", "30")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "6543", cfg.Database.Port)
	assert.Equal(t, "recipes", cfg.Database.Name)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 30, cfg.Recommend.TopK)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: sqlite
  path: /tmp/epicourier.db
recommend:
  top_k: 12
catalog:
  source: s3
  s3_bucket: recipes-bucket
`), 0o600))

	t.Setenv("SECRETS_DIR", dir)
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("RECOMMEND_TOP_K", "15")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/epicourier.db", cfg.Database.Path)
	assert.Equal(t, 15, cfg.Recommend.TopK, "env overrides file")
	assert.Equal(t, "s3", cfg.Catalog.Source)
	assert.Equal(t, "recipes-bucket", cfg.Catalog.S3Bucket)
	assert.Equal(t, "catalog/recipes.json", cfg.Catalog.S3Key)
}

func TestLoadConfigEnvLists(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())

	t.Run("should split and trim comma-separated origins", func(t *testing.T) {
		t.Setenv("CORS_ORIGINS", " https://a.example , https://b.example,,")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	})

	t.Run("should keep the default origin when unset", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	})
}

func TestLoadConfigEnvAliases(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())

	t.Run("should prefer LLM variables over DeepSeek aliases", func(t *testing.T) {
		t.Setenv("DEEPSEEK_API_KEY", "sk-alias")
		t.Setenv("LLM_API_KEY", "sk-primary")
		t.Setenv("DEEPSEEK_API_URL", "https://alias.example/v1")
		t.Setenv("LLM_API_URL", "https://primary.example/v1")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "sk-primary", cfg.LLM.APIKey)
		assert.Equal(t, "https://primary.example/v1", cfg.LLM.APIURL)
	})

	t.Run("should fall back to the alias when the primary is unset", func(t *testing.T) {
		t.Setenv("DEEPSEEK_API_URL", "https://alias.example/v1")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://alias.example/v1", cfg.LLM.APIURL)
	})
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("s3cret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "llm_api_key"), []byte("from-file"), 0o600))
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("LLM_API_KEY", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "from-env", cfg.LLM.APIKey, "environment wins over secrets")
}

func TestValidateConfig(t *testing.T) {
	t.Run("should accept defaults", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(defaultConfig()))
	})

	t.Run("should collect every problem", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Server.Port = "http"
		cfg.Database.Driver = "mysql"
		cfg.Catalog.Source = "ftp"
		cfg.Recommend.TopK = 0

		err := ValidateConfig(cfg)
		require.Error(t, err)
		for _, field := range []string{"server.port", "database.driver", "catalog.source", "recommend"} {
			assert.Contains(t, err.Error(), field)
		}

		var ve ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("should require a password in production", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Environment = Production
		err := ValidateConfig(cfg)
		assert.ErrorContains(t, err, "database.password")
	})

	t.Run("should require a bucket for s3 catalogs", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.Catalog.Source = "s3"
		assert.ErrorContains(t, ValidateConfig(cfg), "catalog.s3_bucket")
	})
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())
}
