package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Engine(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{
			name:   "explicit override wins",
			config: Config{DBEngine: EnginePostgres, Environment: "development"},
			want:   EnginePostgres,
		},
		{
			name:   "postgres url in production",
			config: Config{Environment: "production", PostgresURL: "postgres://host/db"},
			want:   EnginePostgres,
		},
		{
			name:   "postgres url outside production stays embedded",
			config: Config{Environment: "development", PostgresURL: "postgres://host/db"},
			want:   EngineSQLite,
		},
		{
			name:   "production without postgres url stays embedded",
			config: Config{Environment: "production"},
			want:   EngineSQLite,
		},
		{
			name:   "default",
			config: Config{Environment: "development"},
			want:   EngineSQLite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.Engine())
		})
	}
}

func TestConfig_SQLiteDSN(t *testing.T) {
	assert.Equal(t, "./local.db", (&Config{SQLitePath: "file:./local.db"}).SQLiteDSN())
	assert.Equal(t, "./local.db", (&Config{SQLitePath: "./local.db"}).SQLiteDSN())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "claude-3-5-sonnet-20241022", cfg.AnthropicModel)
	assert.Equal(t, EngineSQLite, cfg.Engine())
}

func TestLoad_UnsupportedEngine(t *testing.T) {
	t.Setenv("DB_ENGINE", "oracle")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("DB_ENGINE", "postgres")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_URL")
}

func TestLoad_PostgresWithURL(t *testing.T) {
	t.Setenv("DB_ENGINE", "postgres")
	t.Setenv("POSTGRES_URL", "postgres://host/db")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, EnginePostgres, cfg.Engine())
}
