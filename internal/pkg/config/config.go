package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage engine identifiers. Resolved once at process start and
// immutable for the process lifetime.
const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

type Config struct {
	// Environment
	Environment string `mapstructure:"ENV"`

	// LLM Provider Configuration
	LLMProvider string `mapstructure:"LLM_PROVIDER"`

	// OpenAI Configuration
	OpenAIAPIKey  string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel   string `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL string `mapstructure:"OPENAI_BASE_URL"`

	// Anthropic Configuration
	AnthropicAPIKey  string `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicModel   string `mapstructure:"ANTHROPIC_MODEL"`
	AnthropicBaseURL string `mapstructure:"ANTHROPIC_BASE_URL"`

	// Database Configuration
	DBEngine    string `mapstructure:"DB_ENGINE"`
	PostgresURL string `mapstructure:"POSTGRES_URL"`
	SQLitePath  string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int    `mapstructure:"DB_MAX_CONNS"`
	DBLogLevel  string `mapstructure:"DB_LOG_LEVEL"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using environment variables only")
		}
	}

	config := &Config{}

	// Set defaults
	viper.SetDefault("ENV", "development")

	// LLM defaults
	viper.SetDefault("LLM_PROVIDER", "openai")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022")
	viper.SetDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com/v1")

	// Database defaults
	viper.SetDefault("DATABASE_URL", "./local.db")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_LOG_LEVEL", "silent")

	// Bind environment variables
	viper.AutomaticEnv()

	config.Environment = viper.GetString("ENV")

	// LLM
	config.LLMProvider = viper.GetString("LLM_PROVIDER")
	config.OpenAIAPIKey = viper.GetString("OPENAI_API_KEY")
	config.OpenAIModel = viper.GetString("OPENAI_MODEL")
	config.OpenAIBaseURL = viper.GetString("OPENAI_BASE_URL")
	config.AnthropicAPIKey = viper.GetString("ANTHROPIC_API_KEY")
	config.AnthropicModel = viper.GetString("ANTHROPIC_MODEL")
	config.AnthropicBaseURL = viper.GetString("ANTHROPIC_BASE_URL")

	// Database
	config.DBEngine = strings.ToLower(viper.GetString("DB_ENGINE"))
	config.PostgresURL = viper.GetString("POSTGRES_URL")
	config.SQLitePath = viper.GetString("DATABASE_URL")
	config.DBMaxConns = viper.GetInt("DB_MAX_CONNS")
	config.DBLogLevel = viper.GetString("DB_LOG_LEVEL")

	// Validate required fields
	switch config.DBEngine {
	case "", EngineSQLite, EnginePostgres:
	default:
		return nil, fmt.Errorf("unsupported DB_ENGINE: %s", config.DBEngine)
	}
	if config.Engine() == EnginePostgres && config.PostgresURL == "" {
		return nil, fmt.Errorf("POSTGRES_URL is required when the postgres engine is selected")
	}

	return config, nil
}

// Engine resolves which storage engine the process runs against.
// An explicit DB_ENGINE wins; otherwise postgres is used in production
// when a POSTGRES_URL is configured, and the embedded sqlite engine
// everywhere else.
func (c *Config) Engine() string {
	if c.DBEngine != "" {
		return c.DBEngine
	}
	if c.PostgresURL != "" && c.IsProduction() {
		return EnginePostgres
	}
	return EngineSQLite
}

// SQLiteDSN returns the sqlite file path, accepting the file: URL form
func (c *Config) SQLiteDSN() string {
	return strings.TrimPrefix(c.SQLitePath, "file:")
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LogConfig logs the configuration (hiding sensitive data)
func (c *Config) LogConfig() {
	log.Printf("Configuration loaded:")
	log.Printf("  Environment: %s", c.Environment)
	log.Printf("  LLM Provider: %s", c.LLMProvider)
	log.Printf("  Storage Engine: %s", c.Engine())
	if c.Engine() == EngineSQLite {
		log.Printf("  SQLite Path: %s", c.SQLiteDSN())
	}

	// Check API keys without revealing them
	if c.OpenAIAPIKey != "" {
		log.Printf("  OpenAI API Key: [CONFIGURED]")
	} else {
		log.Printf("  OpenAI API Key: [NOT SET]")
	}

	if c.AnthropicAPIKey != "" {
		log.Printf("  Anthropic API Key: [CONFIGURED]")
	} else {
		log.Printf("  Anthropic API Key: [NOT SET]")
	}
}
