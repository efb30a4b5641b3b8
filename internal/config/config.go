package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"
)

// Config represents the proxy configuration.
type Config struct {
	Server ServerConfig
	CORS   CORSConfig
	Log    LogConfig
	Ollama OllamaConfig
}

// ServerConfig contains HTTP server settings. An empty Host binds all
// interfaces. No write timeout is set: a chat request is allowed to wait on
// the daemon indefinitely.
type ServerConfig struct {
	Host        string `env:"HOST"                envDefault:""`
	Port        int    `env:"PORT"                envDefault:"3000"`
	ReadTimeout int    `env:"SERVER_READ_TIMEOUT" envDefault:"30"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
}

// LogConfig contains log sink settings.
type LogConfig struct {
	Dir string `env:"LOG_DIR" envDefault:"logs"`
}

// OllamaConfig contains the daemon connection settings.
type OllamaConfig struct {
	BaseURL string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*LogConfig
	*OllamaConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Log,
		&cfg.Ollama,
	}
}
