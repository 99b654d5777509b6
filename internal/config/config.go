package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	LocalStore struct {
		Path string `yaml:"path" env:"LOCAL_STORE_PATH"`
	} `yaml:"local_store"`

	Storage struct {
		// ProbeTimeout bounds the startup connectivity probe and every
		// manual reconnect probe.
		ProbeTimeout string `yaml:"probe_timeout" env:"STORAGE_PROBE_TIMEOUT"`
	} `yaml:"storage"`

	Gemini struct {
		APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
		Model  string `yaml:"model" env:"GEMINI_MODEL"`
	} `yaml:"gemini"`

	JWT struct {
		Secret          string `yaml:"secret" env:"JWT_SECRET"`
		TokenExpiration string `yaml:"token_expiration" env:"JWT_TOKEN_EXPIRATION"`
		Issuer          string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Auth struct {
		// PasswordScheme selects the credential comparison: "plain" keeps
		// byte-equality against stored passwords (legacy data baseline),
		// "bcrypt" hashes new passwords and verifies with bcrypt.
		PasswordScheme string `yaml:"password_scheme" env:"AUTH_PASSWORD_SCHEME"`
	} `yaml:"auth"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Config file is optional; env vars can carry everything
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "veritas"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.LocalStore.Path = "data/veritas.db"
	config.Storage.ProbeTimeout = "2s"

	config.Gemini.Model = "gemini-2.5-flash"

	config.JWT.TokenExpiration = "8h"
	config.JWT.Issuer = "veritas.app"

	config.Auth.PasswordScheme = "plain"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.LocalStore.Path == "" {
		return fmt.Errorf("local store path is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.TokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Storage.ProbeTimeout); err != nil {
		return fmt.Errorf("invalid storage probe timeout format: %w", err)
	}

	switch config.Auth.PasswordScheme {
	case "plain", "bcrypt":
	default:
		return fmt.Errorf("unknown password scheme %q", config.Auth.PasswordScheme)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// ProbeTimeout returns the parsed storage probe timeout.
func (c *Config) ProbeTimeout() time.Duration {
	d, err := time.ParseDuration(c.Storage.ProbeTimeout)
	if err != nil {
		return 2 * time.Second
	}
	return d
}
