package confs

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	CORSOrigins     string        `koanf:"cors_origins"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	GinMode         string        `koanf:"gin_mode"`
}

type DatabaseConfig struct {
	URL          string `koanf:"url"`
	Host         string `koanf:"host"`
	Port         string `koanf:"port"`
	User         string `koanf:"user"`
	Password     string `koanf:"password"`
	Name         string `koanf:"name"`
	SSLMode      string `koanf:"sslmode"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	LogLevel     string `koanf:"log_level"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			CORSOrigins:     "*",
			ShutdownTimeout: 10 * time.Second,
			GinMode:         "release",
		},
		Database: DatabaseConfig{
			MaxIdleConns: 10,
			MaxOpenConns: 100,
			LogLevel:     "warn",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ConfigPathEnvVar names an optional YAML file layered between the defaults
// and the environment.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are tried in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// envMappings maps environment variable names onto koanf paths. Variables
// not listed here are ignored.
var envMappings = map[string]string{
	"HOST":             "server.host",
	"PORT":             "server.port",
	"CORS_ORIGINS":     "server.cors_origins",
	"SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
	"GIN_MODE":         "server.gin_mode",

	"DB_CONNECTION_STRING": "database.url",
	"DB_URL":               "database.url",
	"DB_HOST":              "database.host",
	"DB_PORT":              "database.port",
	"DB_USER":              "database.user",
	"DB_PASSWORD":          "database.password",
	"DB_NAME":              "database.name",
	"DB_SSLMODE":           "database.sslmode",
	"DB_MAX_IDLE_CONNS":    "database.max_idle_conns",
	"DB_MAX_OPEN_CONNS":    "database.max_open_conns",
	"DB_LOG_LEVEL":         "database.log_level",

	"LOG_LEVEL":  "log.level",
	"LOG_FORMAT": "log.format",
}

// envTransformFunc maps a variable onto its koanf path. Blank values are
// dropped so they do not override the defaults. DB_CONNECTION_STRING takes
// precedence over DB_URL.
func envTransformFunc(key, value string) (string, interface{}) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	if key == "DB_URL" && strings.TrimSpace(os.Getenv("DB_CONNECTION_STRING")) != "" {
		return "", nil
	}
	return envMappings[key], value
}

// LoadConfig loads environment variables from a .env file if present, then
// layers defaults, an optional YAML file and the environment, and validates
// the result.
func LoadConfig() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("could not load .env")
		}
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.ProviderWithValue("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Server.Port))
	}
	if c.Database.URL == "" && !c.Database.hasParams() {
		errs = append(errs, errors.New("missing required database configuration: DB_CONNECTION_STRING, DB_URL or (DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)"))
	}
	switch c.Server.GinMode {
	case "", "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.Server.GinMode))
	}
	if c.Database.MaxOpenConns < 1 {
		errs = append(errs, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.Database.MaxOpenConns))
	}
	return errors.Join(errs...)
}

func (d DatabaseConfig) hasParams() bool {
	return d.Host != "" && d.Port != "" && d.User != "" && d.Password != "" && d.Name != ""
}

// DSN returns the postgres connection string. When only individual
// parameters are set, sslmode defaults to require except for local hosts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		if strings.Contains(d.URL, "sslmode=") || d.SSLMode == "" {
			return d.URL
		}
		if strings.Contains(d.URL, "?") {
			return d.URL + "&sslmode=" + d.SSLMode
		}
		return d.URL + "?sslmode=" + d.SSLMode
	}

	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
		if d.Host == "localhost" || d.Host == "127.0.0.1" {
			sslMode = "disable"
		}
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, sslMode)
}

// Address is the listen address of the HTTP server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Origins splits the comma separated CORS origins.
func (s ServerConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
