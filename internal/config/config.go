// Package config manages the application configuration.
//
// Values are layered, lowest precedence first:
//   - built-in defaults (Default)
//   - an optional YAML file (config.yaml unless told otherwise)
//   - environment variables prefixed with BREEZI_ (a `.env` file is loaded
//     into the environment first)
//
// The result is unmarshalled into structured Go types and validated so the
// process fails fast on bad or missing configuration. Configuration is only
// consulted at startup; request handling never reads it again.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file (if present) into the process
	// environment before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix of every environment variable read by Load.
	EnvPrefix = "BREEZI_"

	// DefaultPath is the config file read when no explicit path is given.
	DefaultPath = "./config.yaml"

	// ServiceName identifies this service in logs and APM.
	ServiceName = "breezi"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags name the keys koanf maps values from; nested blocks
// use "." as delimiter (server.port). The `validate:"..."` tags are enforced
// by go-playground/validator after loading.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Bindings      BindingsConfig       `koanf:"bindings"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Host         string `koanf:"host" validate:"required"`
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout int    `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"min=1"`

	// CORS toggles cross-origin resource sharing. When CORSAllowedOrigins is
	// empty every origin is allowed.
	CORS               bool     `koanf:"cors"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// StaticDir, when set, is served as a single page application: unknown
	// paths fall back to index.html, except under /assets.
	StaticDir string `koanf:"static_dir"`

	// MaxBodySize limits RPC request bodies, e.g. "1M".
	MaxBodySize string `koanf:"max_body_size" validate:"required"`
}

// DatabaseConfig selects and configures the storage backend.
//
// The sqlite driver only needs Path. The postgres driver needs the
// connection parameters and pool tuning (ConnMaxLifetime and ConnMaxIdleTime
// in seconds).
type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=sqlite postgres"`

	Path string `koanf:"path"`

	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	User            string `koanf:"user"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"min=0"`
}

// Validate checks the driver-specific requirements.
func (d DatabaseConfig) Validate() error {
	switch d.Driver {
	case DriverSQLite:
		if strings.TrimSpace(d.Path) == "" {
			return errors.New("database.path is required for the sqlite driver")
		}
	case DriverPostgres:
		var missing []string
		if d.Host == "" {
			missing = append(missing, "host")
		}
		if d.Port == 0 {
			missing = append(missing, "port")
		}
		if d.User == "" {
			missing = append(missing, "user")
		}
		if d.Name == "" {
			missing = append(missing, "name")
		}
		if len(missing) > 0 {
			return fmt.Errorf("database.%s required for the postgres driver", strings.Join(missing, ", database."))
		}
	default:
		return fmt.Errorf("unknown database driver %q", d.Driver)
	}
	return nil
}

// BindingsConfig controls the client bindings export.
type BindingsConfig struct {
	// Generate toggles the export at startup.
	Generate bool `koanf:"generate"`
	// Dir is where the schema files are written.
	Dir string `koanf:"dir" validate:"required_if=Generate true"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         "8080",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
			CORS:         true,
			MaxBodySize:  "1M",
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Path:            "data/breezi.db",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 3600,
			ConnMaxIdleTime: 300,
		},
		Bindings: BindingsConfig{
			Generate: true,
			Dir:      "./bindings",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// envKey turns BREEZI_SERVER__PORT into server.port and
// BREEZI_DATABASE__MAX_OPEN_CONNS into database.max_open_conns.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Load builds the configuration from defaults, the YAML file at path (if it
// exists) and BREEZI_ environment variables, then validates it.
//
// An empty path means DefaultPath. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finalize validates the loaded values and injects derived defaults.
func (c *Config) finalize() error {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; the environment always follows primary.env.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	if strings.Contains(s.Host, ":") {
		return "[" + s.Host + "]:" + s.Port
	}
	return s.Host + ":" + s.Port
}
