package shared

import (
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Assets    AssetsConfig    `toml:"assets"`
	Log       LogConfig       `toml:"log"`
	Database  DatabaseConfig  `toml:"database"`
	AccessLog AccessLogConfig `toml:"access_log"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`

	ReadHeaderTimeout time.Duration `toml:"read_header_timeout"`
	ReadTimeout       time.Duration `toml:"read_timeout"`
	WriteTimeout      time.Duration `toml:"write_timeout"`
	IdleTimeout       time.Duration `toml:"idle_timeout"`
	ShutdownTimeout   time.Duration `toml:"shutdown_timeout"`

	RateLimit float64 `toml:"rate_limit"` // requests per second, <= 0 disables
	RateBurst int     `toml:"rate_burst"`
}

// AssetsConfig describes the asset root and content type overrides.
type AssetsConfig struct {
	Root            string            `toml:"root"`
	ResolveSymlinks bool              `toml:"resolve_symlinks"`
	MimeTypes       map[string]string `toml:"mime_types"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// AccessLogConfig controls persistence of access records.
type AccessLogConfig struct {
	Persist bool `toml:"persist"`
	Buffer  int  `toml:"buffer"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides host, port and asset root from ASSETD_HOST, ASSETD_PORT and ASSETD_ROOT.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("ASSETD_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("ASSETD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("ASSETD_ROOT"); v != "" {
		c.Assets.Root = v
	}
}

// Validate reports the first invalid setting, wrapped in [ErrInvalidConfig].
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if strings.TrimSpace(c.Assets.Root) == "" {
		return fmt.Errorf("%w: assets.root is empty", ErrInvalidConfig)
	}

	for name, d := range map[string]time.Duration{
		"read_header_timeout": c.Server.ReadHeaderTimeout,
		"read_timeout":        c.Server.ReadTimeout,
		"write_timeout":       c.Server.WriteTimeout,
		"idle_timeout":        c.Server.IdleTimeout,
		"shutdown_timeout":    c.Server.ShutdownTimeout,
	} {
		if d < 0 {
			return fmt.Errorf("%w: server.%s is negative", ErrInvalidConfig, name)
		}
	}

	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		return fmt.Errorf("%w: server.rate_burst must be at least 1 when rate_limit is set", ErrInvalidConfig)
	}

	for ext := range c.Assets.MimeTypes {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: mime type key %q must start with a dot", ErrInvalidConfig, ext)
		}
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	if c.AccessLog.Persist {
		if c.AccessLog.Buffer < 1 {
			return fmt.Errorf("%w: access_log.buffer must be positive", ErrInvalidConfig)
		}
		if c.Database.Path == "" {
			return fmt.Errorf("%w: database.path is required when access_log.persist is set", ErrInvalidConfig)
		}
	}

	return nil
}

// LogLevel parses the configured level, defaulting to info when unset.
func (c *Config) LogLevel() (log.Level, error) {
	if c.Log.Level == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	return level, nil
}

// ServerAddress returns the host:port the server listens on.
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
