package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/hive/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "hive.yaml"

	// DefaultName is the project name used when none is given.
	DefaultName = "hive"

	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"
)

// Config represents the complete hive.yaml configuration.
type Config struct {
	// Name is the project name.
	Name string `yaml:"name,omitempty"`

	// Server contains HTTP and WebSocket settings.
	Server ServerConfig `yaml:"server,omitempty"`

	// Log configures the process logger.
	Log LogConfig `yaml:"log,omitempty"`

	// Metrics configures the Prometheus collectors.
	Metrics MetricsConfig `yaml:"metrics,omitempty"`

	// Tracing configures the OpenTelemetry middleware.
	Tracing TracingConfig `yaml:"tracing,omitempty"`

	// Store is the declarative state tree.
	Store StoreDef `yaml:"store,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr,omitempty"`

	ReadTimeout       time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout      time.Duration `yaml:"write_timeout,omitempty"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval,omitempty"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout,omitempty"`

	// MaxMessageSize is the largest client frame in bytes.
	MaxMessageSize int64 `yaml:"max_message_size,omitempty"`

	// SendQueue is the per-connection outgoing buffer.
	SendQueue int `yaml:"send_queue,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level,omitempty"`

	// Format is text or json.
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig configures metrics.
type MetricsConfig struct {
	// Disabled turns metrics off.
	Disabled bool `yaml:"disabled,omitempty"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace,omitempty"`
}

// TracingConfig configures tracing.
type TracingConfig struct {
	// Disabled turns the tracing middleware off.
	Disabled bool `yaml:"disabled,omitempty"`

	// Tracer is the tracer name.
	Tracer string `yaml:"tracer,omitempty"`
}

// StoreDef is a declarative store node.
type StoreDef struct {
	State   map[string]any      `yaml:"state,omitempty"`
	Modules map[string]StoreDef `yaml:"modules,omitempty"`
}

// New returns a Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from the specified directory.
// It looks for hive.yaml in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("H040").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or pass --config")
		}
		return nil, errors.New("H041").Wrap(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.New("H041").
			WithDetail("Failed to parse configuration: " + err.Error()).
			WithSuggestion("Check the file for typos; unknown fields are rejected")
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}

	// Server
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 60 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.HeartbeatInterval == 0 {
		c.Server.HeartbeatInterval = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.MaxMessageSize == 0 {
		c.Server.MaxMessageSize = 64 * 1024
	}
	if c.Server.SendQueue == 0 {
		c.Server.SendQueue = 256
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Observability
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "hive"
	}
	if c.Tracing.Tracer == "" {
		c.Tracing.Tracer = c.Name
	}

	if c.Store.State == nil {
		c.Store.State = map[string]any{}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 ||
		c.Server.HeartbeatInterval < 0 || c.Server.ShutdownTimeout < 0 {
		return errors.New("H042").
			WithDetail("Server timeouts must not be negative")
	}
	if c.Server.MaxMessageSize < 0 {
		return errors.New("H042").
			WithDetail("server.max_message_size must not be negative")
	}
	if c.Server.SendQueue < 0 {
		return errors.New("H042").
			WithDetail("server.send_queue must not be negative")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("H042").
			WithDetailf("log.format must be text or json, got %q", c.Log.Format).
			WithSuggestion("Use log.format: text")
	}
	return validateStore(c.Store, "store")
}

func validateStore(def StoreDef, at string) error {
	for name, child := range def.Modules {
		if name == "" || strings.Contains(name, ".") {
			return errors.New("H042").
				WithDetailf("Module name %q under %s must be non-empty and contain no dots", name, at)
		}
		if err := validateStore(child, at+".modules."+name); err != nil {
			return err
		}
	}
	return nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing hive.yaml, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("H040").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Create " + ConfigFileName + " or pass --config")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or the nearest parent holding hive.yaml.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return Load(root)
}
