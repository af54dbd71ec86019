package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

const (
	// CurrentVersion is the config schema version written by Save.
	CurrentVersion = 1
	// DirName is the per-project configuration directory.
	DirName = ".ifcaudit"
	// FileName is the configuration file inside DirName.
	FileName = "config.toml"
	// EnvPrefix prefixes environment overrides, e.g. IFCAUDIT_OUTPUT_FORMAT.
	EnvPrefix = "IFCAUDIT"
)

// Config represents the complete ifcaudit configuration
type Config struct {
	Version int `json:"version" mapstructure:"version" toml:"version" yaml:"version"`

	Logging  LoggingConfig  `json:"logging" mapstructure:"logging" toml:"logging" yaml:"logging"`
	Output   OutputConfig   `json:"output" mapstructure:"output" toml:"output" yaml:"output"`
	Census   CensusConfig   `json:"census" mapstructure:"census" toml:"census" yaml:"census"`
	Glazing  GlazingConfig  `json:"glazing" mapstructure:"glazing" toml:"glazing" yaml:"glazing"`
	Revision RevisionConfig `json:"revision" mapstructure:"revision" toml:"revision" yaml:"revision"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level" mapstructure:"level" toml:"level" yaml:"level"`
	File       string `json:"file" mapstructure:"file" toml:"file" yaml:"file"`
	MaxSize    string `json:"maxSize" mapstructure:"maxSize" toml:"maxSize" yaml:"maxSize"`
	MaxBackups int    `json:"maxBackups" mapstructure:"maxBackups" toml:"maxBackups" yaml:"maxBackups"`
}

// OutputConfig selects the default rendering of command results.
type OutputConfig struct {
	Format   string `json:"format" mapstructure:"format" toml:"format" yaml:"format"`
	Compress bool   `json:"compress" mapstructure:"compress" toml:"compress" yaml:"compress"`
}

// CensusConfig contains entity counting defaults.
type CensusConfig struct {
	Category string `json:"category" mapstructure:"category" toml:"category" yaml:"category"`
}

// GlazingConfig tunes the window glass search.
type GlazingConfig struct {
	LayerSubstring      string   `json:"layerSubstring" mapstructure:"layerSubstring" toml:"layerSubstring" yaml:"layerSubstring"`
	RepresentationKinds []string `json:"representationKinds" mapstructure:"representationKinds" toml:"representationKinds" yaml:"representationKinds"`
}

// RevisionConfig selects the revision store and digest.
type RevisionConfig struct {
	Store     string `json:"store" mapstructure:"store" toml:"store" yaml:"store"`
	DSN       string `json:"dsn" mapstructure:"dsn" toml:"dsn" yaml:"dsn"`
	Algorithm string `json:"algorithm" mapstructure:"algorithm" toml:"algorithm" yaml:"algorithm"`
	Author    string `json:"author" mapstructure:"author" toml:"author" yaml:"author"`
}

var (
	validLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validFormats = []string{"human", "json", "yaml", "csv"}
	validStores  = []string{"memory", "sqlite"}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Logging: LoggingConfig{
			Level:      "warn",
			MaxBackups: 3,
		},
		Output: OutputConfig{
			Format: "human",
		},
		Census: CensusConfig{
			Category: "IfcProduct",
		},
		Glazing: GlazingConfig{
			LayerSubstring:      "Glass",
			RepresentationKinds: []string{"SweptSolid", "SurfaceModel", "Brep"},
		},
		Revision: RevisionConfig{
			Store:     "memory",
			Algorithm: "sha256",
		},
	}
}

// Path returns the config file location under root.
func Path(root string) string {
	return filepath.Join(root, DirName, FileName)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// every key needs a default for env overrides to reach Unmarshal
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxSize", d.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.compress", d.Output.Compress)
	v.SetDefault("census.category", d.Census.Category)
	v.SetDefault("glazing.layerSubstring", d.Glazing.LayerSubstring)
	v.SetDefault("glazing.representationKinds", d.Glazing.RepresentationKinds)
	v.SetDefault("revision.store", d.Revision.Store)
	v.SetDefault("revision.dsn", d.Revision.DSN)
	v.SetDefault("revision.algorithm", d.Revision.Algorithm)
	v.SetDefault("revision.author", d.Revision.Author)
	return v
}

// LoadConfig loads configuration from <root>/.ifcaudit/config.toml. A
// missing file yields the defaults; IFCAUDIT_* variables override both.
func LoadConfig(root string) (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(root, DirName))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return unmarshal(v)
}

// LoadConfigFile loads an explicit config file. Unlike LoadConfig the file
// must exist.
func LoadConfigFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to <root>/.ifcaudit/config.toml
func (c *Config) Save(root string) error {
	path := Path(root)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	return c.Encode(f)
}

// Encode writes the configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}
	if c.Logging.Level != "" && !oneOf(c.Logging.Level, validLevels) {
		return &ConfigError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}
	if c.Logging.MaxBackups < 0 {
		return &ConfigError{Field: "logging.maxBackups", Message: "must not be negative"}
	}
	if !oneOf(c.Output.Format, validFormats) {
		return &ConfigError{Field: "output.format", Message: fmt.Sprintf("unknown format %q", c.Output.Format)}
	}
	if c.Glazing.LayerSubstring == "" {
		return &ConfigError{Field: "glazing.layerSubstring", Message: "must not be empty"}
	}
	if !oneOf(c.Revision.Store, validStores) {
		return &ConfigError{Field: "revision.store", Message: fmt.Sprintf("unknown store %q", c.Revision.Store)}
	}
	return nil
}

func oneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(s, a) {
			return true
		}
	}
	return false
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
