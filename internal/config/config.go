package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Output formats
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultLabel       = "GPA"
	DefaultMaxFileSize = 50 * 1024 * 1024 // 50MB

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable, e.g. TRANSCRIPT_GPA_DIR
	EnvPrefix = "TRANSCRIPT_GPA"

	// ConfigName is the base name of the optional YAML config file
	ConfigName = "transcript-gpa"
)

// Config holds all configuration for transcript-gpa
type Config struct {
	// MCP server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Directory transcripts are read from
	TranscriptDirectory string

	// Presentation
	LabelPrefix  string
	OutputFormat string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	LogFormat   string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:                ModeStdio,
		Host:                DefaultHost,
		Port:                DefaultPort,
		TranscriptDirectory: currentDir,
		LabelPrefix:         DefaultLabel,
		OutputFormat:        FormatText,
		Version:             "1.0.0",
		ServerName:          "transcript-gpa",
		LogLevel:            DefaultLogLevel,
		LogFormat:           DefaultLogFormat,
		MaxFileSize:         DefaultMaxFileSize,
	}
}

// DefineFlags registers every configuration flag on fs
func DefineFlags(fs *pflag.FlagSet) {
	cfg := DefaultConfig()
	fs.String("config", "", "config file (default: ./transcript-gpa.yaml or ~/.config/transcript-gpa/transcript-gpa.yaml)")
	fs.String("mode", cfg.Mode, "MCP transport: 'stdio' or 'server' (SSE over HTTP)")
	fs.String("host", cfg.Host, "Server host address (server mode only)")
	fs.Int("port", cfg.Port, "Server port (server mode only)")
	fs.String("dir", cfg.TranscriptDirectory, "Directory containing transcript PDFs")
	fs.String("label", cfg.LabelPrefix, "Prefix of the displayed GPA")
	fs.String("format", cfg.OutputFormat, "Output format: text, json, yaml")
	fs.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("logformat", cfg.LogFormat, "Log format (console, json)")
	fs.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// Load resolves the configuration. Precedence, lowest first: defaults, config
// file, TRANSCRIPT_GPA_* environment variables, flags set on fs.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	setupViperEnvironment(v, cfg)

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	populateConfigFromViper(v, cfg)

	if cfg.TranscriptDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.TranscriptDirectory); err == nil {
			cfg.TranscriptDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.TranscriptDirectory)
	v.SetDefault("label", cfg.LabelPrefix)
	v.SetDefault("format", cfg.OutputFormat)
	v.SetDefault("loglevel", cfg.LogLevel)
	v.SetDefault("logformat", cfg.LogFormat)
	v.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// readConfigFile reads an explicit --config file, or looks for the default
// one. A missing default file is not an error.
func readConfigFile(v *viper.Viper) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(ConfigName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.TranscriptDirectory = v.GetString("dir")
	cfg.LabelPrefix = v.GetString("label")
	cfg.OutputFormat = strings.ToLower(v.GetString("format"))
	cfg.LogLevel = strings.ToLower(v.GetString("loglevel"))
	cfg.LogFormat = strings.ToLower(v.GetString("logformat"))
	cfg.MaxFileSize = v.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.TranscriptDirectory == "" {
		return errors.New("transcript directory cannot be empty")
	}

	if _, err := os.Stat(c.TranscriptDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.TranscriptDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create transcript directory %s: %w", c.TranscriptDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access transcript directory %s: %w", c.TranscriptDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if strings.TrimSpace(c.LabelPrefix) == "" {
		return errors.New("label cannot be empty")
	}

	switch c.OutputFormat {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml)", c.OutputFormat)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be one of: console, json)", c.LogFormat)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsServerMode returns true if MCP is served over HTTP
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if MCP is served over standard I/O
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, TranscriptDirectory: %s, Label: %q, "+
		"Format: %s, LogLevel: %s, LogFormat: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.TranscriptDirectory, c.LabelPrefix,
		c.OutputFormat, c.LogLevel, c.LogFormat, c.MaxFileSize)
}
