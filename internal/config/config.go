package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/contract-data-extractor/internal/output"
	"github.com/a3tai/contract-data-extractor/internal/pdf"
)

const (
	// EnvPrefix is prepended to every environment variable, e.g.
	// CONTRACT_DATA_OUTPUT.
	EnvPrefix = "CONTRACT_DATA"

	// Default values
	DefaultPort        = 8501
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	DefaultFormat      = "csv"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultDebounce    = 500 * time.Millisecond

	// DefaultServerName identifies the MCP server
	DefaultServerName = "contract-data-extractor"
)

// Flag names, which double as viper keys.
const (
	FlagOutput      = "output"
	FlagFormat      = "format"
	FlagProfile     = "profile"
	FlagKeywords    = "keywords"
	FlagProvenance  = "provenance"
	FlagWatch       = "watch"
	FlagDebounce    = "debounce"
	FlagLogLevel    = "loglevel"
	FlagLogFormat   = "logformat"
	FlagMaxFileSize = "maxfilesize"
	FlagHost        = "host"
	FlagPort        = "port"
)

// Config holds all configuration for the extractor, the dashboard and the
// MCP server
type Config struct {
	// Extraction
	RootDir     string
	OutputDir   string
	Format      output.Format
	ProfilePath string
	Keywords    []string
	Provenance  bool
	MaxFileSize int64 // Maximum PDF file size in bytes

	// Watch mode
	Watch    bool
	Debounce time.Duration

	// Dashboard
	Host string
	Port int

	// Application
	Version    string
	ServerName string
	LogLevel   string
	LogFormat  string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		OutputDir:   defaultOutputDir(),
		Format:      DefaultFormat,
		Keywords:    append([]string(nil), pdf.DefaultKeywords...),
		MaxFileSize: DefaultMaxFileSize,
		Debounce:    DefaultDebounce,
		Host:        DefaultHost,
		Port:        DefaultPort,
		Version:     "1.0.0",
		ServerName:  DefaultServerName,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
	}
}

func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to the working directory if home cannot be determined
		return filepath.Join(".", "contract_data")
	}
	return filepath.Join(home, "Downloads", "contract_data")
}

// RegisterFlags defines every configuration flag on fs with the defaults of
// cfg
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringP(FlagOutput, "o", cfg.OutputDir, "Directory the table files are written to and read from")
	fs.String(FlagFormat, string(cfg.Format), "Table file format (csv, xlsx)")
	fs.String(FlagProfile, cfg.ProfilePath, "YAML field profile (empty uses the built-in dd1155-v1 profile)")
	fs.StringSlice(FlagKeywords, cfg.Keywords, "Filename keywords that select PDFs (empty selects every PDF)")
	fs.Bool(FlagProvenance, cfg.Provenance, "Add a Provenance column listing cells that were not read directly")
	fs.Bool(FlagWatch, cfg.Watch, "Keep running and process PDFs as they appear")
	fs.Duration(FlagDebounce, cfg.Debounce, "Quiet period before a changed PDF is processed (watch mode)")
	fs.String(FlagLogLevel, cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String(FlagLogFormat, cfg.LogFormat, "Log format (console, json)")
	fs.Int64(FlagMaxFileSize, cfg.MaxFileSize, "Maximum PDF file size in bytes")
	fs.String(FlagHost, cfg.Host, "Dashboard host address")
	fs.Int(FlagPort, cfg.Port, "Dashboard port")
}

// Load builds the configuration from defaults, CONTRACT_DATA_* environment
// variables and the flags registered on fs, in increasing precedence, and
// validates it.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	for _, name := range []string{
		FlagOutput, FlagFormat, FlagProfile, FlagKeywords, FlagProvenance, FlagWatch, FlagDebounce,
		FlagLogLevel, FlagLogFormat, FlagMaxFileSize, FlagHost, FlagPort,
	} {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	populateConfigFromViper(v, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newViper configures a viper instance with environment variables and
// defaults
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(FlagOutput, cfg.OutputDir)
	v.SetDefault(FlagFormat, string(cfg.Format))
	v.SetDefault(FlagProfile, cfg.ProfilePath)
	v.SetDefault(FlagKeywords, cfg.Keywords)
	v.SetDefault(FlagProvenance, cfg.Provenance)
	v.SetDefault(FlagWatch, cfg.Watch)
	v.SetDefault(FlagDebounce, cfg.Debounce)
	v.SetDefault(FlagLogLevel, cfg.LogLevel)
	v.SetDefault(FlagLogFormat, cfg.LogFormat)
	v.SetDefault(FlagMaxFileSize, cfg.MaxFileSize)
	v.SetDefault(FlagHost, cfg.Host)
	v.SetDefault(FlagPort, cfg.Port)
	return v
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.OutputDir = expandHome(v.GetString(FlagOutput))
	cfg.Format = output.Format(strings.ToLower(v.GetString(FlagFormat)))
	cfg.ProfilePath = expandHome(v.GetString(FlagProfile))
	cfg.Keywords = stringList(v, FlagKeywords)
	cfg.Provenance = v.GetBool(FlagProvenance)
	cfg.Watch = v.GetBool(FlagWatch)
	cfg.Debounce = v.GetDuration(FlagDebounce)
	cfg.LogLevel = strings.ToLower(v.GetString(FlagLogLevel))
	cfg.LogFormat = strings.ToLower(v.GetString(FlagLogFormat))
	cfg.MaxFileSize = v.GetInt64(FlagMaxFileSize)
	cfg.Host = v.GetString(FlagHost)
	cfg.Port = v.GetInt(FlagPort)
}

// stringList reads a comma separated list. Environment values arrive as one
// string, which viper would otherwise split on whitespace.
func stringList(v *viper.Viper, key string) []string {
	var raw []string
	switch val := v.Get(key).(type) {
	case string:
		raw = strings.Split(val, ",")
	case []string:
		raw = val
	default:
		raw = v.GetStringSlice(key)
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := output.ParseFormat(string(c.Format)); err != nil {
		return err
	}

	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}

	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.Debounce <= 0 {
		return errors.New("debounce must be positive")
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
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.LogFormat)
	}

	return nil
}

// Address returns the dashboard address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{RootDir: %s, OutputDir: %s, Format: %s, Profile: %s, Keywords: %v, Watch: %t, LogLevel: %s, MaxFileSize: %d}",
		c.RootDir, c.OutputDir, c.Format, c.ProfilePath, c.Keywords, c.Watch, c.LogLevel, c.MaxFileSize)
}
