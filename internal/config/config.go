// Package config provides configuration loading from a TOML file and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/usestring/harcsv/internal/logging"
)

// Config holds all configuration for a conversion run.
type Config struct {
	OutputDir string `toml:"output_dir"` // HARCSV_OUTPUT_DIR, default "" (current directory)
	TempDir   string `toml:"temp_dir"`   // HARCSV_TEMP_DIR, default "" (os.TempDir)
	Filter    string `toml:"filter"`     // HARCSV_FILTER, jq expression, default "" (all entries)
	Delimiter string `toml:"delimiter"`  // HARCSV_DELIMITER, default ","

	// Logging configuration
	LogLevel      string `toml:"log_level"`        // LOG_LEVEL, default "warn"
	LogFile       string `toml:"log_file"`         // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    `toml:"log_max_size_mb"`  // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    `toml:"log_max_backups"`  // LOG_MAX_BACKUPS, default 3
	LogMaxAgeDays int    `toml:"log_max_age_days"` // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   `toml:"log_compress"`     // LOG_COMPRESS, default true
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Delimiter:     ",",
		LogLevel:      "warn",
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		LogMaxAgeDays: 28,
		LogCompress:   true,
	}
}

// DefaultPath returns ~/.config/harcsv/config.toml, or "" when the home
// directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "harcsv", "config.toml")
}

// Load builds the configuration from defaults, then the TOML file at path,
// then environment variables. An empty path means DefaultPath, which may be
// absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if explicit {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg.OutputDir = getEnvString("HARCSV_OUTPUT_DIR", cfg.OutputDir)
	cfg.TempDir = getEnvString("HARCSV_TEMP_DIR", cfg.TempDir)
	cfg.Filter = getEnvString("HARCSV_FILTER", cfg.Filter)
	cfg.Delimiter = getEnvString("HARCSV_DELIMITER", cfg.Delimiter)

	cfg.LogLevel = getEnvString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnvString("LOG_FILE", cfg.LogFile)
	cfg.LogMaxSizeMB = getEnvInt("LOG_MAX_SIZE_MB", cfg.LogMaxSizeMB)
	cfg.LogMaxBackups = getEnvInt("LOG_MAX_BACKUPS", cfg.LogMaxBackups)
	cfg.LogMaxAgeDays = getEnvInt("LOG_MAX_AGE_DAYS", cfg.LogMaxAgeDays)
	cfg.LogCompress = getEnvBool("LOG_COMPRESS", cfg.LogCompress)

	home, _ := os.UserHomeDir()
	cfg.OutputDir = expandHome(cfg.OutputDir, home)
	cfg.TempDir = expandHome(cfg.TempDir, home)
	cfg.LogFile = expandHome(cfg.LogFile, home)

	if _, err := cfg.DelimiterRune(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DelimiterRune returns the configured field separator.
func (c *Config) DelimiterRune() (rune, error) {
	if c.Delimiter == "" {
		return ',', nil
	}
	if c.Delimiter == `\t` {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError || size != len(c.Delimiter) {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	switch r {
	case '"', '\r', '\n':
		return 0, fmt.Errorf("delimiter %q is not allowed", c.Delimiter)
	}
	return r, nil
}

// Logging returns the logging configuration.
func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.LogLevel,
		FilePath:   c.LogFile,
		MaxSizeMB:  c.LogMaxSizeMB,
		MaxBackups: c.LogMaxBackups,
		MaxAgeDays: c.LogMaxAgeDays,
		Compress:   c.LogCompress,
	}
}

func expandHome(path, home string) string {
	if home != "" && len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
