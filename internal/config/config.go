package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Browser engine names.
const (
	BrowserAuto   = "auto"
	BrowserChrome = "chrome"
	BrowserStatic = "static"
)

// EnvPrefix prefixes every environment override, e.g. PWA_VALIDATOR_MAX_HOPS.
const EnvPrefix = "PWA_VALIDATOR"

// Config holds the runtime settings of an evaluation.
type Config struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	Retries       int           `mapstructure:"retries"`
	Insecure      bool          `mapstructure:"insecure"`
	UserAgent     string        `mapstructure:"user_agent"`
	MaxHops       int           `mapstructure:"max_hops"`
	SettleDelay   time.Duration `mapstructure:"settle_delay"`
	ScriptTimeout time.Duration `mapstructure:"script_timeout"`
	Browser       string        `mapstructure:"browser"`
	ChromePath    string        `mapstructure:"chrome_path"`
	LogLevel      string        `mapstructure:"log_level"`
	NoColor       bool          `mapstructure:"no_color"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Timeout:       10 * time.Second,
		Retries:       1,
		UserAgent:     "pwa-validator/1.0",
		MaxHops:       10,
		SettleDelay:   3 * time.Second,
		ScriptTimeout: 5 * time.Second,
		Browser:       BrowserAuto,
		LogLevel:      "INFO",
	}
}

// Load reads pwa-validator.yaml from the given directories (if any) and
// applies PWA_VALIDATOR_* environment overrides on top of the defaults.
func Load(dirs ...string) (*Config, error) {
	v := viper.New()
	def := Default()
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("retries", def.Retries)
	v.SetDefault("insecure", def.Insecure)
	v.SetDefault("user_agent", def.UserAgent)
	v.SetDefault("max_hops", def.MaxHops)
	v.SetDefault("settle_delay", def.SettleDelay)
	v.SetDefault("script_timeout", def.ScriptTimeout)
	v.SetDefault("browser", def.Browser)
	v.SetDefault("chrome_path", def.ChromePath)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("no_color", def.NoColor)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("pwa-validator")
	v.SetConfigType("yaml")
	for _, d := range dirs {
		v.AddConfigPath(filepath.Clean(d))
	}
	if len(dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the evaluation cannot run with.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %s)", c.Timeout)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be >= 0 (got %d)", c.Retries)
	}
	if c.MaxHops <= 0 {
		return fmt.Errorf("max_hops must be > 0 (got %d)", c.MaxHops)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle_delay must be >= 0 (got %s)", c.SettleDelay)
	}
	if c.ScriptTimeout <= 0 {
		return fmt.Errorf("script_timeout must be > 0 (got %s)", c.ScriptTimeout)
	}
	switch strings.ToLower(c.Browser) {
	case BrowserAuto, BrowserChrome, BrowserStatic:
		c.Browser = strings.ToLower(c.Browser)
	default:
		return fmt.Errorf("unknown browser engine %q (want auto, chrome or static)", c.Browser)
	}
	return nil
}
