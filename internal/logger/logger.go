package logger

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/gujord/pwa-validator/internal/config"
)

// New builds the root logger. The configured level wins; the
// PWA_VALIDATOR_LOG_LEVEL variable is consulted when none is set.
func New(cfg *config.Config, name string, out io.Writer) hclog.Logger {
	var level hclog.Level
	if cfg != nil && cfg.LogLevel != "" {
		level = levelFor(strings.ToUpper(cfg.LogLevel))
	} else {
		level = levelFor(strings.ToUpper(os.Getenv(config.EnvPrefix + "_LOG_LEVEL")))
	}
	if out == nil {
		out = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      out,
		Level:       level,
	})
}

func levelFor(s string) hclog.Level {
	switch s {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	case "OFF":
		return hclog.Off
	default:
		return hclog.Info
	}
}
