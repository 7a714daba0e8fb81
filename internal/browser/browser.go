// Package browser provides the page automation capability the live-page
// checks run against: navigate once, then evaluate probe scripts.
//
// Probe scripts are written as self-contained expressions (usually an
// immediately invoked function) that always produce a concrete value, so
// they behave the same in every engine.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/gujord/pwa-validator/internal/config"
	pwaerrors "github.com/gujord/pwa-validator/internal/errors"
)

// Evaluator runs a probe script on the current page. Promise results are
// awaited and their resolved value returned.
type Evaluator interface {
	Evaluate(ctx context.Context, script string) (any, error)
}

// Browser is a single automation session. Close must be called exactly once
// on every exit path.
type Browser interface {
	Evaluator
	Navigate(ctx context.Context, rawURL string) error
	Close() error
}

// Options selects and tunes an engine.
type Options struct {
	Engine        string
	ChromePath    string
	UserAgent     string
	Insecure      bool
	ScriptTimeout time.Duration
	// Client is used by the static engine to load pages.
	Client Getter
}

// Open starts the configured engine. In auto mode a Chrome startup failure
// falls back to the static engine.
func Open(ctx context.Context, opts Options, logger hclog.Logger) (Browser, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	switch opts.Engine {
	case config.BrowserStatic:
		logger.Debug("using static engine")
		return NewStatic(opts), nil
	case config.BrowserChrome:
		b, err := NewChrome(ctx, opts)
		if err != nil {
			return nil, pwaerrors.New("browser", pwaerrors.ErrAutomation, err)
		}
		return b, nil
	case config.BrowserAuto, "":
		b, err := NewChrome(ctx, opts)
		if err == nil {
			logger.Debug("using chrome engine")
			return b, nil
		}
		logger.Warn("chrome unavailable, falling back to static engine", "error", err)
		return NewStatic(opts), nil
	default:
		return nil, pwaerrors.Newf("browser", pwaerrors.ErrAutomation, "unknown engine %q", opts.Engine)
	}
}

// Unavailable stands in for a session that could not be started. Every call
// fails with the startup error so checks degrade through their error paths.
type Unavailable struct {
	Err error
}

func (u Unavailable) Navigate(context.Context, string) error { return u.err() }

func (u Unavailable) Evaluate(context.Context, string) (any, error) { return nil, u.err() }

func (u Unavailable) Close() error { return nil }

func (u Unavailable) err() error {
	return pwaerrors.New("browser", pwaerrors.ErrAutomation, u.Err)
}

// Bool reports the truthiness of a script result.
func Bool(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}

// String converts a script result to a string; nil becomes "".
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Number converts a numeric script result.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	default:
		return 0, false
	}
}

// Map converts an object script result; non-objects yield nil.
func Map(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
