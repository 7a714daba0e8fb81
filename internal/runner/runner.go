// Package runner drives one evaluation run: every check in a fixed order,
// each isolated from the failures of the others.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/gujord/pwa-validator/internal/browser"
	"github.com/gujord/pwa-validator/internal/capability"
	"github.com/gujord/pwa-validator/internal/config"
	pwaerrors "github.com/gujord/pwa-validator/internal/errors"
	"github.com/gujord/pwa-validator/internal/manifest"
	"github.com/gujord/pwa-validator/internal/model"
	"github.com/gujord/pwa-validator/internal/output"
	"github.com/gujord/pwa-validator/internal/perf"
	"github.com/gujord/pwa-validator/internal/report"
	"github.com/gujord/pwa-validator/internal/security"
	"github.com/gujord/pwa-validator/internal/trace"
)

// HTTPClient is what the HTTP-based checks need.
type HTTPClient interface {
	trace.Getter
	security.HeadClient
}

// Opener starts the browser session for a run.
type Opener func(ctx context.Context) (browser.Browser, error)

const totalSteps = 6

// Runner coordinates the checks of one evaluation.
type Runner struct {
	cfg     *config.Config
	client  HTTPClient
	tracer  *trace.Tracer
	console *output.Console
	logger  hclog.Logger
	open    Opener
	now     func() time.Time
}

// New creates a new Runner. A nil opener starts the engine selected in cfg.
func New(cfg *config.Config, client HTTPClient, console *output.Console, logger hclog.Logger, open Opener) *Runner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	r := &Runner{
		cfg:     cfg,
		client:  client,
		tracer:  trace.New(client),
		console: console,
		logger:  logger,
		open:    open,
		now:     time.Now,
	}
	if r.open == nil {
		r.open = r.openConfigured
	}
	return r
}

func (r *Runner) openConfigured(ctx context.Context) (browser.Browser, error) {
	return browser.Open(ctx, browser.Options{
		Engine:        r.cfg.Browser,
		ChromePath:    r.cfg.ChromePath,
		UserAgent:     r.cfg.UserAgent,
		Insecure:      r.cfg.Insecure,
		ScriptTimeout: r.cfg.ScriptTimeout,
		Client:        r.client,
	}, r.logger.Named("browser"))
}

// Run evaluates target and prints the report. It always returns a complete
// report; failing checks contribute zero.
func (r *Runner) Run(ctx context.Context, target string) model.Report {
	b := report.NewBuilder(target, r.now())
	r.console.Header(target)

	step := 0
	next := func(name string) {
		step++
		r.console.Step(step, totalSteps, name)
	}

	next("Checking SSO configuration")
	r.guard("sso", func() {
		chain := r.tracer.Trace(ctx, target, r.cfg.MaxHops)
		r.console.Chain(chain)
		b.SetChain(chain)
		b.Suggest(trace.SSOSuggestions(chain)...)
	})

	page := r.session(ctx)
	defer func() {
		if err := page.Close(); err != nil {
			r.logger.Warn("browser close failed", "error", err)
		}
	}()
	pageReady := r.navigate(ctx, page, target)

	next("Checking manifest")
	r.guard("manifest", func() {
		r.checkManifest(ctx, b, page, pageReady, target)
	})

	next("Checking security")
	r.guard("security", func() {
		res := (&security.Checker{Client: r.client, Logger: r.logger.Named("security")}).Check(ctx, target)
		r.console.Notes(res.Notes)
		if res.Err != nil {
			r.console.Note(model.Notef(model.TagError, "%s", res.Err))
		}
		b.SetSecurityScore(res.Score)
		b.Suggest(res.Suggestions...)
	})

	prober := &capability.Prober{Page: page, Logger: r.logger.Named("capability")}
	next("Checking PWA features")
	r.guard("features", func() {
		res := prober.Check(ctx, target)
		r.console.Notes(res.Notes)
		b.SetFeatureScore(res.Score)
		b.Suggest(res.Suggestions...)
	})
	r.guard("capabilities", func() {
		caps, notes := prober.Sweep(ctx)
		r.console.Notes(notes)
		b.SetCapabilities(caps)
	})

	next("Checking performance")
	r.guard("performance", func() {
		metrics := (&perf.Sampler{Page: page, Logger: r.logger.Named("perf")}).Sample(ctx)
		r.console.Metrics(metrics)
		b.SetMetrics(metrics)
	})

	next("Checking SEO & Accessibility")
	r.guard("seo", func() {
		r.console.Notes(prober.Meta(ctx))
	})

	rep := b.Build(r.now())
	r.console.Report(rep)
	return rep
}

// session opens the browser. When that fails the returned stand-in makes
// every live-page check fail through its normal error path.
func (r *Runner) session(ctx context.Context) (page browser.Browser) {
	defer func() {
		if rec := recover(); rec != nil {
			page = browser.Unavailable{Err: fmt.Errorf("panic: %v", rec)}
			r.console.Note(model.Notef(model.TagError, "Browser automation unavailable: %v", rec))
		}
	}()
	page, err := r.open(ctx)
	if err != nil {
		r.logger.Error("browser session failed", "error", err)
		r.console.Note(model.Notef(model.TagError, "Browser automation unavailable: %s", pwaerrors.Cause(err)))
		return browser.Unavailable{Err: err}
	}
	return page
}

// navigate loads target and waits the settle delay for client-side
// rendering. It reports whether the page loaded.
func (r *Runner) navigate(ctx context.Context, page browser.Browser, target string) (ok bool) {
	r.guard("navigate", func() {
		if err := page.Navigate(ctx, target); err != nil {
			r.console.Note(model.Notef(model.TagError, "Failed to access URL: %s", pwaerrors.Cause(err)))
			return
		}
		ok = true
		if d := r.cfg.SettleDelay; d > 0 {
			r.logger.Debug("waiting for dynamic content", "delay", d)
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		}
	})
	return ok
}

func (r *Runner) checkManifest(ctx context.Context, b *report.Builder, page browser.Browser, pageReady bool, target string) {
	var href string
	if pageReady {
		var err error
		href, err = (&manifest.Locator{Page: page, Logger: r.logger.Named("manifest")}).Locate(ctx)
		if err != nil {
			r.console.Note(model.Notef(model.TagError, "Manifest lookup failed: %s", pwaerrors.Cause(err)))
		}
	}
	if href != "" {
		r.console.Note(model.Notef(model.TagInfo, "Found manifest at: %s", href))
	}

	loader := &manifest.Loader{Client: r.client, Tracer: r.tracer, MaxHops: r.cfg.MaxHops}
	res := loader.Load(ctx, href, target)
	r.console.Notes(res.Notes)
	if res.Err != nil {
		r.logger.Debug("manifest rejected", "error", res.Err)
		r.console.Note(model.Notef(model.TagError, "%s", manifestCause(res.Err)))
	}

	score, suggestions := manifest.Score(res.Manifest, target)
	b.SetManifestScore(score)
	b.Suggest(suggestions...)

	if res.Manifest == nil && pageReady {
		r.suggestManifest(ctx, page, target)
	}
}

func manifestCause(err error) string {
	switch {
	case pwaerrors.Is(err, pwaerrors.ErrManifestMissing):
		return "No manifest link found"
	case pwaerrors.Is(err, pwaerrors.ErrManifestMalformed):
		return "Invalid JSON in manifest: " + pwaerrors.Cause(err)
	case pwaerrors.Is(err, pwaerrors.ErrManifestUnreachable):
		return "Failed to fetch manifest: " + pwaerrors.Cause(err)
	default:
		return pwaerrors.Cause(err)
	}
}

func (r *Runner) suggestManifest(ctx context.Context, page browser.Evaluator, target string) {
	meta, err := manifest.ReadMetadata(ctx, page)
	if err != nil {
		r.logger.Debug("page metadata unavailable", "error", err)
	}
	guide, err := manifest.Guide(meta, target)
	if err != nil {
		r.logger.Debug("manifest suggestion failed", "error", err)
		return
	}
	r.console.Block("Suggested manifest", guide)
}

// guard runs one check, turning a panic into an error line so the
// remaining checks still run.
func (r *Runner) guard(name string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("check panicked", "check", name, "panic", rec)
			r.console.Note(model.Notef(model.TagError, "%s check failed: %v", name, rec))
		}
	}()
	fn()
}
