package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gujord/pwa-validator/internal/browser"
	"github.com/gujord/pwa-validator/internal/capability"
	"github.com/gujord/pwa-validator/internal/config"
	"github.com/gujord/pwa-validator/internal/httpclient"
	"github.com/gujord/pwa-validator/internal/model"
	"github.com/gujord/pwa-validator/internal/output"
)

// fakeBrowser answers scripts from a table. Unknown scripts evaluate to
// undefined.
type fakeBrowser struct {
	answers map[string]any
	panicOn string
	closes  int
}

func (f *fakeBrowser) Navigate(context.Context, string) error { return nil }

func (f *fakeBrowser) Evaluate(_ context.Context, script string) (any, error) {
	if f.panicOn != "" && script == f.panicOn {
		panic("evaluator exploded")
	}
	return f.answers[script], nil
}

func (f *fakeBrowser) Close() error {
	f.closes++
	return nil
}

// features builds answers for the scored signals, in capability.Features order.
func features(signals ...bool) map[string]any {
	answers := map[string]any{}
	for i, f := range capability.Features {
		answers[f.Script] = signals[i]
	}
	return answers
}

func secureHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-XSS-Protection", "1; mode=block")
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Timeout = 2 * time.Second
	cfg.SettleDelay = 0
	cfg.ScriptTimeout = time.Second
	return &cfg
}

func newRunner(cfg *config.Config, open Opener) (*Runner, *bytes.Buffer) {
	var out bytes.Buffer
	client := httpclient.New(httpclient.Config{Timeout: cfg.Timeout, Insecure: cfg.Insecure}, nil)
	return New(cfg, client, output.NewConsole(&out, true), nil, open), &out
}

func withBrowser(b browser.Browser) Opener {
	return func(context.Context) (browser.Browser, error) { return b, nil }
}

func titles(suggestions []model.Suggestion) []string {
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, s.Title)
	}
	return out
}

func TestRunScenarioA(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secureHeaders(w)
		fmt.Fprint(w, "<html></html>")
	}))
	defer srv.Close()

	page := &fakeBrowser{answers: features(false, true, true, true)}
	r, out := newRunner(testConfig(), withBrowser(page))
	rep := r.Run(context.Background(), srv.URL)

	// Three of the four 20-point feature checks pass.
	assert.Equal(t, model.Scores{Manifest: 0, Security: 50, Features: 60}, rep.Scores)
	assert.Equal(t, 110, rep.Scores.Total())
	assert.Equal(t, []string{"Add Web App Manifest", "Add Service Worker Support"}, titles(rep.Suggestions))
	assert.Len(t, rep.Capabilities, len(capability.APIs))
	assert.Equal(t, 1, page.closes)

	text := out.String()
	assert.Contains(t, text, "[1/6] Checking SSO configuration...")
	assert.Contains(t, text, "[6/6] Checking SEO & Accessibility...")
	assert.Contains(t, text, "[ERROR] No manifest link found")
	assert.Contains(t, text, "Suggested manifest")
	assert.Contains(t, text, "Final PWA Score: 110/300")
}

func TestRunStaticEngine(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secureHeaders(w)
		switch r.URL.Path {
		case "/app":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><head>
<title>Field App</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<link rel="manifest" href="/app/manifest.json">
</head><body></body></html>`)
		case "/app/manifest.json":
			w.Header().Set("Content-Type", "application/manifest+json")
			fmt.Fprint(w, `{
  "name": "Field App",
  "short_name": "Field",
  "start_url": "/app/",
  "display": "standalone",
  "background_color": "#ffffff",
  "theme_color": "#123456",
  "icons": [
    {"src": "/app/icon-192.png", "sizes": "192x192", "type": "image/png"},
    {"src": "/app/icon-512.png", "sizes": "512x512", "type": "image/png", "purpose": "any maskable"}
  ]
}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Browser = config.BrowserStatic
	cfg.Insecure = true
	r, out := newRunner(cfg, nil)
	rep := r.Run(context.Background(), srv.URL+"/app")

	assert.Equal(t, model.Scores{Manifest: 100, Security: 50, Features: 60}, rep.Scores)
	assert.Equal(t, []string{"Make App Installable"}, titles(rep.Suggestions))
	assert.False(t, rep.Chain.HasSSO())
	assert.Contains(t, out.String(), "[INFO] Found manifest at: "+srv.URL+"/app/manifest.json")
	assert.Contains(t, out.String(), "Final PWA Score: 210/300")
}

func TestRunSSO(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secureHeaders(w)
		switch r.URL.Path {
		case "/app":
			http.Redirect(w, r, "/idp/OAuth2/authorize?client=pwa", http.StatusFound)
		case "/idp/OAuth2/authorize":
			http.Redirect(w, r, "/app/home", http.StatusFound)
		default:
			fmt.Fprint(w, "<html></html>")
		}
	}))
	defer srv.Close()

	page := &fakeBrowser{answers: features(true, true, true, true)}
	r, out := newRunner(testConfig(), withBrowser(page))
	rep := r.Run(context.Background(), srv.URL+"/app")

	require.True(t, rep.Chain.HasSSO())
	require.NotEmpty(t, rep.Suggestions)
	assert.Equal(t, "Configure PWA for SSO Support", rep.Suggestions[0].Title)
	assert.Equal(t, model.PriorityHigh, rep.Suggestions[0].Priority)
	assert.Contains(t, out.String(), "[INFO] Site uses SSO authentication")
	assert.Equal(t, 80, rep.Scores.Features)
}

func TestRunRecoversFromPanickingCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secureHeaders(w)
	}))
	defer srv.Close()

	page := &fakeBrowser{
		answers: features(true, true, true, true),
		panicOn: capability.Features[0].Script,
	}
	r, out := newRunner(testConfig(), withBrowser(page))
	rep := r.Run(context.Background(), srv.URL)

	assert.Zero(t, rep.Scores.Features)
	assert.Equal(t, 50, rep.Scores.Security)
	assert.Contains(t, out.String(), "[ERROR] features check failed: evaluator exploded")
	assert.Contains(t, out.String(), "Final PWA Score: 50/300")
	assert.Equal(t, 1, page.closes)
}

func TestRunBrowserUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secureHeaders(w)
	}))
	defer srv.Close()

	r, out := newRunner(testConfig(), func(context.Context) (browser.Browser, error) {
		return nil, errors.New("chrome not found")
	})
	rep := r.Run(context.Background(), srv.URL)

	assert.Equal(t, model.Scores{Manifest: 0, Security: 50, Features: 0}, rep.Scores)
	assert.Equal(t, []string{"Add Web App Manifest"}, titles(rep.Suggestions))
	text := out.String()
	assert.Contains(t, text, "[ERROR] Browser automation unavailable: chrome not found")
	assert.Contains(t, text, "[ERROR] Failed to access URL")
	assert.NotContains(t, text, "Suggested manifest")
}
