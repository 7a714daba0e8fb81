package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gujord/pwa-validator/internal/config"
	pwaerrors "github.com/gujord/pwa-validator/internal/errors"
	"github.com/gujord/pwa-validator/internal/httpclient"
)

const page = `<!doctype html><html><head>
<title>Static Page</title>
<meta name="viewport" content="width=device-width">
<link rel="manifest" href="/app/manifest.json">
</head><body></body></html>`

func newStatic(t *testing.T) (*Static, *httptest.Server) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/app/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := httpclient.New(httpclient.Config{Timeout: 2 * time.Second}, nil)
	s := NewStatic(Options{Client: client, UserAgent: "static-test", ScriptTimeout: time.Second})
	return s, srv
}

func TestStaticEvaluate(t *testing.T) {
	s, srv := newStatic(t)
	ctx := context.Background()
	require.NoError(t, s.Navigate(ctx, srv.URL+"/app/"))

	tests := []struct {
		name   string
		script string
		want   any
	}{
		{"manifestHref", `(function(){ var l = document.querySelector('link[rel="manifest"]'); return l ? l.href : ""; })()`, srv.URL + "/app/manifest.json"},
		{"viewport", `document.querySelector("meta[name='viewport']") ? true : false`, true},
		{"title", `document.title`, "Static Page"},
		{"protocol", `window.location.protocol`, "http:"},
		{"pathname", `window.location.pathname`, "/app/"},
		{"noServiceWorkerOnHTTP", `navigator.serviceWorker ? true : false`, false},
		{"standalone", `window.matchMedia("(display-mode: standalone)").matches || ("standalone" in window.navigator && window.navigator.standalone) ? true : false`, false},
		{"typeofUndeclared", `typeof Notification !== 'undefined'`, false},
		{"userAgent", `navigator.userAgent`, "static-test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Evaluate(ctx, tt.script)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStaticPromiseAndErrors(t *testing.T) {
	s, srv := newStatic(t)
	ctx := context.Background()
	require.NoError(t, s.Navigate(ctx, srv.URL+"/app/"))

	got, err := s.Evaluate(ctx, `new Promise(function(resolve){ resolve(42); })`)
	require.NoError(t, err)
	n, ok := Number(got)
	require.True(t, ok)
	assert.Equal(t, 42.0, n)

	_, err = s.Evaluate(ctx, `new PerformanceObserver(function(){})`)
	require.Error(t, err)
	assert.True(t, pwaerrors.Is(err, pwaerrors.ErrAutomation))

	_, err = s.Evaluate(ctx, `new Promise(function(){})`)
	assert.Error(t, err)

	_, err = s.Evaluate(ctx, `document.querySelector("div > p")`)
	assert.Error(t, err)

	timing, err := s.Evaluate(ctx, `window.performance.timing.domContentLoadedEventEnd - window.performance.timing.navigationStart`)
	require.NoError(t, err)
	ms, ok := Number(timing)
	require.True(t, ok)
	assert.GreaterOrEqual(t, ms, 0.0)
}

func TestStaticScriptTimeout(t *testing.T) {
	s, srv := newStatic(t)
	s.scriptTimeout = 50 * time.Millisecond
	require.NoError(t, s.Navigate(context.Background(), srv.URL+"/app/"))

	_, err := s.Evaluate(context.Background(), `while(true){}`)
	assert.Error(t, err)
}

func TestStaticNavigateFailure(t *testing.T) {
	s, srv := newStatic(t)
	err := s.Navigate(context.Background(), srv.URL+"/missing")
	require.Error(t, err)
	assert.True(t, pwaerrors.Is(err, pwaerrors.ErrAutomation))

	_, err = s.Evaluate(context.Background(), `1`)
	assert.Error(t, err)
}

func TestOpenStaticAndUnavailable(t *testing.T) {
	b, err := Open(context.Background(), Options{Engine: config.BrowserStatic}, nil)
	require.NoError(t, err)
	require.NoError(t, b.Close())

	_, err = Open(context.Background(), Options{Engine: "netscape"}, nil)
	assert.Error(t, err)

	u := Unavailable{Err: assert.AnError}
	assert.True(t, pwaerrors.Is(u.Navigate(context.Background(), "https://example.com"), pwaerrors.ErrAutomation))
	_, err = u.Evaluate(context.Background(), "1")
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, u.Close())
}

func TestValueHelpers(t *testing.T) {
	assert.True(t, Bool(true))
	assert.False(t, Bool(nil))
	assert.False(t, Bool(""))
	assert.True(t, Bool(int64(1)))
	assert.Equal(t, "", String(nil))
	assert.Equal(t, "x", String("x"))
	_, ok := Number("12")
	assert.False(t, ok)
}
