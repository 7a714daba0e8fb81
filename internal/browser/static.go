package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	pwaerrors "github.com/gujord/pwa-validator/internal/errors"
	"github.com/gujord/pwa-validator/internal/htmlscan"
	"github.com/gujord/pwa-validator/internal/httpclient"
)

// Getter is the slice of the HTTP client the static engine loads pages with.
type Getter interface {
	Get(ctx context.Context, rawURL string, followRedirects bool) (*httpclient.Response, error)
}

// Static evaluates probe scripts with an embedded JavaScript engine against
// a parsed snapshot of the served HTML. Nothing is rendered and no page
// script runs, so client-side injected markup is invisible to it.
//
// It emulates the slice of the DOM the probes read: document queries,
// window.location, window.matchMedia, navigator and performance.timing. The
// service worker API is exposed only in secure contexts and the standalone
// display mode never matches, as in a regular browser tab.
type Static struct {
	client        Getter
	userAgent     string
	scriptTimeout time.Duration

	mu       sync.Mutex
	doc      *htmlscan.Document
	loadedAt time.Time
	startMs  int64
	endMs    int64
}

// NewStatic returns a static engine that loads pages with opts.Client.
func NewStatic(opts Options) *Static {
	timeout := opts.ScriptTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Static{client: opts.Client, userAgent: opts.UserAgent, scriptTimeout: timeout}
}

// Navigate loads rawURL, following redirects, and snapshots its markup.
func (s *Static) Navigate(ctx context.Context, rawURL string) error {
	if s.client == nil {
		return pwaerrors.Newf("navigate", pwaerrors.ErrAutomation, "static engine has no HTTP client")
	}
	start := time.Now()
	resp, err := s.client.Get(ctx, rawURL, true)
	if err != nil {
		return pwaerrors.New("navigate", pwaerrors.ErrAutomation, err)
	}
	if resp.Status >= 400 {
		return pwaerrors.Newf("navigate", pwaerrors.ErrAutomation, "%s answered %d", rawURL, resp.Status)
	}
	final, err := url.Parse(resp.URL)
	if err != nil {
		return pwaerrors.New("navigate", pwaerrors.ErrAutomation, err)
	}
	var doc *htmlscan.Document
	if htmlscan.ShouldFetchBody(resp.Header.Get("Content-Type")) {
		doc, err = htmlscan.Parse(bytes.NewReader(resp.Body), htmlscan.MaxBody, final)
		if err != nil {
			return pwaerrors.New("navigate", pwaerrors.ErrAutomation, err)
		}
	} else {
		doc = &htmlscan.Document{URL: final}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.loadedAt = time.Now()
	s.startMs = start.UnixMilli()
	s.endMs = s.loadedAt.UnixMilli()
	return nil
}

// Evaluate runs script in a fresh runtime bound to the current snapshot.
func (s *Static) Evaluate(ctx context.Context, script string) (any, error) {
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()
	if doc == nil {
		return nil, pwaerrors.Newf("evaluate", pwaerrors.ErrAutomation, "no page loaded")
	}

	vm := goja.New()
	s.install(vm, doc)

	timer := time.AfterFunc(s.scriptTimeout, func() { vm.Interrupt("script timeout") })
	defer timer.Stop()
	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	v, err := vm.RunString(script)
	if err != nil {
		return nil, pwaerrors.New("evaluate", pwaerrors.ErrAutomation, err)
	}
	return settle(v)
}

// Close releases the snapshot.
func (s *Static) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
	return nil
}

func settle(v goja.Value) (any, error) {
	if v == nil {
		return nil, nil
	}
	p, ok := v.Export().(*goja.Promise)
	if !ok {
		return v.Export(), nil
	}
	switch p.State() {
	case goja.PromiseStateFulfilled:
		return p.Result().Export(), nil
	case goja.PromiseStateRejected:
		return nil, pwaerrors.Newf("evaluate", pwaerrors.ErrAutomation, "promise rejected: %v", p.Result())
	default:
		return nil, pwaerrors.New("evaluate", pwaerrors.ErrAutomation, errors.New("promise never settled"))
	}
}

func (s *Static) install(vm *goja.Runtime, doc *htmlscan.Document) {
	secure := doc.URL != nil && doc.URL.Scheme == "https"

	element := func(el *htmlscan.Element) any {
		if el == nil {
			return nil
		}
		obj := map[string]any{}
		for k, v := range el.Attrs {
			obj[k] = v
		}
		for _, ref := range []string{"href", "src"} {
			if v, ok := el.Attr(ref); ok {
				obj[ref] = doc.Resolve(v)
			}
		}
		obj["tagName"] = strings.ToUpper(el.Tag)
		obj["textContent"] = el.Text
		obj["getAttribute"] = func(name string) any {
			if v, ok := el.Attr(name); ok {
				return v
			}
			return nil
		}
		obj["hasAttribute"] = func(name string) bool {
			_, ok := el.Attr(name)
			return ok
		}
		return obj
	}
	elements := func(els []*htmlscan.Element) []any {
		out := make([]any, 0, len(els))
		for _, el := range els {
			out = append(out, element(el))
		}
		return out
	}

	location := map[string]any{"href": "", "protocol": "", "host": "", "hostname": "", "pathname": "/", "origin": ""}
	if u := doc.URL; u != nil {
		path := u.EscapedPath()
		if path == "" {
			path = "/"
		}
		location = map[string]any{
			"href":     u.String(),
			"protocol": u.Scheme + ":",
			"host":     u.Host,
			"hostname": u.Hostname(),
			"pathname": path,
			"origin":   u.Scheme + "://" + u.Host,
		}
	}

	document := map[string]any{
		"title":      doc.Title,
		"readyState": "complete",
		"URL":        location["href"],
		"querySelector": func(sel string) (any, error) {
			el, err := doc.QuerySelector(sel)
			if err != nil {
				return nil, err
			}
			return element(el), nil
		},
		"querySelectorAll": func(sel string) ([]any, error) {
			els, err := doc.QuerySelectorAll(sel)
			if err != nil {
				return nil, err
			}
			return elements(els), nil
		},
		"getElementsByTagName": func(tag string) []any {
			els, _ := doc.QuerySelectorAll(strings.ToLower(tag))
			return elements(els)
		},
	}

	navigator := map[string]any{
		"userAgent": s.userAgent,
		"language":  "en-US",
		"onLine":    true,
	}
	if secure {
		navigator["serviceWorker"] = map[string]any{
			"controller": nil,
			"register": func(string) error {
				return fmt.Errorf("service worker registration is not supported by the static engine")
			},
		}
	}

	s.mu.Lock()
	startMs, endMs := s.startMs, s.endMs
	loadedAt := s.loadedAt
	s.mu.Unlock()
	performance := map[string]any{
		"timing": map[string]any{
			"navigationStart":          startMs,
			"domContentLoadedEventEnd": endMs,
			"loadEventEnd":             endMs,
		},
		"now": func() float64 {
			return float64(time.Since(loadedAt).Microseconds())/1000 + float64(endMs-startMs)
		},
	}

	window := map[string]any{
		"location":        location,
		"navigator":       navigator,
		"document":        document,
		"performance":     performance,
		"isSecureContext": secure,
		"matchMedia": func(query string) map[string]any {
			return map[string]any{"media": query, "matches": false}
		},
	}

	_ = vm.Set("window", window)
	_ = vm.Set("self", window)
	_ = vm.Set("document", document)
	_ = vm.Set("navigator", navigator)
	_ = vm.Set("location", location)
	_ = vm.Set("performance", performance)
	_ = vm.Set("isSecureContext", secure)
}
