package trace

import (
	"context"
	"net/url"
	"time"

	"github.com/gujord/pwa-validator/internal/detect"
	"github.com/gujord/pwa-validator/internal/httpclient"
	"github.com/gujord/pwa-validator/internal/model"
)

// DefaultMaxHops is the hop budget used when none is given.
const DefaultMaxHops = 10

// Getter is the slice of the HTTP client the tracer needs.
type Getter interface {
	Get(ctx context.Context, rawURL string, followRedirects bool) (*httpclient.Response, error)
}

// Tracer performs manual redirect tracing.
type Tracer struct {
	Client Getter
}

// New creates a new Tracer.
func New(c Getter) *Tracer { return &Tracer{Client: c} }

// Trace follows redirects starting from target, recording at most maxHops
// hops. A network failure ends the walk; the hops gathered so far are kept
// and the failure is recorded in Chain.Error.
func (t *Tracer) Trace(ctx context.Context, target string, maxHops int) model.Chain {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	chain := model.Chain{Target: target}
	current := target

	for len(chain.Hops) < maxHops {
		start := time.Now()
		resp, err := t.Client.Get(ctx, current, false)
		if err != nil {
			chain.Error = err.Error()
			break
		}
		if !detect.IsRedirect(resp.Status) {
			break
		}

		loc := resp.Header.Get("Location")
		chain.Hops = append(chain.Hops, model.Hop{
			Index:    len(chain.Hops),
			URL:      current,
			Status:   resp.Status,
			Location: loc,
			Kind:     detect.Classify(loc),
			TimeMs:   time.Since(start).Milliseconds(),
		})
		if loc == "" {
			break
		}
		next, err := resolve(current, loc)
		if err != nil {
			chain.Error = err.Error()
			break
		}
		current = next
	}
	return chain
}

func resolve(base, loc string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	l, err := url.Parse(loc)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(l).String(), nil
}
