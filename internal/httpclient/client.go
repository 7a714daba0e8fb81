package httpclient

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	pwaerrors "github.com/gujord/pwa-validator/internal/errors"
)

// maxFollow bounds redirects on requests that follow them automatically.
const maxFollow = 10

// Config holds settings for the HTTP client.
type Config struct {
	Timeout   time.Duration
	Proxy     func(*http.Request) (*url.URL, error)
	Headers   http.Header
	Cookie    string
	UserAgent string
	Insecure  bool
	Retries   int
}

// Response is the part of an HTTP response the checks look at.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	// URL is the URL that produced this response, after any followed redirects.
	URL string
}

// headerRoundTripper wraps a base RoundTripper to inject headers/cookies and
// perform simple retry logic.
type headerRoundTripper struct {
	base    http.RoundTripper
	headers http.Header
	cookie  string
	retries int
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if h.base == nil {
		h.base = http.DefaultTransport
	}

	var resp *http.Response
	var err error

	for attempt := 0; ; attempt++ {
		// Clone the request to avoid mutations across retries
		r := req.Clone(req.Context())
		if req.Body != nil {
			if req.GetBody != nil {
				if body, berr := req.GetBody(); berr == nil {
					r.Body = body
				}
			} else {
				r.Body = req.Body
			}
		}

		for k, vs := range h.headers {
			r.Header.Del(k)
			for _, v := range vs {
				r.Header.Add(k, v)
			}
		}
		if h.cookie != "" {
			r.Header.Set("Cookie", h.cookie)
		}

		resp, err = h.base.RoundTrip(r)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if attempt >= h.retries {
			if err != nil {
				return nil, err
			}
			return resp, nil
		}

		if resp != nil {
			_ = resp.Body.Close()
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(time.Duration(100*(1<<attempt)) * time.Millisecond):
		}
	}
}

func newTransport(cfg Config) http.RoundTripper {
	transport := &http.Transport{
		Proxy:           cfg.Proxy,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Insecure},
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: true,
	}
	headers := cfg.Headers.Clone()
	if headers == nil {
		headers = make(http.Header)
	}
	if cfg.UserAgent != "" && headers.Get("User-Agent") == "" {
		headers.Set("User-Agent", cfg.UserAgent)
	}
	return &headerRoundTripper{
		base:    transport,
		headers: headers,
		cookie:  cfg.Cookie,
		retries: cfg.Retries,
	}
}

// Client issues GET and HEAD requests, either exposing raw redirect
// responses or following them.
type Client struct {
	manual *resty.Client
	follow *resty.Client
}

// New returns a Client sharing one transport between its manual and
// following halves.
func New(cfg Config, logger hclog.Logger) *Client {
	transport := newTransport(cfg)

	manual := resty.NewWithClient(&http.Client{Transport: transport, Timeout: cfg.Timeout})
	manual.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		// hand the 3xx back to the caller
		return http.ErrUseLastResponse
	}))

	follow := resty.NewWithClient(&http.Client{Transport: transport, Timeout: cfg.Timeout})
	follow.SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxFollow))

	if logger != nil {
		SetLoggerForResty(manual, logger)
		SetLoggerForResty(follow, logger)
	}
	return &Client{manual: manual, follow: follow}
}

// Get fetches rawURL. With followRedirects=false a 3xx response is returned
// as-is, Location header included.
func (c *Client) Get(ctx context.Context, rawURL string, followRedirects bool) (*Response, error) {
	rc := c.manual
	if followRedirects {
		rc = c.follow
	}
	resp, err := rc.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, pwaerrors.New("GET "+rawURL, pwaerrors.ErrNetwork, err)
	}
	return toResponse(resp, rawURL), nil
}

// Head issues a HEAD request and follows redirects.
func (c *Client) Head(ctx context.Context, rawURL string) (*Response, error) {
	resp, err := c.follow.R().SetContext(ctx).Head(rawURL)
	if err != nil {
		return nil, pwaerrors.New("HEAD "+rawURL, pwaerrors.ErrNetwork, err)
	}
	return toResponse(resp, rawURL), nil
}

func toResponse(resp *resty.Response, requested string) *Response {
	out := &Response{
		Status: resp.StatusCode(),
		Header: resp.Header(),
		Body:   resp.Body(),
		URL:    requested,
	}
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		out.URL = raw.Request.URL.String()
	}
	return out
}
