// Package manifest locates, loads, validates and scores a web app manifest.
package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	pwaerrors "github.com/gujord/pwa-validator/internal/errors"
	"github.com/gujord/pwa-validator/internal/httpclient"
	"github.com/gujord/pwa-validator/internal/model"
	"github.com/gujord/pwa-validator/internal/util"
)

// RequiredFields must all be present for a manifest to be accepted.
var RequiredFields = []string{"name", "short_name", "start_url", "display", "icons"}

// Getter is the slice of the HTTP client the loader fetches with.
type Getter interface {
	Get(ctx context.Context, rawURL string, followRedirects bool) (*httpclient.Response, error)
}

// ChainTracer walks the redirect chain of a URL.
type ChainTracer interface {
	Trace(ctx context.Context, target string, maxHops int) model.Chain
}

// Loader fetches and validates manifests.
type Loader struct {
	Client  Getter
	Tracer  ChainTracer
	MaxHops int
}

// Result is the outcome of Load. Manifest is nil whenever Err is set: a
// manifest that failed validation is never handed back.
type Result struct {
	Manifest *model.Manifest
	URL      string
	Notes    []model.Note
	Err      error
}

func (r *Result) note(tag model.Tag, format string, args ...any) {
	r.Notes = append(r.Notes, model.Notef(tag, format, args...))
}

func (r *Result) fail(err error) Result {
	r.Manifest = nil
	r.Err = err
	return *r
}

// Load fetches manifestURL for the page at pageURL and validates it. A 404
// is retried once against {origin}{appPath}/manifest.json of the page.
func (l *Loader) Load(ctx context.Context, manifestURL, pageURL string) Result {
	res := Result{URL: manifestURL}
	if manifestURL == "" {
		return res.fail(pwaerrors.Newf("manifest", pwaerrors.ErrManifestMissing, "no manifest link found"))
	}

	resp, err := l.Client.Get(ctx, manifestURL, true)
	if err != nil {
		return res.fail(pwaerrors.New("manifest", pwaerrors.ErrManifestUnreachable, err))
	}
	if resp.Status == http.StatusNotFound {
		alt := util.Origin(pageURL) + util.AppPath(pageURL) + "/manifest.json"
		res.note(model.TagInfo, "Checking manifest at: %s", alt)
		resp, err = l.Client.Get(ctx, alt, true)
		if err != nil {
			return res.fail(pwaerrors.New("manifest", pwaerrors.ErrManifestUnreachable, err))
		}
		res.URL = alt
	}
	if resp.Status != http.StatusOK {
		return res.fail(pwaerrors.Newf("manifest", pwaerrors.ErrManifestUnreachable, "%s answered %d", res.URL, resp.Status))
	}
	if resp.URL != "" {
		res.URL = resp.URL
	}

	m, err := decode(resp.Body)
	if err != nil {
		return res.fail(pwaerrors.New("manifest", pwaerrors.ErrManifestMalformed, err))
	}
	res.Manifest = m

	if err := l.validate(ctx, &res, pageURL); err != nil {
		return res.fail(err)
	}
	return res
}

func decode(body []byte) (*model.Manifest, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, errNotObject
	}
	var m model.Manifest
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

var errNotObject = errors.New("manifest must be a JSON object")

// validate runs the content checks in order: required members, icon set,
// then start_url reconciliation against an SSO login flow.
func (l *Loader) validate(ctx context.Context, res *Result, pageURL string) error {
	m := res.Manifest
	var missing []string
	for _, field := range RequiredFields {
		if !m.Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return pwaerrors.Newf("manifest", pwaerrors.ErrManifestIncomplete, "required field(s) missing: %s", strings.Join(missing, ", "))
	}

	if issues := ValidateIcons(m.Icons); len(issues) > 0 {
		for _, issue := range issues {
			res.note(model.TagWarn, "%s", issue)
		}
		return pwaerrors.Newf("manifest", pwaerrors.ErrManifestIconsInvalid, "invalid or missing icons in manifest")
	}

	if l.Tracer != nil && m.StartURL != "" && util.SameHost(res.URL, pageURL) {
		l.reconcileStartURL(ctx, res, pageURL)
	}
	return nil
}

// reconcileStartURL rewrites start_url to the current page path when the
// page sits behind an SSO redirect and start_url would land outside it.
func (l *Loader) reconcileStartURL(ctx context.Context, res *Result, pageURL string) {
	chain := l.Tracer.Trace(ctx, pageURL, l.MaxHops)
	if !chain.HasSSO() {
		return
	}
	currentPath := util.Path(pageURL)
	if currentPath == "" {
		currentPath = "/"
	}
	start := res.Manifest.StartURL
	if start == currentPath || (start != "/" && strings.HasPrefix(start, currentPath)) {
		return
	}
	res.note(model.TagWarn, "start_url '%s' may cause redirect issues after SSO login", start)
	res.note(model.TagWarn, "Consider using '%s' as the start_url", currentPath)
	res.Manifest.StartURL = currentPath
}
