// Package capability probes the live page for PWA feature signals and for
// informational device API availability.
package capability

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/gujord/pwa-validator/internal/browser"
	pwaerrors "github.com/gujord/pwa-validator/internal/errors"
	"github.com/gujord/pwa-validator/internal/model"
)

// Points is what each feature check is worth.
const Points = 20

// Feature is a scored live-page signal.
type Feature struct {
	Name   string
	Script string
	Pass   string
	Fail   string
	// Suggest builds the suggestion emitted when the signal is absent.
	Suggest func(pageURL string) model.Suggestion
}

// Features are probed in this order.
var Features = []Feature{
	{
		Name:    "service-worker",
		Script:  `navigator.serviceWorker ? true : false`,
		Pass:    "Service Worker API available",
		Fail:    "Service Worker API not available",
		Suggest: addServiceWorker,
	},
	{
		Name:    "https",
		Script:  `window.location.protocol === "https:" ? true : false`,
		Pass:    "HTTPS detected",
		Fail:    "HTTPS not detected",
		Suggest: enableHTTPS,
	},
	{
		Name:    "viewport",
		Script:  `document.querySelector("meta[name='viewport']") ? true : false`,
		Pass:    "Viewport meta tag detected",
		Fail:    "Viewport meta tag not detected",
		Suggest: addResponsiveDesign,
	},
	{
		Name:    "installable",
		Script:  `window.matchMedia("(display-mode: standalone)").matches || ("standalone" in window.navigator && window.navigator.standalone) ? true : false`,
		Pass:    "App is installable",
		Fail:    "App is not installable",
		Suggest: makeInstallable,
	},
}

// Result is the outcome of the feature checks.
type Result struct {
	Score       int
	Suggestions []model.Suggestion
	Notes       []model.Note
}

// Prober runs probe scripts against the live page.
type Prober struct {
	Page   browser.Evaluator
	Logger hclog.Logger
}

func (p *Prober) logger() hclog.Logger {
	if p.Logger == nil {
		return hclog.NewNullLogger()
	}
	return p.Logger
}

// Check scores the four feature signals. A probe that cannot be
// evaluated earns nothing and suggests nothing; it is reported as an error
// line.
func (p *Prober) Check(ctx context.Context, pageURL string) Result {
	var res Result
	for _, f := range Features {
		v, err := p.Page.Evaluate(ctx, f.Script)
		if err != nil {
			p.logger().Debug("feature probe failed", "feature", f.Name, "error", err)
			res.Notes = append(res.Notes, model.Notef(model.TagError, "%s check failed: %s", f.Name, pwaerrors.Cause(err)))
			continue
		}
		if browser.Bool(v) {
			res.Score += Points
			res.Notes = append(res.Notes, model.Notef(model.TagPass, "%s", f.Pass))
			continue
		}
		res.Notes = append(res.Notes, model.Notef(model.TagFail, "%s", f.Fail))
		res.Suggestions = append(res.Suggestions, f.Suggest(pageURL))
	}
	return res
}

// API is an informational capability probe.
type API struct {
	Name string
	Expr string
}

// APIs are reported but never scored.
var APIs = []API{
	{"Geolocation", "navigator.geolocation"},
	{"Camera", "(navigator.mediaDevices && navigator.mediaDevices.getUserMedia)"},
	{"Bluetooth", "navigator.bluetooth"},
	{"USB", "navigator.usb"},
	{"Web Share", "navigator.share"},
	{"Notifications", "Notification"},
	{"Push API", "(navigator.serviceWorker && navigator.serviceWorker.pushManager)"},
	{"Background Sync", "(navigator.serviceWorker && navigator.serviceWorker.sync)"},
}

// Script is the availability test for the API.
func (a API) Script() string {
	return fmt.Sprintf("typeof %s !== 'undefined'", a.Expr)
}

// Sweep checks every API in APIs.
func (p *Prober) Sweep(ctx context.Context) ([]model.Capability, []model.Note) {
	caps := make([]model.Capability, 0, len(APIs))
	var notes []model.Note
	for _, api := range APIs {
		c := model.Capability{Name: api.Name}
		v, err := p.Page.Evaluate(ctx, api.Script())
		switch {
		case err != nil:
			c.Error = pwaerrors.Cause(err)
			notes = append(notes, model.Notef(model.TagError, "%s API: %s", api.Name, c.Error))
		case browser.Bool(v):
			c.Supported = true
			notes = append(notes, model.Notef(model.TagInfo, "%s API: Supported", api.Name))
		default:
			notes = append(notes, model.Notef(model.TagInfo, "%s API: Not supported", api.Name))
		}
		caps = append(caps, c)
	}
	return caps, notes
}

// MetaTags lists the meta tags the SEO sweep looks for.
var MetaTags = []string{"viewport", "description"}

// Meta reports on each tag in MetaTags.
func (p *Prober) Meta(ctx context.Context) []model.Note {
	var notes []model.Note
	for _, name := range MetaTags {
		script := fmt.Sprintf(`document.querySelector('meta[name="%s"]') ? true : false`, name)
		v, err := p.Page.Evaluate(ctx, script)
		switch {
		case err != nil:
			notes = append(notes, model.Notef(model.TagError, "Meta tag '%s' could not be checked: %s", name, pwaerrors.Cause(err)))
		case browser.Bool(v):
			notes = append(notes, model.Notef(model.TagPass, "Meta tag '%s' detected", name))
		default:
			notes = append(notes, model.Notef(model.TagError, "Meta tag '%s' not found", name))
		}
	}
	return notes
}
