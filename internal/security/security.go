// Package security scores the hardening headers a page is served with.
package security

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/gujord/pwa-validator/internal/httpclient"
	"github.com/gujord/pwa-validator/internal/model"
	"github.com/gujord/pwa-validator/internal/util"
)

// MaxScore is the sum of all header weights.
const MaxScore = 50

// Header is one recognized hardening header.
type Header struct {
	Name        string
	Label       string
	Description string
	Weight      int
	// Value is the directive suggested in the remediation snippets.
	Value string
}

// Headers are checked in this order.
var Headers = []Header{
	{
		Name:        "Content-Security-Policy",
		Label:       "CSP",
		Description: "Prevents XSS attacks by controlling resource loading",
		Weight:      20,
		Value:       "default-src 'self'; script-src 'self' 'unsafe-inline' 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self'; connect-src 'self'",
	},
	{
		Name:        "X-Content-Type-Options",
		Label:       "No Sniffing",
		Description: "Prevents MIME type sniffing",
		Weight:      10,
		Value:       "nosniff",
	},
	{
		Name:        "X-Frame-Options",
		Label:       "Frame Options",
		Description: "Prevents clickjacking attacks",
		Weight:      10,
		Value:       "SAMEORIGIN",
	},
	{
		Name:        "X-XSS-Protection",
		Label:       "XSS Protection",
		Description: "Enables browser XSS filtering",
		Weight:      10,
		Value:       "1; mode=block",
	},
}

// HeadClient issues the header-only request.
type HeadClient interface {
	Head(ctx context.Context, rawURL string) (*httpclient.Response, error)
}

// Result is the outcome of a header check.
type Result struct {
	Score       int
	Suggestions []model.Suggestion
	Notes       []model.Note
	Err         error
}

// Checker probes a URL's response headers.
type Checker struct {
	Client HeadClient
	Logger hclog.Logger
}

// Check issues a HEAD request for target and scores its headers. When the
// request ends up on another host the headers say nothing about target and
// the check scores 0 without suggestions. A network failure does the same
// and is reported in Err.
func (c *Checker) Check(ctx context.Context, target string) Result {
	logger := c.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	resp, err := c.Client.Head(ctx, target)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to check security headers: %w", err)}
	}
	if !util.SameHost(resp.URL, target) {
		logger.Warn("headers served by another host", "target", target, "final", resp.URL)
		return Result{Notes: []model.Note{
			model.Notef(model.TagWarn, "Security headers skipped: %s was served by %s", target, util.Host(resp.URL)),
		}}
	}
	score, suggestions, notes := Score(resp.Header, target)
	logger.Debug("security headers scored", "score", score, "status", resp.Status)
	return Result{Score: score, Suggestions: suggestions, Notes: notes}
}

// Score grants each present header its weight and suggests each absent one.
func Score(h http.Header, pageURL string) (int, []model.Suggestion, []model.Note) {
	appPath := util.AppPath(pageURL)
	score := 0
	var suggestions []model.Suggestion
	var notes []model.Note
	for _, hdr := range Headers {
		if vs := h.Values(hdr.Name); len(vs) > 0 {
			score += hdr.Weight
			notes = append(notes, model.Notef(model.TagPass, "%s header found: %s", hdr.Label, vs[0]))
			continue
		}
		notes = append(notes, model.Notef(model.TagWarn, "%s header not found", hdr.Label))
		suggestions = append(suggestions, model.Suggestion{
			Title:       fmt.Sprintf("Missing %s Header", hdr.Label),
			Description: hdr.Description,
			Priority:    model.PriorityHigh,
			Remediation: snippet(hdr, appPath),
		})
	}
	return score, suggestions, notes
}

func snippet(hdr Header, appPath string) string {
	location := appPath
	if location == "" {
		location = "/"
	}
	return fmt.Sprintf(`Add to your web server configuration:

Apache:
<Location "%[1]s">
    Header set %[2]s "%[3]s"
</Location>

Nginx:
location %[1]s {
    add_header %[2]s "%[3]s";
}`, location, hdr.Name, hdr.Value)
}
