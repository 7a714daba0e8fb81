package manifest

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/gujord/pwa-validator/internal/browser"
)

// Strategy is one way of finding the manifest link on a rendered page.
type Strategy struct {
	Name   string
	Script string
}

// Strategies are tried in order; the first non-empty href wins.
var Strategies = []Strategy{
	{
		Name: "standard",
		Script: `(function () {
  var link = document.querySelector('link[rel="manifest"]');
  return link && link.href ? String(link.href) : "";
})()`,
	},
	{
		// Client-side head managers such as react-helmet inject the link
		// after load; the page has had its settle delay by now.
		Name: "dynamic",
		Script: `(function () {
  var tags = document.querySelectorAll('link[rel="manifest"]');
  for (var i = 0; i < tags.length; i++) {
    var tag = tags[i];
    var href = tag.href ? String(tag.href) : "";
    if (tag.getAttribute("data-react-helmet") === "true" || href.indexOf("manifest") !== -1) {
      return href;
    }
  }
  return "";
})()`,
	},
	{
		Name: "href",
		Script: `(function () {
  var link = document.querySelector('link[href*="manifest"]');
  return link && link.href ? String(link.href) : "";
})()`,
	},
}

// Locator finds the manifest URL referenced by the live page.
type Locator struct {
	Page   browser.Evaluator
	Logger hclog.Logger
}

// Locate returns the first manifest URL found, or "" when none of the
// strategies matched. A strategy that fails to evaluate is skipped; the
// error is returned only when every strategy failed.
func (l *Locator) Locate(ctx context.Context) (string, error) {
	logger := l.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	var firstErr error
	failed := 0
	for _, s := range Strategies {
		v, err := l.Page.Evaluate(ctx, s.Script)
		if err != nil {
			logger.Debug("manifest strategy failed", "strategy", s.Name, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			failed++
			continue
		}
		if href := strings.TrimSpace(browser.String(v)); href != "" {
			logger.Debug("manifest located", "strategy", s.Name, "href", href)
			return href, nil
		}
	}
	if failed == len(Strategies) {
		return "", firstErr
	}
	return "", nil
}
