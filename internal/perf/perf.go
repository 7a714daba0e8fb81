// Package perf samples paint and load timings from the live page. The
// numbers are informational and never scored.
package perf

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/gujord/pwa-validator/internal/browser"
	"github.com/gujord/pwa-validator/internal/model"
)

// Probe is one sampled metric.
type Probe struct {
	Name   string
	Script string
}

// Probes are sampled in order.
var Probes = []Probe{
	{
		// Resolves on the first paint entry; the evaluator's script timeout
		// bounds the wait when the page never paints.
		Name: "First Contentful Paint",
		Script: `new Promise(function (resolve) {
  var observer = new PerformanceObserver(function (list) {
    var entries = list.getEntries();
    if (entries.length > 0) {
      observer.disconnect();
      resolve(entries[0].startTime);
    }
  });
  observer.observe({ type: "paint", buffered: true });
})`,
	},
	{
		Name:   "DOM Load Time",
		Script: `window.performance.timing.domContentLoadedEventEnd - window.performance.timing.navigationStart`,
	},
}

// Sampler collects Probes from a page.
type Sampler struct {
	Page   browser.Evaluator
	Logger hclog.Logger
}

// Sample returns the metrics that could be read. A probe that fails or
// yields a non-number is skipped.
func (s *Sampler) Sample(ctx context.Context) []model.Metric {
	logger := s.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	var metrics []model.Metric
	for _, p := range Probes {
		v, err := s.Page.Evaluate(ctx, p.Script)
		if err != nil {
			logger.Debug("metric skipped", "metric", p.Name, "error", err)
			continue
		}
		ms, ok := browser.Number(v)
		if !ok {
			logger.Debug("metric skipped", "metric", p.Name, "value", v)
			continue
		}
		metrics = append(metrics, model.Metric{Name: p.Name, Millis: ms})
	}
	return metrics
}
