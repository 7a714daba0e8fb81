// Package report composes the final evaluation report.
package report

import (
	"time"

	"github.com/gujord/pwa-validator/internal/model"
)

// Denominator is the scale the total is displayed against. It assumes three
// 100-point components even though security tops out at 50.
const Denominator = 300

// Builder accumulates check results in the order the checks ran.
type Builder struct {
	url          string
	startedAt    time.Time
	scores       model.Scores
	suggestions  []model.Suggestion
	chain        model.Chain
	capabilities []model.Capability
	metrics      []model.Metric
}

// NewBuilder starts a report for url.
func NewBuilder(url string, startedAt time.Time) *Builder {
	return &Builder{url: url, startedAt: startedAt}
}

// Suggest appends suggestions after those already added.
func (b *Builder) Suggest(s ...model.Suggestion) { b.suggestions = append(b.suggestions, s...) }

func (b *Builder) SetChain(c model.Chain) { b.chain = c }
func (b *Builder) SetManifestScore(n int) { b.scores.Manifest = n }
func (b *Builder) SetSecurityScore(n int) { b.scores.Security = n }
func (b *Builder) SetFeatureScore(n int) { b.scores.Features = n }
func (b *Builder) SetCapabilities(c []model.Capability) { b.capabilities = c }
func (b *Builder) SetMetrics(m []model.Metric) { b.metrics = m }

// Build composes the report. The builder's slices are copied so the report
// does not change if the builder is used again.
func (b *Builder) Build(finishedAt time.Time) model.Report {
	return model.Report{
		URL:          b.url,
		Scores:       b.scores,
		Suggestions:  append([]model.Suggestion(nil), b.suggestions...),
		Chain:        b.chain,
		Capabilities: append([]model.Capability(nil), b.capabilities...),
		Metrics:      append([]model.Metric(nil), b.metrics...),
		StartedAt:    b.startedAt,
		DurationMs:   finishedAt.Sub(b.startedAt).Milliseconds(),
	}
}

// Group is the suggestions of one priority, in emission order.
type Group struct {
	Priority    model.Priority
	Suggestions []model.Suggestion
}

// GroupByPriority buckets suggestions from Critical to Low, keeping the
// original order inside each bucket. Empty buckets are left out.
func GroupByPriority(suggestions []model.Suggestion) []Group {
	var groups []Group
	for _, p := range model.Priorities {
		var g Group
		g.Priority = p
		for _, s := range suggestions {
			if s.Priority == p {
				g.Suggestions = append(g.Suggestions, s)
			}
		}
		if len(g.Suggestions) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}
