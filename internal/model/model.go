package model

import "time"

// HopKind classifies a redirect hop.
type HopKind string

const (
	HopHTTP HopKind = "HTTP"
	HopSSO  HopKind = "SSO"
)

// Hop represents a single redirect response in a chain.
type Hop struct {
	Index    int     `json:"index"`
	URL      string  `json:"url"`
	Status   int     `json:"status"`
	Location string  `json:"location"`
	Kind     HopKind `json:"kind"`
	TimeMs   int64   `json:"time_ms"`
}

// Chain is the ordered list of redirects observed from Target.
type Chain struct {
	Target string `json:"target"`
	Hops   []Hop  `json:"hops"`
	Error  string `json:"error,omitempty"`
}

// HasSSO reports whether any hop went through an identity provider.
func (c Chain) HasSSO() bool {
	for _, h := range c.Hops {
		if h.Kind == HopSSO {
			return true
		}
	}
	return false
}

// Scores holds the three independently earned score components.
type Scores struct {
	Manifest int `json:"manifest"`
	Security int `json:"security"`
	Features int `json:"features"`
}

// Total is the plain sum of the three components.
func (s Scores) Total() int {
	return s.Manifest + s.Security + s.Features
}

// Capability is an informational API availability probe result.
type Capability struct {
	Name      string `json:"name"`
	Supported bool   `json:"supported"`
	Error     string `json:"error,omitempty"`
}

// Metric is a sampled timing value in milliseconds.
type Metric struct {
	Name   string  `json:"name"`
	Millis float64 `json:"millis"`
}

// Report is the terminal artifact of one evaluation run.
type Report struct {
	URL          string       `json:"url"`
	Scores       Scores       `json:"scores"`
	Suggestions  []Suggestion `json:"suggestions"`
	Chain        Chain        `json:"chain"`
	Capabilities []Capability `json:"capabilities,omitempty"`
	Metrics      []Metric     `json:"metrics,omitempty"`
	StartedAt    time.Time    `json:"started_at"`
	DurationMs   int64        `json:"duration_ms"`
}
