// Package output prints evaluation results for a terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/gujord/pwa-validator/internal/model"
	"github.com/gujord/pwa-validator/internal/report"
	"github.com/gujord/pwa-validator/internal/statuscolor"
)

const rule = 50

// Console writes tagged result lines to w. It keeps no state between calls.
type Console struct {
	w       io.Writer
	noColor bool
}

// NewConsole returns a Console writing to w, optionally without ANSI colors.
func NewConsole(w io.Writer, noColor bool) *Console {
	return &Console{w: w, noColor: noColor}
}

func (c *Console) style(attrs ...color.Attribute) *color.Color {
	s := color.New(attrs...)
	if c.noColor {
		s.DisableColor()
	}
	return s
}

// Style maps a result tag to its display style.
func (c *Console) Style(tag model.Tag) *color.Color {
	switch tag {
	case model.TagPass:
		return c.style(color.FgGreen)
	case model.TagFail, model.TagError:
		return c.style(color.FgRed)
	case model.TagWarn:
		return c.style(color.FgYellow)
	case model.TagInfo:
		return c.style(color.FgBlue)
	default:
		return c.style()
	}
}

// Header prints the bordered report title.
func (c *Console) Header(url string) {
	h := c.style(color.FgMagenta)
	_, _ = h.Fprintln(c.w, "\n"+strings.Repeat("=", rule))
	_, _ = c.style(color.FgMagenta, color.Bold).Fprintf(c.w, "PWA Validation Report for %s\n", url)
	_, _ = h.Fprintln(c.w, strings.Repeat("=", rule)+"\n")
}

// Step prints a progress line for the check about to run.
func (c *Console) Step(current, total int, name string) {
	_, _ = c.style(color.FgCyan).Fprintf(c.w, "\n[%d/%d] %s...\n", current, total, name)
}

// Note prints one tagged result line.
func (c *Console) Note(n model.Note) {
	_, _ = c.Style(n.Tag).Fprintf(c.w, "[%s] %s\n", n.Tag, n.Text)
}

// Notes prints result lines in order.
func (c *Console) Notes(notes []model.Note) {
	for _, n := range notes {
		c.Note(n)
	}
}

// Chain prints the redirect chain as "N. <status> → <kind>: <location>".
func (c *Console) Chain(chain model.Chain) {
	c.Note(model.Notef(model.TagInfo, "SSO Redirect Chain:"))
	info := c.Style(model.TagInfo)
	for i, h := range chain.Hops {
		_, _ = info.Fprintf(c.w, "%d. %s → %s: %s\n", i+1, statuscolor.Sprint(h.Status, c.noColor), h.Kind, h.Location)
	}
	if chain.Error != "" {
		c.Note(model.Notef(model.TagError, "Failed to check SSO redirects: %s", chain.Error))
	}
	if chain.HasSSO() {
		c.Note(model.Notef(model.TagInfo, "Site uses SSO authentication"))
	} else {
		c.Note(model.Notef(model.TagInfo, "No SSO redirects detected"))
	}
}

// Block prints a titled multi-line text.
func (c *Console) Block(title, text string) {
	c.Note(model.Notef(model.TagInfo, "%s", title))
	_, _ = fmt.Fprintln(c.w, text)
}

// Metrics prints sampled timings.
func (c *Console) Metrics(metrics []model.Metric) {
	for _, m := range metrics {
		c.Note(model.Notef(model.TagInfo, "%s: %.0fms", m.Name, m.Millis))
	}
}

// Report prints the grouped suggestions and the final score.
func (c *Console) Report(rep model.Report) {
	groups := report.GroupByPriority(rep.Suggestions)
	if len(groups) > 0 {
		_, _ = c.style(color.FgYellow, color.Bold).Fprintln(c.w, "\nImprovement Suggestions:")
		_, _ = c.style(color.FgBlue).Fprintln(c.w, strings.Repeat("-", rule))
	}
	for _, g := range groups {
		_, _ = c.style(color.FgBlue, color.Bold).Fprintf(c.w, "\n%s Priority:\n", g.Priority)
		for i, s := range g.Suggestions {
			_, _ = c.style(color.FgYellow).Fprintf(c.w, "\n%d. %s\n", i+1, s.Title)
			_, _ = fmt.Fprintf(c.w, "   %s\n", s.Description)
			_, _ = c.style(color.FgGreen).Fprintln(c.w, "\n   Implementation:")
			_, _ = fmt.Fprintf(c.w, "%s\n", indent(s.Remediation, "   "))
		}
	}

	h := c.style(color.FgMagenta)
	_, _ = h.Fprintln(c.w, "\n"+strings.Repeat("=", rule))
	_, _ = c.style(color.FgMagenta, color.Bold).Fprintf(c.w, "Final PWA Score: %d/%d\n", rep.Scores.Total(), report.Denominator)
	_, _ = h.Fprintln(c.w, strings.Repeat("=", rule)+"\n")
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
