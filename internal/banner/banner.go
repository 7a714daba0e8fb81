package banner

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

// Print writes the ASCII-art banner to w.
func Print(w io.Writer, noColor bool) {
	fig := figure.NewFigure("PWA CHECK", "doom", true)

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	if noColor {
		cyan.DisableColor()
		green.DisableColor()
		red.DisableColor()
	}

	_, _ = red.Fprint(w, fig.String())
	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
	_, _ = green.Fprintln(w, "    Progressive Web App readiness auditor")
	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
	_, _ = fmt.Fprintln(w)
}
