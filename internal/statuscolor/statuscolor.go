package statuscolor

import (
	"net/http"
	"strconv"

	"github.com/fatih/color"
)

// For returns the style of an HTTP status code: redirects green, success
// yellow, client and server errors red.
func For(status int) *color.Color {
	switch {
	case status == 0:
		return color.New(color.FgHiBlack)
	case status >= http.StatusMultipleChoices && status < http.StatusBadRequest:
		return color.New(color.FgGreen)
	case status >= http.StatusBadRequest:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

// Sprint returns a colorized status code; 0 renders as a gray dash.
func Sprint(status int, noColor bool) string {
	c := For(status)
	if noColor {
		c.DisableColor()
	}
	if status == 0 {
		return c.Sprint("—")
	}
	return c.Sprint(strconv.Itoa(status))
}
