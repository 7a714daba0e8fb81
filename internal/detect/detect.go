package detect

import (
	"net/http"
	"strings"

	"github.com/gujord/pwa-validator/internal/model"
)

// ssoMarkers identify identity-provider endpoints in a Location header.
var ssoMarkers = []string{"saml", "oauth", "oidc"}

// Classify labels a redirect target as SSO when it mentions a known
// identity protocol, case-insensitively, and as plain HTTP otherwise.
func Classify(location string) model.HopKind {
	l := strings.ToLower(location)
	for _, m := range ssoMarkers {
		if strings.Contains(l, m) {
			return model.HopSSO
		}
	}
	return model.HopHTTP
}

// IsRedirect reports whether status is one of the followed redirect codes.
func IsRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}
