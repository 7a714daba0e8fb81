package trace

import (
	"fmt"
	"strings"

	"github.com/gujord/pwa-validator/internal/model"
	"github.com/gujord/pwa-validator/internal/util"
)

// SSOSuggestions returns the SSO configuration advice for chain: one High
// suggestion when any hop went through an identity provider, none otherwise.
func SSOSuggestions(chain model.Chain) []model.Suggestion {
	if !chain.HasSSO() {
		return nil
	}
	host, appPath := util.Host(chain.Target), util.AppPath(chain.Target)
	cacheName := "auth-" + strings.ReplaceAll(strings.Trim(appPath, "/"), "/", "-")
	return []model.Suggestion{{
		Title:       "Configure PWA for SSO Support",
		Description: fmt.Sprintf("Update %s's PWA configuration to handle SSO authentication", host),
		Priority:    model.PriorityHigh,
		Remediation: fmt.Sprintf(`1. Keep the manifest on %[1]s inside the app scope:
   {
     "start_url": "%[2]s/?source=pwa",
     "scope": "%[2]s/",
     "display": "standalone"
   }

2. Scope the service worker to the app path and let API requests through
   to the network when the cached token has expired:
   // %[1]s%[2]s/service-worker.js
   self.addEventListener('install', () => self.skipWaiting());
   self.addEventListener('activate', (event) => {
     event.waitUntil(self.clients.claim());
   });
   self.addEventListener('fetch', (event) => {
     if (event.request.url.includes('%[2]s/api/')) {
       event.respondWith(fetch(event.request));
     }
   });

3. Register it with an explicit scope and store the SSO token per app:
   navigator.serviceWorker.register('%[2]s/service-worker.js', { scope: '%[2]s/' });

   async function handleAuthSuccess(token) {
     const cache = await caches.open('%[3]s');
     await cache.put('%[2]s/api/auth', new Response(token));
   }`, host, appPath, cacheName),
	}}
}
