package capability

import (
	"fmt"

	"github.com/gujord/pwa-validator/internal/model"
	"github.com/gujord/pwa-validator/internal/util"
)

func addServiceWorker(pageURL string) model.Suggestion {
	host, appPath := util.Host(pageURL), util.AppPath(pageURL)
	return model.Suggestion{
		Title:       "Add Service Worker Support",
		Description: "Service Worker is required for offline functionality",
		Priority:    model.PriorityHigh,
		Remediation: fmt.Sprintf(`1. Create a service worker at https://%[1]s%[2]s/service-worker.js:
   const CACHE_NAME = '%[2]s-v1';
   const urlsToCache = ['%[2]s/', '%[2]s/index.html', '%[2]s/manifest.json'];

   self.addEventListener('install', (event) => {
     event.waitUntil(caches.open(CACHE_NAME).then((cache) => cache.addAll(urlsToCache)));
   });

   self.addEventListener('fetch', (event) => {
     event.respondWith(caches.match(event.request).then((r) => r || fetch(event.request)));
   });

2. Register it from your main script:
   if ('serviceWorker' in navigator) {
     navigator.serviceWorker.register('%[2]s/service-worker.js', { scope: '%[2]s/' });
   }

3. Allow the scope on the server:
   Apache:
   <Location "%[2]s/service-worker.js">
       Header set Service-Worker-Allowed "%[2]s/"
   </Location>

   Nginx:
   location %[2]s/service-worker.js {
       add_header Service-Worker-Allowed "%[2]s/";
   }`, host, appPath),
	}
}

func enableHTTPS(pageURL string) model.Suggestion {
	host := util.Host(pageURL)
	if host == "" {
		host = "yourdomain.com"
	}
	return model.Suggestion{
		Title:       "Enable HTTPS",
		Description: "HTTPS is required for secure communication",
		Priority:    model.PriorityCritical,
		Remediation: fmt.Sprintf(`1. Obtain a TLS certificate (e.g. from Let's Encrypt)
2. Install the certificate on your server
3. Redirect HTTP to HTTPS

Apache:
<VirtualHost *:80>
    ServerName %[1]s
    Redirect permanent / https://%[1]s/
</VirtualHost>

Nginx:
server {
    listen 80;
    server_name %[1]s;
    return 301 https://$server_name$request_uri;
}`, host),
	}
}

func addResponsiveDesign(string) model.Suggestion {
	return model.Suggestion{
		Title:       "Add Responsive Design",
		Description: "Responsive design is required for a good user experience",
		Priority:    model.PriorityHigh,
		Remediation: `1. Add the viewport meta tag:
   <meta name="viewport" content="width=device-width, initial-scale=1">

2. Add responsive CSS:
   @media (max-width: 768px) { /* Mobile styles */ }
   @media (min-width: 769px) and (max-width: 1024px) { /* Tablet styles */ }
   @media (min-width: 1025px) { /* Desktop styles */ }`,
	}
}

func makeInstallable(pageURL string) model.Suggestion {
	appPath := util.AppPath(pageURL)
	return model.Suggestion{
		Title:       "Make App Installable",
		Description: "Installability is required for a good user experience",
		Priority:    model.PriorityCritical,
		Remediation: fmt.Sprintf(`Ensure your manifest.json has these required fields:
{
  "name": "Your App Name",
  "short_name": "App",
  "start_url": "%[1]s/",
  "display": "standalone",
  "icons": [
    {"src": "%[1]s/icon-192x192.png", "sizes": "192x192", "type": "image/png"},
    {"src": "%[1]s/icon-512x512.png", "sizes": "512x512", "type": "image/png"}
  ]
}`, appPath),
	}
}
