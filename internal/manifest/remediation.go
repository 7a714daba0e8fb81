package manifest

import (
	"fmt"
	"strings"

	"github.com/gujord/pwa-validator/internal/model"
	"github.com/gujord/pwa-validator/internal/util"
)

// TitleAddManifest is the title of the suggestion emitted when no usable
// manifest exists.
const TitleAddManifest = "Add Web App Manifest"

func location(pageURL string) (host, appPath string) {
	return util.Host(pageURL), util.AppPath(pageURL)
}

func manifestAt(pageURL string) string {
	host, appPath := location(pageURL)
	return fmt.Sprintf("https://%s%s/manifest.json", host, appPath)
}

func addManifest(pageURL string) model.Suggestion {
	host, appPath := location(pageURL)
	return model.Suggestion{
		Title:       TitleAddManifest,
		Description: "A web app manifest is required for PWA installation",
		Priority:    model.PriorityCritical,
		Remediation: fmt.Sprintf(`1. Create manifest.json at https://%[1]s%[2]s/manifest.json:
   {
     "name": "Your App Name",
     "short_name": "App",
     "start_url": "%[2]s/?source=pwa",
     "scope": "%[2]s/",
     "display": "standalone",
     "background_color": "#ffffff",
     "theme_color": "#YOUR_COLOR",
     "icons": [
       {"src": "%[2]s/icon-192x192.png", "sizes": "192x192", "type": "image/png", "purpose": "any maskable"},
       {"src": "%[2]s/icon-512x512.png", "sizes": "512x512", "type": "image/png", "purpose": "any"}
     ]
   }

2. Reference it from the HTML <head>:
   <link rel="manifest" href="%[2]s/manifest.json">
   <meta name="apple-mobile-web-app-capable" content="yes">
   <meta name="apple-mobile-web-app-title" content="Your App Name">
   <link rel="apple-touch-icon" href="%[2]s/icon-192x192.png">
   <meta name="theme-color" content="#YOUR_COLOR">
   <meta name="viewport" content="width=device-width, initial-scale=1">

3. Serve it as application/manifest+json:
   Apache:
   <Location "%[2]s/manifest.json">
       AddType application/manifest+json .json
   </Location>

   Nginx:
   location %[2]s/manifest.json {
       types { application/manifest+json json; }
   }

4. Create the icons:
   - https://%[1]s%[2]s/icon-192x192.png
   - https://%[1]s%[2]s/icon-512x512.png`, host, appPath),
	}
}

func fieldFix(pageURL, member string) string {
	return fmt.Sprintf("Add %s to your manifest.json at %s", member, manifestAt(pageURL))
}

func missingName(pageURL string) model.Suggestion {
	return model.Suggestion{
		Title:       "Missing Name",
		Description: "Name is required for PWA installation",
		Priority:    model.PriorityCritical,
		Remediation: fieldFix(pageURL, `"name": "Your App Name"`),
	}
}

func missingStartURL(pageURL string) model.Suggestion {
	_, appPath := location(pageURL)
	return model.Suggestion{
		Title:       "Missing Start URL",
		Description: "Start URL is required for PWA installation",
		Priority:    model.PriorityCritical,
		Remediation: fieldFix(pageURL, fmt.Sprintf(`"start_url": "%s/?source=pwa"`, appPath)),
	}
}

func iconsSnippet(appPath string) string {
	return fmt.Sprintf(`"icons": [
    {"src": "%[1]s/icon-192x192.png", "sizes": "192x192", "type": "image/png", "purpose": "any maskable"},
    {"src": "%[1]s/icon-512x512.png", "sizes": "512x512", "type": "image/png", "purpose": "any"}
]`, appPath)
}

func missingIcons(pageURL string) model.Suggestion {
	_, appPath := location(pageURL)
	return model.Suggestion{
		Title:       "Missing Icons",
		Description: "Icons are required for PWA installation",
		Priority:    model.PriorityCritical,
		Remediation: fmt.Sprintf("Add icons to your manifest.json at %s:\n%s", manifestAt(pageURL), iconsSnippet(appPath)),
	}
}

func incompleteIcons(pageURL string, issues []string) model.Suggestion {
	_, appPath := location(pageURL)
	return model.Suggestion{
		Title:       "Incomplete Icon Set",
		Description: strings.Join(issues, "; "),
		Priority:    model.PriorityHigh,
		Remediation: fmt.Sprintf("Provide 192x192, 512x512 and maskable icons in %s:\n%s\nMaskable icons can be prepared with https://maskable.app/editor", manifestAt(pageURL), iconsSnippet(appPath)),
	}
}

func missingShortName(pageURL string) model.Suggestion {
	return model.Suggestion{
		Title:       "Missing Short Name",
		Description: "Short name is used on the user's home screen",
		Priority:    model.PriorityHigh,
		Remediation: fieldFix(pageURL, `"short_name": "App"`),
	}
}

func missingDisplay(pageURL string) model.Suggestion {
	return model.Suggestion{
		Title:       "Missing Display Mode",
		Description: "Display mode defines how the app appears on launch",
		Priority:    model.PriorityHigh,
		Remediation: fieldFix(pageURL, `"display": "standalone"`),
	}
}

func missingBackground(pageURL string) model.Suggestion {
	return model.Suggestion{
		Title:       "Missing Background Color",
		Description: "Background color is shown during app load",
		Priority:    model.PriorityHigh,
		Remediation: fieldFix(pageURL, `"background_color": "#FFFFFF"`),
	}
}

func missingTheme(pageURL string) model.Suggestion {
	return model.Suggestion{
		Title:       "Missing Theme Color",
		Description: "Theme color defines the app's color scheme",
		Priority:    model.PriorityHigh,
		Remediation: fieldFix(pageURL, `"theme_color": "#000000"`),
	}
}
