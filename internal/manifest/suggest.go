package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gujord/pwa-validator/internal/browser"
	"github.com/gujord/pwa-validator/internal/model"
)

const shortNameMax = 12

const metadataScript = `(function () {
  function content(sel) {
    var el = document.querySelector(sel);
    return el && el.getAttribute("content") ? String(el.getAttribute("content")) : "";
  }
  function href(sel) {
    var el = document.querySelector(sel);
    return el && el.href ? String(el.href) : "";
  }
  return {
    title: document.title ? String(document.title) : "",
    description: content('meta[name="description"]'),
    themeColor: content('meta[name="theme-color"]'),
    icon: href('link[rel="icon"]') || href('link[rel="shortcut icon"]'),
    appleTouchIcon: href('link[rel="apple-touch-icon"]')
  };
})()`

// PageMetadata is what the page already declares about itself.
type PageMetadata struct {
	Title          string
	Description    string
	ThemeColor     string
	Icon           string
	AppleTouchIcon string
}

// ReadMetadata collects PageMetadata from the live page.
func ReadMetadata(ctx context.Context, page browser.Evaluator) (PageMetadata, error) {
	v, err := page.Evaluate(ctx, metadataScript)
	if err != nil {
		return PageMetadata{}, err
	}
	m := browser.Map(v)
	return PageMetadata{
		Title:          strings.TrimSpace(browser.String(m["title"])),
		Description:    browser.String(m["description"]),
		ThemeColor:     browser.String(m["themeColor"]),
		Icon:           browser.String(m["icon"]),
		AppleTouchIcon: browser.String(m["appleTouchIcon"]),
	}, nil
}

// suggestedManifest mirrors a manifest document with member order fixed for
// printing.
type suggestedManifest struct {
	Name            string       `json:"name"`
	ShortName       string       `json:"short_name"`
	Description     string       `json:"description"`
	StartURL        string       `json:"start_url"`
	Display         string       `json:"display"`
	BackgroundColor string       `json:"background_color"`
	ThemeColor      string       `json:"theme_color"`
	Scope           string       `json:"scope"`
	Icons           []model.Icon `json:"icons"`
	Screenshots     []screenshot `json:"screenshots"`
}

type screenshot struct {
	Src        string `json:"src"`
	Sizes      string `json:"sizes"`
	Type       string `json:"type"`
	FormFactor string `json:"form_factor"`
}

// Suggest builds a starter manifest for pageURL from the page metadata.
func Suggest(meta PageMetadata, pageURL string) ([]byte, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	name := meta.Title
	if name == "" {
		label, _, _ := strings.Cut(u.Hostname(), ".")
		name = cases.Title(language.Und).String(label)
	}
	shortName := name
	if r := []rune(name); len(r) > shortNameMax {
		shortName = string(r[:shortNameMax])
	}
	description := meta.Description
	if description == "" {
		description = "Progressive Web App for " + name
	}
	theme := meta.ThemeColor
	if theme == "" {
		theme = "#000000"
	}
	scope := u.Path
	if scope == "" {
		scope = "/"
	}

	doc := suggestedManifest{
		Name:            name,
		ShortName:       shortName,
		Description:     description,
		StartURL:        "/",
		Display:         "standalone",
		BackgroundColor: "#FFFFFF",
		ThemeColor:      theme,
		Scope:           scope,
		Icons: []model.Icon{
			{Src: "/icons/icon-192x192.png", Sizes: "192x192", Type: "image/png"},
			{Src: "/icons/icon-512x512.png", Sizes: "512x512", Type: "image/png"},
			{Src: "/icons/icon-192x192-maskable.png", Sizes: "192x192", Type: "image/png", Purpose: "maskable"},
		},
		Screenshots: []screenshot{
			{Src: "/screenshots/desktop.png", Sizes: "1280x720", Type: "image/png", FormFactor: "wide"},
			{Src: "/screenshots/mobile.png", Sizes: "750x1334", Type: "image/png", FormFactor: "narrow"},
		},
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Guide wraps a suggested manifest in step-by-step instructions.
func Guide(meta PageMetadata, pageURL string) (string, error) {
	doc, err := Suggest(meta, pageURL)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Suggested manifest.json Implementation:\n")
	fmt.Fprintf(&b, "1. Create a manifest.json file in your root directory with the following content:\n\n%s\n\n", doc)
	fmt.Fprintf(&b, "2. Add the following link tag to your HTML <head> section:\n   <link rel=\"manifest\" href=\"/manifest.json\">\n\n")
	fmt.Fprintf(&b, "3. Create the following icon files:\n")
	fmt.Fprintf(&b, "   - /icons/icon-192x192.png (192x192 pixels)\n")
	fmt.Fprintf(&b, "   - /icons/icon-512x512.png (512x512 pixels)\n")
	fmt.Fprintf(&b, "   - /icons/icon-192x192-maskable.png (192x192 pixels with maskable support)\n")
	if src := firstNonEmpty(meta.AppleTouchIcon, meta.Icon); src != "" {
		fmt.Fprintf(&b, "   The existing page icon %s can serve as the source image.\n", src)
	}
	fmt.Fprintf(&b, "\n4. Create screenshot files:\n")
	fmt.Fprintf(&b, "   - /screenshots/desktop.png (1280x720 pixels)\n")
	fmt.Fprintf(&b, "   - /screenshots/mobile.png (750x1334 pixels)\n\n")
	fmt.Fprintf(&b, "5. Ensure your server sends the correct MIME type for the manifest:\n")
	fmt.Fprintf(&b, "   Content-Type: application/manifest+json")
	return b.String(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
