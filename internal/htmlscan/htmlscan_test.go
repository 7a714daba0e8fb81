package htmlscan

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!doctype html>
<html><head>
<title>Field Notes</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="description" content="Notes app">
<link rel="icon" href="/favicon.ico">
<link rel="manifest" href="manifest.webmanifest" data-react-helmet="true">
<link rel="preload" href="/static/manifest-chunk.js">
</head><body><h1>Hi</h1></body></html>`

func parse(t *testing.T) *Document {
	t.Helper()
	base, err := url.Parse("https://example.com/app/")
	require.NoError(t, err)
	doc, err := Parse(strings.NewReader(page), MaxBody, base)
	require.NoError(t, err)
	return doc
}

func TestParse(t *testing.T) {
	doc := parse(t)
	assert.Equal(t, "Field Notes", doc.Title)
	assert.Equal(t, "https://example.com/app/manifest.webmanifest", doc.Resolve("manifest.webmanifest"))
}

func TestQuerySelector(t *testing.T) {
	doc := parse(t)
	tests := []struct {
		sel  string
		want string
	}{
		{`link[rel="manifest"]`, "manifest.webmanifest"},
		{`link[rel='icon']`, "/favicon.ico"},
		{`link[href*="manifest"]`, "manifest.webmanifest"},
		{`link[rel=preload][href$=".js"]`, "/static/manifest-chunk.js"},
		{`link[rel="apple-touch-icon"], link[rel~="icon"]`, "/favicon.ico"},
	}
	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			el, err := doc.QuerySelector(tt.sel)
			require.NoError(t, err)
			require.NotNil(t, el)
			href, _ := el.Attr("href")
			assert.Equal(t, tt.want, href)
		})
	}

	el, err := doc.QuerySelector(`meta[name='viewport']`)
	require.NoError(t, err)
	require.NotNil(t, el)
	content, _ := el.Attr("content")
	assert.Contains(t, content, "width=device-width")

	el, err = doc.QuerySelector(`link[rel="apple-touch-icon"]`)
	require.NoError(t, err)
	assert.Nil(t, el)
}

func TestQuerySelectorAll(t *testing.T) {
	doc := parse(t)
	all, err := doc.QuerySelectorAll(`link[href*="manifest"]`)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestQuerySelectorCombinators(t *testing.T) {
	doc := parse(t)
	all, err := doc.QuerySelectorAll(`head > link[rel]:not([rel="preload"])`)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "icon", all[0].Attrs["rel"])
	assert.Equal(t, "manifest", all[1].Attrs["rel"])
}

func TestUnsupportedSelector(t *testing.T) {
	doc := parse(t)
	_, err := doc.QuerySelector(`link[rel=`)
	assert.Error(t, err)
	_, err = doc.QuerySelectorAll(`>>`)
	assert.Error(t, err)
}

func TestQuerySelectorEmptyDocument(t *testing.T) {
	doc := &Document{}
	el, err := doc.QuerySelector("link")
	require.NoError(t, err)
	assert.Nil(t, el)
}
