package htmlscan

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// MaxBody caps how much of a page is read for parsing.
const MaxBody = 2 << 20

// ShouldFetchBody checks if content-type indicates HTML.
func ShouldFetchBody(ct string) bool {
	return ct == "" || strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// Element is one parsed element with its attributes.
type Element struct {
	Tag   string
	Attrs map[string]string
	Text  string
}

// Attr returns the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[strings.ToLower(name)]
	return v, ok
}

// Document is a flattened snapshot of a page in document order.
type Document struct {
	URL      *url.URL
	Title    string
	Elements []*Element

	root  *html.Node
	nodes map[*html.Node]*Element
}

// Parse reads at most limit bytes of r and builds a Document whose relative
// references resolve against base.
func Parse(r io.Reader, limit int64, base *url.URL) (*Document, error) {
	root, err := html.Parse(io.LimitReader(r, limit))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := &Document{URL: base, root: root, nodes: make(map[*html.Node]*Element)}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			el := &Element{Tag: strings.ToLower(n.Data), Attrs: make(map[string]string, len(n.Attr))}
			for _, a := range n.Attr {
				el.Attrs[strings.ToLower(a.Key)] = a.Val
			}
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				el.Text = strings.TrimSpace(n.FirstChild.Data)
			}
			if el.Tag == "title" && doc.Title == "" {
				doc.Title = el.Text
			}
			doc.Elements = append(doc.Elements, el)
			doc.nodes[n] = el
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return doc, nil
}

// Resolve turns ref into an absolute URL against the document URL.
func (d *Document) Resolve(ref string) string {
	if d.URL == nil {
		return ref
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ref
	}
	return d.URL.ResolveReference(u).String()
}

// QuerySelectorAll returns every element matching the CSS selector sel in
// document order.
func (d *Document) QuerySelectorAll(sel string) ([]*Element, error) {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("unsupported selector %q: %w", sel, err)
	}
	if d.root == nil {
		return nil, nil
	}
	var out []*Element
	for _, n := range s.MatchAll(d.root) {
		if el, ok := d.nodes[n]; ok {
			out = append(out, el)
		}
	}
	return out, nil
}

// QuerySelector returns the first element matching sel, or nil.
func (d *Document) QuerySelector(sel string) (*Element, error) {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("unsupported selector %q: %w", sel, err)
	}
	if d.root == nil {
		return nil, nil
	}
	if n := s.MatchFirst(d.root); n != nil {
		return d.nodes[n], nil
	}
	return nil, nil
}
