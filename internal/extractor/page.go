package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page is the fetched text of one video page plus the URL it came from.
// It is scoped to a single resolve call and never shared.
type Page struct {
	URL  string
	Body string

	doc    *goquery.Document
	docErr error
}

// NewPage wraps fetched page text for extraction.
func NewPage(pageURL, body string) *Page {
	return &Page{URL: pageURL, Body: body}
}

// Document lazily parses the page body as HTML. The parse happens at most
// once; DOM strategies share the result.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc == nil && p.docErr == nil {
		p.doc, p.docErr = goquery.NewDocumentFromReader(strings.NewReader(p.Body))
	}
	return p.doc, p.docErr
}

// CleanURL unescapes JSON string escaping in a raw extracted URL and
// upgrades it to an absolute https URL, resolving page-relative paths
// against the page's own URL. The transform is a fixed point: applying it
// twice yields the same output as applying it once.
func (p *Page) CleanURL(raw string) string {
	clean := strings.ReplaceAll(raw, `\/`, "/")
	clean = strings.ReplaceAll(clean, `\`, "")
	clean = strings.TrimSpace(clean)

	switch {
	case clean == "":
		return ""
	case strings.HasPrefix(clean, "//"):
		return "https:" + clean
	case strings.HasPrefix(clean, "http://"), strings.HasPrefix(clean, "https://"):
		return clean
	}

	base, err := url.Parse(p.URL)
	if err != nil {
		return clean
	}
	ref, err := url.Parse(clean)
	if err != nil {
		return clean
	}
	return base.ResolveReference(ref).String()
}
