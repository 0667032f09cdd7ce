package crawler

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// linkSelector matches the elements whose href may point to another page.
const linkSelector = "a, link"

// Extractor collects candidate page links from HTML.
type Extractor struct {
	normalizer *Normalizer
}

// NewExtractor returns an Extractor that scopes links with normalizer.
func NewExtractor(normalizer *Normalizer) *Extractor {
	return &Extractor{normalizer: normalizer}
}

// Extract parses body and returns the normalized links it references.
// Only hrefs whose path has no file extension are kept, so stylesheets,
// scripts and images are never followed. The result is deduplicated.
func (e *Extractor) Extract(body string) URLSet {
	links := make(URLSet)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		// x/net/html recovers from almost anything; an error here means
		// the reader itself failed.
		return links
	}

	doc.Find(linkSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		if hasExtension(href) {
			return
		}
		if normalized, ok := e.normalizer.Normalize(href); ok {
			links.Add(normalized)
		}
	})

	return links
}

// hasExtension reports whether the path component of href ends in a file
// extension. Unparsable hrefs are reported as having none; the normalizer
// rejects them later.
func hasExtension(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return path.Ext(u.Path) != ""
}
