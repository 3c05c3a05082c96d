// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package brand

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"luminaslides/internal/deck"
)

// Probe fetches a brand's website and scrapes page metadata to fill
// fields the AI extraction left empty. It is strictly best-effort: any
// fetch or parse failure returns the input unchanged, it never overwrites
// a field the extractor established, and it never touches Sources since
// scraped metadata carries no research provenance.
type Probe struct {
	client *http.Client
}

// NewProbe creates a website probe.
func NewProbe() *Probe {
	return &Probe{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// FillGaps returns a copy of b with empty identity fields filled from the
// site's HTML metadata where possible.
func (p *Probe) FillGaps(ctx context.Context, siteURL string, b *deck.Branding) *deck.Branding {
	if b == nil {
		return nil
	}
	if b.Name != "" && b.Slogan != "" && b.LogoURL != "" && b.PrimaryColor != "" {
		return b
	}

	base, err := url.Parse(siteURL)
	if err != nil || base.Host == "" {
		return b
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
	if err != nil {
		return b
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return b
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return b
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return b
	}

	out := b.Clone()
	if out.Name == "" {
		out.Name = firstNonEmpty(
			metaContent(doc, `meta[property="og:site_name"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		)
	}
	if out.Slogan == "" {
		out.Slogan = firstNonEmpty(
			metaContent(doc, `meta[property="og:description"]`),
			metaContent(doc, `meta[name="description"]`),
		)
	}
	if out.LogoURL == "" {
		if icon := iconHref(doc); icon != "" {
			out.LogoURL = resolveRef(base, icon)
		}
	}
	if out.PrimaryColor == "" {
		if c := metaContent(doc, `meta[name="theme-color"]`); isHexColor(c) {
			out.PrimaryColor = c
		}
	}
	return out
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// iconHref picks the most logo-like image reference on the page.
func iconHref(doc *goquery.Document) string {
	if c := metaContent(doc, `meta[property="og:image"]`); c != "" {
		return c
	}
	for _, sel := range []string{
		`link[rel="apple-touch-icon"]`,
		`link[rel="icon"]`,
		`link[rel="shortcut icon"]`,
	} {
		if href, ok := doc.Find(sel).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
			return strings.TrimSpace(href)
		}
	}
	return ""
}

func resolveRef(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
