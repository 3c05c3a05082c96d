// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package brand

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"luminaslides/internal/deck"
)

const probePage = `<!doctype html>
<html><head>
<title>Acme Corp — Home</title>
<meta property="og:site_name" content="Acme Corp">
<meta name="description" content="We make everything.">
<meta name="theme-color" content="#112233">
<link rel="icon" href="/favicon.png">
</head><body></body></html>`

func probeServer(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProbe_FillsOnlyEmptyFields(t *testing.T) {
	srv := probeServer(t, probePage)

	in := &deck.Branding{
		Name:    "Already Known Inc",
		Sources: []deck.BrandSource{{URI: "https://known.test", Title: "Known"}},
	}

	got := NewProbe().FillGaps(context.Background(), srv.URL, in)

	// Established fields survive untouched.
	if got.Name != "Already Known Inc" {
		t.Errorf("name overwritten: %q", got.Name)
	}
	// Gaps are filled from page metadata.
	if got.Slogan != "We make everything." {
		t.Errorf("slogan: got %q", got.Slogan)
	}
	if got.PrimaryColor != "#112233" {
		t.Errorf("primaryColor: got %q", got.PrimaryColor)
	}
	if got.LogoURL != srv.URL+"/favicon.png" {
		t.Errorf("logoUrl: got %q", got.LogoURL)
	}
	// Scraped metadata never adds provenance.
	if len(got.Sources) != 1 || got.Sources[0].URI != "https://known.test" {
		t.Errorf("sources changed: %+v", got.Sources)
	}
	// The input itself is untouched.
	if in.Slogan != "" {
		t.Error("input branding mutated")
	}
}

func TestProbe_NameFromTitleFallback(t *testing.T) {
	srv := probeServer(t, `<html><head><title>Initech</title></head><body></body></html>`)

	got := NewProbe().FillGaps(context.Background(), srv.URL, &deck.Branding{})
	if got.Name != "Initech" {
		t.Errorf("name: got %q", got.Name)
	}
}

func TestProbe_PrefersOgImageForLogo(t *testing.T) {
	srv := probeServer(t, `<html><head>
<meta property="og:image" content="https://cdn.test/logo-large.png">
<link rel="icon" href="/favicon.ico">
</head><body></body></html>`)

	got := NewProbe().FillGaps(context.Background(), srv.URL, &deck.Branding{})
	if got.LogoURL != "https://cdn.test/logo-large.png" {
		t.Errorf("logoUrl: got %q", got.LogoURL)
	}
}

func TestProbe_RejectsNonHexThemeColor(t *testing.T) {
	srv := probeServer(t, `<html><head>
<meta name="theme-color" content="rebeccapurple">
</head><body></body></html>`)

	got := NewProbe().FillGaps(context.Background(), srv.URL, &deck.Branding{})
	if got.PrimaryColor != "" {
		t.Errorf("non-hex theme color must be ignored, got %q", got.PrimaryColor)
	}
}

func TestProbe_FetchFailureReturnsInput(t *testing.T) {
	srv := probeServer(t, probePage)
	srv.Close() // connection refused from here on

	in := &deck.Branding{Name: "Acme Corp"}
	got := NewProbe().FillGaps(context.Background(), srv.URL, in)
	if got != in {
		t.Error("fetch failure should return the input unchanged")
	}
}

func TestProbe_CompleteBrandingSkipsFetch(t *testing.T) {
	// No server at all: a fully populated branding never triggers a fetch.
	in := &deck.Branding{
		Name:         "Acme Corp",
		Slogan:       "We make everything",
		LogoURL:      "https://acme.test/logo.png",
		PrimaryColor: "#112233",
	}
	got := NewProbe().FillGaps(context.Background(), "http://127.0.0.1:1", in)
	if got != in {
		t.Error("complete branding should be returned as-is")
	}
}
