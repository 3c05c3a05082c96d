// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"luminaslides/internal/deck"
)

// BrandGet returns the active brand identity, 404 when none is set.
func (s *Studio) BrandGet(w http.ResponseWriter, r *http.Request) {
	if s.brands == nil {
		writeError(w, http.StatusServiceUnavailable, "Brand storage is not configured.")
		return
	}
	b, err := s.brands.Active(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if b == nil {
		writeError(w, http.StatusNotFound, "No brand identity is set.")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// BrandPut stores a manually edited brand identity.
func (s *Studio) BrandPut(w http.ResponseWriter, r *http.Request) {
	if s.brands == nil {
		writeError(w, http.StatusServiceUnavailable, "Brand storage is not configured.")
		return
	}
	var b deck.Branding
	if !decodeJSON(w, r, &b) {
		return
	}
	if strings.TrimSpace(b.Name) == "" {
		writeError(w, http.StatusUnprocessableEntity, "Brand name is required.")
		return
	}
	if err := s.brands.SaveActive(r.Context(), &b); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, &b)
}

// BrandDelete removes the active brand identity.
func (s *Studio) BrandDelete(w http.ResponseWriter, r *http.Request) {
	if s.brands == nil {
		writeError(w, http.StatusServiceUnavailable, "Brand storage is not configured.")
		return
	}
	if err := s.brands.ClearActive(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// extractPayload is the POST /api/brand/extract body.
type extractPayload struct {
	URL string `json:"url"`
}

// BrandExtract researches a company website and stores the extracted
// identity as active.
func (s *Studio) BrandExtract(w http.ResponseWriter, r *http.Request) {
	var payload extractPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	siteURL := strings.TrimSpace(payload.URL)
	if msg := validateSiteURL(siteURL); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	b, err := s.workflow.ExtractBrand(r.Context(), siteURL)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// validateSiteURL checks an extraction target URL.
func validateSiteURL(siteURL string) string {
	if siteURL == "" {
		return "URL is required."
	}
	if utf8.RuneCountInString(siteURL) > maxSiteURLLen {
		return "URL is too long."
	}
	u, err := url.Parse(siteURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "URL must be a valid http(s) address."
	}
	return ""
}
