// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API of the presentation studio.
// Handlers translate HTTP requests into workflow operations and map the
// workflow's error contract onto status codes; they never touch the
// presentation document directly.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"luminaslides/internal/ai"
	"luminaslides/internal/brand"
	"luminaslides/internal/studio"
)

// maxBodyBytes caps request bodies. Uploaded documents arrive base64
// encoded inside the JSON payload, so the cap leaves room for them.
const maxBodyBytes = 24 << 20

// Studio bundles the API's collaborators.
type Studio struct {
	workflow *studio.Workflow
	registry *ai.Registry
	brands   *brand.Store // nil when Valkey is unavailable

	// providerConfigs holds the boot-time settings per provider so a key
	// re-entered at runtime keeps the configured models and base URLs.
	providerConfigs map[string]ai.ProviderConfig
}

// NewStudio creates the API handler set.
func NewStudio(workflow *studio.Workflow, registry *ai.Registry, brands *brand.Store, providerConfigs map[string]ai.ProviderConfig) *Studio {
	return &Studio{
		workflow:        workflow,
		registry:        registry,
		brands:          brands,
		providerConfigs: providerConfigs,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON decodes a request body, rejecting unknown fields and
// oversized payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// writeWorkflowError maps the workflow and generation error contract onto
// HTTP status codes.
func writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, studio.ErrBusy), errors.Is(err, studio.ErrNotCompleted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, studio.ErrUnknownSlide):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, studio.ErrInvalidRequest), errors.Is(err, studio.ErrBadPoint):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ai.ErrCredentialInvalid):
		writeError(w, http.StatusUnauthorized, "AI credential rejected. Re-enter your API key.")
	case errors.Is(err, ai.ErrGenerationFailed):
		writeError(w, http.StatusBadGateway, "AI generation failed. Try again.")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// checkPromptSafety screens a user prompt through the moderation API.
// Returns false after writing the refusal response.
func (s *Studio) checkPromptSafety(w http.ResponseWriter, r *http.Request, prompt string) bool {
	result, err := s.registry.CheckPrompt(r.Context(), prompt)
	if err != nil {
		// Moderation is advisory; a moderation outage never blocks work.
		slog.Warn("prompt moderation unavailable", "error", err)
		return true
	}
	if !result.Safe {
		slog.Info("prompt rejected by moderation", "categories", result.Categories)
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":      "Prompt rejected by content moderation.",
			"categories": result.Categories,
		})
		return false
	}
	return true
}
