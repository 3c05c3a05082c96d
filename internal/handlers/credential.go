// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
)

// CredentialStatus reports whether the active provider's key is usable
// and which providers are configured.
func (s *Studio) CredentialStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"credentialOk": s.workflow.CredentialOK(),
		"provider":     s.registry.ActiveName(),
		"available":    s.registry.Available(),
	})
}

// credentialPayload is the POST /api/credential/refresh body. Both fields
// are optional: a bare refresh re-arms the current provider after the
// user fixed the key out of band, an apiKey swaps the stored credential,
// a provider switches the active one.
type credentialPayload struct {
	Provider string `json:"provider,omitempty"`
	APIKey   string `json:"apiKey,omitempty"`
}

// CredentialRefresh re-arms generation after a credential failure.
func (s *Studio) CredentialRefresh(w http.ResponseWriter, r *http.Request) {
	var payload credentialPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	provider := strings.TrimSpace(payload.Provider)
	if provider == "" {
		provider = s.registry.ActiveName()
	}

	if key := strings.TrimSpace(payload.APIKey); key != "" {
		cfg := s.providerConfigs[provider]
		cfg.APIKey = key
		if err := s.registry.Replace(provider, cfg); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	if provider != s.registry.ActiveName() {
		if err := s.registry.SetActive(provider); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	if !s.registry.HasProvider(provider) {
		writeError(w, http.StatusUnprocessableEntity, "Provider has no API key configured.")
		return
	}

	s.workflow.MarkCredential(true)
	s.CredentialStatus(w, r)
}
