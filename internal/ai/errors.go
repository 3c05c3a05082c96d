// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// The two error kinds callers are allowed to distinguish. Everything a
// provider returns is wrapped in one of these; raw provider payloads never
// leave this package undigested.
var (
	// ErrCredentialInvalid marks a failure caused by a missing, expired or
	// revoked API key. The workflow treats it as fatal and asks the user to
	// re-enter the credential.
	ErrCredentialInvalid = errors.New("ai: credential invalid")

	// ErrGenerationFailed marks any other generation failure: transport
	// errors surface separately, but refusals, malformed output and server
	// errors all collapse into this.
	ErrGenerationFailed = errors.New("ai: generation failed")
)

// credentialSignals are response-body fragments that indicate a dead key
// even when the HTTP status alone is ambiguous. Gemini in particular
// reports a revoked key project as a 404 with "Requested entity was not
// found" rather than a 401.
var credentialSignals = []string{
	"Requested entity was not found",
	"API key not valid",
	"API_KEY_INVALID",
	"Incorrect API key provided",
	"invalid x-api-key",
}

// apiError classifies a non-2xx provider response into one of the two
// error kinds, keeping the body for debugging.
func apiError(provider string, status int, body []byte) error {
	text := string(body)
	if status == http.StatusUnauthorized || status == http.StatusForbidden || hasCredentialSignal(text) {
		return fmt.Errorf("%s API error (status %d): %s: %w", provider, status, text, ErrCredentialInvalid)
	}
	return fmt.Errorf("%s API error (status %d): %s: %w", provider, status, text, ErrGenerationFailed)
}

func hasCredentialSignal(body string) bool {
	for _, sig := range credentialSignals {
		if strings.Contains(body, sig) {
			return true
		}
	}
	return false
}
