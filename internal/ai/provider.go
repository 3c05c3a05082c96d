// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai is the generation client: a unified interface over the LLM
// providers that power outline synthesis, slide imagery, targeted slide
// edits, brand extraction and document analysis. Each provider handles its
// own HTTP communication and response parsing; the Registry selects the
// active one by name. Callers receive fully validated deck values and one
// of two error kinds, never raw provider payloads.
package ai

import (
	"context"
	"fmt"
	"sync"

	"luminaslides/internal/deck"
)

// Provider is the minimal interface every AI provider implements. The
// actual generation operations are optional capabilities discovered by
// type assertion (see capability.go).
type Provider interface {
	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey     string
	Model      string
	ModelImage string
	BaseURL    string
}

// Registry manages available AI providers and selects the active one.
// It supports runtime switching by changing the active provider name.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
	moderator Moderator // may be nil if no moderation API is available
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are silently skipped.
// When an OpenAI key is present its free moderation endpoint screens
// prompts before generation.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		active:    active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "gemini":
			r.providers[name] = newGemini(cfg)
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		}
	}

	if cfg, ok := configs["openai"]; ok && cfg.APIKey != "" {
		r.moderator = newOpenAIModerator(cfg.APIKey, cfg.BaseURL)
	}

	return r
}

// Active returns the currently active provider. A missing provider is a
// credential problem: the key was never set or was cleared after a failure.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q: %w", r.active, ErrCredentialInvalid)
	}
	return p, nil
}

// SetActive switches the active provider at runtime. Returns an error if
// the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the names of all providers that have valid API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Register adds or replaces a provider in the registry. This allows
// injecting custom providers at runtime (e.g. for testing).
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// Replace swaps the credentials of a named provider. Used when the user
// re-enters an API key after a credential failure. An empty key removes
// the provider.
func (r *Registry) Replace(name string, cfg ProviderConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg.APIKey == "" {
		delete(r.providers, name)
		return nil
	}
	switch name {
	case "gemini":
		r.providers[name] = newGemini(cfg)
	case "openai":
		r.providers[name] = newOpenAI(cfg)
	default:
		return fmt.Errorf("ai: unknown provider %q", name)
	}
	return nil
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}

// CheckPrompt runs the user prompt through the moderation API before
// generation. Returns a safe result if no moderator is configured;
// providers still have their own built-in safety filters.
func (r *Registry) CheckPrompt(ctx context.Context, prompt string) (*ModerationResult, error) {
	if r.moderator == nil {
		return &ModerationResult{Safe: true}, nil
	}
	return r.moderator.CheckSafety(ctx, prompt)
}

// OutlineRequest describes a full-deck generation request.
type OutlineRequest struct {
	// Topic is the plain-text subject of the deck, either user-entered or
	// synthesized from an uploaded document.
	Topic string
	// Mode selects the generation policy (see deck.SpecFor).
	Mode deck.Mode
	// File optionally grounds the outline in an uploaded document.
	File *deck.FilePart
	// Theme is an optional user-preferred visual theme. Only honored by
	// modes that carry a theme; the model still refines it.
	Theme string
	// Branding optionally weaves an extracted brand identity into the copy.
	Branding *deck.Branding
}

// ImageRequest describes a single slide's artwork request.
type ImageRequest struct {
	// Prompt is the slide's art-direction text.
	Prompt string
	// Theme is the deck-wide visual theme, empty when the mode has none.
	Theme string
	// Mode decides whether slide text must be baked into the artwork.
	Mode deck.Mode
	// Title and Content are rendered into the image when the mode bakes
	// text, and kept out of it otherwise.
	Title   string
	Content []string
	// Branding optionally constrains the palette.
	Branding *deck.Branding
}

// RepaintRequest asks for a revision of an existing slide image.
type RepaintRequest struct {
	// ImageDataURL is the current artwork as a base64 data URL.
	ImageDataURL string
	// Instruction is the user's natural-language change request.
	Instruction string
}
