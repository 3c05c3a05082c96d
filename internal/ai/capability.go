// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"

	"luminaslides/internal/deck"
)

// Capabilities are optional interfaces providers implement on top of
// Provider. Not every provider has every capability: Gemini implements
// all five, OpenAI covers only the text-based ones. The Registry methods
// below assert the capability on the active provider and delegate; a
// capability mismatch is reported as a generation failure.

// OutlineSynthesizer generates a complete slide outline for a topic.
type OutlineSynthesizer interface {
	// SynthesizeOutline returns a validated presentation with fresh slide
	// ids, no images and no busy flags. A decode or validation failure
	// returns an error wrapping ErrGenerationFailed; the result is never
	// partially populated.
	SynthesizeOutline(ctx context.Context, req OutlineRequest) (*deck.Presentation, error)
}

// ImageSynthesizer generates and revises slide artwork.
type ImageSynthesizer interface {
	// SynthesizeImage returns a finished image as a base64 data URL.
	SynthesizeImage(ctx context.Context, req ImageRequest) (string, error)

	// RepaintImage revises an existing image per the instruction and
	// returns the new artwork as a base64 data URL.
	RepaintImage(ctx context.Context, req RepaintRequest) (string, error)
}

// SlideReviser applies a natural-language instruction to a single slide.
type SlideReviser interface {
	// ReviseSlide returns a partial update carrying only the fields the
	// instruction changed. It never invents a new slide identity.
	ReviseSlide(ctx context.Context, current *deck.Slide, instruction string) (deck.SlidePatch, error)
}

// BrandExtractor researches a company website and returns its identity.
type BrandExtractor interface {
	// ExtractBrandIdentity returns the brand identity for the given site,
	// with research citations attached as Sources.
	ExtractBrandIdentity(ctx context.Context, siteURL string) (*deck.Branding, error)
}

// DocumentSummarizer condenses an uploaded document into a topic line.
type DocumentSummarizer interface {
	// SummarizeDocumentTopic returns a single plain-text sentence naming
	// the document's subject, free of markup.
	SummarizeDocumentTopic(ctx context.Context, file deck.FilePart) (string, error)
}

// SynthesizeOutline calls the active provider's outline synthesis.
func (r *Registry) SynthesizeOutline(ctx context.Context, req OutlineRequest) (*deck.Presentation, error) {
	p, err := r.Active()
	if err != nil {
		return nil, err
	}
	o, ok := p.(OutlineSynthesizer)
	if !ok {
		return nil, fmt.Errorf("ai: provider %q does not support outline synthesis: %w", p.Name(), ErrGenerationFailed)
	}
	return o.SynthesizeOutline(ctx, req)
}

// SynthesizeImage calls the active provider's image generation if
// supported.
func (r *Registry) SynthesizeImage(ctx context.Context, req ImageRequest) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	ig, ok := p.(ImageSynthesizer)
	if !ok {
		return "", fmt.Errorf("ai: provider %q does not support image generation: %w", p.Name(), ErrGenerationFailed)
	}
	return ig.SynthesizeImage(ctx, req)
}

// RepaintImage calls the active provider's image revision if supported.
func (r *Registry) RepaintImage(ctx context.Context, req RepaintRequest) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	ig, ok := p.(ImageSynthesizer)
	if !ok {
		return "", fmt.Errorf("ai: provider %q does not support image generation: %w", p.Name(), ErrGenerationFailed)
	}
	return ig.RepaintImage(ctx, req)
}

// ReviseSlide calls the active provider's slide revision.
func (r *Registry) ReviseSlide(ctx context.Context, current *deck.Slide, instruction string) (deck.SlidePatch, error) {
	p, err := r.Active()
	if err != nil {
		return deck.SlidePatch{}, err
	}
	sr, ok := p.(SlideReviser)
	if !ok {
		return deck.SlidePatch{}, fmt.Errorf("ai: provider %q does not support slide revision: %w", p.Name(), ErrGenerationFailed)
	}
	return sr.ReviseSlide(ctx, current, instruction)
}

// ExtractBrandIdentity calls the active provider's brand research if
// supported.
func (r *Registry) ExtractBrandIdentity(ctx context.Context, siteURL string) (*deck.Branding, error) {
	p, err := r.Active()
	if err != nil {
		return nil, err
	}
	be, ok := p.(BrandExtractor)
	if !ok {
		return nil, fmt.Errorf("ai: provider %q does not support brand extraction: %w", p.Name(), ErrGenerationFailed)
	}
	return be.ExtractBrandIdentity(ctx, siteURL)
}

// SummarizeDocumentTopic calls the active provider's document analysis
// if supported.
func (r *Registry) SummarizeDocumentTopic(ctx context.Context, file deck.FilePart) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	ds, ok := p.(DocumentSummarizer)
	if !ok {
		return "", fmt.Errorf("ai: provider %q does not support document analysis: %w", p.Name(), ErrGenerationFailed)
	}
	return ds.SummarizeDocumentTopic(ctx, file)
}

// SupportsImageSynthesis returns true if the active provider can generate
// images. The workflow uses this to skip the image sweep entirely when
// the active provider is text-only.
func (r *Registry) SupportsImageSynthesis() bool {
	p, err := r.Active()
	if err != nil {
		return false
	}
	_, ok := p.(ImageSynthesizer)
	return ok
}
