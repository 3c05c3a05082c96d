// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"luminaslides/internal/deck"
)

// Wire types for the structured outline document the models return.
// These mirror the response schema sent with outline requests; decoding
// is strict and any shortfall fails the whole generation rather than
// producing a partially populated deck.

type outlineDoc struct {
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	OneLiner string         `json:"oneLiner"`
	Theme    string         `json:"theme"`
	Slides   []outlineSlide `json:"slides"`
}

type outlineSlide struct {
	Title         string           `json:"title"`
	Content       []string         `json:"content"`
	Layout        string           `json:"layout"`
	ComponentType string           `json:"componentType"`
	ChartData     []deck.ChartPoint `json:"chartData"`
	TableData     *deck.TableData  `json:"tableData"`
	Icons         []string         `json:"icons"`
	ImagePrompt   string           `json:"imagePrompt"`
}

// patchDoc is the wire shape of a slide revision. Pointer fields
// distinguish "absent" from "set to zero" so untouched fields survive.
type patchDoc struct {
	Title         *string           `json:"title"`
	Content       []string          `json:"content"`
	Layout        *string           `json:"layout"`
	ComponentType *string           `json:"componentType"`
	ChartData     []deck.ChartPoint `json:"chartData"`
	TableData     *deck.TableData   `json:"tableData"`
	Icons         []string          `json:"icons"`
	ImagePrompt   *string           `json:"imagePrompt"`
}

// decodeOutline parses and validates a model's outline JSON into a ready
// presentation: fresh slide ids, no images, no busy flags. Every
// validation failure wraps ErrGenerationFailed.
func decodeOutline(raw string, req OutlineRequest) (*deck.Presentation, error) {
	spec := deck.SpecFor(req.Mode)

	var doc outlineDoc
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &doc); err != nil {
		return nil, fmt.Errorf("outline unmarshal: %v: %w", err, ErrGenerationFailed)
	}

	if strings.TrimSpace(doc.Title) == "" {
		return nil, fmt.Errorf("outline missing title: %w", ErrGenerationFailed)
	}
	if len(doc.Slides) < spec.SlideCount {
		return nil, fmt.Errorf("outline returned %d slides, want %d: %w",
			len(doc.Slides), spec.SlideCount, ErrGenerationFailed)
	}
	// Extra slides past the requested count are dropped, never an error.
	doc.Slides = doc.Slides[:spec.SlideCount]

	p := &deck.Presentation{
		Topic:    req.Topic,
		Title:    strings.TrimSpace(doc.Title),
		Subtitle: strings.TrimSpace(doc.Subtitle),
		OneLiner: strings.TrimSpace(doc.OneLiner),
		Mode:     req.Mode,
		Slides:   make([]*deck.Slide, 0, spec.SlideCount),
	}
	if spec.WantsTheme {
		p.Theme = strings.TrimSpace(doc.Theme)
	}
	if req.Branding != nil {
		p.Branding = req.Branding.Clone()
	}

	for i, ws := range doc.Slides {
		s, err := decodeOutlineSlide(i, ws, spec)
		if err != nil {
			return nil, err
		}
		p.Slides = append(p.Slides, s)
	}

	return p, nil
}

func decodeOutlineSlide(i int, ws outlineSlide, spec deck.ModeSpec) (*deck.Slide, error) {
	if strings.TrimSpace(ws.Title) == "" {
		return nil, fmt.Errorf("slide %d missing title: %w", i+1, ErrGenerationFailed)
	}

	layout := deck.Layout(ws.Layout)
	if !deck.ValidLayout(layout) {
		return nil, fmt.Errorf("slide %d has unknown layout %q: %w", i+1, ws.Layout, ErrGenerationFailed)
	}

	component := deck.ComponentType(ws.ComponentType)
	if ws.ComponentType == "" {
		component = deck.ComponentList
	} else if !deck.ValidComponentType(component) {
		return nil, fmt.Errorf("slide %d has unknown componentType %q: %w", i+1, ws.ComponentType, ErrGenerationFailed)
	}

	if spec.SweepsImages && strings.TrimSpace(ws.ImagePrompt) == "" {
		return nil, fmt.Errorf("slide %d missing imagePrompt: %w", i+1, ErrGenerationFailed)
	}

	s := &deck.Slide{
		ID:            deck.NewSlideID(),
		Title:         strings.TrimSpace(ws.Title),
		Content:       append([]string(nil), ws.Content...),
		Layout:        layout,
		ComponentType: component,
		ImagePrompt:   strings.TrimSpace(ws.ImagePrompt),
	}

	switch component {
	case deck.ComponentChart:
		if len(ws.ChartData) == 0 {
			return nil, fmt.Errorf("slide %d is a chart without chartData: %w", i+1, ErrGenerationFailed)
		}
		s.ChartData = append([]deck.ChartPoint(nil), ws.ChartData...)
	case deck.ComponentTable:
		if ws.TableData == nil || len(ws.TableData.Headers) == 0 {
			return nil, fmt.Errorf("slide %d is a table without tableData: %w", i+1, ErrGenerationFailed)
		}
		for r, row := range ws.TableData.Rows {
			if len(row) != len(ws.TableData.Headers) {
				return nil, fmt.Errorf("slide %d table row %d has %d cells, want %d: %w",
					i+1, r+1, len(row), len(ws.TableData.Headers), ErrGenerationFailed)
			}
		}
		s.TableData = ws.TableData.Clone()
	case deck.ComponentIcons:
		// Icons are index-aligned with content points.
		if len(ws.Icons) != len(ws.Content) {
			return nil, fmt.Errorf("slide %d has %d icons for %d content points: %w",
				i+1, len(ws.Icons), len(ws.Content), ErrGenerationFailed)
		}
		s.Icons = append([]string(nil), ws.Icons...)
	}

	return s, nil
}

// decodeSlidePatch parses a model's revision JSON into a partial update.
// Fields the model did not mention stay nil and survive the merge.
func decodeSlidePatch(raw string) (deck.SlidePatch, error) {
	var doc patchDoc
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &doc); err != nil {
		return deck.SlidePatch{}, fmt.Errorf("revision unmarshal: %v: %w", err, ErrGenerationFailed)
	}

	patch := deck.SlidePatch{
		Title:       doc.Title,
		Content:     doc.Content,
		ChartData:   doc.ChartData,
		TableData:   doc.TableData,
		Icons:       doc.Icons,
		ImagePrompt: doc.ImagePrompt,
	}
	if doc.Layout != nil {
		l := deck.Layout(*doc.Layout)
		if !deck.ValidLayout(l) {
			return deck.SlidePatch{}, fmt.Errorf("revision has unknown layout %q: %w", *doc.Layout, ErrGenerationFailed)
		}
		patch.Layout = &l
	}
	if doc.ComponentType != nil {
		c := deck.ComponentType(*doc.ComponentType)
		if !deck.ValidComponentType(c) {
			return deck.SlidePatch{}, fmt.Errorf("revision has unknown componentType %q: %w", *doc.ComponentType, ErrGenerationFailed)
		}
		patch.ComponentType = &c
	}
	if doc.TableData != nil {
		for r, row := range doc.TableData.Rows {
			if len(row) != len(doc.TableData.Headers) {
				return deck.SlidePatch{}, fmt.Errorf("revision table row %d has %d cells, want %d: %w",
					r+1, len(row), len(doc.TableData.Headers), ErrGenerationFailed)
			}
		}
	}
	return patch, nil
}

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// stripCodeFence unwraps a markdown code fence if the model wrapped its
// JSON in one despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

var markupChars = regexp.MustCompile("[*_`#>~\\[\\]]")

// stripMarkup flattens markdown decoration out of a model's free-text
// answer, leaving a plain sentence.
func stripMarkup(s string) string {
	s = markupChars.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// encodeDataURL wraps already-base64 image data in a data URL.
func encodeDataURL(mimeType, b64 string) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + b64
}

// splitDataURL unwraps a base64 data URL into its MIME type and payload.
func splitDataURL(s string) (mimeType, b64 string, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", "", fmt.Errorf("not a data URL")
	}
	mimeType, b64, ok = strings.Cut(rest, ";base64,")
	if !ok || mimeType == "" || b64 == "" {
		return "", "", fmt.Errorf("malformed data URL")
	}
	return mimeType, b64, nil
}
