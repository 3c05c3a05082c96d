// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package deck defines the in-memory presentation document model and its
// pure update operations. The model is the single source of truth for the
// generation workflow: the orchestrator mutates it through the operations
// in update.go, and everything else (HTTP handlers, the PPTX exporter)
// consumes read-only snapshots.
package deck

import (
	"github.com/google/uuid"
)

// Mode selects the overall generation strategy for a presentation.
type Mode string

const (
	// ModeIntelligent produces structured, data-driven slides with no imagery.
	ModeIntelligent Mode = "INTELLIGENT"
	// ModeInfographic produces slides where the generated image IS the slide,
	// with all text baked into the artwork.
	ModeInfographic Mode = "INFOGRAPHIC"
	// ModeHybrid produces text overlaid on generated backdrop images.
	ModeHybrid Mode = "HYBRID"
)

// Layout controls slide geometry in the renderer and the exporter.
type Layout string

const (
	LayoutHero    Layout = "hero"
	LayoutSplit   Layout = "split"
	LayoutFocus   Layout = "focus"
	LayoutMinimal Layout = "minimal"
	LayoutBento   Layout = "bento"
)

// ComponentType selects which structured sub-model a slide carries.
type ComponentType string

const (
	ComponentGrid       ComponentType = "grid"
	ComponentList       ComponentType = "list"
	ComponentSteps      ComponentType = "steps"
	ComponentStat       ComponentType = "stat"
	ComponentComparison ComponentType = "comparison"
	ComponentChart      ComponentType = "chart"
	ComponentTable      ComponentType = "table"
	ComponentTimeline   ComponentType = "timeline"
	ComponentIcons      ComponentType = "icons"
)

// ValidMode reports whether m is one of the three presentation modes.
func ValidMode(m Mode) bool {
	switch m {
	case ModeIntelligent, ModeInfographic, ModeHybrid:
		return true
	}
	return false
}

// ValidLayout reports whether l is a known layout value.
func ValidLayout(l Layout) bool {
	switch l {
	case LayoutHero, LayoutSplit, LayoutFocus, LayoutMinimal, LayoutBento:
		return true
	}
	return false
}

// ValidComponentType reports whether c is a known component type.
func ValidComponentType(c ComponentType) bool {
	switch c {
	case ComponentGrid, ComponentList, ComponentSteps, ComponentStat,
		ComponentComparison, ComponentChart, ComponentTable,
		ComponentTimeline, ComponentIcons:
		return true
	}
	return false
}

// ChartPoint is a single labelled value in a bar chart slide.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TableData holds a table slide's header row and body rows. Producers
// guarantee every row has exactly len(Headers) cells.
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// BrandSource is a provenance record for a fact gathered via web-grounded
// brand extraction. Sources must be retained and surfaced wherever the
// branding is rendered.
type BrandSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Branding carries brand identity applied to generation prompts and export.
// Colors are hex triplets (e.g. "#112233").
type Branding struct {
	Name           string        `json:"name"`
	Slogan         string        `json:"slogan,omitempty"`
	LogoURL        string        `json:"logoUrl,omitempty"`
	PrimaryColor   string        `json:"primaryColor"`
	SecondaryColor string        `json:"secondaryColor"`
	Sources        []BrandSource `json:"sources,omitempty"`
}

// FilePart is an opaque uploaded document payload passed through to the
// generation client. The workflow never inspects its contents.
type FilePart struct {
	Data     string `json:"data"` // base64
	MimeType string `json:"mimeType"`
}

// Slide is one slide of a presentation.
type Slide struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Content       []string      `json:"content"`
	Layout        Layout        `json:"layout"`
	ComponentType ComponentType `json:"componentType"`
	ChartData     []ChartPoint  `json:"chartData,omitempty"`
	TableData     *TableData    `json:"tableData,omitempty"`
	Icons         []string      `json:"icons,omitempty"`
	ImagePrompt   string        `json:"imagePrompt"`
	// ImageURL is a self-contained data URL payload, never a remote
	// reference, so exported decks stay valid offline.
	ImageURL          string `json:"imageUrl,omitempty"`
	IsGeneratingImage bool   `json:"isGeneratingImage,omitempty"`
}

// Presentation is the root aggregate. Owned exclusively by the workflow
// while generation is in flight; everyone else gets clones.
type Presentation struct {
	Topic    string    `json:"topic"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	OneLiner string    `json:"oneLiner,omitempty"`
	Mode     Mode      `json:"mode"`
	Theme    string    `json:"theme,omitempty"`
	Branding *Branding `json:"branding,omitempty"`
	Date     string    `json:"date"`
	Slides   []*Slide  `json:"slides"`
}

// NewSlideID returns a fresh unique slide identifier. IDs are stable for
// the lifetime of a slide and never reused.
func NewSlideID() string {
	return "slide-" + uuid.NewString()
}

// SlideByID returns the index and slide with the given id, or -1 and nil.
func (p *Presentation) SlideByID(id string) (int, *Slide) {
	for i, s := range p.Slides {
		if s.ID == id {
			return i, s
		}
	}
	return -1, nil
}

// Clone returns a deep copy of the table.
func (t *TableData) Clone() *TableData {
	if t == nil {
		return nil
	}
	c := &TableData{Headers: append([]string(nil), t.Headers...)}
	for _, row := range t.Rows {
		c.Rows = append(c.Rows, append([]string(nil), row...))
	}
	return c
}

// Clone returns a deep copy of the slide.
func (s *Slide) Clone() *Slide {
	c := *s
	c.Content = append([]string(nil), s.Content...)
	c.ChartData = append([]ChartPoint(nil), s.ChartData...)
	c.Icons = append([]string(nil), s.Icons...)
	c.TableData = s.TableData.Clone()
	return &c
}

// Clone returns a deep copy of the branding value.
func (b *Branding) Clone() *Branding {
	if b == nil {
		return nil
	}
	c := *b
	c.Sources = append([]BrandSource(nil), b.Sources...)
	return &c
}

// Clone returns a deep copy of the presentation, safe to hand to consumers
// outside the workflow.
func (p *Presentation) Clone() *Presentation {
	if p == nil {
		return nil
	}
	c := *p
	c.Branding = p.Branding.Clone()
	c.Slides = make([]*Slide, len(p.Slides))
	for i, s := range p.Slides {
		c.Slides[i] = s.Clone()
	}
	return &c
}
