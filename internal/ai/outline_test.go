// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"luminaslides/internal/deck"
)

// outlineFixture builds a valid outline document with n slides, as a
// model in JSON mode would return it.
func outlineFixture(n int) outlineDoc {
	doc := outlineDoc{
		Title:    "Quantum Computing",
		Subtitle: "The next leap",
		OneLiner: "Qubits change everything",
		Theme:    "deep space",
	}
	for i := 0; i < n; i++ {
		doc.Slides = append(doc.Slides, outlineSlide{
			Title:         fmt.Sprintf("Slide %d", i+1),
			Content:       []string{"point one", "point two"},
			Layout:        "split",
			ComponentType: "list",
			ImagePrompt:   "a glowing quantum chip",
		})
	}
	return doc
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return string(b)
}

func TestDecodeOutline_Success(t *testing.T) {
	req := OutlineRequest{Topic: "quantum computing", Mode: deck.ModeHybrid}
	p, err := decodeOutline(mustJSON(t, outlineFixture(6)), req)
	if err != nil {
		t.Fatalf("decodeOutline: %v", err)
	}

	if p.Topic != "quantum computing" {
		t.Errorf("topic: got %q", p.Topic)
	}
	if p.Mode != deck.ModeHybrid {
		t.Errorf("mode: got %q", p.Mode)
	}
	if p.Theme != "deep space" {
		t.Errorf("theme: got %q", p.Theme)
	}
	if len(p.Slides) != 6 {
		t.Fatalf("slides: got %d, want 6", len(p.Slides))
	}

	seen := make(map[string]bool)
	for i, s := range p.Slides {
		if s.ID == "" || seen[s.ID] {
			t.Errorf("slide %d: id %q not fresh and unique", i, s.ID)
		}
		seen[s.ID] = true
		if s.ImageURL != "" || s.IsGeneratingImage {
			t.Errorf("slide %d: outline must arrive with no image state", i)
		}
	}
}

func TestDecodeOutline_DropsThemeWhenModeHasNone(t *testing.T) {
	req := OutlineRequest{Topic: "t", Mode: deck.ModeIntelligent}
	p, err := decodeOutline(mustJSON(t, outlineFixture(6)), req)
	if err != nil {
		t.Fatalf("decodeOutline: %v", err)
	}
	if p.Theme != "" {
		t.Errorf("INTELLIGENT deck should carry no theme, got %q", p.Theme)
	}
}

func TestDecodeOutline_TruncatesExtraSlides(t *testing.T) {
	req := OutlineRequest{Topic: "t", Mode: deck.ModeHybrid}
	p, err := decodeOutline(mustJSON(t, outlineFixture(8)), req)
	if err != nil {
		t.Fatalf("decodeOutline: %v", err)
	}
	if len(p.Slides) != 6 {
		t.Errorf("slides: got %d, want 6", len(p.Slides))
	}
}

func TestDecodeOutline_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*outlineDoc)
	}{
		{"too few slides", func(d *outlineDoc) { d.Slides = d.Slides[:4] }},
		{"missing deck title", func(d *outlineDoc) { d.Title = "  " }},
		{"missing slide title", func(d *outlineDoc) { d.Slides[2].Title = "" }},
		{"unknown layout", func(d *outlineDoc) { d.Slides[0].Layout = "mosaic" }},
		{"unknown componentType", func(d *outlineDoc) { d.Slides[0].ComponentType = "carousel" }},
		{"missing imagePrompt", func(d *outlineDoc) { d.Slides[5].ImagePrompt = "" }},
		{"chart without data", func(d *outlineDoc) { d.Slides[1].ComponentType = "chart" }},
		{"table without data", func(d *outlineDoc) { d.Slides[1].ComponentType = "table" }},
		{"ragged table row", func(d *outlineDoc) {
			d.Slides[1].ComponentType = "table"
			d.Slides[1].TableData = &deck.TableData{
				Headers: []string{"a", "b"},
				Rows:    [][]string{{"only one"}},
			}
		}},
		{"icons misaligned", func(d *outlineDoc) {
			d.Slides[1].ComponentType = "icons"
			d.Slides[1].Icons = []string{"bolt"}
		}},
	}

	req := OutlineRequest{Topic: "t", Mode: deck.ModeHybrid}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := outlineFixture(6)
			tt.mutate(&doc)
			_, err := decodeOutline(mustJSON(t, doc), req)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrGenerationFailed) {
				t.Errorf("error should wrap ErrGenerationFailed: %v", err)
			}
		})
	}
}

func TestDecodeOutline_MalformedJSON(t *testing.T) {
	_, err := decodeOutline("{not json", OutlineRequest{Mode: deck.ModeHybrid})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("malformed JSON should wrap ErrGenerationFailed: %v", err)
	}
}

func TestDecodeSlidePatch_OnlyMentionedFields(t *testing.T) {
	patch, err := decodeSlidePatch(`{"title":"New Title","content":["a","b"]}`)
	if err != nil {
		t.Fatalf("decodeSlidePatch: %v", err)
	}
	if patch.Title == nil || *patch.Title != "New Title" {
		t.Errorf("title: got %v", patch.Title)
	}
	if len(patch.Content) != 2 {
		t.Errorf("content: got %v", patch.Content)
	}
	if patch.Layout != nil || patch.ComponentType != nil || patch.ImagePrompt != nil {
		t.Error("unmentioned fields must stay nil")
	}
}

func TestDecodeSlidePatch_RejectsUnknownEnums(t *testing.T) {
	if _, err := decodeSlidePatch(`{"layout":"mosaic"}`); !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("unknown layout: %v", err)
	}
	if _, err := decodeSlidePatch(`{"componentType":"carousel"}`); !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("unknown componentType: %v", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	want := `{"a":1}`
	fenced := "```json\n{\"a\":1}\n```"
	if got := stripCodeFence(fenced); got != want {
		t.Errorf("fenced: got %q", got)
	}
	if got := stripCodeFence(want); got != want {
		t.Errorf("bare: got %q", got)
	}
}

func TestStripMarkup(t *testing.T) {
	got := stripMarkup("## The **Q3** _results_ are `in`\n")
	if got != "The Q3 results are in" {
		t.Errorf("stripMarkup: got %q", got)
	}
}

func TestSplitDataURL(t *testing.T) {
	mime, b64, err := splitDataURL("data:image/png;base64,AAAA")
	if err != nil || mime != "image/png" || b64 != "AAAA" {
		t.Errorf("splitDataURL: %q %q %v", mime, b64, err)
	}

	for _, bad := range []string{"https://example.com/x.png", "data:image/png,raw", ""} {
		if _, _, err := splitDataURL(bad); err == nil {
			t.Errorf("splitDataURL(%q): expected error", bad)
		}
	}
}

func TestBuildImagePrompt(t *testing.T) {
	t.Run("hybrid excludes slide text", func(t *testing.T) {
		got := buildImagePrompt(ImageRequest{
			Prompt:  "a market chart backdrop",
			Theme:   "neon",
			Mode:    deck.ModeHybrid,
			Title:   "Market",
			Content: []string{"secret point"},
		})
		if strings.Contains(got, "secret point") {
			t.Error("hybrid prompt must not bake content into the artwork")
		}
		if !strings.Contains(got, "no text") {
			t.Error("hybrid prompt must forbid lettering")
		}
		if !strings.Contains(got, "neon") {
			t.Error("theme missing from prompt")
		}
	})

	t.Run("infographic bakes slide text", func(t *testing.T) {
		got := buildImagePrompt(ImageRequest{
			Prompt:  "bold shapes",
			Mode:    deck.ModeInfographic,
			Title:   "Market",
			Content: []string{"growth is up"},
		})
		if !strings.Contains(got, "Market") || !strings.Contains(got, "growth is up") {
			t.Error("infographic prompt must carry the slide text")
		}
	})
}
