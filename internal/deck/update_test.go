// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package deck

import (
	"reflect"
	"testing"
)

// samplePresentation builds a three-slide HYBRID deck used across tests.
func samplePresentation() *Presentation {
	return &Presentation{
		Topic:    "Quantum Computing",
		Title:    "Quantum Computing",
		Subtitle: "The next leap",
		Mode:     ModeHybrid,
		Date:     "February 25, 2026",
		Slides: []*Slide{
			{
				ID:            "slide-a",
				Title:         "Intro",
				Content:       []string{"A", "B", "C"},
				Layout:        LayoutHero,
				ComponentType: ComponentList,
				ImagePrompt:   "a quantum chip",
			},
			{
				ID:            "slide-b",
				Title:         "Market",
				Content:       []string{"growth"},
				Layout:        LayoutSplit,
				ComponentType: ComponentChart,
				ChartData:     []ChartPoint{{Label: "2024", Value: 1}, {Label: "2025", Value: 3}},
				ImagePrompt:   "a market chart backdrop",
			},
			{
				ID:            "slide-c",
				Title:         "Players",
				Content:       []string{"who"},
				Layout:        LayoutFocus,
				ComponentType: ComponentTable,
				TableData: &TableData{
					Headers: []string{"Company", "Qubits", "Year"},
					Rows:    [][]string{{"Acme", "128", "2025"}, {"Initech", "64", "2024"}},
				},
				ImagePrompt: "a leaderboard backdrop",
			},
		},
	}
}

func TestPatchSlideByID_SharesUntouchedSlides(t *testing.T) {
	p := samplePresentation()

	next, ok := p.PatchSlideByID("slide-b", func(s *Slide) {
		s.Title = "Market Size"
	})
	if !ok {
		t.Fatal("PatchSlideByID: slide not found")
	}

	if next == p {
		t.Error("expected a new presentation value")
	}
	if next.Slides[1] == p.Slides[1] {
		t.Error("targeted slide should be a fresh value")
	}
	// Untouched siblings keep pointer identity — the re-render contract.
	if next.Slides[0] != p.Slides[0] || next.Slides[2] != p.Slides[2] {
		t.Error("untouched slides must be shared by pointer")
	}
	if next.Slides[1].Title != "Market Size" {
		t.Errorf("patched title: got %q", next.Slides[1].Title)
	}
	if p.Slides[1].Title != "Market" {
		t.Errorf("original mutated: got %q", p.Slides[1].Title)
	}
}

func TestPatchSlideByID_UnknownID(t *testing.T) {
	p := samplePresentation()
	next, ok := p.PatchSlideByID("slide-zz", func(s *Slide) { s.Title = "x" })
	if ok {
		t.Error("expected ok=false for unknown id")
	}
	if next != p {
		t.Error("unknown id should return the input unchanged")
	}
}

func TestMergePatch_PreservesUnmentionedFields(t *testing.T) {
	p := samplePresentation()
	before := p.Slides[0].Clone()

	title := "Introduction"
	next, ok := p.MergePatch("slide-a", SlidePatch{Title: &title})
	if !ok {
		t.Fatal("MergePatch: slide not found")
	}

	got := next.Slides[0]
	if got.Title != "Introduction" {
		t.Errorf("title: got %q", got.Title)
	}
	if got.ID != before.ID {
		t.Errorf("id changed: got %q, want %q", got.ID, before.ID)
	}
	if !reflect.DeepEqual(got.Content, before.Content) {
		t.Errorf("content changed: got %v, want %v", got.Content, before.Content)
	}
	if got.Layout != before.Layout || got.ComponentType != before.ComponentType {
		t.Error("layout/componentType must survive an unrelated patch")
	}
	if got.ImagePrompt != before.ImagePrompt {
		t.Error("imagePrompt must survive an unrelated patch")
	}
}

func TestMergePatch_ReplacesContentWholesale(t *testing.T) {
	p := samplePresentation()
	next, _ := p.MergePatch("slide-a", SlidePatch{Content: []string{"X", "Y"}})
	if !reflect.DeepEqual(next.Slides[0].Content, []string{"X", "Y"}) {
		t.Errorf("content: got %v", next.Slides[0].Content)
	}
	if next.Slides[0].Title != "Intro" {
		t.Error("title must be untouched")
	}
}

func TestRemoveContentPoint(t *testing.T) {
	p := samplePresentation()

	next, ok := p.RemoveContentPoint("slide-a", 1)
	if !ok {
		t.Fatal("RemoveContentPoint failed")
	}
	if !reflect.DeepEqual(next.Slides[0].Content, []string{"A", "C"}) {
		t.Errorf("content: got %v, want [A C]", next.Slides[0].Content)
	}
	if next.Slides[0].ID != "slide-a" {
		t.Error("id must be unchanged")
	}
	// Original untouched.
	if !reflect.DeepEqual(p.Slides[0].Content, []string{"A", "B", "C"}) {
		t.Errorf("original content mutated: %v", p.Slides[0].Content)
	}
}

func TestRemoveContentPoint_OutOfRange(t *testing.T) {
	p := samplePresentation()
	if _, ok := p.RemoveContentPoint("slide-a", 3); ok {
		t.Error("expected ok=false for out-of-range index")
	}
	if _, ok := p.RemoveContentPoint("slide-a", -1); ok {
		t.Error("expected ok=false for negative index")
	}
}

func TestMarkAndClearGeneratingImages(t *testing.T) {
	p := samplePresentation()

	marked := p.MarkAllGeneratingImages()
	for i, s := range marked.Slides {
		if !s.IsGeneratingImage {
			t.Errorf("slide %d: busy flag not set", i)
		}
	}
	for i, s := range p.Slides {
		if s.IsGeneratingImage {
			t.Errorf("slide %d: original mutated", i)
		}
	}

	cleared := marked.ClearAllGeneratingImages()
	for i, s := range cleared.Slides {
		if s.IsGeneratingImage {
			t.Errorf("slide %d: busy flag not cleared", i)
		}
	}
}

func TestSetSlideImage(t *testing.T) {
	p := samplePresentation().MarkAllGeneratingImages()

	next := p.SetSlideImage(1, "data:image/png;base64,AAAA")
	if next.Slides[1].ImageURL != "data:image/png;base64,AAAA" {
		t.Errorf("imageUrl: got %q", next.Slides[1].ImageURL)
	}
	if next.Slides[1].IsGeneratingImage {
		t.Error("busy flag must clear on success")
	}
	if !next.Slides[0].IsGeneratingImage || !next.Slides[2].IsGeneratingImage {
		t.Error("other slides must keep their busy flags")
	}
}

func TestTableRowOps(t *testing.T) {
	p := samplePresentation()

	next, ok := p.AppendTableRow("slide-c", []string{"Globex", "256", "2026"})
	if !ok {
		t.Fatal("AppendTableRow failed")
	}
	if len(next.Slides[2].TableData.Rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(next.Slides[2].TableData.Rows))
	}

	// Row width must match the header count.
	if _, ok := p.AppendTableRow("slide-c", []string{"too", "short"}); ok {
		t.Error("expected rejection of a row with the wrong cell count")
	}

	next, ok = p.ReplaceTableRow("slide-c", 0, []string{"Acme", "512", "2026"})
	if !ok {
		t.Fatal("ReplaceTableRow failed")
	}
	if next.Slides[2].TableData.Rows[0][1] != "512" {
		t.Errorf("cell: got %q", next.Slides[2].TableData.Rows[0][1])
	}
	if p.Slides[2].TableData.Rows[0][1] != "128" {
		t.Error("original table mutated")
	}
}

func TestChartPointOps(t *testing.T) {
	p := samplePresentation()

	next, ok := p.AppendChartPoint("slide-b", ChartPoint{Label: "2026", Value: 9})
	if !ok || len(next.Slides[1].ChartData) != 3 {
		t.Fatalf("AppendChartPoint: ok=%v len=%d", ok, len(next.Slides[1].ChartData))
	}

	next, ok = p.ReplaceChartPoint("slide-b", 1, ChartPoint{Label: "2025", Value: 5})
	if !ok || next.Slides[1].ChartData[1].Value != 5 {
		t.Fatalf("ReplaceChartPoint: ok=%v got %+v", ok, next.Slides[1].ChartData[1])
	}
	if p.Slides[1].ChartData[1].Value != 3 {
		t.Error("original chart mutated")
	}
}

func TestClone_IsDeep(t *testing.T) {
	p := samplePresentation()
	p.Branding = &Branding{
		Name:         "Example Co",
		PrimaryColor: "#112233",
		Sources:      []BrandSource{{URI: "https://example.com/about", Title: "About"}},
	}

	c := p.Clone()
	c.Slides[0].Content[0] = "mutated"
	c.Slides[2].TableData.Rows[0][0] = "mutated"
	c.Branding.Sources[0].Title = "mutated"

	if p.Slides[0].Content[0] != "A" {
		t.Error("clone shares content slice with original")
	}
	if p.Slides[2].TableData.Rows[0][0] != "Acme" {
		t.Error("clone shares table rows with original")
	}
	if p.Branding.Sources[0].Title != "About" {
		t.Error("clone shares branding sources with original")
	}
}

func TestSpecFor(t *testing.T) {
	tests := []struct {
		mode       Mode
		sweeps     bool
		bakes      bool
		components bool
	}{
		{ModeIntelligent, false, false, true},
		{ModeInfographic, true, true, false},
		{ModeHybrid, true, false, true},
		{Mode("bogus"), false, false, true}, // falls back to INTELLIGENT
	}

	for _, tt := range tests {
		spec := SpecFor(tt.mode)
		if spec.SlideCount != 6 {
			t.Errorf("%s: slide count %d, want 6", tt.mode, spec.SlideCount)
		}
		if spec.SweepsImages != tt.sweeps {
			t.Errorf("%s: SweepsImages=%v", tt.mode, spec.SweepsImages)
		}
		if spec.BakesText != tt.bakes {
			t.Errorf("%s: BakesText=%v", tt.mode, spec.BakesText)
		}
		if spec.ComponentsAuthoritative != tt.components {
			t.Errorf("%s: ComponentsAuthoritative=%v", tt.mode, spec.ComponentsAuthoritative)
		}
	}
}

func TestValidators(t *testing.T) {
	if !ValidMode(ModeHybrid) || ValidMode(Mode("X")) {
		t.Error("ValidMode")
	}
	if !ValidLayout(LayoutBento) || ValidLayout(Layout("X")) {
		t.Error("ValidLayout")
	}
	if !ValidComponentType(ComponentTimeline) || ValidComponentType(ComponentType("X")) {
		t.Error("ValidComponentType")
	}
}
