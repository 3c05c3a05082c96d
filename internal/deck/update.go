// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// update.go provides non-destructive update operations on the presentation.
// Every operation returns a new *Presentation that differs from the input
// only in the targeted slide or field; untouched slides are shared by
// pointer so observers can re-render only what changed.
package deck

// SlidePatch is a partial slide update. Nil fields are left untouched on
// merge; the generation client returns these from targeted AI edits and the
// manual edit endpoints build them from form fields.
type SlidePatch struct {
	Title         *string        `json:"title,omitempty"`
	Content       []string       `json:"content,omitempty"`
	Layout        *Layout        `json:"layout,omitempty"`
	ComponentType *ComponentType `json:"componentType,omitempty"`
	ChartData     []ChartPoint   `json:"chartData,omitempty"`
	TableData     *TableData     `json:"tableData,omitempty"`
	Icons         []string       `json:"icons,omitempty"`
	ImagePrompt   *string        `json:"imagePrompt,omitempty"`
}

// withSlideAt clones the slide slice, replaces index i with a clone mutated
// by fn, and returns the new presentation. All sibling slides keep their
// pointer identity.
func (p *Presentation) withSlideAt(i int, fn func(*Slide)) *Presentation {
	if i < 0 || i >= len(p.Slides) {
		return p
	}
	next := *p
	next.Slides = make([]*Slide, len(p.Slides))
	copy(next.Slides, p.Slides)
	s := p.Slides[i].Clone()
	fn(s)
	next.Slides[i] = s
	return &next
}

// PatchSlide applies fn to a clone of the slide at index i.
func (p *Presentation) PatchSlide(i int, fn func(*Slide)) *Presentation {
	return p.withSlideAt(i, fn)
}

// PatchSlideByID applies fn to a clone of the slide with the given id.
// Returns the input unchanged and false if no such slide exists.
func (p *Presentation) PatchSlideByID(id string, fn func(*Slide)) (*Presentation, bool) {
	i, _ := p.SlideByID(id)
	if i < 0 {
		return p, false
	}
	return p.withSlideAt(i, fn), true
}

// MergePatch merges a partial slide update onto the slide with the given
// id. Fields absent from the patch keep their previous values exactly.
func (p *Presentation) MergePatch(id string, patch SlidePatch) (*Presentation, bool) {
	return p.PatchSlideByID(id, func(s *Slide) {
		if patch.Title != nil {
			s.Title = *patch.Title
		}
		if patch.Content != nil {
			s.Content = append([]string(nil), patch.Content...)
		}
		if patch.Layout != nil {
			s.Layout = *patch.Layout
		}
		if patch.ComponentType != nil {
			s.ComponentType = *patch.ComponentType
		}
		if patch.ChartData != nil {
			s.ChartData = append([]ChartPoint(nil), patch.ChartData...)
		}
		if patch.TableData != nil {
			s.TableData = patch.TableData
		}
		if patch.Icons != nil {
			s.Icons = append([]string(nil), patch.Icons...)
		}
		if patch.ImagePrompt != nil {
			s.ImagePrompt = *patch.ImagePrompt
		}
	})
}

// MarkAllGeneratingImages sets IsGeneratingImage on every slide in a single
// batch update, the first step of an image sweep.
func (p *Presentation) MarkAllGeneratingImages() *Presentation {
	next := *p
	next.Slides = make([]*Slide, len(p.Slides))
	for i, s := range p.Slides {
		c := s.Clone()
		c.IsGeneratingImage = true
		next.Slides[i] = c
	}
	return &next
}

// ClearAllGeneratingImages clears the busy flag on every slide. Used when a
// sweep is abandoned so no slide is ever left stuck mid-generation.
func (p *Presentation) ClearAllGeneratingImages() *Presentation {
	changed := false
	for _, s := range p.Slides {
		if s.IsGeneratingImage {
			changed = true
			break
		}
	}
	if !changed {
		return p
	}
	next := *p
	next.Slides = make([]*Slide, len(p.Slides))
	for i, s := range p.Slides {
		if !s.IsGeneratingImage {
			next.Slides[i] = s
			continue
		}
		c := s.Clone()
		c.IsGeneratingImage = false
		next.Slides[i] = c
	}
	return &next
}

// SetSlideImage records a finished image payload on the slide at index i
// and clears its busy flag.
func (p *Presentation) SetSlideImage(i int, dataURL string) *Presentation {
	return p.withSlideAt(i, func(s *Slide) {
		s.ImageURL = dataURL
		s.IsGeneratingImage = false
	})
}

// ClearSlideBusy clears the busy flag on the slide at index i without
// touching anything else (the per-slide failure outcome).
func (p *Presentation) ClearSlideBusy(i int) *Presentation {
	return p.withSlideAt(i, func(s *Slide) {
		s.IsGeneratingImage = false
	})
}

// AppendContentPoint appends a bullet to the slide's content.
func (p *Presentation) AppendContentPoint(id, text string) (*Presentation, bool) {
	return p.PatchSlideByID(id, func(s *Slide) {
		s.Content = append(s.Content, text)
	})
}

// RemoveContentPoint removes the bullet at index idx from the slide's
// content, leaving every other field untouched.
func (p *Presentation) RemoveContentPoint(id string, idx int) (*Presentation, bool) {
	i, s := p.SlideByID(id)
	if i < 0 || idx < 0 || idx >= len(s.Content) {
		return p, false
	}
	return p.withSlideAt(i, func(s *Slide) {
		s.Content = append(s.Content[:idx], s.Content[idx+1:]...)
	}), true
}

// AppendChartPoint appends a labelled value to the slide's chart data.
func (p *Presentation) AppendChartPoint(id string, pt ChartPoint) (*Presentation, bool) {
	return p.PatchSlideByID(id, func(s *Slide) {
		s.ChartData = append(s.ChartData, pt)
	})
}

// ReplaceChartPoint replaces the chart entry at index idx.
func (p *Presentation) ReplaceChartPoint(id string, idx int, pt ChartPoint) (*Presentation, bool) {
	i, s := p.SlideByID(id)
	if i < 0 || idx < 0 || idx >= len(s.ChartData) {
		return p, false
	}
	return p.withSlideAt(i, func(s *Slide) {
		s.ChartData[idx] = pt
	}), true
}

// AppendTableRow appends a body row to the slide's table. The row must have
// exactly one cell per header.
func (p *Presentation) AppendTableRow(id string, row []string) (*Presentation, bool) {
	i, s := p.SlideByID(id)
	if i < 0 || s.TableData == nil || len(row) != len(s.TableData.Headers) {
		return p, false
	}
	return p.withSlideAt(i, func(s *Slide) {
		s.TableData.Rows = append(s.TableData.Rows, append([]string(nil), row...))
	}), true
}

// ReplaceTableRow replaces the body row at index idx.
func (p *Presentation) ReplaceTableRow(id string, idx int, row []string) (*Presentation, bool) {
	i, s := p.SlideByID(id)
	if i < 0 || s.TableData == nil || idx < 0 || idx >= len(s.TableData.Rows) ||
		len(row) != len(s.TableData.Headers) {
		return p, false
	}
	return p.withSlideAt(i, func(s *Slide) {
		s.TableData.Rows[idx] = append([]string(nil), row...)
	}), true
}

// WithBranding returns a copy of the presentation carrying the given
// branding. Slides are shared by pointer.
func (p *Presentation) WithBranding(b *Branding) *Presentation {
	next := *p
	next.Branding = b.Clone()
	return &next
}
