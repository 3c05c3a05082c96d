// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package deck

// ModeSpec is the capability table for a presentation mode. The differences
// between modes are confined to these fields; nothing else in the codebase
// branches on Mode directly.
type ModeSpec struct {
	// SlideCount is the fixed number of slides requested from outline
	// generation for this mode.
	SlideCount int
	// SweepsImages reports whether the per-slide image sweep runs at all.
	SweepsImages bool
	// BakesText reports whether slide title/content must be rendered into
	// the generated artwork itself (as opposed to overlaid separately).
	BakesText bool
	// ComponentsAuthoritative reports whether structured componentType data
	// (not imagery) is what the renderer and exporter should trust.
	ComponentsAuthoritative bool
	// WantsTheme reports whether outline generation should pick an artistic
	// theme to feed image prompts.
	WantsTheme bool
}

// defaultSlideCount matches the outline policy: every deck is requested
// with exactly this many slides.
const defaultSlideCount = 6

var modeSpecs = map[Mode]ModeSpec{
	ModeIntelligent: {
		SlideCount:              defaultSlideCount,
		SweepsImages:            false,
		BakesText:               false,
		ComponentsAuthoritative: true,
		WantsTheme:              false,
	},
	ModeInfographic: {
		SlideCount:              defaultSlideCount,
		SweepsImages:            true,
		BakesText:               true,
		ComponentsAuthoritative: false,
		WantsTheme:              true,
	},
	ModeHybrid: {
		SlideCount:              defaultSlideCount,
		SweepsImages:            true,
		BakesText:               false,
		ComponentsAuthoritative: true,
		WantsTheme:              true,
	},
}

// SpecFor returns the capability table entry for the given mode.
// Unknown modes get the INTELLIGENT spec, the most conservative one.
func SpecFor(m Mode) ModeSpec {
	if spec, ok := modeSpecs[m]; ok {
		return spec
	}
	return modeSpecs[ModeIntelligent]
}
