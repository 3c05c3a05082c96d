// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"luminaslides/internal/deck"
)

// Prompt policy shared by all providers. The per-mode instructions decide
// what the outline carries; the schema shape itself lives next to each
// provider's request encoding.

// outlinePolicy builds the system instruction for outline synthesis.
func outlinePolicy(mode deck.Mode) string {
	spec := deck.SpecFor(mode)

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert presentation designer. Produce a complete slide deck outline with exactly %d slides as a single JSON document.\n", spec.SlideCount)
	b.WriteString("Give the deck a punchy title, a one-sentence subtitle, and a one-liner summarizing the whole argument.\n")
	b.WriteString("Each slide needs a short title, 2-5 concise content points, a layout, and a componentType that fits the material.\n")
	b.WriteString("Use chart slides for quantitative comparisons (supply chartData), table slides for multi-column facts (supply tableData with every row matching the headers), and icons slides with exactly one icon name per content point.\n")

	switch {
	case spec.BakesText:
		b.WriteString("Every slide's imagePrompt must describe a complete full-page infographic that renders the slide's own title and content as part of the artwork.\n")
	case spec.SweepsImages:
		b.WriteString("Every slide's imagePrompt must describe an evocative backdrop illustration. The artwork must contain no text of any kind.\n")
	default:
		b.WriteString("Slides carry no imagery. Leave imagePrompt as a short art-direction note only.\n")
	}
	if spec.WantsTheme {
		b.WriteString("Pick one cohesive visual theme for the whole deck and name it in the theme field.\n")
	}
	b.WriteString("Respond with JSON only.")
	return b.String()
}

// buildOutlineUserPrompt assembles the user turn of an outline request.
func buildOutlineUserPrompt(req OutlineRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a presentation about: %s", req.Topic)
	if req.File != nil {
		b.WriteString("\nGround every slide in the attached document.")
	}
	if req.Theme != "" && deck.SpecFor(req.Mode).WantsTheme {
		fmt.Fprintf(&b, "\nThe user prefers a %q visual theme; refine it if needed.", req.Theme)
	}
	if req.Branding != nil && req.Branding.Name != "" {
		fmt.Fprintf(&b, "\nThe deck represents %s", req.Branding.Name)
		if req.Branding.Slogan != "" {
			fmt.Fprintf(&b, " (%q)", req.Branding.Slogan)
		}
		b.WriteString("; weave the brand voice into titles and copy.")
	}
	return b.String()
}

// buildImagePrompt assembles the full art-direction prompt for one slide.
func buildImagePrompt(req ImageRequest) string {
	spec := deck.SpecFor(req.Mode)

	var b strings.Builder
	if spec.BakesText {
		b.WriteString("Design a complete full-page infographic slide. Render this text directly in the artwork, legibly and prominently.\n")
		fmt.Fprintf(&b, "Title: %s\n", req.Title)
		for _, line := range req.Content {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		fmt.Fprintf(&b, "Art direction: %s", req.Prompt)
	} else {
		fmt.Fprintf(&b, "Create a backdrop illustration for a presentation slide. %s", req.Prompt)
		b.WriteString(" The image must contain no text, no words, no lettering of any kind.")
	}
	if req.Theme != "" {
		fmt.Fprintf(&b, " Visual theme: %s.", req.Theme)
	}
	if req.Branding != nil && req.Branding.PrimaryColor != "" {
		fmt.Fprintf(&b, " Favor the brand palette %s and %s.", req.Branding.PrimaryColor, req.Branding.SecondaryColor)
	}
	return b.String()
}

// revisePolicy is the system instruction for targeted slide edits.
const revisePolicy = "You edit a single presentation slide. You receive the slide as JSON and an instruction. " +
	"Respond with a JSON object containing ONLY the fields the instruction changes; omit everything else. " +
	"When editing content points, return the complete new content array. " +
	"Never change or include the slide's id. Respond with JSON only."

// buildRevisePrompt serializes the current slide next to the instruction.
func buildRevisePrompt(current *deck.Slide, instruction string) string {
	// The model never sees transient state or the slide's identity.
	view := current.Clone()
	view.ID = ""
	view.ImageURL = ""
	view.IsGeneratingImage = false
	raw, _ := json.Marshal(view)
	return fmt.Sprintf("Slide:\n%s\n\nInstruction: %s", raw, instruction)
}

// brandPolicy is the system instruction for web-grounded brand research.
const brandPolicy = "You are a brand researcher. Using web search, identify the company behind the given website. " +
	"Respond with a single JSON object with the fields: name, slogan, logoUrl, primaryColor, secondaryColor. " +
	"Colors are hex triplets like \"#0F172A\" taken from the company's actual visual identity. " +
	"Use empty strings for anything you cannot establish. Respond with JSON only, no prose."

// summarizePolicy is the system instruction for document topic analysis.
const summarizePolicy = "Read the attached document and answer with one plain sentence naming its subject, " +
	"suitable as the topic line of a presentation. No markup, no preamble."
