// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"unicode/utf8"

	"luminaslides/internal/deck"
	"luminaslides/internal/studio"
)

// Validation limits for API inputs.
const (
	maxTopicLen       = 500
	maxThemeLen       = 120
	maxInstructionLen = 2_000
	maxFileBytes      = 15 << 20
	maxPointLen       = 500
	maxSiteURLLen     = 2_000
)

// validateGenerate checks a generation request and returns the first
// problem found, or "".
func validateGenerate(req studio.GenerateRequest) string {
	if req.Topic == "" && req.File == nil {
		return "Provide a topic or upload a document."
	}
	if utf8.RuneCountInString(req.Topic) > maxTopicLen {
		return "Topic is too long (max 500 characters)."
	}
	if utf8.RuneCountInString(req.Theme) > maxThemeLen {
		return "Theme is too long (max 120 characters)."
	}
	if !deck.ValidMode(req.Mode) {
		return "Unknown presentation mode."
	}
	if req.File != nil {
		if req.File.Data == "" || req.File.MimeType == "" {
			return "Uploaded file needs both data and mimeType."
		}
		if base64.StdEncoding.DecodedLen(len(req.File.Data)) > maxFileBytes {
			return "Uploaded file is too large (max 15 MB)."
		}
		if _, err := base64.StdEncoding.DecodeString(req.File.Data); err != nil {
			return "Uploaded file data is not valid base64."
		}
	}
	return ""
}

// validateInstruction checks an edit instruction.
func validateInstruction(instruction string) string {
	if instruction == "" {
		return "Instruction is required."
	}
	if utf8.RuneCountInString(instruction) > maxInstructionLen {
		return "Instruction is too long (max 2,000 characters)."
	}
	return ""
}

// validateSlidePatch checks manual field edits for enum validity.
func validateSlidePatch(patch deck.SlidePatch) string {
	if patch.Layout != nil && !deck.ValidLayout(*patch.Layout) {
		return "Unknown layout."
	}
	if patch.ComponentType != nil && !deck.ValidComponentType(*patch.ComponentType) {
		return "Unknown component type."
	}
	if patch.TableData != nil {
		for _, row := range patch.TableData.Rows {
			if len(row) != len(patch.TableData.Headers) {
				return "Every table row needs one cell per header."
			}
		}
	}
	if patch.Title != nil && utf8.RuneCountInString(*patch.Title) > maxTopicLen {
		return "Title is too long (max 500 characters)."
	}
	for _, point := range patch.Content {
		if utf8.RuneCountInString(point) > maxPointLen {
			return "A content point is too long (max 500 characters)."
		}
	}
	return ""
}
