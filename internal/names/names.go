// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package names derives deterministic names from user-facing strings: the
// export filename from a deck title, and a fallback topic label from an
// uploaded document's file name.
package names

import (
	"regexp"
	"strings"
)

var (
	// whitespaceRun matches one or more whitespace characters.
	whitespaceRun = regexp.MustCompile(`\s+`)
	// unsafeFilenameChars matches characters not allowed in download names.
	unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	// separatorRun matches filename separators to flatten into spaces.
	separatorRun = regexp.MustCompile(`[-_.]+`)
)

// ExportFilename derives the deck download name from the presentation
// title: whitespace runs become single underscores and the .pptx extension
// is appended. Example: "The  Future of Space" → "The_Future_of_Space.pptx".
func ExportFilename(title string) string {
	name := strings.TrimSpace(title)
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, "_")
	if name == "" {
		name = "presentation"
	}
	return name + ".pptx"
}

// TopicFromFilename synthesizes a plain-text topic label from an uploaded
// file's name, used when document analysis fails and the workflow falls
// back to generating from the name alone.
// Example: "q3-market_report.pdf" → "q3 market report"
func TopicFromFilename(filename string) string {
	name := filename
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	name = separatorRun.ReplaceAllString(name, " ")
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return "uploaded document"
	}
	return name
}
