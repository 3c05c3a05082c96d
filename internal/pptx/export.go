// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pptx serializes a completed presentation into a PowerPoint
// file. Export is a pure function of the document model plus the styling
// constants below: no network calls, no clock reads, and the input is
// never mutated, so exporting the same deck twice yields identical bytes.
package pptx

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"

	"luminaslides/internal/deck"
	"luminaslides/internal/names"
)

// 16:9 slide geometry (EMU).
const (
	emuPerInch = 914400

	slideWidth  = int64(10.0 * emuPerInch)
	slideHeight = int64(5.625 * emuPerInch)

	marginLeft   = int64(0.8 * emuPerInch)
	contentWidth = int64(8.4 * emuPerInch)
)

// Deck palette (ARGB). Dark slides with light text; the mask keeps
// overlay text legible on top of generated imagery.
const (
	colorTitleBG   = "FF0F172A"
	colorContentBG = "FF1E293B"
	colorSubtitle  = "FF94A3B8"
	colorBullets   = "FFE2E8F0"
	colorMask      = "66000000" // 40% black
	defaultAccent  = "FF6366F1"
)

// Font sizes (pt).
const (
	fontDeckTitle  = 44
	fontSubtitle   = 24
	fontSlideTitle = 32
	fontHeroTitle  = 40
	fontBody       = 18
	fontHeroBody   = 20
	fontTableHead  = 14
	fontTableCell  = 12
	fontChartLabel = 12
	fontFooter     = 10
)

func solidFill(argb string) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(argb))
}

func alignCenter(p *ppt.Paragraph) {
	p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
}

// Filename returns the deterministic download name for the deck.
func Filename(p *deck.Presentation) string {
	return names.ExportFilename(p.Title)
}

// Export serializes the presentation: one title slide followed by one
// slide per deck slide.
func Export(pres *deck.Presentation) ([]byte, error) {
	if pres == nil || len(pres.Slides) == 0 {
		return nil, fmt.Errorf("pptx: nothing to export")
	}

	doc := ppt.New()
	doc.GetDocumentProperties().Title = pres.Title
	creator := "LuminaSlides"
	if pres.Branding != nil && pres.Branding.Name != "" {
		creator = pres.Branding.Name
	}
	doc.GetDocumentProperties().Creator = creator

	accent := defaultAccent
	if pres.Branding != nil {
		accent = argbFromHex(pres.Branding.PrimaryColor, defaultAccent)
	}
	logo := decodeLogo(pres.Branding)

	addTitleSlide(doc, pres, logo)
	for _, s := range pres.Slides {
		if err := addContentSlide(doc, s, accent, logo); err != nil {
			return nil, err
		}
	}

	w, err := ppt.NewWriter(doc, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("pptx writer: %w", err)
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("pptx save: %w", err)
	}
	return buf.Bytes(), nil
}

func addTitleSlide(doc *ppt.Presentation, pres *deck.Presentation, logo *logoImage) {
	slide := doc.GetActiveSlide()
	fillBackground(slide, colorTitleBG)

	if logo != nil {
		img := slide.CreateDrawingShape()
		img.SetImageData(logo.data, logo.mimeType)
		img.SetOffsetX(int64(4.5 * emuPerInch)).SetOffsetY(int64(0.4 * emuPerInch))
		img.SetWidth(int64(1.0 * emuPerInch)).SetHeight(int64(1.0 * emuPerInch))
	}

	title := slide.CreateRichTextShape()
	title.SetOffsetX(int64(1.0 * emuPerInch)).SetOffsetY(int64(1.5 * emuPerInch))
	title.SetWidth(int64(8.0 * emuPerInch)).SetHeight(int64(2.0 * emuPerInch))
	tr := title.CreateTextRun(pres.Title)
	tr.GetFont().SetSize(fontDeckTitle).SetBold(true).SetColor(ppt.ColorWhite)
	alignCenter(title.GetActiveParagraph())

	subtitle := pres.Subtitle
	if subtitle == "" {
		subtitle = pres.OneLiner
	}
	if subtitle != "" {
		sub := slide.CreateRichTextShape()
		sub.SetOffsetX(int64(1.0 * emuPerInch)).SetOffsetY(int64(3.5 * emuPerInch))
		sub.SetWidth(int64(8.0 * emuPerInch)).SetHeight(int64(1.0 * emuPerInch))
		str := sub.CreateTextRun(subtitle)
		str.GetFont().SetSize(fontSubtitle).SetColor(ppt.NewColor(colorSubtitle))
		alignCenter(sub.GetActiveParagraph())
	}

	footerText := pres.Date
	if pres.Branding != nil && pres.Branding.Slogan != "" {
		if footerText != "" {
			footerText = pres.Branding.Slogan + " · " + footerText
		} else {
			footerText = pres.Branding.Slogan
		}
	}
	if footerText != "" {
		footer := slide.CreateRichTextShape()
		footer.SetOffsetX(marginLeft).SetOffsetY(int64(4.9 * emuPerInch))
		footer.SetWidth(contentWidth).SetHeight(int64(0.4 * emuPerInch))
		ftr := footer.CreateTextRun(footerText)
		ftr.GetFont().SetSize(fontFooter).SetColor(ppt.NewColor(colorSubtitle))
		alignCenter(footer.GetActiveParagraph())
	}
}

func addContentSlide(doc *ppt.Presentation, s *deck.Slide, accent string, logo *logoImage) error {
	slide := doc.CreateSlide()

	if s.ImageURL != "" {
		imgBytes, mimeType, err := decodeDataURL(s.ImageURL)
		if err != nil {
			return fmt.Errorf("pptx: slide %q image: %w", s.ID, err)
		}
		img := slide.CreateDrawingShape()
		img.SetImageData(imgBytes, mimeType)
		img.SetOffsetX(0).SetOffsetY(0)
		img.SetWidth(slideWidth).SetHeight(slideHeight)

		mask := slide.CreateRichTextShape()
		mask.SetOffsetX(0).SetOffsetY(0)
		mask.SetWidth(slideWidth).SetHeight(slideHeight)
		mask.SetFill(solidFill(colorMask))
	} else {
		fillBackground(slide, colorContentBG)
	}

	hero := s.Layout == deck.LayoutHero
	addSlideTitle(slide, s.Title, hero)

	switch s.ComponentType {
	case deck.ComponentChart:
		addBarChart(slide, s.ChartData, accent)
	case deck.ComponentTable:
		addTable(slide, s.TableData, accent)
	default:
		addBullets(slide, s.Content, hero)
	}

	if logo != nil {
		img := slide.CreateDrawingShape()
		img.SetImageData(logo.data, logo.mimeType)
		img.SetOffsetX(int64(9.3 * emuPerInch)).SetOffsetY(int64(5.0 * emuPerInch))
		img.SetWidth(int64(0.5 * emuPerInch)).SetHeight(int64(0.5 * emuPerInch))
	}
	return nil
}

func addSlideTitle(slide *ppt.Slide, text string, hero bool) {
	title := slide.CreateRichTextShape()
	size := fontSlideTitle
	if hero {
		// Hero slides center a larger title lower on the canvas.
		title.SetOffsetX(int64(1.0 * emuPerInch)).SetOffsetY(int64(1.4 * emuPerInch))
		title.SetWidth(int64(8.0 * emuPerInch)).SetHeight(int64(1.2 * emuPerInch))
		size = fontHeroTitle
	} else {
		title.SetOffsetX(marginLeft).SetOffsetY(int64(0.8 * emuPerInch))
		title.SetWidth(contentWidth).SetHeight(int64(1.0 * emuPerInch))
	}
	tr := title.CreateTextRun(text)
	tr.GetFont().SetSize(size).SetBold(true).SetColor(ppt.ColorWhite)
	if hero {
		alignCenter(title.GetActiveParagraph())
	}
}

func addBullets(slide *ppt.Slide, content []string, hero bool) {
	if len(content) == 0 {
		return
	}
	body := slide.CreateRichTextShape()
	size := fontBody
	if hero {
		body.SetOffsetX(int64(1.5 * emuPerInch)).SetOffsetY(int64(2.8 * emuPerInch))
		body.SetWidth(int64(7.0 * emuPerInch)).SetHeight(int64(2.2 * emuPerInch))
		size = fontHeroBody
	} else {
		body.SetOffsetX(marginLeft).SetOffsetY(int64(1.8 * emuPerInch))
		body.SetWidth(contentWidth).SetHeight(int64(3.0 * emuPerInch))
	}
	for i, line := range content {
		if i > 0 {
			body.CreateParagraph()
		}
		tr := body.CreateTextRun("• " + line)
		tr.GetFont().SetSize(size).SetColor(ppt.NewColor(colorBullets))
		if hero {
			alignCenter(body.GetActiveParagraph())
		}
	}
}

// addBarChart renders chart data as vertical accent-colored bars with a
// label under each, scaled against the largest value.
func addBarChart(slide *ppt.Slide, points []deck.ChartPoint, accent string) {
	if len(points) == 0 {
		return
	}

	maxVal := points[0].Value
	for _, pt := range points {
		if pt.Value > maxVal {
			maxVal = pt.Value
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	const (
		areaX      = 0.8
		areaWidth  = 8.4
		baseY      = 4.6
		maxBarH    = 2.4
		gapRatio   = 0.35
	)
	slot := areaWidth / float64(len(points))
	barWidth := slot * (1 - gapRatio)

	for i, pt := range points {
		h := maxBarH * (pt.Value / maxVal)
		if h < 0.05 {
			h = 0.05
		}
		x := areaX + float64(i)*slot + (slot-barWidth)/2

		bar := slide.CreateRichTextShape()
		bar.SetOffsetX(int64(x * emuPerInch)).SetOffsetY(int64((baseY - h) * emuPerInch))
		bar.SetWidth(int64(barWidth * emuPerInch)).SetHeight(int64(h * emuPerInch))
		bar.SetFill(solidFill(accent))

		label := slide.CreateRichTextShape()
		label.SetOffsetX(int64((areaX + float64(i)*slot) * emuPerInch)).SetOffsetY(int64(baseY * emuPerInch))
		label.SetWidth(int64(slot * emuPerInch)).SetHeight(int64(0.35 * emuPerInch))
		tr := label.CreateTextRun(pt.Label)
		tr.GetFont().SetSize(fontChartLabel).SetColor(ppt.NewColor(colorBullets))
		alignCenter(label.GetActiveParagraph())
	}
}

// addTable renders the header row as an accent band with white bold text
// and passes body cells through literally.
func addTable(slide *ppt.Slide, table *deck.TableData, accent string) {
	if table == nil || len(table.Headers) == 0 {
		return
	}

	const (
		tableY       = 1.8
		tableWidth   = 8.4
		headerHeight = 0.45
		rowHeight    = 0.4
	)

	header := slide.CreateRichTextShape()
	header.SetOffsetX(marginLeft).SetOffsetY(int64(tableY * emuPerInch))
	header.SetWidth(int64(tableWidth * emuPerInch)).SetHeight(int64(headerHeight * emuPerInch))
	header.SetFill(solidFill(accent))
	htr := header.CreateTextRun(strings.Join(table.Headers, "    │    "))
	htr.GetFont().SetSize(fontTableHead).SetBold(true).SetColor(ppt.ColorWhite)
	alignCenter(header.GetActiveParagraph())

	y := tableY + headerHeight
	for i, row := range table.Rows {
		rowShape := slide.CreateRichTextShape()
		rowShape.SetOffsetX(marginLeft).SetOffsetY(int64(y * emuPerInch))
		rowShape.SetWidth(int64(tableWidth * emuPerInch)).SetHeight(int64(rowHeight * emuPerInch))
		if i%2 == 1 {
			rowShape.SetFill(solidFill("33FFFFFF"))
		}
		tr := rowShape.CreateTextRun(strings.Join(row, "    │    "))
		tr.GetFont().SetSize(fontTableCell).SetColor(ppt.NewColor(colorBullets))
		alignCenter(rowShape.GetActiveParagraph())
		y += rowHeight
	}
}

// fillBackground covers the whole slide with a flat color.
func fillBackground(slide *ppt.Slide, argb string) {
	bg := slide.CreateRichTextShape()
	bg.SetOffsetX(0).SetOffsetY(0)
	bg.SetWidth(slideWidth).SetHeight(slideHeight)
	bg.SetFill(solidFill(argb))
}

// argbFromHex converts a "#RRGGBB" brand color into the opaque ARGB form
// GoPPT expects, falling back when the value is missing or malformed.
func argbFromHex(hex, fallback string) string {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return fallback
	}
	for _, r := range hex {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return fallback
		}
	}
	return "FF" + strings.ToUpper(hex)
}

type logoImage struct {
	data     []byte
	mimeType string
}

// decodeLogo returns the brand logo only when it is an embedded data URL.
// Remote logo references are skipped: export performs no network calls.
func decodeLogo(b *deck.Branding) *logoImage {
	if b == nil || !strings.HasPrefix(b.LogoURL, "data:image") {
		return nil
	}
	data, mimeType, err := decodeDataURL(b.LogoURL)
	if err != nil {
		return nil
	}
	return &logoImage{data: data, mimeType: mimeType}
}

// decodeDataURL unwraps a base64 data URL into raw bytes and a MIME type.
func decodeDataURL(dataURL string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") {
		return nil, "", fmt.Errorf("not a data URL")
	}
	mimeType := strings.TrimPrefix(header, "data:")
	mimeType = strings.TrimSuffix(mimeType, ";base64")
	if mimeType == "" {
		mimeType = "image/png"
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	return raw, mimeType, nil
}
