// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"luminaslides/internal/deck"
)

// geminiProvider implements all five generation capabilities using the
// Google Gemini REST API (POST /v1beta/models/{model}:generateContent).
// Outline and revision requests run in constrained JSON mode with a
// response schema; imagery uses the image model with IMAGE response
// modalities; brand research runs with the google_search tool attached.
type geminiProvider struct {
	config    ProviderConfig
	client    *http.Client
	imgClient *http.Client
}

// newGemini creates a new Google Gemini provider.
func newGemini(cfg ProviderConfig) *geminiProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	return &geminiProvider{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		// Image synthesis is much slower than text generation.
		imgClient: &http.Client{Timeout: 120 * time.Second},
	}
}

func (p *geminiProvider) Name() string { return "gemini" }

// generate performs one generateContent round trip and returns the parsed
// response. Non-2xx responses are classified into the package error kinds.
func (p *geminiProvider) generate(ctx context.Context, client *http.Client, model string, body geminiRequest) (*geminiResponse, error) {
	if model == "" {
		model = p.config.Model
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("gemini marshal: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.config.BaseURL, model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.config.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("gemini", resp.StatusCode, respBody)
	}

	var result geminiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("gemini unmarshal: %w", err)
	}
	return &result, nil
}

// firstText extracts the first non-empty text part of the first candidate.
func firstText(resp *geminiResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: no candidates returned: %w", ErrGenerationFailed)
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text, nil
		}
	}
	return "", fmt.Errorf("gemini: no text in response: %w", ErrGenerationFailed)
}

// firstImage extracts the first inline image of any candidate as a data URL.
func firstImage(resp *geminiResponse) (string, error) {
	for _, c := range resp.Candidates {
		for _, part := range c.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return encodeDataURL(part.InlineData.MimeType, part.InlineData.Data), nil
			}
		}
	}
	return "", fmt.Errorf("gemini: no image data in response: %w", ErrGenerationFailed)
}

// SynthesizeOutline generates a full deck outline in constrained JSON mode.
func (p *geminiProvider) SynthesizeOutline(ctx context.Context, req OutlineRequest) (*deck.Presentation, error) {
	parts := []geminiPart{{Text: buildOutlineUserPrompt(req)}}
	if req.File != nil {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: req.File.MimeType,
			Data:     req.File.Data,
		}})
	}

	body := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: outlinePolicy(req.Mode)}}},
		Contents:          []geminiContent{{Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   outlineSchema(deck.SpecFor(req.Mode)),
		},
	}

	resp, err := p.generate(ctx, p.client, "", body)
	if err != nil {
		return nil, err
	}
	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}
	return decodeOutline(text, req)
}

// SynthesizeImage generates one slide's artwork with the image model.
func (p *geminiProvider) SynthesizeImage(ctx context.Context, req ImageRequest) (string, error) {
	if p.config.ModelImage == "" {
		return "", fmt.Errorf("gemini: image generation requires GEMINI_MODEL_IMAGE to be set")
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: buildImagePrompt(req)}}}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	resp, err := p.generate(ctx, p.imgClient, p.config.ModelImage, body)
	if err != nil {
		return "", err
	}
	return firstImage(resp)
}

// RepaintImage revises an existing image: the current artwork is sent
// inline with the instruction and the model returns the edited version.
func (p *geminiProvider) RepaintImage(ctx context.Context, req RepaintRequest) (string, error) {
	if p.config.ModelImage == "" {
		return "", fmt.Errorf("gemini: image generation requires GEMINI_MODEL_IMAGE to be set")
	}

	mimeType, b64, err := splitDataURL(req.ImageDataURL)
	if err != nil {
		return "", fmt.Errorf("gemini repaint: %w", err)
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{
			{InlineData: &geminiInlineData{MimeType: mimeType, Data: b64}},
			{Text: req.Instruction + " Keep the overall composition and style; change only what the instruction asks for."},
		}}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	resp, err := p.generate(ctx, p.imgClient, p.config.ModelImage, body)
	if err != nil {
		return "", err
	}
	return firstImage(resp)
}

// ReviseSlide asks for a partial slide update in constrained JSON mode.
func (p *geminiProvider) ReviseSlide(ctx context.Context, current *deck.Slide, instruction string) (deck.SlidePatch, error) {
	body := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: revisePolicy}}},
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: buildRevisePrompt(current, instruction)}}}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
		},
	}

	resp, err := p.generate(ctx, p.client, "", body)
	if err != nil {
		return deck.SlidePatch{}, err
	}
	text, err := firstText(resp)
	if err != nil {
		return deck.SlidePatch{}, err
	}
	return decodeSlidePatch(text)
}

// ExtractBrandIdentity researches a company site with the google_search
// tool and returns the identity with grounding citations attached.
// Constrained JSON mode cannot be combined with search tools, so the
// response text is parsed after stripping any code fence.
func (p *geminiProvider) ExtractBrandIdentity(ctx context.Context, siteURL string) (*deck.Branding, error) {
	body := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: brandPolicy}}},
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: "Website: " + siteURL}}}},
		Tools:             []geminiTool{{GoogleSearch: &struct{}{}}},
	}

	resp, err := p.generate(ctx, p.client, "", body)
	if err != nil {
		return nil, err
	}
	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Name           string `json:"name"`
		Slogan         string `json:"slogan"`
		LogoURL        string `json:"logoUrl"`
		PrimaryColor   string `json:"primaryColor"`
		SecondaryColor string `json:"secondaryColor"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &doc); err != nil {
		return nil, fmt.Errorf("gemini brand unmarshal: %v: %w", err, ErrGenerationFailed)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("gemini brand: no company identified: %w", ErrGenerationFailed)
	}

	b := &deck.Branding{
		Name:           doc.Name,
		Slogan:         doc.Slogan,
		LogoURL:        doc.LogoURL,
		PrimaryColor:   doc.PrimaryColor,
		SecondaryColor: doc.SecondaryColor,
	}
	if gm := resp.Candidates[0].GroundingMetadata; gm != nil {
		for _, chunk := range gm.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" {
				b.Sources = append(b.Sources, deck.BrandSource{
					URI:   chunk.Web.URI,
					Title: chunk.Web.Title,
				})
			}
		}
	}
	return b, nil
}

// SummarizeDocumentTopic condenses an uploaded document into one plain
// topic sentence.
func (p *geminiProvider) SummarizeDocumentTopic(ctx context.Context, file deck.FilePart) (string, error) {
	body := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: summarizePolicy}}},
		Contents: []geminiContent{{Parts: []geminiPart{
			{InlineData: &geminiInlineData{MimeType: file.MimeType, Data: file.Data}},
			{Text: "What is this document about?"},
		}}},
	}

	resp, err := p.generate(ctx, p.client, "", body)
	if err != nil {
		return "", err
	}
	text, err := firstText(resp)
	if err != nil {
		return "", err
	}
	topic := stripMarkup(text)
	if topic == "" {
		return "", fmt.Errorf("gemini: empty document summary: %w", ErrGenerationFailed)
	}
	return topic, nil
}

// outlineSchema builds the responseSchema constraining outline output.
// The slide count itself cannot be expressed here, so it is enforced
// again during decoding.
func outlineSchema(spec deck.ModeSpec) *geminiSchema {
	layouts := []string{"hero", "split", "focus", "minimal", "bento"}
	components := []string{"grid", "list", "steps", "stat", "comparison", "chart", "table", "timeline", "icons"}

	slide := &geminiSchema{
		Type: "object",
		Properties: map[string]*geminiSchema{
			"title":         {Type: "string"},
			"content":       {Type: "array", Items: &geminiSchema{Type: "string"}},
			"layout":        {Type: "string", Enum: layouts},
			"componentType": {Type: "string", Enum: components},
			"chartData": {Type: "array", Items: &geminiSchema{
				Type: "object",
				Properties: map[string]*geminiSchema{
					"label": {Type: "string"},
					"value": {Type: "number"},
				},
				Required: []string{"label", "value"},
			}},
			"tableData": {Type: "object", Properties: map[string]*geminiSchema{
				"headers": {Type: "array", Items: &geminiSchema{Type: "string"}},
				"rows":    {Type: "array", Items: &geminiSchema{Type: "array", Items: &geminiSchema{Type: "string"}}},
			}},
			"icons":       {Type: "array", Items: &geminiSchema{Type: "string"}},
			"imagePrompt": {Type: "string"},
		},
		Required: []string{"title", "content", "layout", "componentType"},
	}
	if spec.SweepsImages {
		slide.Required = append(slide.Required, "imagePrompt")
	}

	root := &geminiSchema{
		Type: "object",
		Properties: map[string]*geminiSchema{
			"title":    {Type: "string"},
			"subtitle": {Type: "string"},
			"oneLiner": {Type: "string"},
			"slides":   {Type: "array", Items: slide},
		},
		Required: []string{"title", "subtitle", "slides"},
	}
	if spec.WantsTheme {
		root.Properties["theme"] = &geminiSchema{Type: "string"}
		root.Required = append(root.Required, "theme")
	}
	return root
}

// --- Gemini API types ---

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType   string        `json:"responseMimeType,omitempty"`
	ResponseSchema     *geminiSchema `json:"responseSchema,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
}

type geminiSchema struct {
	Type       string                   `json:"type"`
	Enum       []string                 `json:"enum,omitempty"`
	Items      *geminiSchema            `json:"items,omitempty"`
	Properties map[string]*geminiSchema `json:"properties,omitempty"`
	Required   []string                 `json:"required,omitempty"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
	Tools             []geminiTool            `json:"tools,omitempty"`
}

type geminiWebSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type geminiGroundingChunk struct {
	Web *geminiWebSource `json:"web,omitempty"`
}

type geminiGroundingMetadata struct {
	GroundingChunks []geminiGroundingChunk `json:"groundingChunks"`
}

type geminiCandidate struct {
	Content           geminiContent            `json:"content"`
	GroundingMetadata *geminiGroundingMetadata `json:"groundingMetadata,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}
