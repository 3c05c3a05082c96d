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

// openAIProvider implements the text capabilities (outline synthesis and
// slide revision) using the OpenAI chat completions API
// (POST /v1/chat/completions). It has no image model and cannot consume
// uploaded documents, so image synthesis, brand research and document
// analysis stay Gemini-only.
type openAIProvider struct {
	config ProviderConfig
	client *http.Client
}

// newOpenAI creates a new OpenAI provider.
func newOpenAI(cfg ProviderConfig) *openAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &openAIProvider{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *openAIProvider) Name() string { return "openai" }

// doChat performs the HTTP call to the chat completions endpoint and
// returns the assistant's text.
func (p *openAIProvider) doChat(ctx context.Context, body openAIRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("openai marshal: %w", err)
	}

	url := p.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai http: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apiError("openai", resp.StatusCode, respBody)
	}

	var result openAIResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("openai unmarshal: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned: %w", ErrGenerationFailed)
	}

	return result.Choices[0].Message.Content, nil
}

// outlineShapeHint describes the expected document shape for providers
// without schema-constrained output.
const outlineShapeHint = "\nThe JSON object has the keys: title, subtitle, oneLiner, theme, and slides. " +
	"Each slide has: title, content (array of strings), layout, componentType, imagePrompt, " +
	"and, when relevant, chartData (array of {label, value}), tableData ({headers, rows}), icons (array of strings)."

// SynthesizeOutline generates a full deck outline in JSON mode. Uploaded
// documents cannot be attached to chat completions, so req.File is
// ignored; callers wanting document grounding use Gemini.
func (p *openAIProvider) SynthesizeOutline(ctx context.Context, req OutlineRequest) (*deck.Presentation, error) {
	body := openAIRequest{
		Model: p.config.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: outlinePolicy(req.Mode) + outlineShapeHint},
			{Role: "user", Content: buildOutlineUserPrompt(req)},
		},
		ResponseFormat: &openAIResponseFormat{Type: "json_object"},
	}

	text, err := p.doChat(ctx, body)
	if err != nil {
		return nil, err
	}
	return decodeOutline(text, req)
}

// ReviseSlide asks for a partial slide update in JSON mode.
func (p *openAIProvider) ReviseSlide(ctx context.Context, current *deck.Slide, instruction string) (deck.SlidePatch, error) {
	body := openAIRequest{
		Model: p.config.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: revisePolicy},
			{Role: "user", Content: buildRevisePrompt(current, instruction)},
		},
		ResponseFormat: &openAIResponseFormat{Type: "json_object"},
	}

	text, err := p.doChat(ctx, body)
	if err != nil {
		return deck.SlidePatch{}, err
	}
	return decodeSlidePatch(text)
}

// --- OpenAI request/response types ---

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponseFormat struct {
	Type string `json:"type"`
}

type openAIRequest struct {
	Model          string                `json:"model"`
	Messages       []openAIMessage       `json:"messages"`
	ResponseFormat *openAIResponseFormat `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
}

type openAIChoice struct {
	Message openAIMessage `json:"message"`
}
