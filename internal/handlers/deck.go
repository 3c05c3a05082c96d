// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"luminaslides/internal/deck"
	"luminaslides/internal/studio"
)

// generatePayload is the POST /api/deck request body.
type generatePayload struct {
	Topic string `json:"topic"`
	Mode  string `json:"mode"`
	Theme string `json:"theme,omitempty"`
	File  *struct {
		Name     string `json:"name"`
		Data     string `json:"data"`
		MimeType string `json:"mimeType"`
	} `json:"file,omitempty"`
}

// DeckStatus returns the full workflow snapshot.
func (s *Studio) DeckStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.workflow.Status())
}

// DeckGenerate starts a full deck generation. Returns 202 with the
// snapshot once the pipeline is launched, 409 when one is already
// running, 422 on an invalid request.
func (s *Studio) DeckGenerate(w http.ResponseWriter, r *http.Request) {
	var payload generatePayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	req := studio.GenerateRequest{
		Topic: strings.TrimSpace(payload.Topic),
		Mode:  deck.Mode(payload.Mode),
		Theme: strings.TrimSpace(payload.Theme),
	}
	if payload.File != nil {
		req.File = &deck.FilePart{Data: payload.File.Data, MimeType: payload.File.MimeType}
		req.FileName = payload.File.Name
	}

	if msg := validateGenerate(req); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if req.Topic != "" && !s.checkPromptSafety(w, r, req.Topic) {
		return
	}

	if err := s.workflow.StartGeneration(req); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, s.workflow.Status())
}

// DeckReset discards the presentation and returns to Idle.
func (s *Studio) DeckReset(w http.ResponseWriter, r *http.Request) {
	s.workflow.Reset()
	writeJSON(w, http.StatusOK, s.workflow.Status())
}

// instructionPayload is the body of the edit and repaint endpoints.
type instructionPayload struct {
	Instruction string `json:"instruction"`
}

// SlideEdit applies a natural-language instruction to one slide's text.
func (s *Studio) SlideEdit(w http.ResponseWriter, r *http.Request) {
	slideID := chi.URLParam(r, "id")
	var payload instructionPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	instruction := strings.TrimSpace(payload.Instruction)
	if msg := validateInstruction(instruction); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if !s.checkPromptSafety(w, r, instruction) {
		return
	}

	if err := s.workflow.EditSlide(r.Context(), slideID, instruction); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.workflow.Status())
}

// SlideRepaint regenerates one slide's artwork, optionally guided by an
// instruction. An empty instruction redoes the image from its prompt.
func (s *Studio) SlideRepaint(w http.ResponseWriter, r *http.Request) {
	slideID := chi.URLParam(r, "id")
	var payload instructionPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	instruction := strings.TrimSpace(payload.Instruction)
	if instruction != "" && !s.checkPromptSafety(w, r, instruction) {
		return
	}

	if err := s.workflow.RepaintSlide(r.Context(), slideID, instruction); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.workflow.Status())
}

// slidePatchPayload is the PATCH /api/deck/slides/{id} body: a partial
// field update plus optional content point operations.
type slidePatchPayload struct {
	deck.SlidePatch
	AddPoint    *string `json:"addPoint,omitempty"`
	RemovePoint *int    `json:"removePoint,omitempty"`
}

// SlidePatch applies manual field edits to one slide.
func (s *Studio) SlidePatch(w http.ResponseWriter, r *http.Request) {
	slideID := chi.URLParam(r, "id")
	var payload slidePatchPayload
	if !decodeJSON(w, r, &payload) {
		return
	}
	if msg := validateSlidePatch(payload.SlidePatch); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	// One atomic document update: a rejected point operation leaves the
	// field patch unapplied too.
	err := s.workflow.MutateSlide(slideID, studio.SlideMutation{
		Patch:       payload.SlidePatch,
		AddPoint:    payload.AddPoint,
		RemovePoint: payload.RemovePoint,
	})
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.workflow.Status())
}

// DeckExport serializes the completed deck to PPTX and streams it as a
// download.
func (s *Studio) DeckExport(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.workflow.ExportDeck()
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
