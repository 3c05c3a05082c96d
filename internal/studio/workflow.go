// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package studio orchestrates the presentation lifecycle: document
// analysis, outline generation, the per-slide image sweep, targeted
// edits and export. A single Workflow owns the presentation document;
// every consumer gets deep-cloned snapshots via Status.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"luminaslides/internal/ai"
	"luminaslides/internal/deck"
	"luminaslides/internal/names"
	"luminaslides/internal/pptx"
)

// State is the workflow's lifecycle phase.
type State string

const (
	StateIdle              State = "idle"
	StateAnalyzingFile     State = "analyzing_file"
	StateGeneratingOutline State = "generating_outline"
	StateGeneratingImages  State = "generating_images"
	StateCompleted         State = "completed"
	StateError             State = "error"
)

var (
	// ErrBusy is returned when an operation would overlap an in-flight
	// top-level operation.
	ErrBusy = errors.New("studio: another operation is in flight")

	// ErrInvalidRequest is returned when a generation request carries
	// neither a topic nor a document.
	ErrInvalidRequest = errors.New("studio: topic or document required")

	// ErrNotCompleted guards operations that require a finished deck.
	ErrNotCompleted = errors.New("studio: no completed presentation")

	// ErrUnknownSlide is returned when an edit targets a slide id that is
	// not part of the current presentation.
	ErrUnknownSlide = errors.New("studio: unknown slide")

	// ErrBadPoint is returned when a content point operation targets an
	// index outside the slide's content.
	ErrBadPoint = errors.New("studio: content point index out of range")
)

// Client is the slice of the generation client the workflow drives.
// *ai.Registry satisfies it.
type Client interface {
	SynthesizeOutline(ctx context.Context, req ai.OutlineRequest) (*deck.Presentation, error)
	SynthesizeImage(ctx context.Context, req ai.ImageRequest) (string, error)
	RepaintImage(ctx context.Context, req ai.RepaintRequest) (string, error)
	ReviseSlide(ctx context.Context, current *deck.Slide, instruction string) (deck.SlidePatch, error)
	ExtractBrandIdentity(ctx context.Context, siteURL string) (*deck.Branding, error)
	SummarizeDocumentTopic(ctx context.Context, file deck.FilePart) (string, error)
	SupportsImageSynthesis() bool
}

// BrandStore persists the active brand identity and caches extraction
// results. *brand.Store satisfies it; a nil store disables persistence.
type BrandStore interface {
	Active(ctx context.Context) (*deck.Branding, error)
	SaveActive(ctx context.Context, b *deck.Branding) error
	ClearActive(ctx context.Context) error
	CachedExtraction(ctx context.Context, siteURL string) (*deck.Branding, error)
	CacheExtraction(ctx context.Context, siteURL string, b *deck.Branding) error
}

// BrandProbe fills extraction gaps from the brand's website. *brand.Probe
// satisfies it; nil disables probing.
type BrandProbe interface {
	FillGaps(ctx context.Context, siteURL string, b *deck.Branding) *deck.Branding
}

// DeckCache parks the last completed deck so a restart restores the
// session. *cache.DeckCache satisfies it; nil disables persistence.
type DeckCache interface {
	SaveLast(ctx context.Context, p *deck.Presentation)
	LoadLast(ctx context.Context) *deck.Presentation
	ClearLast(ctx context.Context)
}

// GenerateRequest starts a full deck generation.
type GenerateRequest struct {
	// Topic is the user-entered subject. May be empty when File is set;
	// the document is then analyzed to synthesize one.
	Topic string
	// Mode selects the generation policy.
	Mode deck.Mode
	// Theme is an optional user-preferred visual theme.
	Theme string
	// File is an optional uploaded document grounding the outline.
	File *deck.FilePart
	// FileName is the uploaded document's original name, used for the
	// fallback topic label when analysis fails.
	FileName string
}

// Status is a point-in-time snapshot of the workflow handed to consumers.
// Presentation is a deep clone; mutating it cannot affect the workflow.
type Status struct {
	State           State              `json:"state"`
	Error           string             `json:"error,omitempty"`
	CredentialOK    bool               `json:"credentialOk"`
	ActiveSlide     int                `json:"activeSlide"`
	Editing         bool               `json:"editing"`
	ExtractingBrand bool               `json:"extractingBrand"`
	Presentation    *deck.Presentation `json:"presentation,omitempty"`
}

// Options configures optional workflow collaborators.
type Options struct {
	Brands       BrandStore
	Probe        BrandProbe
	Decks        DeckCache
	Logger       *slog.Logger
	CredentialOK bool
	Clock        func() time.Time
}

// Workflow is the single orchestrator instance. All exported methods are
// safe for concurrent use.
type Workflow struct {
	client Client
	brands BrandStore
	probe  BrandProbe
	decks  DeckCache
	logger *slog.Logger
	clock  func() time.Time

	mu           sync.Mutex
	state        State
	lastErr      error
	pres         *deck.Presentation
	activeSlide  int
	editing      bool
	extracting   bool
	credentialOK bool

	// epoch increments on every reset. Async work captures the epoch at
	// request time and drops its result if the epoch moved on, so a
	// response that lands after a reset can never resurrect old state.
	epoch uint64
}

// New creates a workflow in the Idle state.
func New(client Client, opts Options) *Workflow {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Workflow{
		client:       client,
		brands:       opts.Brands,
		probe:        opts.Probe,
		decks:        opts.Decks,
		logger:       logger,
		clock:        clock,
		state:        StateIdle,
		credentialOK: opts.CredentialOK,
	}
}

// Status returns a deep-cloned snapshot of the workflow.
func (w *Workflow) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := Status{
		State:           w.state,
		CredentialOK:    w.credentialOK,
		ActiveSlide:     w.activeSlide,
		Editing:         w.editing,
		ExtractingBrand: w.extracting,
		Presentation:    w.pres.Clone(),
	}
	if w.lastErr != nil {
		st.Error = w.lastErr.Error()
	}
	return st
}

// CredentialOK reports whether the last credential check succeeded.
func (w *Workflow) CredentialOK() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.credentialOK
}

// MarkCredential records the outcome of a credential check or refresh.
func (w *Workflow) MarkCredential(ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.credentialOK = ok
}

// Reset discards the presentation and any uploaded document and returns
// to Idle. In-flight work from before the reset is dropped when it lands.
func (w *Workflow) Reset() {
	w.mu.Lock()
	w.epoch++
	w.pres = nil
	w.activeSlide = 0
	w.state = StateIdle
	w.lastErr = nil
	w.editing = false
	w.mu.Unlock()

	if w.decks != nil {
		w.decks.ClearLast(context.Background())
	}
}

// Restore installs a previously parked presentation as the completed deck.
// Used at startup to resume the last session. No-op on a nil deck or when
// the workflow is not Idle.
func (w *Workflow) Restore(p *deck.Presentation) {
	if p == nil || len(p.Slides) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateIdle {
		return
	}
	w.pres = p.Clone()
	w.activeSlide = 0
	w.state = StateCompleted
}

// StartGeneration validates the request, reserves the workflow and runs
// the generation pipeline on a background goroutine. It returns
// immediately: ErrBusy when the workflow is not Idle, ErrInvalidRequest
// when the request has neither topic nor document.
func (w *Workflow) StartGeneration(req GenerateRequest) error {
	e, err := w.reserve(req)
	if err != nil {
		return err
	}
	go w.generate(context.Background(), req, e)
	return nil
}

// reserve checks entry guards and transitions into the first pipeline
// state. Returns the epoch the pipeline must commit against.
func (w *Workflow) reserve(req GenerateRequest) (uint64, error) {
	if strings.TrimSpace(req.Topic) == "" && req.File == nil {
		return 0, ErrInvalidRequest
	}
	if !deck.ValidMode(req.Mode) {
		return 0, fmt.Errorf("studio: unknown mode %q", req.Mode)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateIdle {
		return 0, ErrBusy
	}
	w.lastErr = nil
	if strings.TrimSpace(req.Topic) == "" {
		w.state = StateAnalyzingFile
	} else {
		w.state = StateGeneratingOutline
	}
	return w.epoch, nil
}

// generate runs the full pipeline: optional document analysis, outline
// synthesis and the image sweep. Every commit is epoch-guarded.
func (w *Workflow) generate(ctx context.Context, req GenerateRequest, e uint64) {
	topic := strings.TrimSpace(req.Topic)

	if topic == "" {
		label, err := w.client.SummarizeDocumentTopic(ctx, *req.File)
		switch {
		case errors.Is(err, ai.ErrCredentialInvalid):
			w.fail(e, err)
			return
		case err != nil:
			topic = names.TopicFromFilename(req.FileName)
			w.logger.Warn("document analysis failed, using filename label",
				"topic", topic, "error", err)
		default:
			topic = label
		}
		w.setState(e, StateGeneratingOutline)
	}

	var branding *deck.Branding
	if w.brands != nil {
		b, err := w.brands.Active(ctx)
		if err != nil {
			w.logger.Warn("active branding unavailable", "error", err)
		} else {
			branding = b
		}
	}

	pres, err := w.client.SynthesizeOutline(ctx, ai.OutlineRequest{
		Topic:    topic,
		Mode:     req.Mode,
		File:     req.File,
		Theme:    req.Theme,
		Branding: branding,
	})
	if err != nil {
		w.fail(e, err)
		return
	}
	pres.Date = w.clock().Format("January 2, 2006")

	sweep := deck.SpecFor(req.Mode).SweepsImages && w.client.SupportsImageSynthesis()

	w.mu.Lock()
	if w.epoch != e {
		w.mu.Unlock()
		return
	}
	w.pres = pres
	w.activeSlide = 0
	if sweep {
		w.state = StateGeneratingImages
	}
	w.mu.Unlock()

	w.logger.Info("outline generated",
		"topic", topic, "mode", string(req.Mode), "slides", len(pres.Slides))

	if sweep {
		if err := w.sweep(ctx, e); err != nil {
			return
		}
	}
	w.setState(e, StateCompleted)
	w.persist(ctx)
}

// persist parks a snapshot of the completed deck in the cache.
func (w *Workflow) persist(ctx context.Context) {
	if w.decks == nil {
		return
	}
	w.mu.Lock()
	var p *deck.Presentation
	if w.state == StateCompleted {
		p = w.pres.Clone()
	}
	w.mu.Unlock()
	if p != nil {
		w.decks.SaveLast(ctx, p)
	}
}

// sweep generates artwork for every slide in order. All slides are marked
// busy up front; each finished slide clears its own flag. A per-slide
// generation failure clears that slide's flag and moves on. A credential
// failure abandons the sweep, clears every remaining busy flag and moves
// the workflow to Error.
func (w *Workflow) sweep(ctx context.Context, e uint64) error {
	if !w.commit(e, func(p *deck.Presentation) *deck.Presentation {
		return p.MarkAllGeneratingImages()
	}) {
		return nil
	}

	w.mu.Lock()
	n := len(w.pres.Slides)
	w.mu.Unlock()

	for i := 0; i < n; i++ {
		w.mu.Lock()
		if w.epoch != e || w.pres == nil {
			w.mu.Unlock()
			return nil
		}
		p := w.pres
		s := p.Slides[i]
		req := ai.ImageRequest{
			Prompt:   s.ImagePrompt,
			Theme:    p.Theme,
			Mode:     p.Mode,
			Title:    s.Title,
			Content:  append([]string(nil), s.Content...),
			Branding: p.Branding.Clone(),
		}
		w.mu.Unlock()

		dataURL, err := w.client.SynthesizeImage(ctx, req)
		switch {
		case err == nil:
			w.commit(e, func(p *deck.Presentation) *deck.Presentation {
				return p.SetSlideImage(i, dataURL)
			})
		case errors.Is(err, ai.ErrCredentialInvalid):
			w.mu.Lock()
			if w.epoch == e {
				if w.pres != nil {
					w.pres = w.pres.ClearAllGeneratingImages()
				}
				w.credentialOK = false
				w.state = StateError
				w.lastErr = err
			}
			w.mu.Unlock()
			w.logger.Error("image sweep abandoned", "slide", i, "error", err)
			return err
		default:
			w.logger.Warn("slide image failed", "slide", i, "error", err)
			w.commit(e, func(p *deck.Presentation) *deck.Presentation {
				return p.ClearSlideBusy(i)
			})
		}
	}
	return nil
}

// EditSlide applies a natural-language text instruction to the slide with
// the given id. The slide identity is captured at request time; if the
// presentation was reset or the slide removed while the revision was in
// flight, the result is discarded.
func (w *Workflow) EditSlide(ctx context.Context, slideID, instruction string) error {
	snapshot, e, err := w.beginEdit(slideID)
	if err != nil {
		return err
	}
	defer w.endEdit()

	patch, err := w.client.ReviseSlide(ctx, snapshot, instruction)
	if err != nil {
		w.noteCredential(err)
		return err
	}

	w.mu.Lock()
	if w.epoch != e || w.pres == nil {
		w.mu.Unlock()
		return nil
	}
	if next, ok := w.pres.MergePatch(slideID, patch); ok {
		w.pres = next
	}
	w.mu.Unlock()

	w.persist(ctx)
	return nil
}

// RepaintSlide regenerates the artwork of the slide with the given id,
// guided by an optional instruction. A slide that already carries artwork
// is revised in place; one without gets a fresh image from its prompt.
// The target slide's busy flag is set for the duration.
func (w *Workflow) RepaintSlide(ctx context.Context, slideID, instruction string) error {
	snapshot, e, err := w.beginEdit(slideID)
	if err != nil {
		return err
	}
	defer w.endEdit()

	w.mu.Lock()
	var theme string
	var mode deck.Mode
	var branding *deck.Branding
	if w.pres != nil {
		theme = w.pres.Theme
		mode = w.pres.Mode
		branding = w.pres.Branding.Clone()
		w.pres, _ = w.pres.PatchSlideByID(slideID, func(s *deck.Slide) {
			s.IsGeneratingImage = true
		})
	}
	w.mu.Unlock()

	var dataURL string
	if snapshot.ImageURL != "" && strings.TrimSpace(instruction) != "" {
		dataURL, err = w.client.RepaintImage(ctx, ai.RepaintRequest{
			ImageDataURL: snapshot.ImageURL,
			Instruction:  instruction,
		})
	} else {
		prompt := snapshot.ImagePrompt
		if in := strings.TrimSpace(instruction); in != "" {
			prompt = prompt + ". " + in
		}
		dataURL, err = w.client.SynthesizeImage(ctx, ai.ImageRequest{
			Prompt:   prompt,
			Theme:    theme,
			Mode:     mode,
			Title:    snapshot.Title,
			Content:  snapshot.Content,
			Branding: branding,
		})
	}

	w.mu.Lock()
	if w.epoch != e || w.pres == nil {
		w.mu.Unlock()
		return nil
	}
	if err != nil {
		if errors.Is(err, ai.ErrCredentialInvalid) {
			w.credentialOK = false
		}
		w.pres, _ = w.pres.PatchSlideByID(slideID, func(s *deck.Slide) {
			s.IsGeneratingImage = false
		})
		w.mu.Unlock()
		return err
	}
	w.pres, _ = w.pres.PatchSlideByID(slideID, func(s *deck.Slide) {
		s.ImageURL = dataURL
		s.IsGeneratingImage = false
	})
	w.mu.Unlock()

	w.persist(ctx)
	return nil
}

// beginEdit checks edit entry guards, flips the editing flag and returns
// a snapshot of the target slide plus the epoch to commit against.
func (w *Workflow) beginEdit(slideID string) (*deck.Slide, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateCompleted || w.pres == nil {
		return nil, 0, ErrNotCompleted
	}
	if w.editing {
		return nil, 0, ErrBusy
	}
	_, s := w.pres.SlideByID(slideID)
	if s == nil {
		return nil, 0, ErrUnknownSlide
	}
	w.editing = true
	return s.Clone(), w.epoch, nil
}

func (w *Workflow) endEdit() {
	w.mu.Lock()
	w.editing = false
	w.mu.Unlock()
}

// SlideMutation bundles one manual slide edit: a partial field patch plus
// optional content point operations.
type SlideMutation struct {
	Patch       deck.SlidePatch
	AddPoint    *string
	RemovePoint *int
}

// MutateSlide applies m to the slide with the given id as a single
// document update: either every operation lands or the presentation is
// left untouched. Point operations see the patched content, so a patch
// that replaces the bullets and a removal index refer to the same list.
// Only available on a completed deck.
func (w *Workflow) MutateSlide(slideID string, m SlideMutation) error {
	w.mu.Lock()
	if w.state != StateCompleted || w.pres == nil {
		w.mu.Unlock()
		return ErrNotCompleted
	}
	next, ok := w.pres.MergePatch(slideID, m.Patch)
	if !ok {
		w.mu.Unlock()
		return ErrUnknownSlide
	}
	if m.AddPoint != nil {
		next, _ = next.AppendContentPoint(slideID, *m.AddPoint)
	}
	if m.RemovePoint != nil {
		if next, ok = next.RemoveContentPoint(slideID, *m.RemovePoint); !ok {
			w.mu.Unlock()
			return ErrBadPoint
		}
	}
	w.pres = next
	w.mu.Unlock()

	w.persist(context.Background())
	return nil
}

// SetActiveSlide moves the navigation cursor. Out-of-range values are
// clamped to the deck bounds.
func (w *Workflow) SetActiveSlide(i int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pres == nil {
		w.activeSlide = 0
		return
	}
	if i < 0 {
		i = 0
	}
	if max := len(w.pres.Slides) - 1; i > max {
		i = max
	}
	w.activeSlide = i
}

// ExtractBrand researches a company website and stores the result as the
// active branding. Cached extractions are reused. Brand extraction runs
// independently of deck generation and never touches an in-flight deck.
func (w *Workflow) ExtractBrand(ctx context.Context, siteURL string) (*deck.Branding, error) {
	w.mu.Lock()
	if w.extracting {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	w.extracting = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.extracting = false
		w.mu.Unlock()
	}()

	if w.brands != nil {
		if b, err := w.brands.CachedExtraction(ctx, siteURL); err == nil && b != nil {
			if err := w.brands.SaveActive(ctx, b); err != nil {
				w.logger.Warn("branding save failed", "error", err)
			}
			return b, nil
		}
	}

	b, err := w.client.ExtractBrandIdentity(ctx, siteURL)
	if err != nil {
		w.noteCredential(err)
		return nil, err
	}
	if w.probe != nil {
		b = w.probe.FillGaps(ctx, siteURL, b)
	}
	if w.brands != nil {
		if err := w.brands.SaveActive(ctx, b); err != nil {
			w.logger.Warn("branding save failed", "error", err)
		}
		if err := w.brands.CacheExtraction(ctx, siteURL, b); err != nil {
			w.logger.Warn("branding cache failed", "error", err)
		}
	}
	return b, nil
}

// ExportDeck serializes the completed presentation to a PPTX payload and
// returns it with its download filename.
func (w *Workflow) ExportDeck() ([]byte, string, error) {
	w.mu.Lock()
	if w.state != StateCompleted || w.pres == nil {
		w.mu.Unlock()
		return nil, "", ErrNotCompleted
	}
	p := w.pres.Clone()
	w.mu.Unlock()

	data, err := pptx.Export(p)
	if err != nil {
		return nil, "", err
	}
	return data, pptx.Filename(p), nil
}

// commit applies fn to the current presentation if the epoch still
// matches. Returns false when the result was dropped.
func (w *Workflow) commit(e uint64, fn func(*deck.Presentation) *deck.Presentation) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.epoch != e || w.pres == nil {
		return false
	}
	w.pres = fn(w.pres)
	return true
}

// setState transitions to s if the epoch still matches.
func (w *Workflow) setState(e uint64, s State) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.epoch != e {
		return
	}
	w.state = s
}

// fail records a pipeline failure. A credential error additionally clears
// the credential flag so the UI can prompt for a new key.
func (w *Workflow) fail(e uint64, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.epoch != e {
		return
	}
	if errors.Is(err, ai.ErrCredentialInvalid) {
		w.credentialOK = false
	}
	w.state = StateError
	w.lastErr = err
}

// noteCredential clears the credential flag on a credential error without
// changing the workflow state. Used by edit paths, which stay Completed.
func (w *Workflow) noteCredential(err error) {
	if !errors.Is(err, ai.ErrCredentialInvalid) {
		return
	}
	w.mu.Lock()
	w.credentialOK = false
	w.mu.Unlock()
}
