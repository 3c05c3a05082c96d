// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// LuminaSlides server. Generation and brand research endpoints sit behind
// a tighter rate limit than the rest of the API.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"luminaslides/internal/handlers"
	"luminaslides/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(studio *handlers.Studio) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", healthHandler)

	// Expensive AI endpoints share one limiter; each call can fan out
	// into many provider requests.
	aiLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/credential", studio.CredentialStatus)
		r.Post("/credential/refresh", studio.CredentialRefresh)

		r.Route("/deck", func(r chi.Router) {
			r.Get("/", studio.DeckStatus)
			r.With(aiLimiter.Middleware).Post("/", studio.DeckGenerate)
			r.Post("/reset", studio.DeckReset)
			r.Post("/export", studio.DeckExport)

			r.Route("/slides/{id}", func(r chi.Router) {
				r.Patch("/", studio.SlidePatch)
				r.With(aiLimiter.Middleware).Post("/edit", studio.SlideEdit)
				r.With(aiLimiter.Middleware).Post("/repaint", studio.SlideRepaint)
			})
		})

		r.Route("/brand", func(r chi.Router) {
			r.Get("/", studio.BrandGet)
			r.Put("/", studio.BrandPut)
			r.Delete("/", studio.BrandDelete)
			r.With(aiLimiter.Middleware).Post("/extract", studio.BrandExtract)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
