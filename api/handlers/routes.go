package handlers

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the API endpoints on r.
func (h *Handlers) Routes(r chi.Router) {
	// Sequence endpoints
	r.Route("/sequence", func(r chi.Router) {
		r.Post("/validate", ValidateHandler)
		r.Post("/reverse-complement", ReverseComplementHandler)
		r.Post("/homopolymers", h.HomopolymersHandler)
	})

	// Alignment endpoints
	r.Route("/alignment", func(r chi.Router) {
		r.Post("/local", h.LocalAlignHandler)
		r.Post("/global", h.GlobalAlignHandler)
		r.Post("/extend", h.ExtendHandler)
		r.Post("/score", h.AlignmentScoreHandler)
		r.Post("/batch", h.BatchAlignHandler)
	})
}
