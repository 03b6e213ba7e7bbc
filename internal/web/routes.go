package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/schoolhub/facerec/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	h := handlers.NewFaceHandler(s.config, s.faces)

	// Health check stays outside the API prefix and the API key check.
	s.router.Get("/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/encode", h.Encode)
		r.Post("/detect", h.Detect)
		r.Post("/recognize", h.Recognize)
		r.Post("/match", h.Match)
		r.Post("/compare", h.Compare)
		r.Post("/attendance", h.Attendance)
	})
}
