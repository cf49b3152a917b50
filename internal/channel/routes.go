package channel

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/channels", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{channelID}", h.Get)
		r.Patch("/{channelID}", h.Update)
		r.Delete("/{channelID}", h.Delete)
	})
}
