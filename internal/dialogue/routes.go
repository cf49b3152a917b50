package dialogue

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/api/webhook/new_message", h.HandleNewMessage)
	r.Get("/api/dialogues/{chatID}", h.GetTranscript)
}
