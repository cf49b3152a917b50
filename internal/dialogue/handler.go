package dialogue

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/dialogue-relay/internal/bot"
	"github.com/Vovarama1992/dialogue-relay/internal/channel"
	"github.com/Vovarama1992/dialogue-relay/internal/httpjson"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// HandleNewMessage — webhook entry for inbound chat messages
func (h *Handler) HandleNewMessage(w http.ResponseWriter, r *http.Request) {
	var in Incoming
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Detail(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	token := bot.ParseBearer(r.Header.Get("Authorization"))
	outcome, err := h.svc.Process(r.Context(), token, in)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpjson.Detail(w, http.StatusOK, string(outcome))
}

func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	token := bot.ParseBearer(r.Header.Get("Authorization"))
	d, err := h.svc.Transcript(r.Context(), token, chi.URLParam(r, "chatID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, d)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpjson.Detail(w, http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, bot.ErrUnauthorized):
		w.Header().Set("WWW-Authenticate", "Bearer")
		httpjson.Detail(w, http.StatusUnauthorized, "Invalid bot token")
	case errors.Is(err, channel.ErrNotFound):
		httpjson.Detail(w, http.StatusNotFound, "Channel not found")
	case errors.Is(err, ErrNotFound):
		httpjson.Detail(w, http.StatusNotFound, "Dialogue not found")
	case errors.Is(err, ErrDuplicate):
		httpjson.Detail(w, http.StatusConflict, "Duplicate message")
	default:
		log.Printf("[dialogue] %v", err)
		httpjson.Detail(w, http.StatusInternalServerError, "Internal server error")
	}
}
