package channel

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/dialogue-relay/internal/httpjson"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Detail(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	ch, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, ch)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ch, err := h.svc.Get(r.Context(), chi.URLParam(r, "channelID"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, ch)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httpjson.Decode(w, r, &in); err != nil {
		httpjson.Detail(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	ch, err := h.svc.Update(r.Context(), chi.URLParam(r, "channelID"), in)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, ch)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "channelID")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpjson.Detail(w, http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, ErrInvalidID):
		httpjson.Detail(w, http.StatusBadRequest, "Invalid channel id")
	case errors.Is(err, ErrNotFound):
		httpjson.Detail(w, http.StatusNotFound, "Channel not found")
	default:
		log.Printf("[channel] %v", err)
		httpjson.Detail(w, http.StatusInternalServerError, "Internal server error")
	}
}
