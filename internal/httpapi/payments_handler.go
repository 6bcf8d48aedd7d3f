package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type PaymentsHandler struct {
	sessions *Sessions
}

func NewPaymentsHandler(sessions *Sessions) *PaymentsHandler {
	return &PaymentsHandler{sessions: sessions}
}

// ListPending queries the server-owned pending set; nothing is cached
// locally.
func (h *PaymentsHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.sessions.Resumer().ListPending(r.Context())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pending)
}

type ResumeResponseDTO struct {
	TxRef       string `json:"tx_ref"`
	RedirectURL string `json:"checkout_redirect_url"`
}

func (h *PaymentsHandler) Resume(w http.ResponseWriter, r *http.Request) {
	txRef := chi.URLParam(r, "tx_ref")
	if txRef == "" {
		respondError(w, http.StatusBadRequest, "invalid_tx_ref", "tx_ref is required")
		return
	}

	url, err := h.sessions.Resumer().Resume(r.Context(), txRef)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ResumeResponseDTO{TxRef: txRef, RedirectURL: url})
}
