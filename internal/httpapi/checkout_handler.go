package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
)

type CheckoutHandler struct {
	sessions *Sessions
}

func NewCheckoutHandler(sessions *Sessions) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions}
}

type CheckoutStateDTO struct {
	Step           domain.CheckoutStep    `json:"step"`
	Items          []domain.LineItem      `json:"items"`
	Totals         domain.Totals          `json:"totals"`
	BillingAddress *domain.Address        `json:"billing_address,omitempty"`
	Delivery       *domain.DeliveryOption `json:"delivery,omitempty"`
}

type PlaceOrderRequestDTO struct {
	Method domain.PaymentMethod `json:"method"`
}

func (h *CheckoutHandler) state(sess *Session) CheckoutStateDTO {
	dto := CheckoutStateDTO{
		Step:   sess.Machine.Step(),
		Items:  sess.Machine.Items(),
		Totals: sess.Machine.Totals(),
	}
	if addr, ok := sess.Machine.BillingAddress(); ok {
		dto.BillingAddress = &addr
	}
	if opt, ok := sess.Machine.Delivery(); ok {
		dto.Delivery = &opt
	}
	return dto
}

func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.ForProfile(r.Context(), profileFromContext(r.Context()))
	respondJSON(w, http.StatusOK, h.state(sess))
}

// Begin snapshots the current cart into a fresh checkout session.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessions.ForProfile(ctx, profileFromContext(ctx))

	if err := sess.Machine.Begin(sess.Cart.State()); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.state(sess))
}

func (h *CheckoutHandler) ProceedToBilling(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessions.ForProfile(ctx, profileFromContext(ctx))

	if err := sess.Machine.ProceedToBilling(ctx); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.state(sess))
}

func (h *CheckoutHandler) SelectBillingAddress(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.ForProfile(r.Context(), profileFromContext(r.Context()))

	var addr domain.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if addr.ID == "" {
		respondError(w, http.StatusBadRequest, "invalid_address", "address id is required")
		return
	}

	sess.Machine.SelectBillingAddress(addr)
	respondJSON(w, http.StatusOK, h.state(sess))
}

func (h *CheckoutHandler) SelectDelivery(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.ForProfile(r.Context(), profileFromContext(r.Context()))

	var opt domain.DeliveryOption
	if err := json.NewDecoder(r.Body).Decode(&opt); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if opt.Label == "" {
		respondError(w, http.StatusBadRequest, "invalid_delivery", "delivery label is required")
		return
	}

	sess.Machine.SelectDelivery(opt)
	respondJSON(w, http.StatusOK, h.state(sess))
}

func (h *CheckoutHandler) ProceedToPayment(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.ForProfile(r.Context(), profileFromContext(r.Context()))

	if err := sess.Machine.ProceedToPayment(); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.state(sess))
}

// PlaceOrder submits the order. On cash-on-delivery success the cart
// aggregate is cleared; the redirect method keeps the cart until the
// provider confirms.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessions.ForProfile(ctx, profileFromContext(ctx))

	var req PlaceOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Method != domain.PaymentCashOnDelivery && req.Method != domain.PaymentRedirect {
		respondError(w, http.StatusBadRequest, "invalid_method", "unknown payment method")
		return
	}

	result, err := sess.Machine.PlaceOrder(ctx, req.Method)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	if req.Method == domain.PaymentCashOnDelivery {
		if err := sess.Cart.Reset(ctx); err != nil {
			// The order exists; a failed cart clear is not fatal.
			respondJSON(w, http.StatusCreated, result)
			return
		}
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.ForProfile(r.Context(), profileFromContext(r.Context()))
	sess.Machine.Back()
	respondJSON(w, http.StatusOK, h.state(sess))
}

func (h *CheckoutHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.ForProfile(r.Context(), profileFromContext(r.Context()))
	sess.Machine.Reset()
	respondJSON(w, http.StatusOK, h.state(sess))
}
