package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ebenezermerd/koricha-storefront/internal/cart"
	"github.com/ebenezermerd/koricha-storefront/internal/checkout"
	"github.com/ebenezermerd/koricha-storefront/internal/inventory"
	"github.com/ebenezermerd/koricha-storefront/internal/payment"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.Warnf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// respondEngineError maps engine sentinel errors to HTTP answers. The
// fallback is a generic retryable error: collaborator failures never
// leak internals, and the triggering command was not applied.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock", err.Error())
	case errors.Is(err, inventory.ErrQuantityExceedsLimit):
		respondError(w, http.StatusConflict, "quantity_limit", err.Error())
	case errors.Is(err, cart.ErrNotInWishlist):
		respondError(w, http.StatusNotFound, "not_in_wishlist", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrAddressIncomplete):
		respondError(w, http.StatusUnprocessableEntity, "address_incomplete", err.Error())
	case errors.Is(err, checkout.ErrNoBillingAddress):
		respondError(w, http.StatusBadRequest, "no_billing_address", err.Error())
	case errors.Is(err, checkout.ErrNoDeliverySelected):
		respondError(w, http.StatusBadRequest, "no_delivery_selected", err.Error())
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	case errors.Is(err, payment.ErrResumeInFlight):
		respondError(w, http.StatusConflict, "resume_in_flight", err.Error())
	default:
		logrus.Warnf("collaborator failure: %v", err)
		respondError(w, http.StatusBadGateway, "collaborator_unavailable", "the operation could not be completed, try again")
	}
}
