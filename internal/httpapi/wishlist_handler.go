package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type WishlistHandler struct {
	sessions *Sessions
}

func NewWishlistHandler(sessions *Sessions) *WishlistHandler {
	return &WishlistHandler{sessions: sessions}
}

type MoveToCartRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.ForProfile(r.Context(), profileFromContext(r.Context()))
	respondJSON(w, http.StatusOK, sess.Wishlist.State())
}

func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessions.ForProfile(ctx, profileFromContext(ctx))

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductRef == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_ref", "product_ref is required")
		return
	}

	item := domain.LineItem{
		ProductRef:        req.ProductRef,
		Name:              req.Name,
		UnitPrice:         req.UnitPrice,
		Quantity:          1,
		SelectedColor:     req.SelectedColor,
		SelectedSize:      req.SelectedSize,
		QuantityThreshold: req.QuantityThreshold,
		AdditionalCost:    req.AdditionalCost,
	}
	if err := sess.Wishlist.AddItem(ctx, item); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sess.Wishlist.State())
}

func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessions.ForProfile(ctx, profileFromContext(ctx))

	if err := sess.Wishlist.RemoveItem(ctx, chi.URLParam(r, "product_ref")); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.Wishlist.State())
}

// MoveToCart runs the single coordinator command spanning both
// aggregates; a rejected availability check leaves both intact.
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessions.ForProfile(ctx, profileFromContext(ctx))

	var req MoveToCartRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 || qty > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	if err := sess.Coordinator.MoveToCart(ctx, chi.URLParam(r, "product_ref"), qty); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cart":     sess.Cart.State(),
		"wishlist": sess.Wishlist.State(),
	})
}
