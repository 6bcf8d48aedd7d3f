package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
	"github.com/ebenezermerd/koricha-storefront/internal/inventory"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	sessions *Sessions
}

func NewCartHandler(sessions *Sessions) *CartHandler {
	return &CartHandler{sessions: sessions}
}

type AddItemRequestDTO struct {
	ProductRef        string                     `json:"product_ref"`
	Name              string                     `json:"name"`
	UnitPrice         float64                    `json:"unit_price"`
	Quantity          int                        `json:"quantity"`
	SelectedColor     string                     `json:"selected_color,omitempty"`
	SelectedSize      string                     `json:"selected_size,omitempty"`
	QuantityThreshold int                        `json:"quantity_threshold,omitempty"`
	AdditionalCost    *domain.AdditionalCostRule `json:"additional_cost,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type DiscountRequestDTO struct {
	Code string `json:"code"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.ForProfile(r.Context(), profileFromContext(r.Context()))
	respondJSON(w, http.StatusOK, sess.Cart.State())
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
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
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// Availability gates every quantity increase. A failed check is a
	// hard block, never an optimistic add.
	avail, err := h.sessions.Gate().Check(ctx, req.ProductRef)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if err := inventory.AllowQuantity(avail, req.Quantity, sess.Cart.QuantityOf(req.ProductRef)); err != nil {
		respondEngineError(w, err)
		return
	}

	item := domain.LineItem{
		ProductRef:        req.ProductRef,
		Name:              req.Name,
		UnitPrice:         req.UnitPrice,
		Quantity:          req.Quantity,
		SelectedColor:     req.SelectedColor,
		SelectedSize:      req.SelectedSize,
		QuantityThreshold: req.QuantityThreshold,
		AdditionalCost:    req.AdditionalCost,
	}
	if err := sess.Cart.AddItem(ctx, item); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sess.Cart.State())
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessions.ForProfile(ctx, profileFromContext(ctx))

	productRef := chi.URLParam(r, "product_ref")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 1 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// The new quantity replaces the held one, so nothing is "already
	// held elsewhere" for this check.
	avail, err := h.sessions.Gate().Check(ctx, productRef)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if err := inventory.AllowQuantity(avail, req.Quantity, 0); err != nil {
		respondEngineError(w, err)
		return
	}

	if err := sess.Cart.UpdateQuantity(ctx, productRef, req.Quantity); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sess.Cart.State())
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessions.ForProfile(ctx, profileFromContext(ctx))

	if err := sess.Cart.RemoveItem(ctx, chi.URLParam(r, "product_ref")); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.Cart.State())
}

func (h *CartHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessions.ForProfile(ctx, profileFromContext(ctx))

	var req DiscountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// Unknown codes are a silent no-op: the answer never reveals
	// whether a code exists.
	if err := sess.Cart.ApplyDiscountCode(ctx, req.Code); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.Cart.State())
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := h.sessions.ForProfile(ctx, profileFromContext(ctx))

	if err := sess.Cart.Reset(ctx); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.Cart.State())
}
