package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the engine's command surface onto a chi router.
func NewRouter(sessions *Sessions, requestTimeout time.Duration) http.Handler {
	cartHandler := NewCartHandler(sessions)
	wishlistHandler := NewWishlistHandler(sessions)
	checkoutHandler := NewCheckoutHandler(sessions)
	paymentsHandler := NewPaymentsHandler(sessions)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ProfileMiddleware)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_ref}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_ref}", cartHandler.RemoveItem)
			r.Post("/discount", cartHandler.ApplyDiscount)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.GetWishlist)
			r.Post("/items", wishlistHandler.AddItem)
			r.Delete("/items/{product_ref}", wishlistHandler.RemoveItem)
			r.Post("/items/{product_ref}/move", wishlistHandler.MoveToCart)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.GetState)
			r.Post("/", checkoutHandler.Begin)
			r.Post("/billing", checkoutHandler.ProceedToBilling)
			r.Post("/billing/address", checkoutHandler.SelectBillingAddress)
			r.Post("/delivery", checkoutHandler.SelectDelivery)
			r.Post("/payment", checkoutHandler.ProceedToPayment)
			r.Post("/order", checkoutHandler.PlaceOrder)
			r.Post("/back", checkoutHandler.Back)
			r.Post("/reset", checkoutHandler.Reset)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/pending", paymentsHandler.ListPending)
			r.Post("/{tx_ref}/resume", paymentsHandler.Resume)
		})
	})

	return r
}
