package httpapi

import (
	"context"
	"sync"

	"github.com/ebenezermerd/koricha-storefront/internal/cart"
	"github.com/ebenezermerd/koricha-storefront/internal/checkout"
	"github.com/ebenezermerd/koricha-storefront/internal/inventory"
	"github.com/ebenezermerd/koricha-storefront/internal/payment"
	"github.com/ebenezermerd/koricha-storefront/internal/store"
)

// Session bundles the per-profile engine pieces: the two aggregates,
// the coordinator spanning them, and the checkout machine.
type Session struct {
	Cart        *cart.Cart
	Wishlist    *cart.Wishlist
	Coordinator *cart.Coordinator
	Machine     *checkout.Machine
}

// Sessions hands out one Session per profile, constructing it lazily
// from the shared store and collaborators.
type Sessions struct {
	store    store.Store
	gate     inventory.Gate
	verifier checkout.AddressVerifier
	orders   checkout.OrderCreator
	resumer  *payment.Resumer

	returnURL   string
	callbackURL string

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessions(
	s store.Store,
	gate inventory.Gate,
	verifier checkout.AddressVerifier,
	orders checkout.OrderCreator,
	resumer *payment.Resumer,
	returnURL, callbackURL string,
) *Sessions {
	return &Sessions{
		store:       s,
		gate:        gate,
		verifier:    verifier,
		orders:      orders,
		resumer:     resumer,
		returnURL:   returnURL,
		callbackURL: callbackURL,
		sessions:    make(map[string]*Session),
	}
}

// ForProfile returns the profile's session, building it on first use.
func (s *Sessions) ForProfile(ctx context.Context, profile string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[profile]; ok {
		return sess
	}

	c := cart.NewCart(ctx, s.store, profile)
	w := cart.NewWishlist(ctx, s.store, profile)
	sess := &Session{
		Cart:        c,
		Wishlist:    w,
		Coordinator: cart.NewCoordinator(c, w, s.gate),
		Machine:     checkout.NewMachine(s.verifier, s.orders, s.returnURL, s.callbackURL),
	}
	s.sessions[profile] = sess
	return sess
}

// Resumer exposes the shared pending-payment resumer.
func (s *Sessions) Resumer() *payment.Resumer {
	return s.resumer
}

// Gate exposes the availability gate for handler-side quantity checks.
func (s *Sessions) Gate() inventory.Gate {
	return s.gate
}
