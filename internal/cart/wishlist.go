package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
	"github.com/ebenezermerd/koricha-storefront/internal/store"
	"github.com/sirupsen/logrus"
)

// WishlistNamespace is the persistence namespace for wishlist state.
const WishlistNamespace = "wishlist"

// Wishlist holds saved items. No pricing: a wishlist never carries
// totals, discounts, or shipping.
type Wishlist struct {
	mu    sync.Mutex
	store store.Store
	key   string
	state domain.WishlistState
}

func NewWishlist(ctx context.Context, s store.Store, profile string) *Wishlist {
	w := &Wishlist{
		store: s,
		key:   store.Key(WishlistNamespace, profile),
	}

	data, err := s.Load(ctx, w.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logrus.Warnf("wishlist load failed, starting empty: %v", err)
		}
		return w
	}

	if err := json.Unmarshal(data, &w.state); err != nil {
		logrus.Warnf("persisted wishlist unreadable, starting empty: %v", err)
		w.state = domain.WishlistState{}
	}
	return w
}

// AddItem saves the item. Adding a ref that is already saved is a no-op.
func (w *Wishlist) AddItem(ctx context.Context, item domain.LineItem) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, existing := range w.state.Items {
		if existing.ProductRef == item.ProductRef {
			return nil
		}
	}
	w.state.Items = append(w.state.Items, item)
	return w.commit(ctx)
}

// RemoveItem removes the saved item; absent refs are a no-op.
func (w *Wishlist) RemoveItem(ctx context.Context, productRef string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, item := range w.state.Items {
		if item.ProductRef == productRef {
			w.state.Items = append(w.state.Items[:i], w.state.Items[i+1:]...)
			return w.commit(ctx)
		}
	}
	return nil
}

// Reset empties the wishlist.
func (w *Wishlist) Reset(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state = domain.WishlistState{}
	return w.commit(ctx)
}

// State returns a copy of the current wishlist state.
func (w *Wishlist) State() domain.WishlistState {
	w.mu.Lock()
	defer w.mu.Unlock()
	items := make([]domain.LineItem, len(w.state.Items))
	copy(items, w.state.Items)
	return domain.WishlistState{Items: items}
}

// Get returns the saved item for a ref.
func (w *Wishlist) Get(productRef string) (domain.LineItem, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, item := range w.state.Items {
		if item.ProductRef == productRef {
			return item, true
		}
	}
	return domain.LineItem{}, false
}

func (w *Wishlist) commit(ctx context.Context) error {
	data, err := json.Marshal(w.state)
	if err != nil {
		return fmt.Errorf("marshal wishlist failed: %w", err)
	}
	if err := w.store.Save(ctx, w.key, data); err != nil {
		logrus.Warnf("wishlist write-through failed: %v", err)
		return err
	}
	return nil
}
