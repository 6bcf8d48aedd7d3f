package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
	"github.com/ebenezermerd/koricha-storefront/internal/pricing"
	"github.com/ebenezermerd/koricha-storefront/internal/store"
	"github.com/sirupsen/logrus"
)

// CartNamespace is the persistence namespace for cart state.
const CartNamespace = "cart"

// Cart is the shopping-cart aggregate: line items plus derived totals,
// mutated through a closed command set. Every command recomputes totals
// synchronously before returning and writes the new state through to
// the persistence adapter. Commands are serialized by an internal lock,
// so no two commands interleave mid-computation.
type Cart struct {
	mu    sync.Mutex
	store store.Store
	key   string
	state domain.CartState
}

// NewCart builds the aggregate for a profile, loading the last persisted
// state or falling back to empty.
func NewCart(ctx context.Context, s store.Store, profile string) *Cart {
	c := &Cart{
		store: s,
		key:   store.Key(CartNamespace, profile),
	}

	data, err := s.Load(ctx, c.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logrus.Warnf("cart load failed, starting empty: %v", err)
		}
		return c
	}

	if err := json.Unmarshal(data, &c.state); err != nil {
		logrus.Warnf("persisted cart unreadable, starting empty: %v", err)
		c.state = domain.CartState{}
	}
	return c
}

// AddItem merges the item into the cart: quantities add when a line with
// the same ProductRef exists, otherwise the item is appended. Quantity is
// not clamped against availability here; callers consult the availability
// gate first.
func (c *Cart) AddItem(ctx context.Context, item domain.LineItem) error {
	if item.Quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", item.Quantity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	merged := false
	for i := range c.state.Items {
		if c.state.Items[i].ProductRef == item.ProductRef {
			c.state.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.state.Items = append(c.state.Items, item)
	}

	return c.commit(ctx)
}

// RemoveItem removes the line unconditionally. Removing an absent ref is
// a no-op.
func (c *Cart) RemoveItem(ctx context.Context, productRef string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.state.Items {
		if item.ProductRef == productRef {
			c.state.Items = append(c.state.Items[:i], c.state.Items[i+1:]...)
			return c.commit(ctx)
		}
	}
	return nil
}

// UpdateQuantity replaces the line's quantity when qty > 0. A request
// with qty <= 0 is a no-op: deletion must be an explicit RemoveItem, so
// a decrement race cannot silently drop a line.
func (c *Cart) UpdateQuantity(ctx context.Context, productRef string, qty int) error {
	if qty <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.state.Items {
		if c.state.Items[i].ProductRef == productRef {
			c.state.Items[i].Quantity = qty
			return c.commit(ctx)
		}
	}
	return nil
}

// ApplyDiscountCode records the code only if it is registered. Unknown
// codes leave state unchanged and raise no error, so callers cannot
// probe which codes exist.
func (c *Cart) ApplyDiscountCode(ctx context.Context, code string) error {
	if !pricing.CodeRegistered(code) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.DiscountCode = code
	return c.commit(ctx)
}

// SetShipping overwrites the shipping cost and recomputes the total.
func (c *Cart) SetShipping(ctx context.Context, amount float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Totals.Shipping = amount
	return c.commit(ctx)
}

// Reset empties the cart and zeroes all derived fields.
func (c *Cart) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = domain.CartState{}
	return c.commit(ctx)
}

// State returns a copy of the current cart state.
func (c *Cart) State() domain.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyCartState(c.state)
}

// ItemCount is the number of distinct lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.state.Items)
}

// QuantityOf returns the held quantity for a product, 0 when absent.
func (c *Cart) QuantityOf(productRef string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.state.Items {
		if item.ProductRef == productRef {
			return item.Quantity
		}
	}
	return 0
}

// commit recomputes totals from the current item set and writes through.
// Totals are never left stale: recomputation happens before the command
// returns, whatever the persistence outcome. Callers hold c.mu.
func (c *Cart) commit(ctx context.Context) error {
	c.state.Totals = pricing.Compute(c.state.Items, c.state.DiscountCode, c.state.Totals.Shipping)

	data, err := json.Marshal(c.state)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := c.store.Save(ctx, c.key, data); err != nil {
		logrus.Warnf("cart write-through failed: %v", err)
		return err
	}
	return nil
}

func copyCartState(s domain.CartState) domain.CartState {
	out := s
	out.Items = make([]domain.LineItem, len(s.Items))
	copy(out.Items, s.Items)
	return out
}
