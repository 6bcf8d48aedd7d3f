package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/ebenezermerd/koricha-storefront/internal/inventory"
)

// ErrNotInWishlist is returned when a move targets a ref that is not saved.
var ErrNotInWishlist = errors.New("item is not in the wishlist")

// Coordinator owns commands that span both aggregates. Moving an item
// from wishlist to cart is a single command here, not two independent
// dispatches from the caller, so a rejection leaves both sides intact.
type Coordinator struct {
	cart     *Cart
	wishlist *Wishlist
	gate     inventory.Gate
}

func NewCoordinator(c *Cart, w *Wishlist, gate inventory.Gate) *Coordinator {
	return &Coordinator{cart: c, wishlist: w, gate: gate}
}

// MoveToCart moves the saved item into the cart with the given quantity.
// Order of operations: availability is checked first (counting quantity
// already in the cart), then the cart add, then the wishlist remove. A
// failed add leaves the wishlist untouched; a failed wishlist remove
// after a successful add leaves the item in both places, which the
// idempotent wishlist add tolerates on retry.
func (co *Coordinator) MoveToCart(ctx context.Context, productRef string, qty int) error {
	item, ok := co.wishlist.Get(productRef)
	if !ok {
		return ErrNotInWishlist
	}

	avail, err := co.gate.Check(ctx, productRef)
	if err != nil {
		// Hard block: no availability answer, no quantity increase.
		return fmt.Errorf("availability check failed: %w", err)
	}
	if err := inventory.AllowQuantity(avail, qty, co.cart.QuantityOf(productRef)); err != nil {
		return err
	}

	item.Quantity = qty
	if err := co.cart.AddItem(ctx, item); err != nil {
		return err
	}
	return co.wishlist.RemoveItem(ctx, productRef)
}
