package inventory

import (
	"errors"
	"fmt"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
)

var (
	ErrOutOfStock           = errors.New("product is out of stock")
	ErrQuantityExceedsLimit = errors.New("requested quantity exceeds the purchase limit")
)

// AllowQuantity decides whether a requested quantity may be taken given
// the live availability answer and the quantity the shopper already
// holds elsewhere (e.g. already in the cart when adding from a wishlist).
//
// The effective limit is min(available, maxPurchaseQuantity) minus what
// is already held. The returned error names the limit so the UI can
// surface it verbatim.
func AllowQuantity(avail domain.Availability, requested, alreadyHeld int) error {
	if requested < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrQuantityExceedsLimit)
	}
	if avail.InventoryType == domain.InventoryOutOfStock || avail.Available <= 0 {
		return ErrOutOfStock
	}

	limit := avail.PurchasableLimit() - alreadyHeld
	if limit < 0 {
		limit = 0
	}
	if requested > limit {
		return fmt.Errorf("%w: at most %d more can be purchased", ErrQuantityExceedsLimit, limit)
	}
	return nil
}
