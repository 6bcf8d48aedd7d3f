package collab

import (
	"context"
	"net/url"
	"time"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
)

// InventoryClient answers availability checks against the inventory
// service. It satisfies inventory.Gate.
type InventoryClient struct {
	c *client
}

func NewInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	return &InventoryClient{c: newClient("inventory", baseURL, timeout)}
}

func (i *InventoryClient) Check(ctx context.Context, productRef string) (domain.Availability, error) {
	var avail domain.Availability
	path := "/products/" + url.PathEscape(productRef) + "/availability"
	if err := i.c.doJSON(ctx, "GET", path, nil, &avail); err != nil {
		return domain.Availability{}, err
	}
	return avail, nil
}
