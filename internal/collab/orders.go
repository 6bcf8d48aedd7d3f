package collab

import (
	"context"
	"time"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
)

// OrderClient submits order snapshots to the order service, which owns
// the authoritative order record. It satisfies checkout.OrderCreator.
type OrderClient struct {
	c *client
}

func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{c: newClient("orders", baseURL, timeout)}
}

func (o *OrderClient) CreateOrder(ctx context.Context, snapshot domain.OrderSnapshot) (domain.OrderResult, error) {
	var result domain.OrderResult
	if err := o.c.doJSON(ctx, "POST", "/orders", snapshot, &result); err != nil {
		return domain.OrderResult{}, err
	}
	return result, nil
}
