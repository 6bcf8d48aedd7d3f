package collab

import (
	"context"
	"time"
)

// AddressClient verifies the authenticated user's primary account
// address. It satisfies checkout.AddressVerifier.
type AddressClient struct {
	c *client
}

func NewAddressClient(baseURL string, timeout time.Duration) *AddressClient {
	return &AddressClient{c: newClient("address", baseURL, timeout)}
}

func (a *AddressClient) VerifyCompleteness(ctx context.Context) (bool, error) {
	var resp struct {
		Complete bool `json:"complete"`
	}
	if err := a.c.doJSON(ctx, "GET", "/account/address/verify", nil, &resp); err != nil {
		return false, err
	}
	return resp.Complete, nil
}
