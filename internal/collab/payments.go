package collab

import (
	"context"
	"net/url"
	"time"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
)

// PaymentsClient lists and resumes server-owned pending payments. It
// satisfies payment.Client.
type PaymentsClient struct {
	c *client
}

func NewPaymentsClient(baseURL string, timeout time.Duration) *PaymentsClient {
	return &PaymentsClient{c: newClient("payments", baseURL, timeout)}
}

func (p *PaymentsClient) ListPending(ctx context.Context) ([]domain.PendingPayment, error) {
	var pending []domain.PendingPayment
	if err := p.c.doJSON(ctx, "GET", "/payments/pending", nil, &pending); err != nil {
		return nil, err
	}
	return pending, nil
}

func (p *PaymentsClient) Resume(ctx context.Context, txRef string) (string, error) {
	var resp struct {
		RedirectURL string `json:"checkout_redirect_url"`
	}
	path := "/payments/" + url.PathEscape(txRef) + "/resume"
	if err := p.c.doJSON(ctx, "POST", path, nil, &resp); err != nil {
		return "", err
	}
	return resp.RedirectURL, nil
}
