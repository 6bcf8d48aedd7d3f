package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
	"github.com/sirupsen/logrus"
)

// ErrResumeInFlight is returned when a resume for the same tx_ref is
// already running.
var ErrResumeInFlight = errors.New("a resume for this transaction is already in flight")

// Client talks to the server that owns pending-payment records. The
// pending set is always queried, never cached locally: only the
// provider's confirmation removes an entry.
type Client interface {
	// ListPending returns the orders whose payment is initiated but
	// unconfirmed.
	ListPending(ctx context.Context) ([]domain.PendingPayment, error)
	// Resume re-requests a redirect URL for the same order identified by
	// txRef. It never creates a new order.
	Resume(ctx context.Context, txRef string) (string, error)
}

// Resumer wraps a Client with per-tx_ref in-flight tracking: at most one
// resume runs per reference, and the loading/error state of one
// reference never affects another.
type Resumer struct {
	client Client

	mu       sync.Mutex
	inFlight map[string]bool
	lastErr  map[string]error
}

func NewResumer(client Client) *Resumer {
	return &Resumer{
		client:   client,
		inFlight: make(map[string]bool),
		lastErr:  make(map[string]error),
	}
}

// ListPending passes through to the server.
func (r *Resumer) ListPending(ctx context.Context) ([]domain.PendingPayment, error) {
	return r.client.ListPending(ctx)
}

// Resume requests a fresh redirect URL for the given reference. Safe to
// call concurrently for different tx_refs; a second call for the same
// tx_ref while one is running returns ErrResumeInFlight.
func (r *Resumer) Resume(ctx context.Context, txRef string) (string, error) {
	r.mu.Lock()
	if r.inFlight[txRef] {
		r.mu.Unlock()
		return "", ErrResumeInFlight
	}
	r.inFlight[txRef] = true
	r.mu.Unlock()

	url, err := r.client.Resume(ctx, txRef)

	r.mu.Lock()
	r.inFlight[txRef] = false
	if err != nil {
		r.lastErr[txRef] = fmt.Errorf("resume failed: %w", err)
		logrus.Warnf("payment resume failed, tx_ref=%s: %v", txRef, err)
	} else {
		delete(r.lastErr, txRef)
	}
	r.mu.Unlock()

	if err != nil {
		return "", r.LastError(txRef)
	}
	return url, nil
}

// Resuming reports whether a resume for txRef is currently running.
func (r *Resumer) Resuming(txRef string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight[txRef]
}

// LastError returns the most recent resume failure for txRef, nil when
// the last attempt succeeded or none was made. Retry is user-initiated;
// the Resumer never retries on its own.
func (r *Resumer) LastError(txRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr[txRef]
}
