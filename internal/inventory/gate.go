package inventory

import (
	"context"
	"errors"
	"sync"

	"github.com/ebenezermerd/koricha-storefront/internal/domain"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrStaleResponse marks an availability answer that resolved after a
	// newer check for the same product was issued. Callers must drop it.
	ErrStaleResponse = errors.New("availability response superseded by a newer request")
)

// Gate answers live availability questions for a product. It must be
// consulted before any command that increases a held quantity; a failed
// check is a hard block, never an optimistic go-ahead.
type Gate interface {
	Check(ctx context.Context, productRef string) (domain.Availability, error)
}

// CachedGate wraps a Gate with two protections:
//   - singleflight per productRef, so concurrent checks for the same
//     product share one upstream call (prevents request stampede);
//   - a per-key generation counter, so a response that returns after a
//     newer request for the same product was issued is discarded
//     ("last issued wins").
type CachedGate struct {
	upstream Gate
	sfg      singleflight.Group

	mu  sync.Mutex
	gen map[string]uint64 // productRef -> latest issued generation
}

func NewCachedGate(upstream Gate) *CachedGate {
	return &CachedGate{
		upstream: upstream,
		gen:      make(map[string]uint64),
	}
}

func (g *CachedGate) Check(ctx context.Context, productRef string) (domain.Availability, error) {
	myGen := g.nextGen(productRef)

	v, err, _ := g.sfg.Do(productRef, func() (interface{}, error) {
		return g.upstream.Check(ctx, productRef)
	})
	if err != nil {
		return domain.Availability{}, err
	}

	if g.currentGen(productRef) != myGen {
		return domain.Availability{}, ErrStaleResponse
	}

	return v.(domain.Availability), nil
}

func (g *CachedGate) nextGen(productRef string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen[productRef]++
	return g.gen[productRef]
}

func (g *CachedGate) currentGen(productRef string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gen[productRef]
}
