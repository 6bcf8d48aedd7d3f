package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no value exists for the key.
var ErrNotFound = errors.New("no value stored for key")

// Store is the persistence adapter for the cart and wishlist mirrors:
// a durable key -> JSON document namespace, one key per aggregate per
// profile. The aggregates load on construction and write through on
// every mutating command.
//
// Consumers define this interface, not the Redis/Mongo implementations.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Key builds the namespaced storage key for an aggregate, e.g.
// "cart:profile-123" or "wishlist:profile-123".
func Key(namespace, profile string) string {
	return namespace + ":" + profile
}
