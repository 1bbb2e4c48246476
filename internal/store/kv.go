package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a missing key.
var ErrNotFound = errors.New("key not found")

// KV is a JSON key/value store.
type KV interface {
	// Get decodes the value stored under key into dest. Missing keys return ErrNotFound.
	Get(ctx context.Context, key string, dest any) error
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value any) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// UpdatedAt returns when key was last written. Missing keys return ErrNotFound.
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// Typed provides type-safe access to a KV store for a specific type T.
type Typed[T any] struct {
	store  KV
	prefix string
}

// Scoped returns a Typed[T] that prefixes all keys with "namespace/".
func Scoped[T any](kv KV, namespace string) *Typed[T] {
	return &Typed[T]{store: kv, prefix: namespace + "/"}
}

// Key returns the full key stored for name.
func (t *Typed[T]) Key(name string) string {
	return t.prefix + name
}

// Get retrieves and deserializes a value by key.
func (t *Typed[T]) Get(ctx context.Context, name string) (T, error) {
	var v T
	if err := t.store.Get(ctx, t.Key(name), &v); err != nil {
		return v, err
	}
	return v, nil
}

// Set stores a value.
func (t *Typed[T]) Set(ctx context.Context, name string, value T) error {
	return t.store.Set(ctx, t.Key(name), value)
}

// Delete removes a key.
func (t *Typed[T]) Delete(ctx context.Context, name string) error {
	return t.store.Delete(ctx, t.Key(name))
}

// UpdatedAt returns when name was last written.
func (t *Typed[T]) UpdatedAt(ctx context.Context, name string) (time.Time, error) {
	return t.store.UpdatedAt(ctx, t.Key(name))
}
