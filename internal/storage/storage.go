// Package storage provides small persistent key/value namespaces, the
// server-side stand-in for a browser's local storage.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has never been set in a namespace
var ErrNotFound = errors.New("storage: key not found")

// Store reads and writes string values grouped by namespace
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
	DeleteNamespace(ctx context.Context, namespace string) error
	Close() error
}
