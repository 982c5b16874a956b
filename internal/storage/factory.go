package storage

import "fmt"

// DefaultStoreKind is the backend used when the caller does not pick one.
const DefaultStoreKind = "memory"

// NewStore builds a persistence backend by name. The sqlite backend is only
// available in builds carrying the sqlite tag.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", DefaultStoreKind:
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes backends that hold external resources and is a
// no-op for the rest.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
