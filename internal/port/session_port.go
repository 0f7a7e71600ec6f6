package port

import "context"

// SessionStorage is a key-value store scoped to a single browsing session.
type SessionStorage interface {
	// GetItem reports ok=false when key has never been written or was removed.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
