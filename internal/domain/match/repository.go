package match

import "context"

// Repository persists the result collection as a whole with optimistic concurrency.
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, items []Result, expectedToken string) (string, error)
}
