package team

import "context"

// Repository exposes the read-only roster.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
}
