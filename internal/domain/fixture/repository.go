package fixture

import "context"

// Repository persists the schedule collection as a whole.
// Save fails with a conflict when expectedToken no longer matches the stored collection.
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, items []Fixture, expectedToken string) (string, error)
}

// LegacySource exposes a previously cached fixture list used before a schedule existed.
type LegacySource interface {
	LoadLegacy(ctx context.Context) ([]Fixture, error)
}
