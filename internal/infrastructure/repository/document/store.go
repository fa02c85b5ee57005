package document

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

// Resource names shared by every backend.
const (
	Teams    = "teams"
	Schedule = "schedule"
	Matches  = "matches"
	// LegacyFixtures is the pre-schedule fixture list, read only as a fallback.
	LegacyFixtures = "fixtures"
)

// Store holds whole JSON documents guarded by an opaque concurrency token.
//
// Read returns a nil body and an empty token when the document does not exist.
// Write succeeds only when expectedToken matches the current token; an empty
// expectedToken means the document must not exist yet.
type Store interface {
	Read(ctx context.Context, name string) ([]byte, string, error)
	Write(ctx context.Context, name string, body []byte, expectedToken string) (string, error)
	Ping(ctx context.Context) error
}

// ETag derives the content token used by the file and memory stores.
func ETag(body []byte) string {
	return strconv.FormatUint(xxhash.Sum64(body), 16)
}

// Conflict reports a failed compare-and-swap on name.
func Conflict(name, expected, actual string) error {
	return fmt.Errorf("%w: document=%s expected=%q actual=%q", usecase.ErrConflict, name, expected, actual)
}
