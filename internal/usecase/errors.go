package usecase

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Request level failures, mapped to HTTP statuses by the API layer.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrAlreadyExists         = errors.New("resource already exists")
)

// Sync cycle failures. Row level anomalies are reported as diagnostics instead.
var (
	ErrParseBelowThreshold = errors.New("parsed fixture count below threshold")
	ErrTeamResolution      = errors.New("team name could not be resolved")
	ErrTeamMismatch        = errors.New("parsed pairing does not match stored fixture")
	ErrFetch               = errors.New("schedule page fetch failed")
	ErrConflict            = errors.New("stored collection changed concurrently")
	ErrSyncInProgress      = errors.New("sync cycle already in progress")
)

// MarkFetch classifies err as a fetch failure while keeping its message.
func MarkFetch(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrFetch) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrFetch, err)
}

// MarkConflict classifies err as a concurrency conflict while keeping its message.
func MarkConflict(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConflict) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrConflict, err)
}
