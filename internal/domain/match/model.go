package match

import (
	"fmt"
	"time"
)

const (
	StatusCompleted = "completed"

	// SystemActor marks results created or corrected by the sync cycle.
	SystemActor = "system-sync"
)

// Result is a completed match outcome keyed to a scheduled fixture.
type Result struct {
	ID          string
	MatchID     string
	MatchNumber string
	HomeTeamID  string
	AwayTeamID  string
	HomeScore   int
	AwayScore   int
	// Date is either an ISO calendar date or an RFC3339 timestamp, empty when unknown.
	Date           string
	Status         string
	SubmittedBy    string
	SubmittedByUID *string
	CreatedAt      time.Time
	CorrectedAt    *time.Time
	CorrectedBy    *string
}

// Snapshot is the full result collection with the token it was read at.
type Snapshot struct {
	Results []Result
	Token   string
}

func (r Result) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("match result id is required")
	}
	if r.MatchID == "" && r.MatchNumber == "" {
		return fmt.Errorf("match result %s requires a match id or match number", r.ID)
	}
	if r.HomeTeamID == "" || r.AwayTeamID == "" {
		return fmt.Errorf("match result %s requires both teams", r.ID)
	}

	return nil
}

func (r Result) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// FindByKey returns the index of the result attached to a fixture key, or -1.
// Both the fixture id and the match number are accepted since older results
// only carry one of them.
func FindByKey(items []Result, key string) int {
	if key == "" {
		return -1
	}
	for i, item := range items {
		if item.MatchID == key || item.MatchNumber == key {
			return i
		}
	}
	return -1
}
