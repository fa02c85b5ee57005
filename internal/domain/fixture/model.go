package fixture

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
)

var generatedIDRegex = regexp.MustCompile(`^r\d+-`)

// Fixture is one scheduled pairing. Scraped fixtures are keyed by MatchNumber,
// generated ones carry an empty MatchNumber and an `r{round}-{home}-{away}` id.
type Fixture struct {
	ID          string
	MatchNumber string
	Round       int
	// Date is an ISO calendar date (YYYY-MM-DD), empty when unknown.
	Date       string
	HomeTeamID string
	AwayTeamID string
	Status     string
}

// Snapshot is the full schedule collection with the token it was read at.
// An empty Token means the collection has never been written.
type Snapshot struct {
	Fixtures []Fixture
	Token    string
}

func (f Fixture) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("fixture id is required")
	}
	if f.Round < 1 {
		return fmt.Errorf("fixture %s round must be >= 1", f.ID)
	}
	if f.HomeTeamID == "" || f.AwayTeamID == "" {
		return fmt.Errorf("fixture %s requires both teams", f.ID)
	}
	if f.HomeTeamID == f.AwayTeamID {
		return fmt.Errorf("fixture %s home and away team must differ", f.ID)
	}

	return nil
}

func (f Fixture) IsCompleted() bool {
	return f.Status == StatusCompleted
}

// IsGenerated reports whether the fixture came from the round robin generator.
func (f Fixture) IsGenerated() bool {
	return f.MatchNumber == "" && generatedIDRegex.MatchString(f.ID)
}

// Key is the identifier results are attached to.
func (f Fixture) Key() string {
	if f.MatchNumber != "" {
		return f.MatchNumber
	}
	return f.ID
}

func NormalizeStatus(value string) string {
	if value == StatusCompleted {
		return StatusCompleted
	}
	return StatusScheduled
}

// IndexByMatchNumber indexes fixtures that carry a match number.
func IndexByMatchNumber(items []Fixture) map[string]int {
	out := make(map[string]int, len(items))
	for i, item := range items {
		if item.MatchNumber == "" {
			continue
		}
		if _, exists := out[item.MatchNumber]; !exists {
			out[item.MatchNumber] = i
		}
	}
	return out
}

// SortByMatchNumber orders fixtures by numeric match number, falling back to round and id.
func SortByMatchNumber(items []Fixture) {
	sort.SliceStable(items, func(i, j int) bool {
		ni, errI := strconv.Atoi(items[i].MatchNumber)
		nj, errJ := strconv.Atoi(items[j].MatchNumber)
		if errI == nil && errJ == nil && ni != nj {
			return ni < nj
		}
		if items[i].Round != items[j].Round {
			return items[i].Round < items[j].Round
		}
		return items[i].ID < items[j].ID
	})
}

func AllGenerated(items []Fixture) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.IsGenerated() {
			return false
		}
	}
	return true
}

func AnyCompleted(items []Fixture) bool {
	for _, item := range items {
		if item.IsCompleted() {
			return true
		}
	}
	return false
}
