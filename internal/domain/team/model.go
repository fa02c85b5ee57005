package team

import (
	"fmt"
	"time"
)

// Team is one club squad registered in the division.
type Team struct {
	ID        string
	Name      string
	Club      string
	Locale    string
	CreatedAt time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// NameIndex maps exact display names to team ids.
func NameIndex(teams []Team) map[string]string {
	out := make(map[string]string, len(teams))
	for _, item := range teams {
		out[item.Name] = item.ID
	}
	return out
}

// IDs returns team ids in roster order.
func IDs(teams []Team) []string {
	out := make([]string, 0, len(teams))
	for _, item := range teams {
		out = append(out, item.ID)
	}
	return out
}
