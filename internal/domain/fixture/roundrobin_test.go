package fixture

import (
	"errors"
	"fmt"
	"testing"
)

func TestGenerateDoubleRoundRobin_RejectsInvalidTeamCount(t *testing.T) {
	t.Parallel()

	for _, ids := range [][]string{nil, {"a"}, {"a", "b", "c"}} {
		if _, err := GenerateDoubleRoundRobin(ids); !errors.Is(err, ErrInvalidTeamCount) {
			t.Fatalf("expected ErrInvalidTeamCount for %d teams, got %v", len(ids), err)
		}
	}
}

func TestGenerateDoubleRoundRobin_EvenTeamCounts(t *testing.T) {
	t.Parallel()

	for n := 2; n <= 12; n += 2 {
		t.Run(fmt.Sprintf("%d teams", n), func(t *testing.T) {
			t.Parallel()

			ids := make([]string, n)
			for i := range ids {
				ids[i] = fmt.Sprintf("t%d", i+1)
			}

			rounds, err := GenerateDoubleRoundRobin(ids)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if len(rounds) != 2*(n-1) {
				t.Fatalf("expected %d rounds, got %d", 2*(n-1), len(rounds))
			}

			ordered := make(map[string]int)
			for r, pairs := range rounds {
				if len(pairs) != n/2 {
					t.Fatalf("round %d: expected %d pairings, got %d", r+1, n/2, len(pairs))
				}
				seen := make(map[string]bool)
				for _, p := range pairs {
					if p.HomeTeamID == p.AwayTeamID {
						t.Fatalf("round %d: %s plays itself", r+1, p.HomeTeamID)
					}
					if seen[p.HomeTeamID] || seen[p.AwayTeamID] {
						t.Fatalf("round %d: team plays twice", r+1)
					}
					seen[p.HomeTeamID] = true
					seen[p.AwayTeamID] = true
					ordered[p.HomeTeamID+">"+p.AwayTeamID]++
				}
				if len(seen) != n {
					t.Fatalf("round %d: %d teams play, want %d", r+1, len(seen), n)
				}
			}

			for _, home := range ids {
				for _, away := range ids {
					if home == away {
						continue
					}
					if got := ordered[home+">"+away]; got != 1 {
						t.Fatalf("%s hosting %s occurs %d times, want 1", home, away, got)
					}
				}
			}

			again, _ := GenerateDoubleRoundRobin(ids)
			for r := range rounds {
				for i := range rounds[r] {
					if again[r][i] != rounds[r][i] {
						t.Fatalf("round %d pairing %d differs between runs", r+1, i)
					}
				}
			}
		})
	}
}

func TestGenerateDoubleRoundRobin_FirstRoundAndMirror(t *testing.T) {
	t.Parallel()

	rounds, err := GenerateDoubleRoundRobin([]string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := []Pairing{{HomeTeamID: "a", AwayTeamID: "d"}, {HomeTeamID: "b", AwayTeamID: "c"}}
	for i, p := range want {
		if rounds[0][i] != p {
			t.Fatalf("round 1 pairing %d: got %+v want %+v", i, rounds[0][i], p)
		}
	}

	// round 2 rotates to [d b c] and flips home side.
	if got := rounds[1][0]; got != (Pairing{HomeTeamID: "c", AwayTeamID: "a"}) {
		t.Fatalf("round 2 first pairing: got %+v", got)
	}

	for i, p := range rounds[0] {
		mirrored := rounds[3][i]
		if mirrored.HomeTeamID != p.AwayTeamID || mirrored.AwayTeamID != p.HomeTeamID {
			t.Fatalf("round 4 pairing %d does not mirror round 1: %+v", i, mirrored)
		}
	}
}

func TestGenerateFixtures_IDsAndStatus(t *testing.T) {
	t.Parallel()

	items, err := GenerateFixtures([]string{"a", "b"})
	if err != nil {
		t.Fatalf("generate fixtures: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 fixtures, got %d", len(items))
	}
	if items[0].ID != "r1-a-b" || items[1].ID != "r2-b-a" {
		t.Fatalf("unexpected ids: %s, %s", items[0].ID, items[1].ID)
	}
	for _, item := range items {
		if item.Status != StatusScheduled || item.Date != "" || item.MatchNumber != "" {
			t.Fatalf("unexpected generated fixture: %+v", item)
		}
		if !item.IsGenerated() {
			t.Fatalf("expected %s to be recognised as generated", item.ID)
		}
	}
}
