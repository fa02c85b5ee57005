package fixture

import (
	"errors"
	"fmt"
)

var ErrInvalidTeamCount = errors.New("round robin requires an even number of at least two teams")

// Pairing is one home/away meeting inside a generated round.
type Pairing struct {
	HomeTeamID string
	AwayTeamID string
}

// GenerateDoubleRoundRobin builds 2*(n-1) rounds using the Berger circle method.
// The first team stays fixed while the rest rotate; home advantage alternates by
// round and the second half mirrors the first with sides swapped.
func GenerateDoubleRoundRobin(teamIDs []string) ([][]Pairing, error) {
	n := len(teamIDs)
	if n < 2 || n%2 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTeamCount, n)
	}

	fixed := teamIDs[0]
	rotating := append([]string(nil), teamIDs[1:]...)
	half := n / 2

	first := make([][]Pairing, 0, n-1)
	for r := 0; r < n-1; r++ {
		left := make([]string, 0, half)
		left = append(left, fixed)
		left = append(left, rotating[:half-1]...)

		tail := rotating[half-1:]
		right := make([]string, len(tail))
		for i, id := range tail {
			right[len(tail)-1-i] = id
		}

		pairs := make([]Pairing, 0, half)
		for i := range left {
			if r%2 == 0 {
				pairs = append(pairs, Pairing{HomeTeamID: left[i], AwayTeamID: right[i]})
			} else {
				pairs = append(pairs, Pairing{HomeTeamID: right[i], AwayTeamID: left[i]})
			}
		}
		first = append(first, pairs)

		last := rotating[len(rotating)-1]
		copy(rotating[1:], rotating[:len(rotating)-1])
		rotating[0] = last
	}

	rounds := make([][]Pairing, 0, 2*(n-1))
	rounds = append(rounds, first...)
	for _, pairs := range first {
		mirrored := make([]Pairing, 0, len(pairs))
		for _, p := range pairs {
			mirrored = append(mirrored, Pairing{HomeTeamID: p.AwayTeamID, AwayTeamID: p.HomeTeamID})
		}
		rounds = append(rounds, mirrored)
	}

	return rounds, nil
}

// GenerateFixtures materializes a double round robin as undated scheduled fixtures.
func GenerateFixtures(teamIDs []string) ([]Fixture, error) {
	rounds, err := GenerateDoubleRoundRobin(teamIDs)
	if err != nil {
		return nil, err
	}

	out := make([]Fixture, 0, len(rounds)*len(teamIDs)/2)
	for idx, pairs := range rounds {
		round := idx + 1
		for _, p := range pairs {
			out = append(out, Fixture{
				ID:         fmt.Sprintf("r%d-%s-%s", round, p.HomeTeamID, p.AwayTeamID),
				Round:      round,
				HomeTeamID: p.HomeTeamID,
				AwayTeamID: p.AwayTeamID,
				Status:     StatusScheduled,
			})
		}
	}

	return out, nil
}
