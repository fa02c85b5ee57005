package match

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeScore  = errors.New("score must not be negative")
	ErrForbiddenScore = errors.New("score is not reachable in a petanque match")
	ErrScoreTotal     = errors.New("scores must add up to the match total")
)

// ScorePolicy describes which final scores a complete match can produce.
type ScorePolicy struct {
	MatchTotal int
	Forbidden  []int
}

func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{
		MatchTotal: 31,
		Forbidden:  []int{1, 3, 28, 30},
	}
}

func (p ScorePolicy) Validate(home, away int) error {
	if home < 0 || away < 0 {
		return fmt.Errorf("%w: %d-%d", ErrNegativeScore, home, away)
	}
	if p.isForbidden(home) || p.isForbidden(away) {
		return fmt.Errorf("%w: %d-%d", ErrForbiddenScore, home, away)
	}
	if p.MatchTotal > 0 && home+away != p.MatchTotal {
		return fmt.Errorf("%w: %d-%d does not add up to %d", ErrScoreTotal, home, away, p.MatchTotal)
	}

	return nil
}

// IsCompleteResult reports whether the pair of scores is a final result.
func (p ScorePolicy) IsCompleteResult(home, away int) bool {
	return p.Validate(home, away) == nil
}

func (p ScorePolicy) isForbidden(score int) bool {
	for _, v := range p.Forbidden {
		if v == score {
			return true
		}
	}
	return false
}
