package standing

import (
	"sort"

	"github.com/riskibarqy/petanque-league/internal/domain/match"
	"github.com/riskibarqy/petanque-league/internal/domain/team"
)

const unknownTeamName = "Unknown"

// Policy holds the table points awarded per outcome.
type Policy struct {
	Win  int
	Draw int
	Loss int
}

func DefaultPolicy() Policy {
	return Policy{Win: 2, Draw: 1, Loss: 0}
}

type Row struct {
	TeamID   string
	Name     string
	Played   int
	Won      int
	Lost     int
	Points   int
	GoalDiff int

	goalsFor     int
	goalsAgainst int
}

// Compute builds the table from completed results. Every roster team gets a row;
// result teams missing from the roster are listed as Unknown.
// Rows are ordered by points, then goal difference, then name.
func Compute(teams []team.Team, results []match.Result, policy Policy) []Row {
	rows := make(map[string]*Row, len(teams))
	order := make([]string, 0, len(teams))
	names := make(map[string]string, len(teams))
	for _, item := range teams {
		names[item.ID] = item.Name
	}

	ensure := func(teamID string) *Row {
		if row, ok := rows[teamID]; ok {
			return row
		}
		name, ok := names[teamID]
		if !ok {
			name = unknownTeamName
		}
		row := &Row{TeamID: teamID, Name: name}
		rows[teamID] = row
		order = append(order, teamID)
		return row
	}

	for _, item := range teams {
		ensure(item.ID)
	}

	for _, result := range results {
		if !result.IsCompleted() {
			continue
		}
		home := ensure(result.HomeTeamID)
		away := ensure(result.AwayTeamID)

		home.Played++
		away.Played++
		home.goalsFor += result.HomeScore
		home.goalsAgainst += result.AwayScore
		away.goalsFor += result.AwayScore
		away.goalsAgainst += result.HomeScore

		switch {
		case result.HomeScore > result.AwayScore:
			home.Won++
			home.Points += policy.Win
			away.Lost++
			away.Points += policy.Loss
		case result.HomeScore < result.AwayScore:
			away.Won++
			away.Points += policy.Win
			home.Lost++
			home.Points += policy.Loss
		default:
			home.Points += policy.Draw
			away.Points += policy.Draw
		}
	}

	out := make([]Row, 0, len(order))
	for _, teamID := range order {
		row := rows[teamID]
		row.GoalDiff = row.goalsFor - row.goalsAgainst
		out = append(out, *row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].GoalDiff != out[j].GoalDiff {
			return out[i].GoalDiff > out[j].GoalDiff
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].TeamID < out[j].TeamID
	})

	return out
}

func (r Row) GoalsFor() int {
	return r.goalsFor
}

func (r Row) GoalsAgainst() int {
	return r.goalsAgainst
}
