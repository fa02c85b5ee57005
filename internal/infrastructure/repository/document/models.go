package document

import (
	"time"

	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
	"github.com/riskibarqy/petanque-league/internal/domain/match"
	"github.com/riskibarqy/petanque-league/internal/domain/team"
)

type teamDocument struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Club      string    `json:"club"`
	Locale    string    `json:"locale"`
	CreatedAt time.Time `json:"createdAt"`
}

func toTeamDocument(item team.Team) teamDocument {
	return teamDocument{
		ID:        item.ID,
		Name:      item.Name,
		Club:      item.Club,
		Locale:    item.Locale,
		CreatedAt: item.CreatedAt.UTC(),
	}
}

func (d teamDocument) toDomain() team.Team {
	return team.Team{
		ID:        d.ID,
		Name:      d.Name,
		Club:      d.Club,
		Locale:    d.Locale,
		CreatedAt: d.CreatedAt,
	}
}

// fixtureDocument keeps nulls for unknown dates and generated match numbers.
type fixtureDocument struct {
	ID          string  `json:"id"`
	FixtureID   string  `json:"fixtureId,omitempty"`
	MatchNumber *string `json:"matchNumber"`
	Round       int     `json:"round"`
	Date        *string `json:"date"`
	HomeTeamID  string  `json:"homeTeamId"`
	AwayTeamID  string  `json:"awayTeamId"`
	Status      string  `json:"status"`
}

func toFixtureDocument(item fixture.Fixture) fixtureDocument {
	return fixtureDocument{
		ID:          item.ID,
		MatchNumber: optional(item.MatchNumber),
		Round:       item.Round,
		Date:        optional(item.Date),
		HomeTeamID:  item.HomeTeamID,
		AwayTeamID:  item.AwayTeamID,
		Status:      fixture.NormalizeStatus(item.Status),
	}
}

func (d fixtureDocument) toDomain() fixture.Fixture {
	id := d.ID
	if id == "" {
		id = d.FixtureID
	}
	return fixture.Fixture{
		ID:          id,
		MatchNumber: value(d.MatchNumber),
		Round:       d.Round,
		Date:        value(d.Date),
		HomeTeamID:  d.HomeTeamID,
		AwayTeamID:  d.AwayTeamID,
		Status:      fixture.NormalizeStatus(d.Status),
	}
}

// resultDocument also writes fixtureId so older readers keep finding results.
type resultDocument struct {
	ID             string     `json:"id"`
	FixtureID      string     `json:"fixtureId,omitempty"`
	MatchID        string     `json:"matchId,omitempty"`
	MatchNumber    string     `json:"matchNumber,omitempty"`
	HomeTeamID     string     `json:"homeTeamId"`
	AwayTeamID     string     `json:"awayTeamId"`
	HomeScore      int        `json:"homeScore"`
	AwayScore      int        `json:"awayScore"`
	Date           *string    `json:"date"`
	Status         string     `json:"status"`
	SubmittedBy    string     `json:"submittedBy"`
	SubmittedByUID *string    `json:"submittedByUid"`
	CreatedAt      time.Time  `json:"createdAt"`
	CorrectedAt    *time.Time `json:"correctedAt,omitempty"`
	CorrectedBy    *string    `json:"correctedBy,omitempty"`
}

func toResultDocument(item match.Result) resultDocument {
	return resultDocument{
		ID:             item.ID,
		FixtureID:      item.MatchID,
		MatchID:        item.MatchID,
		MatchNumber:    item.MatchNumber,
		HomeTeamID:     item.HomeTeamID,
		AwayTeamID:     item.AwayTeamID,
		HomeScore:      item.HomeScore,
		AwayScore:      item.AwayScore,
		Date:           optional(item.Date),
		Status:         item.Status,
		SubmittedBy:    item.SubmittedBy,
		SubmittedByUID: item.SubmittedByUID,
		CreatedAt:      item.CreatedAt.UTC(),
		CorrectedAt:    item.CorrectedAt,
		CorrectedBy:    item.CorrectedBy,
	}
}

func (d resultDocument) toDomain() match.Result {
	matchID := d.MatchID
	if matchID == "" {
		matchID = d.FixtureID
	}
	status := d.Status
	if status == "" {
		status = match.StatusCompleted
	}
	return match.Result{
		ID:             d.ID,
		MatchID:        matchID,
		MatchNumber:    d.MatchNumber,
		HomeTeamID:     d.HomeTeamID,
		AwayTeamID:     d.AwayTeamID,
		HomeScore:      d.HomeScore,
		AwayScore:      d.AwayScore,
		Date:           value(d.Date),
		Status:         status,
		SubmittedBy:    d.SubmittedBy,
		SubmittedByUID: d.SubmittedByUID,
		CreatedAt:      d.CreatedAt,
		CorrectedAt:    d.CorrectedAt,
		CorrectedBy:    d.CorrectedBy,
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func value(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
