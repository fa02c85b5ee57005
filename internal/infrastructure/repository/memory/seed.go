package memory

import (
	"time"

	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
	"github.com/riskibarqy/petanque-league/internal/domain/team"
)

var rosterCreatedAt = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

// SeedTeams is the Topdivisie 2025-2026 roster.
func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "amicale-boule-d-argent-1", Name: "Amicale Boule d'Argent 1", Locale: "nl", CreatedAt: rosterCreatedAt},
		{ID: "boul-animo-1", Name: "Boul'Animo 1", Locale: "nl", CreatedAt: rosterCreatedAt},
		{ID: "cdp-les-cailloux-1", Name: "CdP Les Cailloux 1", Locale: "nl", CreatedAt: rosterCreatedAt},
		{ID: "jbc-t-dupke-1", Name: "JBC 't Dupke 1", Locale: "nl", CreatedAt: rosterCreatedAt},
		{ID: "jeu-de-bommel-1", Name: "Jeu de Bommel 1", Locale: "nl", CreatedAt: rosterCreatedAt},
		{ID: "petangeske-1", Name: "Petangeske 1", Locale: "nl", CreatedAt: rosterCreatedAt},
		{ID: "puk-haarlem-1", Name: "PUK-Haarlem 1", Locale: "nl", CreatedAt: rosterCreatedAt},
		{ID: "t-zwijntje-1", Name: "'t Zwijntje 1", Locale: "nl", CreatedAt: rosterCreatedAt},
	}
}

type seasonRound struct {
	round   int
	date    string
	matches [4][3]string
}

var topdivisie2025 = []seasonRound{
	{1, "2025-09-20", [4][3]string{
		{"100101", "boul-animo-1", "jbc-t-dupke-1"},
		{"100102", "puk-haarlem-1", "t-zwijntje-1"},
		{"100103", "amicale-boule-d-argent-1", "petangeske-1"},
		{"100104", "jeu-de-bommel-1", "cdp-les-cailloux-1"},
	}},
	{2, "2025-10-04", [4][3]string{
		{"100105", "jeu-de-bommel-1", "amicale-boule-d-argent-1"},
		{"100106", "petangeske-1", "puk-haarlem-1"},
		{"100107", "t-zwijntje-1", "boul-animo-1"},
		{"100108", "jbc-t-dupke-1", "cdp-les-cailloux-1"},
	}},
	{3, "2025-10-18", [4][3]string{
		{"100109", "cdp-les-cailloux-1", "amicale-boule-d-argent-1"},
		{"100110", "puk-haarlem-1", "jeu-de-bommel-1"},
		{"100111", "petangeske-1", "boul-animo-1"},
		{"100112", "jbc-t-dupke-1", "t-zwijntje-1"},
	}},
	{4, "2025-11-01", [4][3]string{
		{"100113", "boul-animo-1", "jeu-de-bommel-1"},
		{"100114", "puk-haarlem-1", "cdp-les-cailloux-1"},
		{"100115", "amicale-boule-d-argent-1", "jbc-t-dupke-1"},
		{"100116", "t-zwijntje-1", "petangeske-1"},
	}},
	{5, "2025-11-15", [4][3]string{
		{"100117", "amicale-boule-d-argent-1", "puk-haarlem-1"},
		{"100118", "cdp-les-cailloux-1", "boul-animo-1"},
		{"100119", "jeu-de-bommel-1", "t-zwijntje-1"},
		{"100120", "petangeske-1", "jbc-t-dupke-1"},
	}},
	{6, "2025-11-29", [4][3]string{
		{"100121", "boul-animo-1", "amicale-boule-d-argent-1"},
		{"100122", "petangeske-1", "jeu-de-bommel-1"},
		{"100123", "t-zwijntje-1", "cdp-les-cailloux-1"},
		{"100124", "jbc-t-dupke-1", "puk-haarlem-1"},
	}},
	{7, "2025-12-06", [4][3]string{
		{"100125", "boul-animo-1", "puk-haarlem-1"},
		{"100126", "amicale-boule-d-argent-1", "t-zwijntje-1"},
		{"100127", "cdp-les-cailloux-1", "petangeske-1"},
		{"100128", "jeu-de-bommel-1", "jbc-t-dupke-1"},
	}},
	{8, "2026-01-10", [4][3]string{
		{"100129", "cdp-les-cailloux-1", "jeu-de-bommel-1"},
		{"100130", "petangeske-1", "amicale-boule-d-argent-1"},
		{"100131", "t-zwijntje-1", "puk-haarlem-1"},
		{"100132", "jbc-t-dupke-1", "boul-animo-1"},
	}},
	{9, "2026-01-24", [4][3]string{
		{"100133", "boul-animo-1", "t-zwijntje-1"},
		{"100134", "puk-haarlem-1", "petangeske-1"},
		{"100135", "amicale-boule-d-argent-1", "jeu-de-bommel-1"},
		{"100136", "cdp-les-cailloux-1", "jbc-t-dupke-1"},
	}},
	{10, "2026-02-07", [4][3]string{
		{"100137", "boul-animo-1", "petangeske-1"},
		{"100138", "jeu-de-bommel-1", "puk-haarlem-1"},
		{"100139", "amicale-boule-d-argent-1", "cdp-les-cailloux-1"},
		{"100140", "t-zwijntje-1", "jbc-t-dupke-1"},
	}},
	{11, "2026-02-21", [4][3]string{
		{"100141", "cdp-les-cailloux-1", "puk-haarlem-1"},
		{"100142", "jeu-de-bommel-1", "boul-animo-1"},
		{"100143", "petangeske-1", "t-zwijntje-1"},
		{"100144", "jbc-t-dupke-1", "amicale-boule-d-argent-1"},
	}},
	{12, "2026-03-07", [4][3]string{
		{"100145", "boul-animo-1", "cdp-les-cailloux-1"},
		{"100146", "puk-haarlem-1", "amicale-boule-d-argent-1"},
		{"100147", "t-zwijntje-1", "jeu-de-bommel-1"},
		{"100148", "jbc-t-dupke-1", "petangeske-1"},
	}},
	{13, "2026-03-21", [4][3]string{
		{"100149", "puk-haarlem-1", "jbc-t-dupke-1"},
		{"100150", "amicale-boule-d-argent-1", "boul-animo-1"},
		{"100151", "cdp-les-cailloux-1", "t-zwijntje-1"},
		{"100152", "jeu-de-bommel-1", "petangeske-1"},
	}},
	{14, "2026-03-28", [4][3]string{
		{"100153", "puk-haarlem-1", "boul-animo-1"},
		{"100154", "petangeske-1", "cdp-les-cailloux-1"},
		{"100155", "t-zwijntje-1", "amicale-boule-d-argent-1"},
		{"100156", "jbc-t-dupke-1", "jeu-de-bommel-1"},
	}},
}

// SeedSeason is the published 2025-2026 schedule with the round default dates.
// It is used when the official page cannot be read on first start.
func SeedSeason() []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(topdivisie2025)*4)
	for _, r := range topdivisie2025 {
		for _, m := range r.matches {
			out = append(out, fixture.Fixture{
				ID:          m[0],
				MatchNumber: m[0],
				Round:       r.round,
				Date:        r.date,
				HomeTeamID:  m[1],
				AwayTeamID:  m[2],
				Status:      fixture.StatusScheduled,
			})
		}
	}
	return out
}
