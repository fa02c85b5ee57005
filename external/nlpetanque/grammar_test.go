package nlpetanque

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/riskibarqy/petanque-league/internal/domain/team"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

var testRoster = []team.Team{
	{ID: "amicale-boule-d-argent-1", Name: "Amicale Boule d'Argent 1"},
	{ID: "boul-animo-1", Name: "Boul'Animo 1"},
	{ID: "cdp-les-cailloux-1", Name: "CdP Les Cailloux 1"},
	{ID: "jbc-t-dupke-1", Name: "JBC 't Dupke 1"},
	{ID: "jeu-de-bommel-1", Name: "Jeu de Bommel 1"},
	{ID: "petangeske-1", Name: "Petangeske 1"},
	{ID: "puk-haarlem-1", Name: "PUK-Haarlem 1"},
	{ID: "t-zwijntje-1", Name: "'t Zwijntje 1"},
}

func lenientGrammar() *Grammar {
	cfg := DefaultGrammarConfig()
	cfg.MinFixtures = 1
	return NewGrammar(cfg)
}

func TestGrammar_ResultsAndAdjustedDates(t *testing.T) {
	t.Parallel()

	rows := []string{
		"1. ZATERDAG 20 SEPTEMBER",
		"Wednr:|Aangepaste datum:|Thuis:|Uit:|Uitslag:|Partijpunten:",
		"100101|Boul'Animo 1|JBC 't Dupke 1",
		"100102|27-09-2025|PUK-Haarlem 1|'t Zwijntje 1|24|7|128|83",
		"100103|Amicale Boule d'Argent 1|Petangeske 1|12|19|92|125",
		"100104|Jeu de Bommel 1|CdP Les Cailloux 1|15|15",
	}

	got, err := lenientGrammar().Parse(rows, testRoster)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got.Fixtures) != 4 {
		t.Fatalf("expected 4 fixtures, got %d (%+v)", len(got.Fixtures), got.Diagnostics)
	}

	first := got.Fixtures[0]
	if first.Round != 1 || first.Date != "2025-09-20" || first.DateOverridden || first.Result != nil {
		t.Fatalf("unexpected first fixture %+v", first)
	}
	if first.HomeTeamID != "boul-animo-1" || first.AwayTeamID != "jbc-t-dupke-1" {
		t.Fatalf("unexpected first pairing %+v", first)
	}

	moved := got.Fixtures[1]
	if moved.Date != "2025-09-27" || !moved.DateOverridden {
		t.Fatalf("expected adjusted date on 100102, got %+v", moved)
	}
	if moved.Result == nil || moved.Result.HomeScore != 24 || moved.Result.AwayScore != 7 {
		t.Fatalf("expected 24-7 result on 100102, got %+v", moved.Result)
	}

	if got.Fixtures[2].Result == nil || got.Fixtures[2].Result.AwayScore != 19 {
		t.Fatalf("expected 12-19 result on 100103, got %+v", got.Fixtures[2].Result)
	}
	if got.Fixtures[3].Result != nil {
		t.Fatalf("expected 15-15 to be rejected as incomplete, got %+v", got.Fixtures[3].Result)
	}
}

func TestGrammar_AdjustedColumnAfterDefaultDate(t *testing.T) {
	t.Parallel()

	rows := []string{
		"1. ZATERDAG 20 SEPTEMBER",
		"Nr.|Thuis|Uit|Datum|Aangepaste datum",
		"100101|Boul'Animo 1|JBC 't Dupke 1|20-09-2025",
		"100102|PUK-Haarlem 1|'t Zwijntje 1|20-09-2025|27-09-2025",
		"2. ZATERDAG 04 OKTOBER",
		"Nr.|Thuis|Uit|Datum|Aangepaste datum",
		"100105|Jeu de Bommel 1|Amicale Boule d'Argent 1|04-10-2025|11-10-2025",
	}

	got, err := lenientGrammar().Parse(rows, testRoster)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	dates := map[string]string{}
	for _, item := range got.Fixtures {
		dates[item.MatchNumber] = item.Date
	}
	want := map[string]string{
		"100101": "2025-09-20",
		"100102": "2025-09-27",
		"100105": "2025-10-11",
	}
	for number, date := range want {
		if dates[number] != date {
			t.Fatalf("match %s: expected %s, got %s", number, date, dates[number])
		}
	}
	if got.Fixtures[2].Round != 2 {
		t.Fatalf("expected 100105 in round 2, got %d", got.Fixtures[2].Round)
	}
}

func TestGrammar_SeasonYearRollsOver(t *testing.T) {
	t.Parallel()

	rows := []string{
		"8. zaterdag 10 januari",
		"100129|CdP Les Cailloux 1|Jeu de Bommel 1",
		"9. ZONDAG 24 SPROKKELMAAND",
		"100133|Boul'Animo 1|'t Zwijntje 1",
	}

	got, err := lenientGrammar().Parse(rows, testRoster)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Fixtures[0].Date != "2026-01-10" {
		t.Fatalf("expected january date in 2026, got %s", got.Fixtures[0].Date)
	}
	if got.Fixtures[1].Date != "" {
		t.Fatalf("expected empty date for unknown month, got %s", got.Fixtures[1].Date)
	}
	if !hasDiagnostic(got, usecase.DiagnosticUnknownMonth, "") {
		t.Fatalf("expected unknown month diagnostic, got %+v", got.Diagnostics)
	}
}

func TestGrammar_SkipsUnresolvableRows(t *testing.T) {
	t.Parallel()

	rows := []string{
		"100100|Boul'Animo 1|JBC 't Dupke 1",
		"1. ZATERDAG 20 SEPTEMBER",
		"100101|Boul'Animo 1|Onbekend Team",
		"100102|PUK-Haarlem 1|'t Zwijntje 1",
		"100102|Petangeske 1|Jeu de Bommel 1",
		"200101|PUK-Haarlem 1|'t Zwijntje 1",
	}

	got, err := lenientGrammar().Parse(rows, testRoster)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got.Fixtures) != 1 || got.Fixtures[0].MatchNumber != "100102" {
		t.Fatalf("expected only 100102, got %+v", got.Fixtures)
	}
	if got.Fixtures[0].HomeTeamID != "puk-haarlem-1" {
		t.Fatalf("expected first occurrence of 100102 to win, got %+v", got.Fixtures[0])
	}
	for _, kind := range []string{usecase.DiagnosticNoRound, usecase.DiagnosticTeamResolution, usecase.DiagnosticDuplicate} {
		if !hasDiagnostic(got, kind, "") {
			t.Fatalf("expected %s diagnostic, got %+v", kind, got.Diagnostics)
		}
	}
}

func TestGrammar_BelowThresholdReturnsParseAndError(t *testing.T) {
	t.Parallel()

	rows := []string{
		"1. ZATERDAG 20 SEPTEMBER",
		"100102|PUK-Haarlem 1|'t Zwijntje 1",
	}

	got, err := NewGrammar(DefaultGrammarConfig()).Parse(rows, testRoster)
	if !errors.Is(err, usecase.ErrParseBelowThreshold) {
		t.Fatalf("expected ErrParseBelowThreshold, got %v", err)
	}
	if len(got.Fixtures) != 1 {
		t.Fatalf("expected partial parse to be returned, got %d fixtures", len(got.Fixtures))
	}
}

func TestGrammar_ZeroThresholdFallsBackToDefault(t *testing.T) {
	t.Parallel()

	cfg := DefaultGrammarConfig()
	cfg.MinFixtures = 0
	g := NewGrammar(cfg)
	if g.cfg.MinFixtures != DefaultGrammarConfig().MinFixtures {
		t.Fatalf("expected default threshold, got %d", g.cfg.MinFixtures)
	}

	_, err := g.Parse([]string{"1. ZATERDAG 20 SEPTEMBER", "100102|PUK-Haarlem 1|'t Zwijntje 1"}, testRoster)
	if !errors.Is(err, usecase.ErrParseBelowThreshold) {
		t.Fatalf("expected ErrParseBelowThreshold, got %v", err)
	}
}

func TestGrammar_SortsByNumericMatchNumber(t *testing.T) {
	t.Parallel()

	rows := []string{"2. ZATERDAG 4 OKTOBER"}
	for _, n := range []int{8, 5, 7, 6} {
		rows = append(rows, fmt.Sprintf("10010%d|Jeu de Bommel 1|Amicale Boule d'Argent 1", n))
	}

	got, err := lenientGrammar().Parse(rows, testRoster)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	numbers := make([]string, 0, len(got.Fixtures))
	for _, item := range got.Fixtures {
		numbers = append(numbers, item.MatchNumber)
	}
	if strings.Join(numbers, ",") != "100105,100106,100107,100108" {
		t.Fatalf("unexpected order %v", numbers)
	}
}

func hasDiagnostic(parsed usecase.ParsedSchedule, kind, matchNumber string) bool {
	for _, d := range parsed.Diagnostics {
		if d.Kind == kind && (matchNumber == "" || d.MatchNumber == matchNumber) {
			return true
		}
	}
	return false
}
