package usecase

import (
	"context"

	"github.com/riskibarqy/petanque-league/internal/domain/team"
)

// PageFetcher downloads the official schedule page.
type PageFetcher interface {
	FetchPage(ctx context.Context) (string, error)
}

// ScheduleParser turns schedule page markup into fixtures for the given roster.
// A parse with fewer fixtures than the configured minimum is returned together
// with an error marked ErrParseBelowThreshold.
type ScheduleParser interface {
	Parse(markup string, roster []team.Team) (ParsedSchedule, error)
}

// ParsedScore is a complete final score read from the page.
type ParsedScore struct {
	HomeScore int
	AwayScore int
}

type ParsedFixture struct {
	MatchNumber    string
	Round          int
	Date           string
	DateOverridden bool
	HomeTeamID     string
	AwayTeamID     string
	Result         *ParsedScore
}

const (
	DiagnosticTeamResolution = "team_resolution"
	DiagnosticNoRound        = "no_round"
	DiagnosticDuplicate      = "duplicate_match_number"
	DiagnosticUnknownMonth   = "unknown_month"
)

// ParseDiagnostic describes a skipped or degraded row.
type ParseDiagnostic struct {
	Kind        string
	MatchNumber string
	Row         string
	Message     string
}

type ParsedSchedule struct {
	Fixtures    []ParsedFixture
	Diagnostics []ParseDiagnostic
}

// SyncNotifier is told about cycles that changed stored data.
type SyncNotifier interface {
	NotifySync(ctx context.Context, summary SyncSummary) error
}

// SyncDispatcher requests a sync cycle, either in-process or through a queue.
type SyncDispatcher interface {
	DispatchSync(ctx context.Context, dryRun bool) error
}
