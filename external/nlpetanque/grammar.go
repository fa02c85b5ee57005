package nlpetanque

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/petanque-league/internal/domain/match"
	"github.com/riskibarqy/petanque-league/internal/domain/team"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

var (
	roundHeaderRegex  = regexp.MustCompile(`(?i)(\d+)\.[^\d]*?(?:ZATERDAG|ZONDAG)\s+(\d{1,2})\s+([A-ZÀ-Ü]+)`)
	dayMonthYearRegex = regexp.MustCompile(`\b(\d{1,2})-(\d{1,2})-(\d{4})\b`)
)

var dutchMonths = map[string]int{
	"JANUARI":   1,
	"FEBRUARI":  2,
	"MAART":     3,
	"APRIL":     4,
	"MEI":       5,
	"JUNI":      6,
	"JULI":      7,
	"AUGUSTUS":  8,
	"SEPTEMBER": 9,
	"OKTOBER":   10,
	"NOVEMBER":  11,
	"DECEMBER":  12,
}

type GrammarConfig struct {
	MatchNumberPrefix   string
	SeasonStartYear     int
	SeasonRolloverMonth int
	MinFixtures         int
	AdjustedToken       string
	DateToken           string
	Score               match.ScorePolicy
}

func DefaultGrammarConfig() GrammarConfig {
	return GrammarConfig{
		MatchNumberPrefix:   "1001",
		SeasonStartYear:     2025,
		SeasonRolloverMonth: 9,
		MinFixtures:         40,
		AdjustedToken:       "aangepaste",
		DateToken:           "datum",
		Score:               match.DefaultScorePolicy(),
	}
}

func normalizeGrammarConfig(cfg GrammarConfig) GrammarConfig {
	defaults := DefaultGrammarConfig()
	if strings.TrimSpace(cfg.MatchNumberPrefix) == "" {
		cfg.MatchNumberPrefix = defaults.MatchNumberPrefix
	}
	if cfg.SeasonStartYear <= 0 {
		cfg.SeasonStartYear = defaults.SeasonStartYear
	}
	if cfg.SeasonRolloverMonth < 1 || cfg.SeasonRolloverMonth > 12 {
		cfg.SeasonRolloverMonth = defaults.SeasonRolloverMonth
	}
	if cfg.MinFixtures < 1 {
		cfg.MinFixtures = defaults.MinFixtures
	}
	if cfg.AdjustedToken == "" {
		cfg.AdjustedToken = defaults.AdjustedToken
	}
	if cfg.DateToken == "" {
		cfg.DateToken = defaults.DateToken
	}
	if cfg.Score.MatchTotal <= 0 {
		cfg.Score = defaults.Score
	}
	cfg.AdjustedToken = strings.ToLower(cfg.AdjustedToken)
	cfg.DateToken = strings.ToLower(cfg.DateToken)
	return cfg
}

// Grammar reads the flattened rows of the official schedule page.
type Grammar struct {
	cfg              GrammarConfig
	matchNumberRegex *regexp.Regexp
	classifiers      []rowClassifier
	dateStrategies   []dateStrategy
}

func NewGrammar(cfg GrammarConfig) *Grammar {
	cfg = normalizeGrammarConfig(cfg)
	g := &Grammar{
		cfg:              cfg,
		matchNumberRegex: regexp.MustCompile(`^` + regexp.QuoteMeta(cfg.MatchNumberPrefix) + `\d{2}$`),
	}
	// order matters: a round header never doubles as a fixture row.
	g.classifiers = []rowClassifier{
		{name: "round_header", classify: g.classifyRoundHeader},
		{name: "adjusted_date_header", classify: g.classifyAdjustedHeader},
		{name: "fixture", classify: g.classifyFixture},
	}
	g.dateStrategies = []dateStrategy{
		{name: "header_column", find: headerColumnStrategy},
		{name: "cell_scan", find: cellScanStrategy},
	}
	return g
}

func (g *Grammar) Config() GrammarConfig {
	return g.cfg
}

type tokenKind int

const (
	tokenRoundHeader tokenKind = iota + 1
	tokenAdjustedHeader
	tokenFixture
)

type rowToken struct {
	kind  tokenKind
	row   string
	cells []string

	round       int
	defaultDate string
	monthName   string

	adjustedIndex int

	matchIndex int
}

type rowClassifier struct {
	name     string
	classify func(row string, cells []string) (rowToken, bool)
}

// dateStrategy looks for an overriding date in a fixture row.
type dateStrategy struct {
	name string
	find func(st *parseState, tok rowToken) (string, bool)
}

type parseState struct {
	round         int
	defaultDate   string
	adjustedIndex int
	seen          map[string]bool
	names         map[string]string
	out           usecase.ParsedSchedule
}

// Parse walks rows in order. A round header sets the current round and its
// default date; fixture rows inherit both unless they carry an adjusted date.
func (g *Grammar) Parse(rows []string, roster []team.Team) (usecase.ParsedSchedule, error) {
	st := &parseState{
		adjustedIndex: -1,
		seen:          make(map[string]bool),
		names:         team.NameIndex(roster),
	}

	for _, row := range rows {
		tok, ok := g.tokenize(row)
		if !ok {
			continue
		}
		switch tok.kind {
		case tokenRoundHeader:
			st.round = tok.round
			st.defaultDate = tok.defaultDate
			st.adjustedIndex = -1
			if tok.defaultDate == "" {
				st.diagnose(usecase.DiagnosticUnknownMonth, "", row, fmt.Sprintf("round %d: unknown month %q", tok.round, tok.monthName))
			}
		case tokenAdjustedHeader:
			st.adjustedIndex = tok.adjustedIndex
		case tokenFixture:
			g.consumeFixture(st, tok)
		}
	}

	sort.SliceStable(st.out.Fixtures, func(i, j int) bool {
		ni, _ := strconv.Atoi(st.out.Fixtures[i].MatchNumber)
		nj, _ := strconv.Atoi(st.out.Fixtures[j].MatchNumber)
		return ni < nj
	})

	if len(st.out.Fixtures) < g.cfg.MinFixtures {
		return st.out, fmt.Errorf("%w: parsed %d fixtures, need at least %d", usecase.ErrParseBelowThreshold, len(st.out.Fixtures), g.cfg.MinFixtures)
	}

	return st.out, nil
}

func (g *Grammar) tokenize(row string) (rowToken, bool) {
	cells := splitCells(row)
	for _, c := range g.classifiers {
		if tok, ok := c.classify(row, cells); ok {
			tok.row = row
			tok.cells = cells
			return tok, true
		}
	}
	return rowToken{}, false
}

func (g *Grammar) classifyRoundHeader(row string, _ []string) (rowToken, bool) {
	m := roundHeaderRegex.FindStringSubmatch(row)
	if m == nil {
		return rowToken{}, false
	}
	round, err := strconv.Atoi(m[1])
	if err != nil || round < 1 {
		return rowToken{}, false
	}
	day, _ := strconv.Atoi(m[2])
	return rowToken{
		kind:        tokenRoundHeader,
		round:       round,
		monthName:   m[3],
		defaultDate: g.seasonDate(day, m[3]),
	}, true
}

func (g *Grammar) classifyAdjustedHeader(_ string, cells []string) (rowToken, bool) {
	for i, cell := range cells {
		lower := strings.ToLower(cell)
		if strings.Contains(lower, g.cfg.AdjustedToken) && strings.Contains(lower, g.cfg.DateToken) {
			return rowToken{kind: tokenAdjustedHeader, adjustedIndex: i}, true
		}
	}
	return rowToken{}, false
}

func (g *Grammar) classifyFixture(_ string, cells []string) (rowToken, bool) {
	for i, cell := range cells {
		if g.matchNumberRegex.MatchString(cell) {
			return rowToken{kind: tokenFixture, matchIndex: i}, true
		}
	}
	return rowToken{}, false
}

func (g *Grammar) consumeFixture(st *parseState, tok rowToken) {
	matchNumber := tok.cells[tok.matchIndex]
	if st.round == 0 {
		st.diagnose(usecase.DiagnosticNoRound, matchNumber, tok.row, "fixture row before any round header")
		return
	}
	if st.seen[matchNumber] {
		st.diagnose(usecase.DiagnosticDuplicate, matchNumber, tok.row, "duplicate match number, keeping first occurrence")
		return
	}

	homeIdx, awayIdx := -1, -1
	for i := tok.matchIndex + 1; i < len(tok.cells); i++ {
		if _, ok := st.names[tok.cells[i]]; !ok {
			continue
		}
		if homeIdx < 0 {
			homeIdx = i
			continue
		}
		awayIdx = i
		break
	}
	if awayIdx < 0 {
		st.diagnose(usecase.DiagnosticTeamResolution, matchNumber, tok.row, usecase.ErrTeamResolution.Error())
		return
	}

	parsed := usecase.ParsedFixture{
		MatchNumber: matchNumber,
		Round:       st.round,
		Date:        st.defaultDate,
		HomeTeamID:  st.names[tok.cells[homeIdx]],
		AwayTeamID:  st.names[tok.cells[awayIdx]],
	}
	for _, strategy := range g.dateStrategies {
		if date, ok := strategy.find(st, tok); ok {
			parsed.Date = date
			parsed.DateOverridden = date != st.defaultDate
			break
		}
	}
	if score, ok := g.readScore(tok.cells, awayIdx); ok {
		parsed.Result = &score
	}

	st.seen[matchNumber] = true
	st.out.Fixtures = append(st.out.Fixtures, parsed)
}

func (g *Grammar) readScore(cells []string, awayIdx int) (usecase.ParsedScore, bool) {
	if awayIdx+2 >= len(cells) {
		return usecase.ParsedScore{}, false
	}
	home, okHome := parseNonNegative(cells[awayIdx+1])
	away, okAway := parseNonNegative(cells[awayIdx+2])
	if !okHome || !okAway || !g.cfg.Score.IsCompleteResult(home, away) {
		return usecase.ParsedScore{}, false
	}
	return usecase.ParsedScore{HomeScore: home, AwayScore: away}, true
}

// seasonDate maps a header day and Dutch month onto the season calendar.
func (g *Grammar) seasonDate(day int, monthName string) string {
	month, ok := dutchMonths[strings.ToUpper(strings.TrimSpace(monthName))]
	if !ok || day < 1 || day > 31 {
		return ""
	}
	year := g.cfg.SeasonStartYear
	if month < g.cfg.SeasonRolloverMonth {
		year++
	}
	return isoDate(year, month, day)
}

func headerColumnStrategy(st *parseState, tok rowToken) (string, bool) {
	if st.adjustedIndex < 0 || st.adjustedIndex >= len(tok.cells) {
		return "", false
	}
	return parseDayMonthYear(tok.cells[st.adjustedIndex])
}

func cellScanStrategy(st *parseState, tok rowToken) (string, bool) {
	for i := tok.matchIndex + 1; i < len(tok.cells); i++ {
		date, ok := parseDayMonthYear(tok.cells[i])
		if ok && date != st.defaultDate {
			return date, true
		}
	}
	return "", false
}

func parseDayMonthYear(cell string) (string, bool) {
	m := dayMonthYearRegex.FindStringSubmatch(cell)
	if m == nil {
		return "", false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return "", false
	}
	return isoDate(year, month, day), true
}

func isoDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func parseNonNegative(cell string) (int, bool) {
	if cell == "" {
		return 0, false
	}
	for _, r := range cell {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(cell)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (st *parseState) diagnose(kind, matchNumber, row, message string) {
	st.out.Diagnostics = append(st.out.Diagnostics, usecase.ParseDiagnostic{
		Kind:        kind,
		MatchNumber: matchNumber,
		Row:         row,
		Message:     message,
	})
}
