package nlpetanque

import (
	"github.com/riskibarqy/petanque-league/internal/domain/team"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

// Parser flattens the schedule page and reads it with the grammar.
type Parser struct {
	grammar *Grammar
}

var _ usecase.ScheduleParser = (*Parser)(nil)

func NewParser(cfg GrammarConfig) *Parser {
	return &Parser{grammar: NewGrammar(cfg)}
}

func (p *Parser) Parse(markup string, roster []team.Team) (usecase.ParsedSchedule, error) {
	return p.grammar.Parse(ExtractRows(markup), roster)
}

func (p *Parser) MinFixtures() int {
	return p.grammar.cfg.MinFixtures
}
