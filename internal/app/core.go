package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/petanque-league/external/nlpetanque"
	"github.com/riskibarqy/petanque-league/internal/config"
	"github.com/riskibarqy/petanque-league/internal/domain/fixture"
	"github.com/riskibarqy/petanque-league/internal/domain/match"
	"github.com/riskibarqy/petanque-league/internal/domain/standing"
	"github.com/riskibarqy/petanque-league/internal/domain/team"
	"github.com/riskibarqy/petanque-league/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/petanque-league/internal/infrastructure/repository/document"
	"github.com/riskibarqy/petanque-league/internal/infrastructure/repository/file"
	"github.com/riskibarqy/petanque-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/petanque-league/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/petanque-league/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/petanque-league/internal/platform/id"
	"github.com/riskibarqy/petanque-league/internal/platform/logging"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

// Core holds the league services shared by the API server and leaguectl.
type Core struct {
	Store     document.Store
	Fetcher   *nlpetanque.Client
	Parser    *nlpetanque.Parser
	Teams     *usecase.TeamService
	Schedule  *usecase.ScheduleService
	Matches   *usecase.MatchService
	Standings *usecase.StandingsService
	Reconcile *usecase.ReconcileService

	closers []func() error
}

func NewCore(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Core, error) {
	if logger == nil {
		logger = logging.Default()
	}

	core := &Core{}
	store, err := core.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	core.Store = store

	docFixtures := document.NewFixtureRepository(store)
	var (
		teamRepo    team.Repository    = document.NewTeamRepository(store, memory.SeedTeams())
		fixtureRepo fixture.Repository = docFixtures
		matchRepo   match.Repository   = document.NewMatchRepository(store)
	)
	if cfg.CacheEnabled {
		teamRepo = cache.NewTeamRepository(teamRepo, cfg.CacheTTL)
		fixtureRepo = cache.NewFixtureRepository(fixtureRepo, cfg.CacheTTL)
		matchRepo = cache.NewMatchRepository(matchRepo, cfg.CacheTTL)
	}

	core.Fetcher = nlpetanque.NewClient(nlpetanque.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.OfficialTimeout},
		URL:            cfg.OfficialURL,
		UserAgent:      cfg.OfficialUserAgent,
		Timeout:        cfg.OfficialTimeout,
		MaxRetries:     cfg.OfficialMaxRetries,
		MinInterval:    cfg.OfficialMinInterval,
		Logger:         logger.Component("nlpetanque"),
		CircuitBreaker: cfg.OfficialCircuit,
	})
	core.Parser = nlpetanque.NewParser(nlpetanque.GrammarConfig{
		MatchNumberPrefix: cfg.MatchNumberPrefix,
		SeasonStartYear:   cfg.SeasonStartYear,
		MinFixtures:       cfg.MinFixtures,
		Score:             match.DefaultScorePolicy(),
	})

	ids := idgen.NewUUIDGenerator()
	core.Teams = usecase.NewTeamService(teamRepo)
	core.Schedule = usecase.NewScheduleService(teamRepo, fixtureRepo, docFixtures, core.Fetcher, core.Parser, usecase.ScheduleServiceConfig{
		StaticSeason: memory.SeedSeason(),
		Logger:       logger.Component("schedule"),
	})
	core.Matches = usecase.NewMatchService(teamRepo, matchRepo, core.Schedule, ids, usecase.MatchServiceConfig{
		Score:  match.DefaultScorePolicy(),
		Logger: logger.Component("match"),
	})
	core.Standings = usecase.NewStandingsService(teamRepo, matchRepo, standing.DefaultPolicy(), cfg.CacheTTL)
	core.Reconcile = usecase.NewReconcileService(
		teamRepo,
		fixtureRepo,
		matchRepo,
		core.Schedule,
		core.Fetcher,
		core.Parser,
		ids,
		usecase.ReconcileServiceConfig{FetchTimeout: cfg.SyncFetchTimeout, Logger: logger.Component("reconcile")},
	)

	return core, nil
}

func (c *Core) openStore(ctx context.Context, cfg config.Config) (document.Store, error) {
	switch cfg.StoreKind {
	case config.StoreMemory:
		return memory.NewDocumentStore(), nil
	case config.StorePostgres:
		db, err := postgres.Open(ctx, postgres.DBConfig{
			URL:                         cfg.DBURL,
			MaxOpenConns:                cfg.DBMaxOpenConns,
			MaxIdleConns:                cfg.DBMaxIdleConns,
			ConnMaxLifetime:             cfg.DBConnMaxLifetime,
			DisablePreparedBinaryResult: cfg.DBDisablePreparedBinary,
		})
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)
		return postgres.NewDocumentStore(db), nil
	case config.StoreFile, "":
		store, err := file.NewDocumentStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store kind %q", cfg.StoreKind)
	}
}

// HealthChecks reads each stored resource so /healthz reports them separately.
func (c *Core) HealthChecks() []httpapi.HealthCheck {
	names := []string{document.Teams, document.Schedule, document.Matches}
	out := make([]httpapi.HealthCheck, 0, len(names))
	for _, name := range names {
		out = append(out, httpapi.HealthCheck{
			Name: name,
			Ping: func(ctx context.Context) error {
				_, _, err := c.Store.Read(ctx, name)
				return err
			},
		})
	}
	return out
}

func (c *Core) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.closers = nil
	return firstErr
}
