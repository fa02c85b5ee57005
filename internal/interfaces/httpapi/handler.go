package httpapi

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/petanque-league/internal/platform/logging"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

// SyncController starts reconciliation cycles and reports on them.
type SyncController interface {
	Trigger(ctx context.Context, opts usecase.ReconcileOptions) error
	Status() usecase.SyncStatus
}

// HealthCheck probes one stored resource.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type Handler struct {
	teamService      *usecase.TeamService
	scheduleService  *usecase.ScheduleService
	matchService     *usecase.MatchService
	standingsService *usecase.StandingsService
	sync             SyncController
	healthChecks     []HealthCheck
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	teamService *usecase.TeamService,
	scheduleService *usecase.ScheduleService,
	matchService *usecase.MatchService,
	standingsService *usecase.StandingsService,
	sync SyncController,
	healthChecks []HealthCheck,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		teamService:      teamService,
		scheduleService:  scheduleService,
		matchService:     matchService,
		standingsService: standingsService,
		sync:             sync,
		healthChecks:     healthChecks,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
