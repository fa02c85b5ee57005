package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/petanque-league/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListTeams")
	defer span.End()

	teams, err := h.teamService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListSchedule")
	defer span.End()

	round := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("round")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: round must be an integer", usecase.ErrInvalidInput))
			return
		}
		round = parsed
	}
	span.SetAttributes(attribute.Int("league.round", round))

	fixtures, err := h.scheduleService.List(ctx, round)
	if err != nil {
		h.logger.WarnContext(ctx, "list schedule failed", "round", round, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]fixtureDTO, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, fixtureToDTO(f))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListMatches")
	defer span.End()

	results, err := h.matchService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(results))
	for _, m := range results {
		items = append(items, matchToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) SubmitMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "SubmitMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	span.SetAttributes(attribute.String("league.match_id", req.MatchID), attribute.String("league.fixture_id", req.FixtureID))

	result, err := h.matchService.Submit(ctx, principal, usecase.SubmitMatchInput{
		MatchID:   req.MatchID,
		FixtureID: req.FixtureID,
		HomeScore: *req.HomeScore,
		AwayScore: *req.AwayScore,
		Date:      req.Date,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit match failed",
			"match_id", req.MatchID,
			"fixture_id", req.FixtureID,
			"user_id", principal.UserID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(usecase.MatchView{Result: result}))
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetStandings")
	defer span.End()

	rows, err := h.standingsService.Get(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "compute standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(rows))
}
