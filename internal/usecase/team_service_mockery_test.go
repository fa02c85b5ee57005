package usecase

import (
	"context"
	"errors"
	"testing"

	teammock "github.com/riskibarqy/petanque-league/internal/mocks/domain/team"
	"github.com/stretchr/testify/mock"
)

func TestTeamService_GetUsingMockery(t *testing.T) {
	t.Parallel()

	teamRepo := teammock.NewRepository(t)
	teamRepo.
		On("List", mock.Anything).
		Return(officialRoster, nil).
		Twice()

	service := NewTeamService(teamRepo)

	got, err := service.Get(context.Background(), "petangeske-1")
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if got.Name != "Petangeske 1" {
		t.Fatalf("unexpected team name: got=%s", got.Name)
	}

	_, err = service.Get(context.Background(), "missing-team")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTeamService_ListPropagatesRepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	teamRepo := teammock.NewRepository(t)
	storeErr := errors.New("document store offline")
	teamRepo.
		On("List", mock.Anything).
		Return(nil, storeErr).
		Once()

	_, err := NewTeamService(teamRepo).List(context.Background())
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}
