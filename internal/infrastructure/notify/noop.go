package notify

import (
	"context"

	"github.com/riskibarqy/petanque-league/internal/usecase"
)

// Noop drops every summary. Used when mail is not configured.
type Noop struct{}

var _ usecase.SyncNotifier = Noop{}

func (Noop) NotifySync(context.Context, usecase.SyncSummary) error { return nil }
