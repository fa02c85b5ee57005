package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/riskibarqy/petanque-league/internal/platform/logging"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

type ResendConfig struct {
	APIKey     string
	From       string
	To         []string
	LeagueName string
}

// emailSender is the part of the resend client used here.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotifier mails a summary of every cycle that changed stored data.
type ResendNotifier struct {
	sender     emailSender
	from       string
	to         []string
	leagueName string
	logger     *logging.Logger
}

var _ usecase.SyncNotifier = (*ResendNotifier)(nil)

func NewResendNotifier(cfg ResendConfig, logger *logging.Logger) *ResendNotifier {
	client := resend.NewClient(strings.TrimSpace(cfg.APIKey))
	return newResendNotifier(client.Emails, cfg, logger)
}

func newResendNotifier(sender emailSender, cfg ResendConfig, logger *logging.Logger) *ResendNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	leagueName := strings.TrimSpace(cfg.LeagueName)
	if leagueName == "" {
		leagueName = "Petanque league"
	}
	return &ResendNotifier{
		sender:     sender,
		from:       strings.TrimSpace(cfg.From),
		to:         cfg.To,
		leagueName: leagueName,
		logger:     logger,
	}
}

func (n *ResendNotifier) NotifySync(ctx context.Context, summary usecase.SyncSummary) error {
	if !summary.Changed() || summary.DryRun || len(n.to) == 0 {
		return nil
	}

	resp, err := n.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: subject(n.leagueName, summary),
		Text:    renderSummary(n.leagueName, summary),
	})
	if err != nil {
		return fmt.Errorf("%w: send sync summary: %w", usecase.ErrDependencyUnavailable, err)
	}

	n.logger.InfoContext(ctx, "sync summary mailed", "email_id", resp.Id, "recipients", len(n.to))
	return nil
}

func subject(league string, s usecase.SyncSummary) string {
	return fmt.Sprintf("%s: %d new results, %d corrections, %d date changes",
		league, s.ResultsAdded, s.ResultsCorrected, s.DatesChanged)
}

func renderSummary(league string, s usecase.SyncSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s schedule sync at %s\n\n", league, s.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Fixtures parsed:    %d\n", s.ParsedFixtures)
	fmt.Fprintf(&b, "Results added:      %d\n", s.ResultsAdded)
	fmt.Fprintf(&b, "Results corrected:  %d\n", s.ResultsCorrected)
	fmt.Fprintf(&b, "Dates changed:      %d\n", s.DatesChanged)

	if len(s.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range s.Warnings {
			fmt.Fprintf(&b, "- [%s] match %s: %s\n", w.Kind, w.MatchNumber, w.Message)
		}
	}
	if len(s.Diagnostics) > 0 {
		fmt.Fprintf(&b, "\n%d rows on the official page could not be read.\n", len(s.Diagnostics))
	}

	return b.String()
}
