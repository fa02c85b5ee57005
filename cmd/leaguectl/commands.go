package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/petanque-league/internal/app"
	"github.com/riskibarqy/petanque-league/internal/usecase"
	"github.com/spf13/cobra"
)

func newRootCommand(load runtimeLoader) *cobra.Command {
	root := &cobra.Command{
		Use:           "leaguectl",
		Short:         "Operate the petanque league schedule and results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// withRuntime opens storage for the duration of one command.
	withRuntime := func(fn func(cmd *cobra.Command, rt *runtime, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			rt, err := load(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := rt.core.Close(); err != nil {
					rt.logger.Warn("close storage failed", "error", err)
				}
			}()
			return fn(cmd, rt, args)
		}
	}

	root.AddCommand(
		newSyncCommand(withRuntime),
		newParseCommand(withRuntime),
		newStandingsCommand(withRuntime),
		newScheduleCommand(withRuntime),
		newEnsureScheduleCommand(withRuntime),
	)
	return root
}

type runtimeWrapper func(fn func(cmd *cobra.Command, rt *runtime, args []string) error) func(*cobra.Command, []string) error

func newSyncCommand(withRuntime runtimeWrapper) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one reconciliation cycle against the official page",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, _ []string) error {
			runner, err := usecase.NewSyncRunner(rt.core.Reconcile, usecase.SyncRunnerConfig{
				CycleTimeout: rt.cfg.SyncCycleTimeout,
				Logger:       rt.logger,
				Notifier:     app.NewNotifier(rt.cfg, rt.logger),
			})
			if err != nil {
				return err
			}
			defer runner.Close()

			summary, err := runner.RunNow(cmd.Context(), usecase.ReconcileOptions{DryRun: dryRun})
			if err != nil {
				return fmt.Errorf("sync: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), summaryView(summary))
		}),
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute the merge without writing")
	return cmd
}

func newParseCommand(withRuntime runtimeWrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file|url>",
		Short: "Parse a saved or live schedule page and print what was read",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
			markup, err := readMarkup(cmd.Context(), rt.core, args[0])
			if err != nil {
				return err
			}
			roster, err := rt.core.Teams.List(cmd.Context())
			if err != nil {
				return err
			}

			parsed, parseErr := rt.core.Parser.Parse(markup, roster)
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MATCH\tROUND\tDATE\tHOME\tAWAY\tRESULT")
			for _, item := range parsed.Fixtures {
				result := "-"
				if item.Result != nil {
					result = fmt.Sprintf("%d-%d", item.Result.HomeScore, item.Result.AwayScore)
				}
				date := item.Date
				if item.DateOverridden {
					date += "*"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", item.MatchNumber, item.Round, date, item.HomeTeamID, item.AwayTeamID, result)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, diag := range parsed.Diagnostics {
				fmt.Fprintf(out, "diagnostic %s match=%s: %s\n", diag.Kind, diag.MatchNumber, diag.Message)
			}
			fmt.Fprintf(out, "%d fixtures, %d diagnostics\n", len(parsed.Fixtures), len(parsed.Diagnostics))
			return parseErr
		}),
	}
}

func newStandingsCommand(withRuntime runtimeWrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "standings",
		Short: "Print the current standings",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, _ []string) error {
			rows, err := rt.core.Standings.Get(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tTEAM\tP\tW\tL\tPTS\tDIFF")
			for i, row := range rows {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%+d\n", i+1, row.Name, row.Played, row.Won, row.Lost, row.Points, row.GoalDiff)
			}
			return tw.Flush()
		}),
	}
}

func newScheduleCommand(withRuntime runtimeWrapper) *cobra.Command {
	var round int

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the stored schedule",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, _ []string) error {
			items, err := rt.core.Schedule.List(cmd.Context(), round)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tROUND\tDATE\tHOME\tAWAY\tSTATUS")
			for _, item := range items {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", item.ID, item.Round, dash(item.Date), item.HomeTeamID, item.AwayTeamID, item.Status)
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().IntVar(&round, "round", 0, "only this round (0 = all)")
	return cmd
}

func newEnsureScheduleCommand(withRuntime runtimeWrapper) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-schedule",
		Short: "Materialize the schedule if it is not stored yet",
		Args:  cobra.NoArgs,
		RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, _ []string) error {
			items, err := rt.core.Schedule.EnsureSchedule(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schedule holds %d fixtures\n", len(items))
			return nil
		}),
	}
}

func readMarkup(ctx context.Context, core *app.Core, source string) (string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return core.Fetcher.FetchURL(ctx, source)
	}
	raw, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", source, err)
	}
	return string(raw), nil
}

type warningOutput struct {
	Kind        string `json:"kind"`
	MatchNumber string `json:"matchNumber,omitempty"`
	Message     string `json:"message"`
}

type summaryOutput struct {
	StartedAt        time.Time       `json:"startedAt"`
	DurationMS       int64           `json:"durationMs"`
	DryRun           bool            `json:"dryRun"`
	ParsedFixtures   int             `json:"parsedFixtures"`
	Diagnostics      int             `json:"diagnostics"`
	DatesChanged     int             `json:"datesChanged"`
	ResultsAdded     int             `json:"resultsAdded"`
	ResultsCorrected int             `json:"resultsCorrected"`
	Warnings         []warningOutput `json:"warnings"`
	ScheduleWritten  bool            `json:"scheduleWritten"`
	MatchesWritten   bool            `json:"matchesWritten"`
}

func summaryView(s usecase.SyncSummary) summaryOutput {
	warnings := make([]warningOutput, 0, len(s.Warnings))
	for _, w := range s.Warnings {
		warnings = append(warnings, warningOutput{Kind: w.Kind, MatchNumber: w.MatchNumber, Message: w.Message})
	}
	return summaryOutput{
		StartedAt:        s.StartedAt,
		DurationMS:       s.Duration.Milliseconds(),
		DryRun:           s.DryRun,
		ParsedFixtures:   s.ParsedFixtures,
		Diagnostics:      len(s.Diagnostics),
		DatesChanged:     s.DatesChanged,
		ResultsAdded:     s.ResultsAdded,
		ResultsCorrected: s.ResultsCorrected,
		Warnings:         warnings,
		ScheduleWritten:  s.ScheduleWritten,
		MatchesWritten:   s.MatchesWritten,
	}
}

func writeJSON(w io.Writer, v any) error {
	raw, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", raw)
	return err
}

func dash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
