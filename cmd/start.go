package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/dreadline/internal/adapters/tui"
)

var (
	startDetail   string
	startMinutes  int
	startAt       string
	startEstimate bool
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start <task>",
	Short: "Start a deadline session without the setup screens",
	Long: `Start a deadline session directly from the command line and attach
the timer. Pick the deadline with --minutes, an absolute --at time, or
let the estimator set it with --estimate.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()
		label := strings.TrimSpace(strings.Join(args, " "))

		deadlineAt, err := resolveDeadline(cmd, label)
		if err != nil {
			return err
		}

		session, err := app.session.StartDeadline(label, startDetail, deadlineAt)
		if err != nil {
			return err
		}

		tui.ShowStatus(cmd.OutOrStdout(), session)

		program := tui.NewProgram(app.session, &app.config.Theme, app.notifier, app.git)
		return program.Run(ctx)
	},
}

func init() {
	startCmd.Flags().StringVarP(&startDetail, "detail", "d", "", "Extra context for the task")
	startCmd.Flags().IntVarP(&startMinutes, "minutes", "m", 0, "Minutes until the deadline")
	startCmd.Flags().StringVar(&startAt, "at", "", "Absolute deadline (RFC 3339, e.g. 2026-01-02T17:00:00Z)")
	startCmd.Flags().BoolVarP(&startEstimate, "estimate", "e", false, "Let the estimator pick the deadline")
}

// resolveDeadline turns the start flags into an absolute deadline.
// Exactly one of --minutes, --at, or --estimate must be given.
func resolveDeadline(cmd *cobra.Command, label string) (time.Time, error) {
	now := time.Now()

	switch {
	case startAt != "":
		at, err := time.Parse(time.RFC3339, startAt)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --at time %q: %w", startAt, err)
		}
		if !at.After(now) {
			return time.Time{}, fmt.Errorf("--at time %s is already in the past", startAt)
		}
		return at, nil

	case startEstimate:
		result := app.session.EstimateDeadline(cmd.Context(), label, startDetail)
		if result.IsFallback {
			fmt.Printf("   The estimator is unreachable; you get the standard %d minutes.\n", result.Minutes)
		} else {
			fmt.Printf("   The machine gives you %d minutes.\n", result.Minutes)
		}
		return now.Add(time.Duration(result.Minutes) * time.Minute), nil

	case startMinutes > 0:
		return now.Add(time.Duration(startMinutes) * time.Minute), nil

	case startMinutes < 0:
		return time.Time{}, fmt.Errorf("--minutes must be positive")

	default:
		return time.Time{}, fmt.Errorf("pick a deadline with --minutes, --at, or --estimate")
	}
}
