package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/dreadline/internal/ports"
)

var estimateDetail string

// estimateCmd previews the estimator verdict without starting a session.
var estimateCmd = &cobra.Command{
	Use:   "estimate <task>",
	Short: "Ask the estimator how long a task should take",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := strings.TrimSpace(strings.Join(args, " "))

		client := newEstimatorClient(app.config)
		result := client.Estimate(cmd.Context(), ports.EstimateRequest{
			TaskLabel:  label,
			TaskDetail: estimateDetail,
		})

		if result.IsFallback {
			fmt.Printf("The estimator is unreachable; the standard answer is %d minutes.\n", result.Minutes)
			return nil
		}
		fmt.Printf("The machine gives you %d minutes for %q.\n", result.Minutes, label)
		return nil
	},
}

func init() {
	estimateCmd.Flags().StringVarP(&estimateDetail, "detail", "d", "", "Extra context for the task")
}
