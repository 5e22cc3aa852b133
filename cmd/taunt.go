package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var tauntDetail string

// tauntCmd previews the taunt that would land on a shame card.
var tauntCmd = &cobra.Command{
	Use:   "taunt <task>",
	Short: "Preview the taunt you would get for missing this task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label := strings.TrimSpace(strings.Join(args, " "))

		client := newTauntClient(app.config)
		style := client.Generate(cmd.Context(), label, tauntDetail)

		fmt.Printf("%q\n", style.Text)
		return nil
	},
}

func init() {
	tauntCmd.Flags().StringVarP(&tauntDetail, "detail", "d", "", "Extra context for the task")
}
