// Package cmd provides the CLI commands for the dreadline application.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/dreadline/internal/adapters/tui"
	"github.com/xvierd/dreadline/internal/config"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dreadline",
	Short: "Dreadline - a countdown timer that takes your deadline personally",
	Long: `Dreadline runs one deadline session at a time: name a task, commit to
a deadline, and watch the clock drain. Miss it and the clock counts up
until you own the failure.

Run "dreadline" with no arguments to start a session interactively.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	RunE: runInteractive,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		tui.ShowError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Dreadline\nVersion: {{.Version}}\n")

	// Add subcommands
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(tauntCmd)
	rootCmd.AddCommand(mcpCmd)
}

// runInteractive launches the full-screen session UI for bare "dreadline".
func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := setupSignalHandler()

	if app.config.FirstRun {
		app.config.FirstRun = false
		_ = config.Save(app.config)
	}

	program := tui.NewProgram(app.session, &app.config.Theme, app.notifier, app.git)
	return program.Run(ctx)
}
