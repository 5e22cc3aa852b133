package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/dreadline/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit the session settings",
	Long:  `Interactively configure the hold-to-cancel duration, the cancellation reason prompt, the estimator, sharing, and notifications.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)
		cfg := app.config

		estimatorStatus := "off"
		if cfg.Estimator.Enabled {
			estimatorStatus = fmt.Sprintf("on (%s)", cfg.Estimator.Model)
		}
		notifStatus := "off"
		if cfg.Notifications.Enabled {
			notifStatus = "on"
			if cfg.Notifications.Sound {
				notifStatus = "on (with sound)"
			}
		}
		shareStatus := shareLabel(cfg.Share)

		fmt.Println()
		fmt.Println("  Current configuration:")
		fmt.Println()
		fmt.Printf("    Hold to cancel:       %s\n", cfg.Flow.HoldDuration)
		fmt.Printf("    Cancellation reason:  %v\n", cfg.Flow.CancelReasonEnabled)
		fmt.Printf("    Estimator:            %s\n", estimatorStatus)
		fmt.Printf("    Taunts:               %v\n", cfg.Taunt.Enabled)
		fmt.Printf("    Share card via:       %s\n", shareStatus)
		fmt.Printf("    Notifications:        %s\n", notifStatus)
		fmt.Println()
		fmt.Println("  What would you like to change?")
		fmt.Println("    [h] Edit hold-to-cancel duration")
		fmt.Println("    [r] Toggle the cancellation reason prompt")
		fmt.Println("    [e] Edit estimator settings")
		fmt.Println("    [t] Toggle taunts")
		fmt.Println("    [s] Edit share destinations")
		fmt.Println("    [n] Toggle notifications")
		fmt.Println("    [q] Quit without saving")
		fmt.Print("  Choose: ")

		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))

		switch choice {
		case "h":
			return editHoldDuration(reader, cfg)
		case "r":
			cfg.Flow.CancelReasonEnabled = !cfg.Flow.CancelReasonEnabled
			return saveAndReport(cfg, fmt.Sprintf("cancellation reason prompt %v", cfg.Flow.CancelReasonEnabled))
		case "e":
			return editEstimator(reader, cfg)
		case "t":
			cfg.Taunt.Enabled = !cfg.Taunt.Enabled
			return saveAndReport(cfg, fmt.Sprintf("taunts %v", cfg.Taunt.Enabled))
		case "s":
			return editShare(reader, cfg)
		case "n":
			return editNotifications(reader, cfg)
		case "q", "":
			fmt.Println("  No changes made.")
			return nil
		default:
			return fmt.Errorf("invalid choice %q", choice)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func shareLabel(s config.ShareConfig) string {
	switch {
	case s.Clipboard && s.Terminal:
		return "clipboard, terminal fallback"
	case s.Clipboard:
		return "clipboard"
	case s.Terminal:
		return "terminal"
	default:
		return "nowhere"
	}
}

func editHoldDuration(reader *bufio.Reader, cfg *config.Config) error {
	fmt.Printf("\n  Hold-to-cancel duration [%s]: ", cfg.Flow.HoldDuration)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		fmt.Println("  No changes made.")
		return nil
	}

	parsed, err := time.ParseDuration(input)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", input, err)
	}
	if parsed <= 0 {
		return fmt.Errorf("hold duration must be positive")
	}

	cfg.Flow.HoldDuration = config.Duration(parsed)
	return saveAndReport(cfg, fmt.Sprintf("hold to cancel %s", cfg.Flow.HoldDuration))
}

func editEstimator(reader *bufio.Reader, cfg *config.Config) error {
	current := "off"
	if cfg.Estimator.Enabled {
		current = "on"
	}

	fmt.Printf("\n  Estimator is %s.\n\n", current)
	fmt.Println("    [1] Off — manual deadlines only")
	fmt.Println("    [2] On")
	fmt.Print("  Choose: ")

	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)

	switch choice {
	case "1":
		cfg.Estimator.Enabled = false
		return saveAndReport(cfg, "estimator off")
	case "2":
		cfg.Estimator.Enabled = true
	default:
		fmt.Println("  No changes made.")
		return nil
	}

	fmt.Printf("  Model [%s]: ", cfg.Estimator.Model)
	model, _ := reader.ReadString('\n')
	model = strings.TrimSpace(model)
	if model != "" {
		cfg.Estimator.Model = model
	}

	fmt.Printf("  Fallback minutes [%d]: ", cfg.Estimator.FallbackMinutes)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input != "" {
		var n int
		if _, err := fmt.Sscanf(input, "%d", &n); err != nil {
			return fmt.Errorf("invalid number %q: %w", input, err)
		}
		if n < 1 {
			return fmt.Errorf("fallback minutes must be at least 1")
		}
		cfg.Estimator.FallbackMinutes = n
	}

	return saveAndReport(cfg, fmt.Sprintf("estimator on, model %s, fallback %dm",
		cfg.Estimator.Model, cfg.Estimator.FallbackMinutes))
}

func editShare(reader *bufio.Reader, cfg *config.Config) error {
	fmt.Printf("\n  Currently sharing via: %s\n\n", shareLabel(cfg.Share))
	fmt.Println("    [1] Clipboard with terminal fallback")
	fmt.Println("    [2] Clipboard only")
	fmt.Println("    [3] Terminal only")
	fmt.Println("    [4] Nowhere")
	fmt.Print("  Choose: ")

	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)

	switch choice {
	case "1":
		cfg.Share.Clipboard = true
		cfg.Share.Terminal = true
	case "2":
		cfg.Share.Clipboard = true
		cfg.Share.Terminal = false
	case "3":
		cfg.Share.Clipboard = false
		cfg.Share.Terminal = true
	case "4":
		cfg.Share.Clipboard = false
		cfg.Share.Terminal = false
	default:
		fmt.Println("  No changes made.")
		return nil
	}

	return saveAndReport(cfg, fmt.Sprintf("share card via %s", shareLabel(cfg.Share)))
}

func editNotifications(reader *bufio.Reader, cfg *config.Config) error {
	current := "off"
	if cfg.Notifications.Enabled {
		current = "on"
		if cfg.Notifications.Sound {
			current = "on (with sound)"
		}
	}

	fmt.Printf("\n  Current notifications: %s\n\n", current)
	fmt.Println("    [1] Off")
	fmt.Println("    [2] On (visual only)")
	fmt.Println("    [3] On (with sound)")
	fmt.Print("  Choose: ")

	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)

	switch choice {
	case "1":
		cfg.Notifications.Enabled = false
		cfg.Notifications.Sound = false
	case "2":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = false
	case "3":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = true
	default:
		fmt.Println("  No changes made.")
		return nil
	}

	status := "off"
	if cfg.Notifications.Enabled {
		status = "on"
		if cfg.Notifications.Sound {
			status = "on (with sound)"
		}
	}
	return saveAndReport(cfg, fmt.Sprintf("notifications %s", status))
}

func saveAndReport(cfg *config.Config, change string) error {
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Printf("\n  Saved: %s\n", change)
	return nil
}
