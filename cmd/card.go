package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deskercise/deskercise/internal/model"
	"github.com/deskercise/deskercise/internal/output"
	"github.com/deskercise/deskercise/internal/session"
)

// drawCmd represents the draw command.
var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw an exercise card",
	Long: `Draw a card from the deck for your current difficulty. Cards drawn
recently are held back until most of the deck has been seen.

Examples:
  deskercise draw
  deskercise draw -f json`,
	Args: cobra.NoArgs,
	RunE: runDraw,
}

// repeatCmd represents the repeat command.
var repeatCmd = &cobra.Command{
	Use:     "repeat",
	Aliases: []string{"done"},
	Short:   "Log the current card as done and keep it",
	Long: `Log the card on the table as completed without drawing a new one.
The reminder countdown restarts.

Examples:
  deskercise repeat
  deskercise done`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCardAction("repeat", ctx.Session.Repeat)
	},
}

// skipCmd represents the skip command.
var skipCmd = &cobra.Command{
	Use:   "skip",
	Short: "Skip the current card and draw another",
	Long: `Log the card on the table as skipped and draw a replacement.
The reminder countdown restarts.

Examples:
  deskercise skip`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCardAction("skip", ctx.Session.Skip)
	},
}

// nextCmd represents the next command.
var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Log the current card as done and draw another",
	Long: `Log the card on the table as completed and draw the next one.
The reminder countdown restarts.

Examples:
  deskercise next`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCardAction("next", ctx.Session.DrawNew)
	},
}

func init() {
	rootCmd.AddCommand(drawCmd)
	rootCmd.AddCommand(repeatCmd)
	rootCmd.AddCommand(skipCmd)
	rootCmd.AddCommand(nextCmd)
}

// runDraw handles the draw command.
func runDraw(cmd *cobra.Command, args []string) error {
	ex, err := ctx.Session.Draw()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintCard(&ex)
	}
	ctx.CLIFormatter().PrintCard(ex)
	return nil
}

// runCardAction runs a logging card action and prints the outcome.
func runCardAction(status string, action func() (session.ActionResult, error)) error {
	res, err := action()
	if err != nil {
		// The event may be logged even when the follow-up draw fails.
		if res.Event != nil && out.Format != output.FormatJSON {
			printLogged(output.NewCLIFormatter(out), res.Event)
		}
		return err
	}

	summary, err := ctx.Session.Stats()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(output.ActionResponse{
			Status: status,
			Event:  output.NewEventOutput(res.Event),
			Card:   res.Card,
			Stats:  &summary,
		})
	}

	cli := ctx.CLIFormatter()
	printLogged(cli, res.Event)
	cli.PrintStats(summary)

	if res.Card != nil && status != "repeat" {
		cli.Println()
		cli.PrintCard(*res.Card)
	}
	return nil
}

func printLogged(cli *output.CLIFormatter, ev *model.ExerciseEvent) {
	if ev.IsCompleted() {
		cli.Success("Logged " + ev.ExerciseName)
	} else {
		cli.Muted("Skipped " + ev.ExerciseName)
	}
}
