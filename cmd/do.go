package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deskercise/deskercise/internal/catalog"
	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/output"
	"github.com/deskercise/deskercise/internal/timer"
)

// Do command flags.
var doFlagNoLog bool

// doCmd represents the do command.
var doCmd = &cobra.Command{
	Use:   "do [exercise-id]",
	Short: "Time an exercise",
	Long: `Count down through an exercise: a three second lead-in, then the
exercise itself. Without an id the card on the table is used. A finished
exercise is logged as completed and restarts the reminder countdown.

Keyboard Controls:
  SPACE  Pause/Resume the timer
  S      Stop and rewind the timer
  Q      Quit without logging
  Ctrl+C Quit (same as Q)

Examples:
  deskercise do
  deskercise do 21
  deskercise do 4 --no-log`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeExerciseIDs,
	RunE:              runDo,
}

func init() {
	doCmd.Flags().BoolVar(&doFlagNoLog, "no-log", false, "Do not log the exercise when it finishes")

	rootCmd.AddCommand(doCmd)
}

// runDo handles the do command.
func runDo(cmd *cobra.Command, args []string) error {
	ex, err := resolveExercise(args)
	if err != nil {
		return err
	}

	display := timer.NewDisplay()
	display.UseColor = ctx.Formatter.IsColorEnabled()
	if ctx.IsJSON() {
		// Keep stdout for the result document.
		display.Writer = os.Stderr
	}

	t := timer.New(ctx.Clock, ex)
	outcome, err := timer.NewRunner(t, display).Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintln(display.Writer)

	if outcome != timer.OutcomeCompleted {
		if ctx.IsJSON() {
			return ctx.Formatter.PrintJSON(output.ActionResponse{Status: "quit", Card: &ex})
		}
		ctx.CLIFormatter().Muted("Stopped before the end, nothing logged.")
		return nil
	}

	resp := output.ActionResponse{Status: "completed", Card: &ex}
	logged := !doFlagNoLog
	if logged {
		ev, err := ctx.Session.Complete(ex)
		if err != nil {
			return err
		}
		summary, err := ctx.Session.Stats()
		if err != nil {
			return err
		}
		resp.Event = output.NewEventOutput(ev)
		resp.Stats = &summary
	}

	if ctx.IsJSON() {
		return ctx.Formatter.PrintJSON(resp)
	}
	ctx.Formatter.Println(display.RenderComplete(ex, logged))
	if resp.Stats != nil {
		ctx.CLIFormatter().PrintStats(*resp.Stats)
	}
	return nil
}

// resolveExercise returns the exercise named by args, or the card on the
// table when args is empty.
func resolveExercise(args []string) (catalog.Exercise, error) {
	if len(args) == 0 {
		return ctx.Session.Current()
	}
	ex, ok := catalog.Lookup(args[0])
	if !ok {
		return catalog.Exercise{}, errs.NewUserErrorWithField("exercise", args[0],
			"unknown exercise id", "").Because(errs.ErrExerciseNotFound)
	}
	return ex, nil
}
