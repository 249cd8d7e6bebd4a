// Package cmd provides the CLI commands for Deskercise.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/deskercise/deskercise/internal/catalog"
	errs "github.com/deskercise/deskercise/internal/errors"
	"github.com/deskercise/deskercise/internal/logging"
	"github.com/deskercise/deskercise/internal/output"
	"github.com/deskercise/deskercise/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// annotationNoStore marks commands that must not open the database, either
// because they never need it or because another process may hold its lock.
const annotationNoStore = "deskercise/no-store"

// ctx is the shared runtime context. It is nil for no-store commands.
var ctx *runtime.Context

// out is the formatter for the current invocation. It is set for every
// command, including those that run without a runtime context.
var out *output.Formatter

// Output streams, swapped by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "deskercise",
	Short: "Desk exercise reminders from the terminal",
	Long: `Deskercise reminds you to get up and move. It deals short desk
exercises from a deck, counts you through them and keeps your streak.

Examples:
  deskercise draw
  deskercise do
  deskercise remind start
  deskercise daemon start
  deskercise history --since "last week"`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		out = newFormatter()
		if flagDebug {
			logging.InitDebug()
		}

		// Skip initialization for help and no-store commands (but allow __complete for dynamic completions)
		if cmd.Name() == "help" || isNoStore(cmd) {
			return nil
		}

		opts := runtime.DefaultOptions()
		opts.Format = out.Format
		opts.ColorMode = out.ColorMode
		opts.Debug = flagDebug

		var err error
		ctx, err = runtime.New(opts)
		if err != nil {
			return err
		}
		ctx.Formatter.Writer = out.Writer
		out = ctx.Formatter
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeContext()
	},
	RunE: runStatus,
}

// runStatus shows the card on the table, the reminder cycle and the totals.
func runStatus(cmd *cobra.Command, args []string) error {
	var card *catalog.Exercise
	ex, err := ctx.Session.Current()
	switch {
	case err == nil:
		card = &ex
	case !errors.Is(err, errs.ErrNoCurrentCard):
		return err
	}

	st, err := ctx.ReminderState()
	if err != nil {
		return err
	}
	remaining := st.NextFire.Sub(ctx.Clock.Now())
	if !st.Active || remaining < 0 {
		remaining = 0
	}

	summary, err := ctx.Session.Stats()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		status := "empty"
		if card != nil {
			status = "card"
		}
		return ctx.Formatter.PrintJSON(output.StatusResponse{
			Status:   status,
			Card:     card,
			Reminder: output.NewReminderResponse("ok", st, remaining),
			Stats:    summary,
		})
	}

	cli := ctx.CLIFormatter()
	if card != nil {
		cli.PrintCard(*card)
	} else {
		cli.PrintNoCard()
	}
	cli.Println()
	cli.PrintReminder(st, remaining)
	cli.Println()
	cli.PrintStats(summary)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	out = nil
	err := rootCmd.Execute()
	// Post-run hooks are skipped when a command fails.
	closeContext()
	if err != nil {
		reportError(err)
	}
	return err
}

func closeContext() error {
	if ctx == nil {
		return nil
	}
	err := ctx.Close()
	ctx = nil
	return err
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"cli", "json", "plain"}, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.RegisterFlagCompletionFunc("color", cobra.FixedCompletions(
		[]string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{annotationNoStore: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("deskercise %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// newFormatter builds a formatter from the global flags.
func newFormatter() *output.Formatter {
	f := output.NewFormatter()
	f.Writer = stdout

	switch flagFormat {
	case "json":
		f.Format = output.FormatJSON
	case "plain":
		f.Format = output.FormatPlain
	default:
		f.Format = output.FormatCLI
	}

	switch flagColor {
	case "always":
		f.ColorMode = output.ColorAlways
	case "never":
		f.ColorMode = output.ColorNever
	default:
		f.ColorMode = output.ColorAuto
	}
	return f
}

func isNoStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoStore] == "true" {
			return true
		}
	}
	return false
}

// reportError prints err with its suggestion, as JSON when requested.
func reportError(err error) {
	f := out
	if f == nil {
		f = newFormatter()
	}

	if f.Format == output.FormatJSON {
		_ = output.NewJSONFormatter(f).PrintError("error", err.Error(), errs.GetSuggestion(err))
		return
	}
	fmt.Fprintln(stderr, "Error: "+errs.FormatError(err))
}
