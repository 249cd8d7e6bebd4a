package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/deskercise/deskercise/internal/daemon"
	"github.com/deskercise/deskercise/internal/output"
)

// Daemon command flags.
var (
	daemonStartFlagForeground bool
	daemonLogsFlagTail        int
	daemonLogsFlagFollow      bool
)

// daemonFollowInterval is how often logs --follow polls for new lines.
const daemonFollowInterval = 500 * time.Millisecond

// daemonCmd represents the daemon command.
var daemonCmd = &cobra.Command{
	Use:     "daemon [command]",
	Aliases: []string{"d", "bg"},
	Short:   "Manage the background daemon",
	Long: `Manage the Deskercise background daemon. It keeps the reminder
countdown running when no dashboard is open, posts reminders to the
configured webhook, and nudges you in the evening when your streak is at
risk.

Examples:
  deskercise daemon start
  deskercise daemon status
  deskercise daemon stop
  deskercise daemon logs --tail 20`,
	Annotations: map[string]string{annotationNoStore: "true"},
	Args:        cobra.NoArgs,
	RunE:        runDaemonStatus,
}

// daemonStartCmd starts the daemon.
var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the background daemon",
	Long: `Start the Deskercise background daemon.

Examples:
  deskercise daemon start                # Start in background
  deskercise daemon start --foreground   # Start in foreground (for debugging)`,
	Args: cobra.NoArgs,
	RunE: runDaemonStart,
}

// daemonStopCmd stops the daemon.
var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background daemon",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStop,
}

// daemonStatusCmd shows daemon status.
var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStatus,
}

// daemonLogsCmd shows daemon logs.
var daemonLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View daemon logs",
	Long: `View the daemon log file.

Examples:
  deskercise daemon logs
  deskercise daemon logs --tail 50
  deskercise daemon logs --follow`,
	Args: cobra.NoArgs,
	RunE: runDaemonLogs,
}

func init() {
	daemonStartCmd.Flags().BoolVar(&daemonStartFlagForeground, "foreground", false,
		"Run in foreground (don't daemonize)")

	daemonLogsCmd.Flags().IntVarP(&daemonLogsFlagTail, "tail", "n", 20,
		"Number of lines to show")
	daemonLogsCmd.Flags().BoolVar(&daemonLogsFlagFollow, "follow", false,
		"Follow log output (like tail -f)")

	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonLogsCmd)

	rootCmd.AddCommand(daemonCmd)
}

// runDaemonStart handles the daemon start command. The daemon opens the
// database per operation, so neither mode holds its lock here.
func runDaemonStart(cmd *cobra.Command, args []string) error {
	if !daemonStartFlagForeground {
		d := daemon.New(daemon.Options{Debug: flagDebug})
		warnUnreachable(d)
		pid, err := d.StartBackground()
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			return fmt.Errorf("daemon is already running (PID: %d)", pid)
		}
		if err != nil {
			return err
		}

		if out.Format == output.FormatJSON {
			return out.PrintJSON(map[string]any{"status": "started", "pid": pid})
		}
		out.Printf("Daemon started (PID: %d)\n", pid)
		return nil
	}

	opts := daemon.Options{Debug: flagDebug}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		opts.Out = os.Stdout
		opts.Interactive = true
		out.Println("Starting deskercise daemon (foreground mode)...")
	}
	d := daemon.New(opts)
	warnUnreachable(d)
	return d.Run(context.Background())
}

// warnUnreachable tells the user on stderr when reminders would fire
// without any surface to show them.
func warnUnreachable(d *daemon.Daemon) {
	silent, err := d.Unreachable()
	if err != nil || !silent {
		return
	}
	fmt.Fprintln(stderr, "Warning: no webhook is configured and the daemon has no terminal, so reminders will not be shown.")
	fmt.Fprintln(stderr, "  Set one with 'deskercise settings set webhook-url URL'.")
}

// runDaemonStop handles the daemon stop command.
func runDaemonStop(cmd *cobra.Command, args []string) error {
	d := daemon.New(daemon.Options{})
	status := d.GetStatus()

	if err := d.Stop(); err != nil {
		if errors.Is(err, daemon.ErrNotRunning) {
			if out.Format == output.FormatJSON {
				return out.PrintJSON(map[string]any{"status": "not_running"})
			}
			out.Println("Daemon is not running")
			return nil
		}
		return err
	}

	if out.Format == output.FormatJSON {
		return out.PrintJSON(map[string]any{"status": "stopped", "pid": status.PID})
	}
	out.Printf("Daemon stopped (was PID: %d)\n", status.PID)
	return nil
}

// runDaemonStatus handles the daemon status command.
func runDaemonStatus(cmd *cobra.Command, args []string) error {
	status := daemon.New(daemon.Options{}).GetStatus()

	if out.Format == output.FormatJSON {
		return out.PrintJSON(status)
	}

	cli := output.NewCLIFormatter(out)
	cli.Title("Deskercise Daemon Status")

	if !status.Running {
		cli.Printf("  Status:    %s\n", "stopped")
		cli.Println()
		cli.Muted("Start with: deskercise daemon start")
		return nil
	}

	cli.Printf("  Status:    %s\n", "running")
	cli.Printf("  PID:       %d\n", status.PID)
	if status.Uptime != "" {
		cli.Printf("  Uptime:    %s\n", status.Uptime)
	}
	if r := status.Reminder; r != nil {
		if r.Active {
			cli.Printf("  Reminder:  %s (every %d min)\n", output.FormatTimeOnly(r.NextFire), r.IntervalMinutes)
		} else {
			cli.Printf("  Reminder:  %s\n", "off")
		}
	}
	if m := status.Metrics; m != nil {
		cli.Printf("  Fired:     %d\n", m.RemindersFiredTotal)
		cli.Printf("  Sent:      %d (%d failed)\n", m.NotificationsSentTotal, m.NotificationsFailedTotal)
	}
	if h := status.Health; h != nil {
		cli.Printf("  Health:    %s\n", h.Status)
	}
	cli.Printf("  Log:       %s\n", status.LogPath)
	return nil
}

// runDaemonLogs handles the daemon logs command.
func runDaemonLogs(cmd *cobra.Command, args []string) error {
	dir := daemon.StateDir()
	logPath := daemon.LogPath(dir)

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		out.Println("No log file found.")
		out.Printf("Log path: %s\n", logPath)
		return nil
	}

	lines, err := daemon.TailLog(dir, daemonLogsFlagTail)
	if err != nil {
		return err
	}
	for _, line := range lines {
		out.Println(line)
	}

	if !daemonLogsFlagFollow {
		return nil
	}
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return followLog(c, logPath, out.Writer)
}

// followLog copies lines appended to path to w until ctx is done.
func followLog(ctx context.Context, path string, w io.Writer) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return err
	}

	reader := bufio.NewReader(file)
	ticker := time.NewTicker(daemonFollowInterval)
	defer ticker.Stop()

	for {
		for {
			line, err := reader.ReadString('\n')
			if len(line) > 0 {
				io.WriteString(w, line)
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
