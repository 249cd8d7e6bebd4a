package daemon

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/deskercise/deskercise/internal/config"
	"github.com/deskercise/deskercise/internal/logging"
)

// LogFileName is the daemon log file name.
const LogFileName = "daemon.log"

// LogPath returns the daemon log path inside dir.
func LogPath(dir string) string {
	return filepath.Join(dir, LogFileName)
}

// OpenLog returns a logger writing to a size-rotated file in dir. The
// returned closer releases the file.
func OpenLog(dir string, debug bool) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}

	cfg := config.Global.Daemon
	w := logging.NewRotatingWriter(logging.RotateConfig{
		Path:       LogPath(dir),
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := logging.New(logging.Config{Level: level, Output: w})
	return logger.With(logging.KeyComponent, "daemon"), w, nil
}

// TailLog returns up to n trailing lines of the daemon log in dir.
func TailLog(dir string, n int) ([]string, error) {
	f, err := os.Open(LogPath(dir))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	return lines, scanner.Err()
}
