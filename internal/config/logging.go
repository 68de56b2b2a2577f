package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// NewLogger builds the process logger.
// dev writes colourised text to out; every other environment (or any run
// with a log file) writes JSON.
func NewLogger(cfg *Config, out, logFile *os.File) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Environment == "dev" || cfg.Debug {
		level = slog.LevelDebug
	}

	if logFile != nil {
		return slog.New(slog.NewJSONHandler(io.MultiWriter(out, logFile), &slog.HandlerOptions{
			Level: level,
		}))
	}

	if cfg.Environment == "dev" {
		return slog.New(tint.NewHandler(colorable.NewColorable(out), &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
			NoColor:    !isatty.IsTerminal(out.Fd()),
		}))
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

const logFilePattern = "folio-*.log"

// SetupLogFile opens a fresh timestamped log file in dir and prunes the
// directory down to the maxFiles newest. The caller closes the file.
func SetupLogFile(dir string, maxFiles int) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	name := "folio-" + time.Now().Format("2006-01-02T15-04-05") + ".log"
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	if err := pruneLogs(dir, maxFiles); err != nil {
		// the new file is usable either way
		fmt.Fprintf(os.Stderr, "warning: prune old logs: %v\n", err)
	}
	return f, nil
}

// pruneLogs relies on the timestamp in the name sorting chronologically
func pruneLogs(dir string, keep int) error {
	if keep < 1 {
		return nil
	}
	files, err := filepath.Glob(filepath.Join(dir, logFilePattern))
	if err != nil {
		return err
	}
	sort.Strings(files)

	var errs []error
	for len(files) > keep {
		if err := os.Remove(files[0]); err != nil {
			errs = append(errs, err)
		}
		files = files[1:]
	}
	return errors.Join(errs...)
}
