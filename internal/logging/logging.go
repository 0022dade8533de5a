// Package logging configures the process-wide logrus logger: console output
// always, an optional per-run log file, and an emit predicate so only one
// rank of a distributed run speaks.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Config controls Setup. Level accepts the logrus level names; empty means
// info. The file sink is active only when both Tag and Directory are set.
// A nil Emit always emits.
type Config struct {
	Level     string
	Tag       string
	Directory string
	Emit      func() bool
}

// Setup builds a configured logger. When the emit predicate returns false
// the logger swallows everything, file sink included.
func Setup(cfg Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	level := logrus.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to parse log level: %w", err)
		}
	}
	logger.SetLevel(level)

	if cfg.Emit != nil && !cfg.Emit() {
		logger.SetOutput(io.Discard)
		return logger, nil
	}

	out := io.Writer(os.Stdout)
	if cfg.Directory != "" && cfg.Tag != "" {
		if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		path := filepath.Join(cfg.Directory, cfg.Tag+".log")
		//nolint:gosec // G304: path is derived from the run configuration
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		// The file stays open for the lifetime of the run.
		out = io.MultiWriter(os.Stdout, file)
	}
	logger.SetOutput(out)

	return logger, nil
}

// Tag names a run from the experiment name and seed, e.g. "mace_run-3".
func Tag(name string, seed int) string {
	return fmt.Sprintf("%s_run-%d", name, seed)
}

// RankEmitter returns an emit predicate that is true only on rank zero.
func RankEmitter(rank int) func() bool {
	return func() bool {
		return rank == 0
	}
}
