// Package watcher keeps the bot process alive: it runs the configured
// command in a loop and relaunches it after a fixed delay whenever it
// exits, regardless of exit code.
//
// The policy is deliberately unbounded: no backoff growth and no retry
// cap. Liveness wins over sophistication here; a persistent crash loop
// shows up in the rotating log.
package watcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configure a Watcher.
type Options struct {
	// Command and Args name the child process.
	Command string
	Args    []string

	// RestartDelay is the fixed pause between relaunches.
	RestartDelay time.Duration

	// Logger receives one entry per child exit. Defaults to slog.Default().
	Logger *slog.Logger

	// Stdout and Stderr are inherited by the child. Default to the
	// watcher's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

type Watcher struct {
	command string
	args    []string
	delay   time.Duration
	logger  *slog.Logger
	stdout  io.Writer
	stderr  io.Writer
}

func New(opts Options) *Watcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	delay := opts.RestartDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Watcher{
		command: opts.Command,
		args:    opts.Args,
		delay:   delay,
		logger:  logger,
		stdout:  stdout,
		stderr:  stderr,
	}
}

// Run launches the child and relaunches it on every exit until ctx is
// cancelled. It returns ctx.Err() once the loop stops.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		w.runOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.delay):
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	cmd := exec.CommandContext(ctx, w.command, w.args...)
	cmd.Stdout = w.stdout
	cmd.Stderr = w.stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		// Shutdown, not a crash.
		return
	}

	switch {
	case err == nil:
		w.logger.Warn("child exited cleanly, relaunching",
			"command", w.command, "code", 0)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			w.logger.Error("child exited, relaunching",
				"command", w.command, "code", exitErr.ExitCode())
		} else {
			w.logger.Error("child failed to start, relaunching",
				"command", w.command, "error", err)
		}
	}
}

// NewRotatingLogger builds a text slog.Logger writing to a size-bounded
// rotating file, capping disk usage at roughly maxSizeMB*(maxBackups+1).
func NewRotatingLogger(path string, maxSizeMB, maxBackups int) (*slog.Logger, io.Closer) {
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}
	return slog.New(slog.NewTextHandler(sink, nil)), sink
}
