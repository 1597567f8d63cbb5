package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/primecycle/statsnap/internal/api"
	"github.com/primecycle/statsnap/internal/config"
	"github.com/primecycle/statsnap/internal/storage"
	"github.com/primecycle/statsnap/internal/telegram"
	"github.com/primecycle/statsnap/internal/watcher"
)

// --- run ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot()
	},
}

func runBot() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	setupLogging(cfg.Log.Level)

	if cfg.Telegram.Token == "" {
		return errors.New("missing Telegram bot token: set STATSNAP_TELEGRAM_TOKEN or telegram.token in the config file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("closing storage", "error", err)
		}
	}()

	bot, err := telegram.New(cfg.Telegram.Token, store, cfg.Telegram.PollTimeout)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewHandler(store, version),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bot.Start(ctx)
	})

	g.Go(func() error {
		slog.Info("health endpoint listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("shut down")
	return nil
}

func setupLogging(level string) {
	logLevel := slog.LevelInfo
	switch {
	case strings.EqualFold(level, "debug"):
		logLevel = slog.LevelDebug
	case strings.EqualFold(level, "warn"):
		logLevel = slog.LevelWarn
	case strings.EqualFold(level, "error"):
		logLevel = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

// --- watch ---

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Supervise the bot: relaunch it after every exit",
	Long: `Supervise the bot process. On any exit the outcome is logged to a
size-bounded rotating file and the bot is relaunched after a fixed
delay. There is no backoff and no retry limit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch()
	},
}

func runWatch() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	delay, err := time.ParseDuration(cfg.Watch.RestartDelay)
	if err != nil {
		return fmt.Errorf("invalid watch restart_delay %q: %w", cfg.Watch.RestartDelay, err)
	}

	logger, closer := watcher.NewRotatingLogger(
		cfg.Watch.LogFile, cfg.Watch.LogMaxSizeMB, cfg.Watch.LogMaxBackups)
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := watcher.New(watcher.Options{
		Command:      cfg.Watch.Command,
		Args:         cfg.Watch.Args,
		RestartDelay: delay,
		Logger:       logger,
	})

	printStep("watching %s %s (restart delay %s)", cfg.Watch.Command, strings.Join(cfg.Watch.Args, " "), delay)
	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("watcher interrupted")
		return nil
	}
	return err
}

// --- status ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether a running bot is healthy",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		client := &http.Client{Timeout: 2 * time.Second}
		resp, err := client.Get(fmt.Sprintf("http://%s/health", cfg.Server.Addr))
		if err != nil {
			printError("bot is not reachable on %s", cfg.Server.Addr)
			return err
		}
		defer resp.Body.Close()

		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("decoding health response: %w", err)
		}

		if resp.StatusCode == http.StatusOK && body["status"] == "ok" {
			printSuccess("bot is running")
			return nil
		}
		printError("bot is unhealthy: %s", body["error"])
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	},
}

// --- migrations ---

var migrationsCmd = &cobra.Command{
	Use:   "migrations",
	Short: "Show applied schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer store.Close()

		versions, err := store.AppliedMigrations()
		if err != nil {
			return err
		}

		for _, v := range versions {
			printStatus("applied", "%04d", v)
		}
		return nil
	},
}
