package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluentz/internal/config"
	"github.com/abhisek/fluentz/internal/store"
	"github.com/abhisek/fluentz/internal/tracker"
)

// env is everything a command needs for one learner.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	tracker *tracker.Tracker
	closers []io.Closer
}

func (e *env) Close() error {
	var errs []error
	if e.tracker != nil {
		errs = append(errs, e.tracker.Close())
	}
	for i := len(e.closers) - 1; i >= 0; i-- {
		errs = append(errs, e.closers[i].Close())
	}
	return errors.Join(errs...)
}

// loadConfig resolves .env, FLUENTZ_* variables and persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.User = u
	}
	if b, _ := cmd.Flags().GetString("store"); b != "" {
		cfg.Backend = b
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openKV opens the configured storage backend.
func openKV(ctx context.Context, cmd *cobra.Command, cfg config.Config) (store.KV, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemory(), nil, nil

	case config.BackendRedis:
		r, err := store.OpenRedis(ctx, store.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open redis store: %w", err)
		}
		return r, r, nil

	default:
		dbPath, err := resolveDBPath(cmd, cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return st, st, nil
	}
}

// openEnv loads configuration, opens the store and builds the tracker.
// The caller must Close the returned env.
func openEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	e := &env{cfg: cfg, logger: logger}

	kv, closer, err := openKV(ctx, cmd, cfg)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		e.closers = append(e.closers, closer)
	}

	loc, err := cfg.Location()
	if err != nil {
		e.Close()
		return nil, err
	}

	tr, err := tracker.New(ctx, tracker.Options{
		Docs:         store.NewScope(kv, cfg.User, logger),
		Logger:       logger,
		Location:     loc,
		TickInterval: cfg.TickInterval,
	})
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("load progress: %w", err)
	}
	e.tracker = tr
	return e, nil
}

// warnPersist reports a non-fatal persistence failure and swallows it.
// Other errors are returned unchanged.
func warnPersist(cmd *cobra.Command, err error) error {
	if err != nil && errors.Is(err, store.ErrPersist) {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: change not saved:", err)
		return nil
	}
	return err
}
