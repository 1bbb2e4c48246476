package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"flowlist/internal/board"
	"flowlist/internal/config"
	"flowlist/internal/logging"
	"flowlist/internal/store"
)

type commandContext struct {
	configFlag    *string
	ephemeralFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, ephemeralFlag *bool) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		ephemeralFlag: ephemeralFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) ephemeral() bool {
	return c.ephemeralFlag != nil && *c.ephemeralFlag
}

// withBoard opens the board for one command and closes it afterwards.
// Mutating commands hold the state lock until fn returns.
func (c *commandContext) withBoard(ctx context.Context, mutate bool, fn func(*board.Board) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	if c.ephemeral() {
		b, err := board.Open(ctx, store.NewMemory(), board.WithLogger(logger))
		if err != nil {
			return err
		}
		return fn(b)
	}

	if mutate {
		lock, err := board.AcquireLock(cfg.LockPath())
		if err != nil {
			return err
		}
		defer lock.Release()
	}

	db, err := store.OpenSQLite(ctx, cfg.StatePath())
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer db.Close()

	b, err := board.Open(ctx, db, board.WithLogger(logger))
	if err != nil {
		return err
	}
	return fn(b)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
