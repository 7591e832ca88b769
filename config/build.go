package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/govm-net/riffs/contracts"
	"github.com/govm-net/riffs/repository"
	"github.com/govm-net/riffs/sandbox"
	"github.com/govm-net/riffs/store"
	_ "github.com/govm-net/riffs/store/badgerdb"
	_ "github.com/govm-net/riffs/store/memory"
	_ "github.com/govm-net/riffs/store/sqldb"
)

// NewLogger builds a logger writing to w with the configured level and
// format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// OpenStore opens the configured backend.
func (c *Config) OpenStore() (store.Store, error) {
	params := map[string]any{"in_memory": c.StoreInMemory}
	if c.StorePath != "" {
		params["path"] = c.StorePath
	}
	s, err := store.Open(c.Backend, params)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", c.Backend, err)
	}
	return s, nil
}

// Options opens the store and assembles the sandbox options with the shipped
// contracts registered.
func (c *Config) Options(logger *slog.Logger) (sandbox.Options, error) {
	s, err := c.OpenStore()
	if err != nil {
		return sandbox.Options{}, err
	}
	opts := sandbox.Options{
		Store:           s,
		Catalog:         contracts.Catalog(),
		Limits:          c.Limits,
		StorageByteCost: c.StorageByteCost,
		DefaultGas:      c.DefaultGas,
		ValidateImages:  c.ValidateImages,
		Logger:          logger,
	}
	if c.CodeDir != "" {
		m, err := repository.NewManager(c.CodeDir)
		if err != nil {
			s.Close()
			return sandbox.Options{}, fmt.Errorf("code_dir: %w", err)
		}
		opts.Codes = m
	}
	return opts, nil
}

// NewChain opens a chain as configured.
func (c *Config) NewChain(ctx context.Context, logger *slog.Logger) (*sandbox.Chain, error) {
	opts, err := c.Options(logger)
	if err != nil {
		return nil, err
	}
	return sandbox.New(ctx, opts), nil
}

// Genesis creates the configured accounts and installs their contracts.
// Accounts that already exist are left alone, so it can run on every start.
func (c *Config) Genesis(ctx context.Context, chain *sandbox.Chain) (created int, err error) {
	for _, a := range c.Accounts {
		err := chain.CreateAccount(a.ID, a.Balance, a.PublicKey)
		if errors.Is(err, sandbox.ErrAccountExists) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("account %s: %w", a.ID, err)
		}
		created++
		if a.Contract == "" {
			continue
		}
		code, err := contracts.Image(a.Contract, "")
		if err != nil {
			return created, fmt.Errorf("account %s: %w", a.ID, err)
		}
		if err := chain.Deploy(ctx, a.ID, code); err != nil {
			return created, fmt.Errorf("account %s: %w", a.ID, err)
		}
	}
	return created, nil
}
