// Package app turns a loaded configuration into a ready core.Service. Both
// commands build their service here so they run the same pipeline.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/museumcounts/internal/config"
	"github.com/JonMunkholm/museumcounts/internal/core"
	"github.com/JonMunkholm/museumcounts/internal/store"
)

// Columns converts the configured column names.
func Columns(cfg *config.Config) core.Columns {
	c := cfg.Columns
	return core.Columns{
		Master: core.MasterColumns{
			Country:        c.MasterCountry,
			StartYear:      c.MasterStartYear,
			EndYear:        c.MasterEndYear,
			Classification: c.MasterClassification,
			Medium:         c.MasterMedium,
		},
		Lookup: core.LookupColumns{
			Country: c.LookupCountry,
			Region:  c.LookupRegion,
		},
	}
}

// Pipeline builds the pipeline described by cfg.
func Pipeline(cfg *config.Config) *core.Pipeline {
	p := core.NewPipeline(Columns(cfg))
	p.Bounds = core.DecadeBounds{Min: cfg.Decade.Min, Max: cfg.Decade.Max}
	return p
}

// NewService builds the service and opens the optional run history and
// publisher. The returned close function releases them and is never nil.
func NewService(ctx context.Context, cfg *config.Config) (*core.Service, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	opts := []core.Option{
		core.WithLoadOptions(core.LoadOptions{Delimiter: cfg.Output.Rune()}),
		core.WithOutputName(cfg.Output.DefaultName),
	}

	if cfg.History.Path != "" {
		h, err := store.OpenHistory(ctx, cfg.History.Path)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, func() {
			if err := h.Close(); err != nil {
				slog.Warn("failed to close run history", "error", err)
			}
		})
		opts = append(opts, core.WithHistory(h))
		slog.Info("run history enabled", "path", cfg.History.Path)
	}

	if cfg.Database.URL != "" {
		p, err := store.OpenPublisher(ctx, store.PublishOptions{
			URL:            cfg.Database.URL,
			MaxConns:       cfg.Database.MaxConns,
			Table:          cfg.Database.Table,
			ConnectTimeout: cfg.Database.ConnectTimeout,
		})
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("publisher: %w", err)
		}
		closers = append(closers, p.Close)
		opts = append(opts, core.WithPublisher(p))
	}

	return core.NewService(Pipeline(cfg), opts...), closeAll, nil
}
