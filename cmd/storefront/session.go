package main

import (
	"context"
	"fmt"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// session wires one command's store, engine and catalog.
type session struct {
	store   store.Adapter
	engine  *cart.Engine
	fetcher catalog.Fetcher

	catalog  *catalog.Catalog
	fetchErr error
}

func openSession(ctx context.Context, c *config.Config, opts ...cart.Option) (*session, error) {
	s, err := store.Open(ctx, c.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", c.Storage.Backend, err)
	}

	opts = append([]cart.Option{cart.WithKey(c.Storage.Key)}, opts...)
	return &session{
		store:   s,
		engine:  cart.NewEngine(s, opts...),
		fetcher: catalog.NewHTTPFetcher(c.Catalog.URL, c.GetCatalogTimeout()),
	}, nil
}

// load restores the cart and, when withCatalog is set, fetches the catalog
// concurrently. A fetch failure is kept in fetchErr and never cancels the
// restore.
func (s *session) load(ctx context.Context, withCatalog bool) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.engine.Restore(gctx)
		return nil
	})

	if withCatalog {
		g.Go(func() error {
			c, err := catalog.Load(gctx, s.fetcher)
			if err != nil {
				logger.Warn("catalog fetch failed", zap.Error(err))
				s.fetchErr = err
				return nil
			}
			logger.Debug("catalog fetched", zap.Int("products", c.Len()))
			s.catalog = c
			return nil
		})
	}

	return g.Wait()
}

func (s *session) Close() error {
	return s.store.Close()
}
