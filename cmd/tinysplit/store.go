package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/tinysplit/internal/config"
	"github.com/aretw0/tinysplit/pkg/adapters/file"
	"github.com/aretw0/tinysplit/pkg/adapters/memory"
	"github.com/aretw0/tinysplit/pkg/adapters/redis"
	"github.com/aretw0/tinysplit/pkg/persistence/middleware"
	"github.com/aretw0/tinysplit/pkg/ports"
	"github.com/aretw0/tinysplit/pkg/session"
	"github.com/spf13/cobra"
)

// backend is an opened snapshot store and the manager options it implies.
type backend struct {
	store   ports.SnapshotStore
	options []session.Option
	close   func() error
}

// openStore builds the store selected by store.driver, wrapped in the
// redaction and encryption middlewares when they are configured.
func openStore(ctx context.Context, cmd *cobra.Command) (*backend, error) {
	b, err := openDriver(ctx, cmd)
	if err != nil {
		return nil, err
	}

	var mws []middleware.Middleware
	if len(cfg.Store.Redact) > 0 {
		redact, err := middleware.NewRedactMiddleware(cfg.Store.Redact)
		if err != nil {
			_ = b.close()
			return nil, err
		}
		mws = append(mws, redact)
	}
	active, fallback, err := cfg.Store.Encryption.Keys()
	if err != nil {
		_ = b.close()
		return nil, err
	}
	if active != nil {
		seal, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})
		if err != nil {
			_ = b.close()
			return nil, err
		}
		mws = append(mws, seal)
	}

	b.store = middleware.Chain(b.store, mws...)
	return b, nil
}

func openDriver(ctx context.Context, cmd *cobra.Command) (*backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		return &backend{store: memory.NewStore(), close: func() error { return nil }}, nil

	case config.DriverRedis:
		rc := cfg.Store.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB,
			redis.WithPrefix(rc.Prefix),
			redis.WithTTL(rc.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", rc.Addr, err)
		}
		logger.Debug("Using redis store", "addr", rc.Addr, "prefix", rc.Prefix)
		return &backend{
			store:   store,
			options: []session.Option{session.WithLocker(redis.NewLocker(store.Client(), rc.Prefix))},
			close:   store.Close,
		}, nil

	default:
		path := cfg.Store.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(projectDir(cmd), path)
		}
		logger.Debug("Using file store", "path", path)
		return &backend{store: file.New(path), close: func() error { return nil }}, nil
	}
}

// newManager wraps the backend in a session manager.
func (b *backend) newManager(opts ...session.Option) *session.Manager {
	all := append([]session.Option{session.WithLogger(logger)}, b.options...)
	return session.NewManager(b.store, append(all, opts...)...)
}
