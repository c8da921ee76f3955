// Package app wires configuration, stores and optional backends into a
// core.Service shared by the server and the CLI.
package app

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/pricebook/internal/config"
	"github.com/JonMunkholm/pricebook/internal/core"
	"github.com/JonMunkholm/pricebook/internal/infrastructure/kafka"
	"github.com/JonMunkholm/pricebook/internal/store/minio"
	"github.com/JonMunkholm/pricebook/internal/store/postgres"
	"github.com/JonMunkholm/pricebook/internal/store/redis"
)

const backendTimeout = 10 * time.Second

// App holds the connected stores and the service built on them.
type App struct {
	Pool    *pgxpool.Pool
	Service *core.Service

	closers []func()
}

// New connects to the database, applies migrations when configured and
// attaches whichever optional backends are configured. An optional backend
// that cannot be reached is logged and left out.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.Database.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.Database.URL); err != nil {
			return nil, err
		}
		slog.Info("database migrations applied")
	}

	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	slog.Info("connected to database", "name", databaseName(cfg.Database.URL))

	a := &App{Pool: pool}
	a.closers = append(a.closers, pool.Close)

	opts := []core.Option{
		core.WithCurrencies(postgres.NewCurrencyRepo(pool), cfg.Currency.Base),
		core.WithAudit(postgres.NewAuditRepo(pool)),
		core.WithLimiter(core.NewImportLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime)),
		core.WithImportTimeout(cfg.Import.Timeout),
	}
	opts = append(opts, a.optionalBackends(ctx, cfg)...)

	a.Service = core.NewService(postgres.NewCatalogRepo(pool), opts...)
	return a, nil
}

func (a *App) optionalBackends(ctx context.Context, cfg *config.Config) []core.Option {
	var opts []core.Option

	if cfg.Redis.Enabled() {
		redisCtx, cancel := context.WithTimeout(ctx, backendTimeout)
		client, err := redis.NewClient(redisCtx, cfg.Redis)
		cancel()
		if err != nil {
			slog.Warn("catalog cache disabled", "error", err)
		} else {
			a.closers = append(a.closers, func() { client.Close() })
			opts = append(opts, core.WithCache(redis.NewCatalogCache(client, cfg.Redis.TTL)))
			slog.Info("catalog cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
		}
	}

	if cfg.MinIO.Enabled() {
		client, err := minio.NewClient(cfg.MinIO)
		if err == nil {
			minioCtx, cancel := context.WithTimeout(ctx, backendTimeout)
			err = minio.EnsureBucket(minioCtx, client, cfg.MinIO.Bucket)
			cancel()
		}
		if err != nil {
			slog.Warn("file archive disabled", "error", err)
		} else {
			opts = append(opts, core.WithArchive(minio.NewArchive(client, cfg.MinIO.Bucket)))
			slog.Info("file archive enabled", "endpoint", cfg.MinIO.Endpoint, "bucket", cfg.MinIO.Bucket)
		}
	}

	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka)
		a.closers = append(a.closers, func() {
			if err := producer.Close(); err != nil {
				slog.Warn("kafka producer close failed", "error", err)
			}
		})
		opts = append(opts, core.WithEvents(producer))
		slog.Info("price events enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	return opts
}

// Close releases backends in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// databaseName extracts the database name for logging without credentials.
func databaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
