package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"corpstats/internal/corpstats/lock"
	corpmetrics "corpstats/internal/corpstats/metrics"
	"corpstats/internal/corpstats/ports"
	"corpstats/internal/corpstats/service"
	"corpstats/internal/corpstats/store/snapshot"
	"corpstats/internal/esi"
	"corpstats/internal/identity"
	"corpstats/internal/notify"
	"corpstats/internal/platform/config"
	"corpstats/internal/platform/kafka"
	"corpstats/internal/platform/logger"
	"corpstats/internal/platform/postgres"
	"corpstats/internal/platform/redis"
)

// directory is the identity directory together with the token source the ESI
// client draws credentials from.
type directory interface {
	ports.IdentityDirectory
	esi.TokenSource
}

// app holds the wired dependencies shared by the subcommands.
type app struct {
	cfg       *config.Server
	logger    *slog.Logger
	db        *sql.DB
	redis     *redis.Client
	kafka     *kgo.Client
	directory directory
	service   *service.Service
}

// newApp wires storage, upstream clients and the corp stats service. Without
// DATABASE_URL everything runs in memory; without REDIS_URL names are not
// cached and sync locks are process local; without KAFKA_BROKERS
// notifications go to the log.
func newApp(ctx context.Context, cfg *config.Server) (_ *app, err error) {
	a := &app{cfg: cfg, logger: logger.New(cfg.LogLevel)}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	var store ports.SnapshotStore
	if cfg.Database.URL != "" {
		if a.db, err = postgres.Open(ctx, cfg.Database); err != nil {
			return nil, err
		}
		store = snapshot.NewPostgres(a.db)
		a.directory = identity.NewPostgres(a.db)
	} else {
		a.logger.Warn("DATABASE_URL not set, using in-memory storage")
		store = snapshot.NewInMemory()
		a.directory = identity.NewInMemory()
	}

	esiClient := esi.New(cfg.ESI, a.directory, esi.WithLogger(a.logger))
	var names ports.NameResolver = esiClient
	var locker ports.Locker = lock.NewSharded(cfg.Sync.LockTTL)

	if a.redis, err = redis.New(ctx, cfg.Redis); err != nil {
		return nil, err
	}
	if a.redis != nil {
		names = esi.NewCachedNames(esiClient, a.redis.Client, cfg.ESI.NameCacheTTL, a.logger)
		locker = lock.NewRedisLease(a.redis.Client, cfg.Sync.LockTTL)
	}

	var notifier ports.Notifier = notify.NewLog(a.logger)
	if a.kafka, err = kafka.New(ctx, cfg.Kafka); err != nil {
		return nil, err
	}
	if a.kafka != nil {
		if err := kafka.EnsureTopic(ctx, a.kafka, cfg.Kafka.NotifyTopic, 1); err != nil {
			a.logger.Warn("notification topic bootstrap failed", "topic", cfg.Kafka.NotifyTopic, "error", err)
		}
		notifier = notify.NewKafka(a.kafka, cfg.Kafka.NotifyTopic, a.logger)
	}

	a.service = service.New(store,
		service.Upstream{Roster: esiClient, Names: names, Corporations: esiClient},
		a.directory,
		notifier,
		service.WithLogger(a.logger),
		service.WithMetrics(corpmetrics.New()),
		service.WithLocker(locker),
		service.WithSyncConcurrency(cfg.Sync.Concurrency),
	)
	return a, nil
}

// health reports the first unhealthy backing service.
func (a *app) health(ctx context.Context) error {
	if a.db != nil {
		if err := a.db.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Health(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (a *app) Close() error {
	var errs []error
	if a.kafka != nil {
		a.kafka.Close()
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
