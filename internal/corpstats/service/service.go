// Package service reconciles stored corporation rosters against the upstream
// member-tracking list and answers permission-scoped reads over the result.
package service

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"corpstats/internal/corpstats/lock"
	"corpstats/internal/corpstats/metrics"
	"corpstats/internal/corpstats/ports"
)

const (
	defaultSyncConcurrency = 4
	defaultTypeConcurrency = 8
	// characterNameChunk is the upstream limit on ids per name lookup.
	characterNameChunk = 1000
)

// Service owns the snapshot lifecycle: add, reconcile, and visibility-filtered reads.
type Service struct {
	store       ports.SnapshotStore
	roster      ports.RosterSource
	names       ports.NameResolver
	corps       ports.CorporationSource
	identity    ports.IdentityDirectory
	notifier    ports.Notifier
	locker      ports.Locker
	metrics     *metrics.Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocker replaces the in-process sharded lock, e.g. with a Redis lease
// when several instances share one database.
func WithLocker(l ports.Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

// WithSyncConcurrency bounds how many snapshots SyncAll reconciles at once.
func WithSyncConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithTracer overrides the OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// Upstream bundles the ESI-facing collaborators; one client usually implements all three.
type Upstream struct {
	Roster       ports.RosterSource
	Names        ports.NameResolver
	Corporations ports.CorporationSource
}

// New constructs the service.
func New(store ports.SnapshotStore, upstream Upstream, identity ports.IdentityDirectory, notifier ports.Notifier, opts ...Option) *Service {
	s := &Service{
		store:       store,
		roster:      upstream.Roster,
		names:       upstream.Names,
		corps:       upstream.Corporations,
		identity:    identity,
		notifier:    notifier,
		concurrency: defaultSyncConcurrency,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.locker == nil {
		s.locker = lock.NewSharded(0)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("corpstats/service")
	}
	return s
}
