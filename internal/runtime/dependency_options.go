package runtime

import (
	"context"
	"fmt"

	"github.com/nhsdigital/cpm-registry/internal/adapters/repos"
	"github.com/nhsdigital/cpm-registry/internal/config"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
	"github.com/nhsdigital/cpm-registry/internal/infrastructure"
	infraPostgres "github.com/nhsdigital/cpm-registry/internal/infrastructure/postgres"
	"github.com/nhsdigital/cpm-registry/internal/services"
	"github.com/nhsdigital/cpm-registry/internal/usecases"
	"github.com/nhsdigital/cpm-registry/pkg/circuitbreaker"
	"github.com/nhsdigital/cpm-registry/pkg/logger"
	"github.com/nhsdigital/cpm-registry/pkg/metrics"
	"github.com/nhsdigital/cpm-registry/pkg/metrics/noop"
)

const storageBackendMemory = "memory"

func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithConfig(),
		WithLogger(),
		WithTracing(ctx),
		WithMetrics(ctx),
		WithStorage(ctx),
		WithChangeRequestService(),
		WithApplication(),
	}
}

func WithConfig() DependencyOption {
	return func(d *dependencies) error {
		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("initializing configuration: %w", err)
		}

		d.config = cfg

		return nil
	}
}

func WithLogger() DependencyOption {
	return func(d *dependencies) error {
		d.infra.logger = logger.New(d.config.Logging.Level, d.config.Logging.Format)

		return nil
	}
}

func WithTracing(_ context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Traces.Enabled || d.config.Telemetry.OTLPEndpoint == "" {
			d.infra.tracerProvider = infrastructure.NewNoopTracerProvider()

			return nil
		}

		tp, shutdown, err := infrastructure.NewTracerProvider(
			d.config.Telemetry.ServiceName,
			d.config.Telemetry.ServiceVersion,
			d.config.Telemetry.OTLPEndpoint,
		)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}

		d.infra.tracerProvider = tp
		d.cleanupFuncs["tracer"] = shutdown

		return nil
	}
}

func WithMetrics(_ context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Metrics.Enabled || d.config.Telemetry.OTLPEndpoint == "" {
			d.infra.metricsClient = noop.NewMetricsClient()

			return nil
		}

		mp, err := infrastructure.NewMeterProvider(
			d.config.Telemetry.ServiceName,
			d.config.Telemetry.ServiceVersion,
			d.config.Telemetry.OTLPEndpoint,
		)
		if err != nil {
			return fmt.Errorf("initializing metrics: %w", err)
		}

		client := metrics.NewOTELClient(mp, d.config.App.ServiceName)
		d.infra.metricsClient = client
		d.cleanupFuncs["metrics"] = client.Shutdown

		return nil
	}
}

func WithStorage(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if d.config.Feed.StorageBackend == storageBackendMemory {
			store := repos.NewMemoryStore()
			d.repos.productTeams = repos.NewMemoryProductTeamRepository(store)
			d.repos.products = repos.NewMemoryProductRepository(store)
			d.repos.referenceData = repos.NewMemoryDeviceReferenceDataRepository(store)
			d.repos.devices = repos.NewMemoryDeviceRepository(store)
		} else {
			pool, err := infraPostgres.NewPool(ctx, d.config.Database)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}

			d.infra.dbPool = pool
			d.cleanupFuncs["database"] = func(context.Context) error {
				pool.Close()

				return nil
			}

			scanner := repos.NewPgxScanner()
			d.repos.productTeams = repos.NewPostgresProductTeamRepository(pool, scanner, d.infra.logger)
			d.repos.products = repos.NewPostgresProductRepository(pool, scanner, d.infra.logger)
			d.repos.referenceData = repos.NewPostgresDeviceReferenceDataRepository(pool, scanner, d.infra.logger)
			d.repos.devices = repos.NewPostgresDeviceRepository(pool, scanner, d.infra.logger)
		}

		d.repos.store = repos.NewAggregateStore(
			d.repos.productTeams,
			d.repos.products,
			d.repos.referenceData,
			d.repos.devices,
			d.infra.logger,
		)

		if d.config.Feed.StorageBackend != storageBackendMemory {
			d.repos.store = repos.NewResilientAggregateStore(
				d.repos.store,
				circuitbreaker.Config{
					Name:             "aggregate-store",
					Enabled:          d.config.CircuitBreaker.Enabled,
					MaxRequests:      d.config.CircuitBreaker.MaxRequests,
					Interval:         d.config.CircuitBreaker.Interval,
					Timeout:          d.config.CircuitBreaker.Timeout,
					FailureThreshold: d.config.CircuitBreaker.FailureThreshold,
				},
				d.infra.logger,
			)
		}

		return nil
	}
}

func WithChangeRequestService() DependencyOption {
	return func(d *dependencies) error {
		catalog, err := spine.NewCatalog()
		if err != nil {
			return fmt.Errorf("building questionnaire catalog: %w", err)
		}

		svc, err := services.NewChangeRequestService(
			d.repos.productTeams,
			d.repos.products,
			d.repos.referenceData,
			d.repos.devices,
			catalog,
		)
		if err != nil {
			return fmt.Errorf("building change request service: %w", err)
		}

		d.changeRequestService = svc

		return nil
	}
}

func WithApplication() DependencyOption {
	return func(d *dependencies) error {
		d.app = usecases.NewApplication(
			d.changeRequestService,
			d.repos.store,
			d.infra.logger,
			d.infra.tracerProvider,
			d.infra.metricsClient,
		)

		return nil
	}
}
