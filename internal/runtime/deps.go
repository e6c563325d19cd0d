package runtime

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nhsdigital/cpm-registry/internal/config"
	"github.com/nhsdigital/cpm-registry/internal/ports"
	"github.com/nhsdigital/cpm-registry/internal/usecases"
	"github.com/nhsdigital/cpm-registry/pkg/logger"
	"github.com/nhsdigital/cpm-registry/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	infrastructureDep struct {
		tracerProvider otelTrace.TracerProvider
		tracerShutdown func(ctx context.Context) error
		metricsClient  metrics.Client
		logger         logger.Logger
		dbPool         *pgxpool.Pool
	}

	repositories struct {
		productTeams  ports.ProductTeamRepository
		products      ports.ProductRepository
		referenceData ports.DeviceReferenceDataRepository
		devices       ports.DeviceRepository
		store         ports.AggregateStore
	}

	dependencies struct {
		config               *config.ServiceConfig
		infra                infrastructureDep
		repos                repositories
		changeRequestService ports.ChangeRequestService
		app                  *usecases.Application
		cleanupFuncs         map[string]func(ctx context.Context) error
	}

	DependencyOption func(*dependencies) error
)

func initializeDependencies(ctx context.Context, opts ...DependencyOption) (*dependencies, error) {
	deps := &dependencies{
		cleanupFuncs: make(map[string]func(ctx context.Context) error),
	}

	allOpts := append(defaultOptions(ctx), opts...)

	for _, opt := range allOpts {
		if err := opt(deps); err != nil {
			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	return deps, nil
}
