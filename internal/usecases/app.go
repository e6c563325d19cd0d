package usecases

import (
	"github.com/nhsdigital/cpm-registry/internal/ports"
	"github.com/nhsdigital/cpm-registry/internal/usecases/commands"
	"github.com/nhsdigital/cpm-registry/pkg/logger"
	"github.com/nhsdigital/cpm-registry/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	Commands struct {
		ProcessChangeRequest commands.ProcessChangeRequestCommandHandler
	}

	Application struct {
		Commands Commands
	}
)

func NewApplication(
	changeRequestSvc ports.ChangeRequestService,
	store ports.AggregateStore,
	log logger.Logger,
	tracerProvider otelTrace.TracerProvider,
	metricsClient metrics.Client,
) *Application {
	return &Application{
		Commands: Commands{
			ProcessChangeRequest: commands.NewProcessChangeRequestCommandHandler(
				changeRequestSvc, store, log, metricsClient, tracerProvider),
		},
	}
}
