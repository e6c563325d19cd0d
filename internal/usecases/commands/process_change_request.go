package commands

import (
	"context"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
	"github.com/nhsdigital/cpm-registry/internal/ports"
	"github.com/nhsdigital/cpm-registry/pkg/decorator"
	"github.com/nhsdigital/cpm-registry/pkg/logger"
	"github.com/nhsdigital/cpm-registry/pkg/metrics"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	ProcessChangeRequestCommand struct {
		Record spine.ChangeRecord
	}

	ProcessChangeRequestCommandHandler = decorator.CommandHandler[ProcessChangeRequestCommand, []model.Aggregate]

	processChangeRequestCommandHandler struct {
		changeRequests ports.ChangeRequestService
		store          ports.AggregateStore
	}
)

func NewProcessChangeRequestCommandHandler(
	svc ports.ChangeRequestService,
	store ports.AggregateStore,
	log logger.Logger,
	metricsClient metrics.Client,
	tracerProvider otelTrace.TracerProvider,
) ProcessChangeRequestCommandHandler {
	return decorator.ApplyCommandDecorators[ProcessChangeRequestCommand, []model.Aggregate](
		processChangeRequestCommandHandler{changeRequests: svc, store: store},
		log,
		metricsClient,
		tracerProvider,
	)
}

// Handle routes the record to its processor and persists every touched
// aggregate as one unit.
func (h processChangeRequestCommandHandler) Handle(ctx context.Context, cmd ProcessChangeRequestCommand) ([]model.Aggregate, error) {
	aggregates, err := h.changeRequests.ProcessChangeRequest(ctx, cmd.Record)
	if err != nil {
		return nil, err
	}

	if err := h.store.PersistAll(ctx, aggregates); err != nil {
		return nil, err
	}

	return aggregates, nil
}
