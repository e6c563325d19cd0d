package decorator

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/nhsdigital/cpm-registry/pkg/decorator"

type (
	commandTracingDecorator[C Command, R any] struct {
		base           CommandHandler[C, R]
		tracerProvider otelTrace.TracerProvider
	}
)

func (d commandTracingDecorator[C, R]) Handle(ctx context.Context, cmd C) (result R, err error) {
	if d.tracerProvider == nil {
		return d.base.Handle(ctx, cmd)
	}

	ctx, span := d.tracerProvider.Tracer(tracerName).Start(ctx, generateActionName(cmd))
	defer span.End()

	result, err = d.base.Handle(ctx, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return result, err
}
