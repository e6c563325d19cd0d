package decorator

import (
	"context"
	"strings"

	"github.com/nhsdigital/cpm-registry/pkg/logger"
)

type (
	commandLoggingDecorator[C Command, R any] struct {
		base   CommandHandler[C, R]
		logger logger.Logger
	}
)

func (d commandLoggingDecorator[C, R]) Handle(ctx context.Context, cmd C) (result R, err error) {
	actionName := strings.ToLower(generateActionName(cmd))

	log := d.logger.WithContext(ctx)
	log.Debug().Str("command", actionName).Msg("executing command")

	defer func() {
		if err != nil {
			log.Error().Str("command", actionName).Err(err).Msg("command failed")

			return
		}

		log.Debug().Str("command", actionName).Msg("command succeeded")
	}()

	return d.base.Handle(ctx, cmd)
}
