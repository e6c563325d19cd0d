package repos

import (
	"context"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/ports"
	"github.com/nhsdigital/cpm-registry/pkg/circuitbreaker"
	"github.com/nhsdigital/cpm-registry/pkg/logger"
)

// ResilientAggregateStore runs every persistence batch through a circuit
// breaker. When the database is down the breaker opens and subsequent
// records fail fast with circuitbreaker.ErrCircuitOpen instead of each
// waiting out a connection timeout.
type ResilientAggregateStore struct {
	base    ports.AggregateStore
	breaker *circuitbreaker.CircuitBreaker[struct{}]
	logger  logger.Logger
}

func NewResilientAggregateStore(
	base ports.AggregateStore,
	cfg circuitbreaker.Config,
	log logger.Logger,
) *ResilientAggregateStore {
	return &ResilientAggregateStore{
		base:    base,
		breaker: circuitbreaker.New[struct{}](cfg),
		logger:  log,
	}
}

func (s *ResilientAggregateStore) PersistAll(ctx context.Context, aggregates []model.Aggregate) error {
	_, err := circuitbreaker.Execute(s.breaker, func() (struct{}, error) {
		return struct{}{}, s.base.PersistAll(ctx, aggregates)
	})
	if err != nil {
		if circuitbreaker.IsCircuitError(err) {
			log := s.logger.WithContext(ctx)
			log.Warn().
				Err(err).
				Msg("persistence rejected by circuit breaker")
		}

		return err
	}

	return nil
}
