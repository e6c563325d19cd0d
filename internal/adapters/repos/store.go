package repos

import (
	"context"
	"fmt"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/ports"
	"github.com/nhsdigital/cpm-registry/pkg/logger"
)

// AggregateStore persists the aggregates returned by one change request
// processor, dispatching each to its repository. Aggregates are written in
// the order the processor returned them so parents land before the devices
// referencing them.
type AggregateStore struct {
	productTeams  ports.ProductTeamRepository
	products      ports.ProductRepository
	referenceData ports.DeviceReferenceDataRepository
	devices       ports.DeviceRepository
	logger        logger.Logger
}

func NewAggregateStore(
	productTeams ports.ProductTeamRepository,
	products ports.ProductRepository,
	referenceData ports.DeviceReferenceDataRepository,
	devices ports.DeviceRepository,
	log logger.Logger,
) *AggregateStore {
	return &AggregateStore{
		productTeams:  productTeams,
		products:      products,
		referenceData: referenceData,
		devices:       devices,
		logger:        log,
	}
}

func (s *AggregateStore) PersistAll(ctx context.Context, aggregates []model.Aggregate) error {
	for _, aggregate := range aggregates {
		for _, event := range aggregate.PendingEvents() {
			log := s.logger.WithContext(ctx)
			log.Debug().
				Str("event", eventName(event)).
				Msg("persisting event")
		}

		var err error
		switch a := aggregate.(type) {
		case *model.ProductTeam:
			err = s.productTeams.Write(ctx, a)
		case *model.Product:
			err = s.products.Write(ctx, a)
		case *model.DeviceReferenceData:
			err = s.referenceData.Write(ctx, a)
		case *model.Device:
			err = s.devices.Write(ctx, a)
		default:
			err = fmt.Errorf("unsupported aggregate type %T", aggregate)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func eventName(event model.Event) string {
	switch event.(type) {
	case model.ProductTeamCreated:
		return "product_team.created"
	case model.ProductCreated:
		return "product.created"
	case model.DeviceReferenceDataCreated:
		return "device_reference_data.created"
	case model.QuestionnaireResponseAdded:
		return "device_reference_data.response_added"
	case model.QuestionnaireResponseRemoved:
		return "device_reference_data.response_removed"
	case model.QuestionnaireResponsesCleared:
		return "device_reference_data.responses_cleared"
	case model.DeviceCreated:
		return "device.created"
	case model.DeviceKeyAdded:
		return "device.key_added"
	case model.DeviceKeyRemoved:
		return "device.key_removed"
	case model.DeviceTagsAdded:
		return "device.tags_added"
	case model.DeviceTagsCleared:
		return "device.tags_cleared"
	case model.DeviceResponseAdded:
		return "device.response_added"
	case model.DeviceResponseRemoved:
		return "device.response_removed"
	case model.DeviceReferenceDataLinked:
		return "device.reference_data_linked"
	case model.DeviceDeleted:
		return "device.deleted"
	}

	return "unknown"
}
