package ports

import (
	"context"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
)

type (
	// ProductTeamRepository persists ProductTeam aggregates, addressed by
	// their epr_id key.
	ProductTeamRepository interface {
		// Read retrieves a product team by its epr_id key value.
		Read(ctx context.Context, eprID string) (*model.ProductTeam, error)

		// Write persists the product team's pending events.
		Write(ctx context.Context, team *model.ProductTeam) error
	}

	// ProductRepository persists Product aggregates, addressed by product
	// team and party key.
	ProductRepository interface {
		// Read retrieves a product by product team ID and party key.
		Read(ctx context.Context, productTeamID model.ProductTeamID, partyKey string) (*model.Product, error)

		// Write persists the product's pending events.
		Write(ctx context.Context, product *model.Product) error
	}

	// DeviceReferenceDataRepository persists DeviceReferenceData aggregates.
	DeviceReferenceDataRepository interface {
		// Read retrieves one DRD by ID within a product.
		Read(ctx context.Context, productTeamID model.ProductTeamID, productID model.ProductID, id model.DeviceReferenceDataID, env model.Environment) (*model.DeviceReferenceData, error)

		// Search lists all DRDs of a product in an environment.
		Search(ctx context.Context, productTeamID model.ProductTeamID, productID model.ProductID, env model.Environment) ([]*model.DeviceReferenceData, error)

		// Write persists the DRD's pending events.
		Write(ctx context.Context, drd *model.DeviceReferenceData) error
	}

	// DeviceRepository persists Device aggregates.
	DeviceRepository interface {
		// ReadByKey retrieves a device by one of its key values (CPA ID or
		// ASID), returning model.ErrDeviceNotFound when no device owns it.
		ReadByKey(ctx context.Context, keyValue string) (*model.Device, error)

		// Search lists all devices of a product in an environment.
		Search(ctx context.Context, productTeamID model.ProductTeamID, productID model.ProductID, env model.Environment) ([]*model.Device, error)

		// Write persists the device's pending events.
		Write(ctx context.Context, device *model.Device) error
	}

	// QuestionnaireCatalog resolves questionnaire instances and their field
	// mappings by name.
	QuestionnaireCatalog interface {
		Read(name string) (model.Questionnaire, error)
		ReadFieldMapping(name string) (model.FieldMapping, error)
	}

	// AggregateStore persists the full set of aggregates returned by one
	// change request processor as a unit.
	AggregateStore interface {
		PersistAll(ctx context.Context, aggregates []model.Aggregate) error
	}
)
