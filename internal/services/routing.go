package services

import (
	"context"
	"errors"
	"strings"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
)

// ProcessChangeRequest routes one parsed change record to the matching
// processor.
//
// Records whose unique identifier is on the upstream deny list are skipped.
// Additions dispatch on object class alone; deletions and modifications
// resolve their target device by unique identifier first and are skipped when
// no device owns it.
func (s *ChangeRequestService) ProcessChangeRequest(ctx context.Context, record spine.ChangeRecord) ([]model.Aggregate, error) {
	if _, denied := spine.BadUniqueIdentifiers[record.UniqueIdentifier]; denied {
		return nil, nil
	}

	objectClass := strings.ToLower(record.ObjectClass)
	switch objectClass {
	case spine.ObjectClassMhs:
		return s.AddMhs(ctx, record)
	case spine.ObjectClassAccreditedSystem:
		return s.AddAccreditedSystem(ctx, record)
	}

	device, err := s.devices.ReadByKey(ctx, record.UniqueIdentifier)
	if errors.Is(err, model.ErrDeviceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	switch {
	case objectClass == spine.ObjectClassDeletionRequest && IsMhsDevice(device):
		return s.DeleteMhs(ctx, device, record.UniqueIdentifier)
	case objectClass == spine.ObjectClassDeletionRequest && IsAsDevice(device):
		return s.DeleteAccreditedSystem(ctx, device)
	case objectClass == spine.ObjectClassModificationRequest && IsMhsDevice(device):
		return s.routeMhsModifications(ctx, device, record)
	case objectClass == spine.ObjectClassModificationRequest && IsAsDevice(device):
		return s.routeAsModifications(ctx, device, record)
	}

	return nil, model.NewValidationError(
		"no translation available for records with object class '%s'", objectClass)
}

func (s *ChangeRequestService) routeMhsModifications(ctx context.Context, device *model.Device, record spine.ChangeRecord) ([]model.Aggregate, error) {
	cpaID := record.UniqueIdentifier

	var aggregates []model.Aggregate
	for _, modification := range record.Modifications {
		var (
			result []model.Aggregate
			err    error
		)
		switch modification.Type {
		case spine.ModificationAdd:
			result, err = s.AddToMhs(ctx, device, cpaID, modification.Field, modification.Values)
		case spine.ModificationReplace:
			result, err = s.ReplaceInMhs(ctx, device, cpaID, modification.Field, modification.Values)
		case spine.ModificationDelete:
			result, err = s.DeleteFromMhs(ctx, device, cpaID, modification.Field)
		default:
			err = model.NewUnexpectedModification("unknown modification type '%s'", modification.Type)
		}
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, result...)
	}

	return aggregates, nil
}

func (s *ChangeRequestService) routeAsModifications(ctx context.Context, device *model.Device, record spine.ChangeRecord) ([]model.Aggregate, error) {
	var aggregates []model.Aggregate
	for _, modification := range record.Modifications {
		var (
			result []model.Aggregate
			err    error
		)
		switch modification.Type {
		case spine.ModificationAdd:
			result, err = s.AddToAccreditedSystem(ctx, device, modification.Field, modification.Values)
		case spine.ModificationReplace:
			result, err = s.ReplaceInAccreditedSystem(ctx, device, modification.Field, modification.Values)
		case spine.ModificationDelete:
			result, err = s.DeleteFromAccreditedSystem(ctx, device, modification.Field)
		default:
			err = model.NewUnexpectedModification("unknown modification type '%s'", modification.Type)
		}
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, result...)
	}

	return aggregates, nil
}
