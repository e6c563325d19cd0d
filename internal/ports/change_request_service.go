package ports

import (
	"context"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
)

// ChangeRequestService is the incremental update engine. Every operation is
// a pure transformation: reads go through the repositories, the returned
// aggregates carry the pending events and persistence is the caller's
// responsibility as a single unit.
type ChangeRequestService interface {
	// ProcessChangeRequest routes a parsed change record to the matching
	// processor by object class and device type.
	ProcessChangeRequest(ctx context.Context, record spine.ChangeRecord) ([]model.Aggregate, error)

	// AddMhs applies an incoming MHS record against the aggregate graph.
	AddMhs(ctx context.Context, record spine.ChangeRecord) ([]model.Aggregate, error)

	// AddAccreditedSystem applies an incoming accredited system record.
	AddAccreditedSystem(ctx context.Context, record spine.ChangeRecord) ([]model.Aggregate, error)

	// DeleteMhs removes one CPA ID from an MHS device, hard-deleting the
	// device once it holds no keys.
	DeleteMhs(ctx context.Context, device *model.Device, cpaID string) ([]model.Aggregate, error)

	// DeleteAccreditedSystem hard-deletes an AS device, clearing the
	// product's additional interactions when no sibling AS device remains.
	DeleteAccreditedSystem(ctx context.Context, device *model.Device) ([]model.Aggregate, error)

	// AddToMhs merges values into one field of an MHS document.
	AddToMhs(ctx context.Context, device *model.Device, cpaID, field string, values []string) ([]model.Aggregate, error)

	// ReplaceInMhs overwrites one field of an MHS document and re-runs the
	// additional interactions fix-up.
	ReplaceInMhs(ctx context.Context, device *model.Device, cpaID, field string, values []string) ([]model.Aggregate, error)

	// DeleteFromMhs clears one optional field of an MHS document.
	DeleteFromMhs(ctx context.Context, device *model.Device, cpaID, field string) ([]model.Aggregate, error)

	// AddToAccreditedSystem merges values into one field of an AS document,
	// fanning new interaction tags out to every sibling AS device.
	AddToAccreditedSystem(ctx context.Context, device *model.Device, field string, values []string) ([]model.Aggregate, error)

	// ReplaceInAccreditedSystem overwrites one field of an AS document with
	// full replace semantics for the interaction field.
	ReplaceInAccreditedSystem(ctx context.Context, device *model.Device, field string, values []string) ([]model.Aggregate, error)

	// DeleteFromAccreditedSystem clears one optional field of an AS document.
	DeleteFromAccreditedSystem(ctx context.Context, device *model.Device, field string) ([]model.Aggregate, error)
}
