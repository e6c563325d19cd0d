package repos

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
)

// MemoryStore is a map-backed aggregate store, used by the worker's in-memory
// mode and by tests. Aggregates are deep-copied on the way in and out so
// callers never alias stored state.
type MemoryStore struct {
	mu sync.RWMutex

	productTeams  map[model.ProductTeamID]*model.ProductTeam
	teamKeys      map[string]model.ProductTeamID
	products      map[model.ProductID]*model.Product
	referenceData map[model.DeviceReferenceDataID]*model.DeviceReferenceData
	devices       map[model.DeviceID]*model.Device
	deviceKeys    map[string]model.DeviceID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		productTeams:  make(map[model.ProductTeamID]*model.ProductTeam),
		teamKeys:      make(map[string]model.ProductTeamID),
		products:      make(map[model.ProductID]*model.Product),
		referenceData: make(map[model.DeviceReferenceDataID]*model.DeviceReferenceData),
		devices:       make(map[model.DeviceID]*model.Device),
		deviceKeys:    make(map[string]model.DeviceID),
	}
}

// clone deep copies an aggregate snapshot through its JSON form. Pending
// events are not part of the snapshot and never survive a round trip.
func clone[T any](src *T) (*T, error) {
	raw, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	return out, nil
}

type (
	// MemoryProductTeamRepository implements ports.ProductTeamRepository
	// over a MemoryStore.
	MemoryProductTeamRepository struct {
		store *MemoryStore
	}

	// MemoryProductRepository implements ports.ProductRepository over a
	// MemoryStore.
	MemoryProductRepository struct {
		store *MemoryStore
	}

	// MemoryDeviceReferenceDataRepository implements
	// ports.DeviceReferenceDataRepository over a MemoryStore.
	MemoryDeviceReferenceDataRepository struct {
		store *MemoryStore
	}

	// MemoryDeviceRepository implements ports.DeviceRepository over a
	// MemoryStore.
	MemoryDeviceRepository struct {
		store *MemoryStore
	}
)

func NewMemoryProductTeamRepository(store *MemoryStore) *MemoryProductTeamRepository {
	return &MemoryProductTeamRepository{store: store}
}

func NewMemoryProductRepository(store *MemoryStore) *MemoryProductRepository {
	return &MemoryProductRepository{store: store}
}

func NewMemoryDeviceReferenceDataRepository(store *MemoryStore) *MemoryDeviceReferenceDataRepository {
	return &MemoryDeviceReferenceDataRepository{store: store}
}

func NewMemoryDeviceRepository(store *MemoryStore) *MemoryDeviceRepository {
	return &MemoryDeviceRepository{store: store}
}

func (r *MemoryProductTeamRepository) Read(_ context.Context, eprID string) (*model.ProductTeam, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.teamKeys[eprID]
	if !ok {
		return nil, model.ErrProductTeamNotFound
	}

	return clone(r.store.productTeams[id])
}

func (r *MemoryProductTeamRepository) Write(_ context.Context, team *model.ProductTeam) error {
	if len(team.PendingEvents()) == 0 {
		return nil
	}

	snapshot, err := clone(team)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.productTeams[team.ID] = snapshot
	for _, key := range team.Keys {
		r.store.teamKeys[key.Value] = team.ID
	}
	team.ClearPendingEvents()

	return nil
}

func (r *MemoryProductRepository) Read(_ context.Context, productTeamID model.ProductTeamID, partyKey string) (*model.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, product := range r.store.products {
		if product.ProductTeamID == productTeamID && product.PartyKey() == partyKey {
			return clone(product)
		}
	}

	return nil, model.ErrProductNotFound
}

func (r *MemoryProductRepository) Write(_ context.Context, product *model.Product) error {
	if len(product.PendingEvents()) == 0 {
		return nil
	}

	snapshot, err := clone(product)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.products[product.ID] = snapshot
	product.ClearPendingEvents()

	return nil
}

func (r *MemoryDeviceReferenceDataRepository) Read(
	_ context.Context,
	productTeamID model.ProductTeamID,
	productID model.ProductID,
	id model.DeviceReferenceDataID,
	env model.Environment,
) (*model.DeviceReferenceData, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	drd, ok := r.store.referenceData[id]
	if !ok || drd.ProductTeamID != productTeamID || drd.ProductID != productID || drd.Environment != env {
		return nil, model.ErrDeviceReferenceDataNotFound
	}

	return clone(drd)
}

func (r *MemoryDeviceReferenceDataRepository) Search(
	_ context.Context,
	productTeamID model.ProductTeamID,
	productID model.ProductID,
	env model.Environment,
) ([]*model.DeviceReferenceData, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var results []*model.DeviceReferenceData
	for _, drd := range r.store.referenceData {
		if drd.ProductTeamID != productTeamID || drd.ProductID != productID || drd.Environment != env {
			continue
		}
		copied, err := clone(drd)
		if err != nil {
			return nil, err
		}
		results = append(results, copied)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	return results, nil
}

func (r *MemoryDeviceReferenceDataRepository) Write(_ context.Context, drd *model.DeviceReferenceData) error {
	if len(drd.PendingEvents()) == 0 {
		return nil
	}

	snapshot, err := clone(drd)
	if err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.referenceData[drd.ID] = snapshot
	drd.ClearPendingEvents()

	return nil
}

func (r *MemoryDeviceRepository) ReadByKey(_ context.Context, keyValue string) (*model.Device, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.deviceKeys[keyValue]
	if !ok {
		return nil, model.ErrDeviceNotFound
	}

	return clone(r.store.devices[id])
}

func (r *MemoryDeviceRepository) Search(
	_ context.Context,
	productTeamID model.ProductTeamID,
	productID model.ProductID,
	env model.Environment,
) ([]*model.Device, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var results []*model.Device
	for _, device := range r.store.devices {
		if device.ProductTeamID != productTeamID || device.ProductID != productID || device.Environment != env {
			continue
		}
		copied, err := clone(device)
		if err != nil {
			return nil, err
		}
		results = append(results, copied)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	return results, nil
}

func (r *MemoryDeviceRepository) Write(_ context.Context, device *model.Device) error {
	if len(device.PendingEvents()) == 0 {
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for keyValue, id := range r.store.deviceKeys {
		if id == device.ID {
			delete(r.store.deviceKeys, keyValue)
		}
	}

	if device.IsDeleted() {
		delete(r.store.devices, device.ID)
		device.ClearPendingEvents()

		return nil
	}

	snapshot, err := clone(device)
	if err != nil {
		return err
	}
	r.store.devices[device.ID] = snapshot
	for _, key := range device.Keys {
		r.store.deviceKeys[key.Value] = device.ID
	}
	device.ClearPendingEvents()

	return nil
}
