package model

import "github.com/google/uuid"

type (
	ProductTeamID struct {
		uuid.UUID
	}

	ProductID struct {
		uuid.UUID
	}

	DeviceID struct {
		uuid.UUID
	}

	DeviceReferenceDataID struct {
		uuid.UUID
	}
)

func NewProductTeamID() ProductTeamID {
	return ProductTeamID{UUID: uuid.Must(uuid.NewV7())}
}

func ParseProductTeamID(s string) (ProductTeamID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ProductTeamID{}, err
	}

	return ProductTeamID{UUID: id}, nil
}

func (id ProductTeamID) IsZero() bool {
	return id.UUID == uuid.Nil
}

func NewProductID() ProductID {
	return ProductID{UUID: uuid.Must(uuid.NewV7())}
}

func ParseProductID(s string) (ProductID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ProductID{}, err
	}

	return ProductID{UUID: id}, nil
}

func (id ProductID) IsZero() bool {
	return id.UUID == uuid.Nil
}

func NewDeviceID() DeviceID {
	return DeviceID{UUID: uuid.Must(uuid.NewV7())}
}

func ParseDeviceID(s string) (DeviceID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return DeviceID{}, err
	}

	return DeviceID{UUID: id}, nil
}

func (id DeviceID) IsZero() bool {
	return id.UUID == uuid.Nil
}

func NewDeviceReferenceDataID() DeviceReferenceDataID {
	return DeviceReferenceDataID{UUID: uuid.Must(uuid.NewV7())}
}

func ParseDeviceReferenceDataID(s string) (DeviceReferenceDataID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return DeviceReferenceDataID{}, err
	}

	return DeviceReferenceDataID{UUID: id}, nil
}

func (id DeviceReferenceDataID) IsZero() bool {
	return id.UUID == uuid.Nil
}
