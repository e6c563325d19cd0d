package model

type (
	KeyType string

	// DeviceKey is a typed natural key attached to a Device. Key values are
	// unique within a Device.
	DeviceKey struct {
		Type  KeyType
		Value string
	}

	// ProductTeamKey is a typed alias key attached to a ProductTeam.
	ProductTeamKey struct {
		Type  KeyType
		Value string
	}

	// ProductKey is a typed alias key attached to a Product.
	ProductKey struct {
		Type  KeyType
		Value string
	}
)

const (
	KeyTypeCpaID              KeyType = "cpa_id"
	KeyTypeAccreditedSystemID KeyType = "accredited_system_id"
	KeyTypePartyKey           KeyType = "party_key"
	KeyTypeEprID              KeyType = "epr_id"
)
