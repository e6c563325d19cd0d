package spine

import (
	"encoding/json"
	"fmt"

	"github.com/nhsdigital/cpm-registry/internal/domain/model"
)

type (
	// Modification is one entry of a modification request: an operation on
	// one external field with zero or more values.
	Modification struct {
		Type   ModificationType `json:"type"`
		Field  string           `json:"field"`
		Values []string         `json:"values"`
	}

	// ChangeRecord is one already-parsed upstream change. Fields carries the
	// record's external field names; values are strings or lists of strings.
	ChangeRecord struct {
		UniqueIdentifier string
		ObjectClass      string
		Fields           model.ResponseData
		Modifications    []Modification
	}
)

// String returns the single string value of an external field, empty when
// the field is absent or list-valued.
func (r ChangeRecord) String(field string) string {
	value, _ := r.Fields[field].(string)

	return value
}

// Strings returns the list value of an external field, wrapping a single
// string value in a one-element list.
func (r ChangeRecord) Strings(field string) []string {
	return r.Fields.Values(field)
}

// UnmarshalJSON decodes the NDJSON form of a change record: a flat object
// whose values are strings or arrays of strings, plus the reserved
// "modifications" key for modification requests.
func (r *ChangeRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Fields = make(model.ResponseData, len(raw))
	for field, rawValue := range raw {
		if field == "modifications" {
			if err := json.Unmarshal(rawValue, &r.Modifications); err != nil {
				return fmt.Errorf("decoding modifications: %w", err)
			}

			continue
		}

		var single string
		if err := json.Unmarshal(rawValue, &single); err == nil {
			r.Fields[field] = single

			continue
		}

		var list []string
		if err := json.Unmarshal(rawValue, &list); err != nil {
			return fmt.Errorf("field %q is neither a string nor a list of strings", field)
		}
		r.Fields[field] = list
	}

	r.UniqueIdentifier = r.String(FieldUniqueIdentifier)
	r.ObjectClass = r.String(FieldObjectClass)

	return nil
}

// ImputeManufacturerOrg falls back to nhs_id_code when the manufacturer
// organisation is missing or not a plain alphanumeric code.
func (r ChangeRecord) ImputeManufacturerOrg() ChangeRecord {
	org := r.String(FieldManufacturerOrg)
	if isAlphanumeric(org) {
		return r
	}

	fields := r.Fields.Copy()
	fields[FieldManufacturerOrg] = r.String(FieldIDCode)
	r.Fields = fields

	return r
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}

	return true
}
