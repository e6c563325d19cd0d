package model

type (
	// FieldMapping is the bidirectional translation between the external
	// field names carried by change records and the internal question names
	// of one questionnaire instance.
	FieldMapping struct {
		internalByExternal map[string]string
		externalByInternal map[string]string
	}
)

// NewFieldMapping builds a FieldMapping and rejects non-bijective input, so
// routing on field membership never hits an ambiguous entry at runtime.
func NewFieldMapping(internalByExternal map[string]string) (FieldMapping, error) {
	externalByInternal := make(map[string]string, len(internalByExternal))
	for external, internal := range internalByExternal {
		if existing, ok := externalByInternal[internal]; ok {
			return FieldMapping{}, NewValidationError(
				"field mapping is not bijective: '%s' and '%s' both map to '%s'",
				existing, external, internal)
		}
		externalByInternal[internal] = external
	}

	copied := make(map[string]string, len(internalByExternal))
	for external, internal := range internalByExternal {
		copied[external] = internal
	}

	return FieldMapping{
		internalByExternal: copied,
		externalByInternal: externalByInternal,
	}, nil
}

// Contains reports whether the external field routes into this mapping.
func (m FieldMapping) Contains(external string) bool {
	_, ok := m.internalByExternal[external]

	return ok
}

// Translate resolves the internal question name for an external field.
func (m FieldMapping) Translate(external string) (string, bool) {
	internal, ok := m.internalByExternal[external]

	return internal, ok
}

// Reverse resolves the external field for an internal question name.
func (m FieldMapping) Reverse(internal string) (string, bool) {
	external, ok := m.externalByInternal[internal]

	return external, ok
}
