package spine

// DeviceQueryFieldCombinations are the allowed search field combinations of
// the SDS device (accredited system) query surface. Tag projection generates
// one tag per combination per value tuple.
func DeviceQueryFieldCombinations() [][]string {
	return [][]string{
		{FieldIDCode, FieldAsInteractions},
		{FieldIDCode, FieldAsInteractions, FieldPartyKey},
	}
}
