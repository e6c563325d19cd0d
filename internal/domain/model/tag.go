package model

import (
	"net/url"
	"sort"
	"strings"
)

type (
	// TagComponent is one field/value pair of a DeviceTag.
	TagComponent struct {
		Field string
		Value string
	}

	// DeviceTag is one searchable combination of metadata fields. Components
	// are sorted by field name and values are lower-cased exactly once here,
	// so tags compare and render consistently everywhere downstream.
	DeviceTag struct {
		Components []TagComponent
	}
)

func NewDeviceTag(data map[string]string) DeviceTag {
	components := make([]TagComponent, 0, len(data))
	for field, value := range data {
		components = append(components, TagComponent{
			Field: field,
			Value: strings.ToLower(value),
		})
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i].Field < components[j].Field
	})

	return DeviceTag{Components: components}
}

// Value renders the tag in its canonical query-string form, the form used
// by the persistence index.
func (t DeviceTag) Value() string {
	values := url.Values{}
	for _, c := range t.Components {
		values.Set(c.Field, c.Value)
	}

	return values.Encode()
}
