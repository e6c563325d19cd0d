package model

// ProjectTags expands a flat metadata record into the full set of searchable
// tags: one tag per allowed field combination per value tuple, plus a single
// tag for the unique identifier field on its own.
//
// A combination is skipped entirely when any of its fields is absent or
// empty. Fields whose answer is a list fan out as a cross-product with the
// other fields of the combination. The result is deduplicated by the tags'
// canonical form.
func ProjectTags(data ResponseData, allowedCombinations [][]string, uniqueIDField string) []DeviceTag {
	var tags []DeviceTag

	for _, combination := range allowedCombinations {
		tags = append(tags, projectCombination(data, combination)...)
	}

	if values := data.Values(uniqueIDField); len(values) == 1 {
		tags = append(tags, NewDeviceTag(map[string]string{uniqueIDField: values[0]}))
	}

	return dedupeTags(tags)
}

func projectCombination(data ResponseData, combination []string) []DeviceTag {
	valuesByField := make(map[string][]string, len(combination))
	for _, field := range combination {
		values := data.Values(field)
		if len(values) == 0 {
			return nil
		}
		valuesByField[field] = values
	}

	partials := []map[string]string{{}}
	for _, field := range combination {
		next := make([]map[string]string, 0, len(partials)*len(valuesByField[field]))
		for _, partial := range partials {
			for _, value := range valuesByField[field] {
				extended := make(map[string]string, len(partial)+1)
				for k, v := range partial {
					extended[k] = v
				}
				extended[field] = value
				next = append(next, extended)
			}
		}
		partials = next
	}

	tags := make([]DeviceTag, 0, len(partials))
	for _, partial := range partials {
		tags = append(tags, NewDeviceTag(partial))
	}

	return tags
}

func dedupeTags(tags []DeviceTag) []DeviceTag {
	seen := make(map[string]struct{}, len(tags))
	out := make([]DeviceTag, 0, len(tags))
	for _, tag := range tags {
		value := tag.Value()
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, tag)
	}

	return out
}
