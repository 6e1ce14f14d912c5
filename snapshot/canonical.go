package snapshot

import "sort"

// dimensionKeys are appended first, in this exact order. The order is a
// versioned contract: changing it changes every produced canonical name and
// breaks consumers relying on stable keys.
var dimensionKeys = []string{"name", "op", "state", "direction"}

// ignoredKeys are metadata keys that never contribute a path segment of
// their own: the dimension keys (handled above), the base name, bucket
// layout parameters and the id (appended last as a disambiguator).
var ignoredKeys = map[string]struct{}{
	"name":            {},
	"op":              {},
	"state":           {},
	"direction":       {},
	"metric":          {},
	"unit":            {},
	"grouping_power":  {},
	"max_value_power": {},
	"id":              {},
}

// CanonicalMetricName derives the unique lookup name for a metric reading.
// Old-style producers use the raw name as the identity and carry no "metric"
// metadata key, in which case the raw name is returned unchanged. New-style
// producers emit opaque raw names and reconstruct the identity from metadata:
// the "metric" base name, then the dimension keys in fixed order, then any
// remaining keys in ascending lexicographic key order (so the result does not
// depend on map iteration order), then "id" last.
func CanonicalMetricName(name string, metadata map[string]string) string {
	base, found := metadata["metric"]
	if !found {
		return name
	}

	uniqueName := base
	for _, key := range dimensionKeys {
		value, hasKey := metadata[key]
		if hasKey {
			uniqueName = uniqueName + "/" + value
		}
	}

	remaining := make([]string, 0, len(metadata))
	for key := range metadata {
		_, ignored := ignoredKeys[key]
		if ignored {
			continue
		}

		remaining = append(remaining, key)
	}
	sort.Strings(remaining)

	for _, key := range remaining {
		uniqueName = uniqueName + "/" + metadata[key]
	}

	idValue, hasID := metadata["id"]
	if hasID {
		uniqueName = uniqueName + "/" + idValue
	}

	return uniqueName
}
