package flight

// pushMap merges extra into base in place. When both sides hold a map for
// a key the maps are merged recursively; otherwise extra's value wins.
func pushMap(base, extra map[string]any) map[string]any {
	if base == nil {
		return nil
	}
	for k, v := range extra {
		bm, bok := base[k].(map[string]any)
		em, eok := v.(map[string]any)
		if bok && eok {
			pushMap(bm, em)
			continue
		}
		base[k] = deepCopy(v)
	}
	return base
}

// deepCopy copies nested maps and slices so merging never writes into a
// caller's value.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}

// deepMerge returns a fresh map holding every source merged left to right.
// Later sources win; nested maps merge instead of replacing each other.
func deepMerge(sources ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			om, ook := out[k].(map[string]any)
			sm, sok := v.(map[string]any)
			if ook && sok {
				out[k] = deepMerge(om, sm)
				continue
			}
			out[k] = deepCopy(v)
		}
	}
	return out
}

// MergeOptions merges option maps left to right into a new map, later maps
// winning on conflicts. AttachTo uses it for its trailing option arguments.
func MergeOptions(options ...map[string]any) map[string]any {
	return deepMerge(options...)
}

// mergeEventData lays a call-site payload over the instance's eventData
// attribute. Payloads that are not maps cannot carry keys and are dropped,
// leaving a copy of the defaults.
func mergeEventData(defaults map[string]any, data any) map[string]any {
	if m, ok := data.(map[string]any); ok {
		return deepMerge(defaults, m)
	}
	return deepMerge(defaults)
}
