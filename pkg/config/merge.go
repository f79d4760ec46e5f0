package config

// Merge combines sources into target, later sources taking precedence on
// scalar conflicts. Mappings merge recursively, sequences concatenate in
// target-then-source order without element deduplication, and a mapping
// meeting a sequence under the same key is a schema error. The inputs are
// never mutated; every merge step constructs a new map.
func Merge(target map[string]any, sources ...map[string]any) (map[string]any, error) {
	out := copyMap(target)
	for _, src := range sources {
		var err error
		out, err = mergeMaps(out, src, "")
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func mergeMaps(target, source map[string]any, path string) (map[string]any, error) {
	out := copyMap(target)
	for key, sv := range source {
		tv, ok := out[key]
		if !ok {
			out[key] = sv
			continue
		}
		mv, err := mergeValue(tv, sv, joinKeyPath(path, key))
		if err != nil {
			return nil, err
		}
		out[key] = mv
	}
	return out, nil
}

func mergeValue(tv, sv any, path string) (any, error) {
	tm, tIsMap := tv.(map[string]any)
	sm, sIsMap := sv.(map[string]any)
	tl, tIsList := tv.([]any)
	sl, sIsList := sv.([]any)
	switch {
	case tIsMap && sIsMap:
		return mergeMaps(tm, sm, path)
	case tIsList && sIsList:
		return concatLists(tl, sl), nil
	case (tIsMap && sIsList) || (tIsList && sIsMap):
		return nil, &SchemaError{Key: path, Reason: "cannot merge a mapping with a sequence"}
	default:
		return sv, nil
	}
}

// mergeInherited folds src, a document from an outer inheritance level,
// beneath dst. dst's explicit scalars win, mappings merge recursively and
// sequences accumulate dst-first, so requirement lists keep chain order with
// the innermost level's contributions leading.
func mergeInherited(dst, src map[string]any) (map[string]any, error) {
	return mergeInheritedAt(dst, src, "")
}

func mergeInheritedAt(dst, src map[string]any, path string) (map[string]any, error) {
	out := copyMap(dst)
	for key, sv := range src {
		dv, ok := out[key]
		if !ok {
			out[key] = sv
			continue
		}
		dm, dIsMap := dv.(map[string]any)
		sm, sIsMap := sv.(map[string]any)
		dl, dIsList := dv.([]any)
		sl, sIsList := sv.([]any)
		switch {
		case dIsMap && sIsMap:
			mv, err := mergeInheritedAt(dm, sm, joinKeyPath(path, key))
			if err != nil {
				return nil, err
			}
			out[key] = mv
		case dIsList && sIsList:
			out[key] = concatLists(dl, sl)
		case (dIsMap && sIsList) || (dIsList && sIsMap):
			return nil, &SchemaError{Key: joinKeyPath(path, key), Reason: "cannot merge a mapping with a sequence"}
		default:
			// dst already holds the closer level's value.
		}
	}
	return out, nil
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func concatLists(a, b []any) []any {
	out := make([]any, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func joinKeyPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
