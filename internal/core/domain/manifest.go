package domain

// Manifest is a decoded TOML document. Tables are map[string]any, arrays are []any,
// integers are int64.
type Manifest map[string]any

// Lookup walks nested tables along keys.
func (m Manifest) Lookup(keys ...string) (any, bool) {
	var cur any = map[string]any(m)
	for _, k := range keys {
		table, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = table[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Table returns the nested table at keys.
func (m Manifest) Table(keys ...string) (map[string]any, bool) {
	v, ok := m.Lookup(keys...)
	if !ok {
		return nil, false
	}
	t, ok := v.(map[string]any)
	return t, ok
}
