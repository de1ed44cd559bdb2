package identity

import (
	"encoding/json"
	"fmt"
)

// Prefs holds namespaced preference blobs on a profile. Components own
// their own key and round-trip their own structs through it, so the
// profile doesn't grow a field per feature.
type Prefs map[string]json.RawMessage

// Set replaces the blob under key with the JSON encoding of v.
func (p *Prefs) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling pref %q: %w", key, err)
	}

	if *p == nil {
		*p = Prefs{}
	}
	(*p)[key] = b

	return nil
}

// Get decodes the blob under key into out. The bool reports whether the
// key was present.
func (p Prefs) Get(key string, out any) (bool, error) {
	raw, ok := p[key]
	if !ok || len(raw) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return true, fmt.Errorf("unmarshalling pref %q: %w", key, err)
	}

	return true, nil
}

// Delete drops the blob under key.
func (p Prefs) Delete(key string) {
	delete(p, key)
}
