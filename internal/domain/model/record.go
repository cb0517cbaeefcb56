package model

import "sort"

// Record is a loosely typed bag of fields. Every registry type flattens into one,
// and merged entities are records themselves.
type Record map[string]any

// Clone returns a shallow copy of the record. A nil record clones to an empty one.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the field as a string, or "" when it is absent or not a string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// EntityID is shorthand for the entity_id field.
func (r Record) EntityID() string {
	return r.String("entity_id")
}

// Attributes returns the nested attributes map of a state-backed record.
func (r Record) Attributes() map[string]any {
	attrs, _ := r["attributes"].(map[string]any)
	return attrs
}

// MergedEntityMap maps an entity id (or area.<area_id>) to its merged record.
type MergedEntityMap map[string]Record

// Keys returns the map keys in lexical order.
func (m MergedEntityMap) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Records flattens the map into a slice ordered by key.
func (m MergedEntityMap) Records() []Record {
	out := make([]Record, 0, len(m))
	for _, k := range m.Keys() {
		out = append(out, m[k])
	}
	return out
}

// Records is a plain sequence of records.
type Records []Record

// Records returns the slice itself.
func (r Records) Records() []Record {
	return r
}

// EntityIDs returns the entity_id of every record in order.
func (r Records) EntityIDs() []string {
	ids := make([]string, 0, len(r))
	for _, rec := range r {
		ids = append(ids, rec.EntityID())
	}
	return ids
}
