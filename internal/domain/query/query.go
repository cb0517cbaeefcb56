// Package query filters merged entity records.
//
// Every function is pure: inputs are never mutated and a nil collection behaves
// like an empty one.
package query

import (
	"reflect"
	"strings"

	"magic-dashboard/internal/domain/merge"
	"magic-dashboard/internal/domain/model"
)

// Collection is anything that can be flattened into a sequence of records.
// model.MergedEntityMap and model.Records both qualify.
type Collection interface {
	Records() []model.Record
}

func toSlice(c Collection) []model.Record {
	if c == nil {
		return nil
	}
	return c.Records()
}

func filter(c Collection, keep func(model.Record) bool) model.Records {
	out := model.Records{}
	for _, rec := range toSlice(c) {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// ByArea returns the records whose area_id is areaID. Hidden and disabled records
// are dropped unless includeHidden is set.
func ByArea(c Collection, areaID string, includeHidden bool) model.Records {
	inArea := filter(c, func(rec model.Record) bool {
		id, ok := rec["area_id"].(string)
		return ok && id == areaID
	})
	if includeHidden {
		return inArea
	}
	return RemoveHidden(inArea)
}

// ByPlatform returns the records whose platform is exactly platform.
func ByPlatform(c Collection, platform string) model.Records {
	return filter(c, func(rec model.Record) bool {
		p, ok := rec["platform"].(string)
		return ok && p == platform
	})
}

// ByIntegration is an alias of ByPlatform.
func ByIntegration(c Collection, integration string) model.Records {
	return ByPlatform(c, integration)
}

// ByProperties returns the records matching every path/value pair of filters.
// Paths use dot notation ("attributes.device_class"). Values compare strictly:
// same dynamic type and same value, so 1 does not match 1.0. A path that does not
// resolve never matches.
func ByProperties(c Collection, filters map[string]any) model.Records {
	return filter(c, func(rec model.Record) bool {
		for path, want := range filters {
			got, ok := NestedProperty(rec, path)
			if !ok || !strictEqual(got, want) {
				return false
			}
		}
		return true
	})
}

// ByDomainPrefix returns the entries of m whose key starts with "<domain>.".
func ByDomainPrefix(m model.MergedEntityMap, domain string) model.MergedEntityMap {
	prefix := domain + "."
	out := model.MergedEntityMap{}
	for id, rec := range m {
		if strings.HasPrefix(id, prefix) {
			out[id] = rec
		}
	}
	return out
}

// ExcludeAreas returns m without the area.<area_id> pseudo-entities.
func ExcludeAreas(m model.MergedEntityMap) model.MergedEntityMap {
	out := make(model.MergedEntityMap, len(m))
	for id, rec := range m {
		if !strings.HasPrefix(id, merge.AreaKeyPrefix) {
			out[id] = rec
		}
	}
	return out
}

// RemoveHidden drops records carrying a non-nil hidden_by or disabled_by.
func RemoveHidden(records []model.Record) model.Records {
	out := model.Records{}
	for _, rec := range records {
		if rec["hidden_by"] != nil || rec["disabled_by"] != nil {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// NestedProperty walks a dot separated path through nested maps. The boolean is
// false when any segment is missing or a non-map value is reached before the end.
func NestedProperty(rec model.Record, path string) (any, bool) {
	var cur any = rec
	for _, part := range strings.Split(path, ".") {
		var next any
		var ok bool
		switch v := cur.(type) {
		case model.Record:
			next, ok = v[part]
		case map[string]any:
			next, ok = v[part]
		}
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
