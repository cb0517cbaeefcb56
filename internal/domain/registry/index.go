// Package registry builds lookup tables over registry collections.
package registry

import "magic-dashboard/internal/domain/model"

// IndexBy maps key(record) to record. When two records share a key the later one
// wins. A nil slice yields an empty map.
func IndexBy[T any](records []T, key func(T) string) map[string]T {
	index := make(map[string]T, len(records))
	for _, r := range records {
		index[key(r)] = r
	}
	return index
}

// IndexRecords is IndexBy for loosely typed records, keyed by the value of field.
// Records whose field is missing or not a string are indexed under "".
func IndexRecords(records []model.Record, field string) map[string]model.Record {
	return IndexBy(records, func(r model.Record) string {
		return r.String(field)
	})
}

// Devices indexes devices by id.
func Devices(devices []model.Device) map[string]model.Device {
	return IndexBy(devices, func(d model.Device) string { return d.ID })
}

// Entities indexes entity registry entries by entity_id.
func Entities(entities []model.EntityEntry) map[string]model.EntityEntry {
	return IndexBy(entities, func(e model.EntityEntry) string { return e.EntityID })
}

// Areas indexes areas by area_id.
func Areas(areas []model.Area) map[string]model.Area {
	return IndexBy(areas, func(a model.Area) string { return a.AreaID })
}

// FloorLevels maps floor_id to level. Floors without a level sit at 0.
func FloorLevels(floors []model.Floor) map[string]int {
	levels := make(map[string]int, len(floors))
	for _, f := range floors {
		if f.Level != nil {
			levels[f.FloorID] = *f.Level
		} else {
			levels[f.FloorID] = 0
		}
	}
	return levels
}
