// Package merge combines the host registries and live states into one record
// per entity.
package merge

import (
	"strings"

	"magic-dashboard/internal/domain/model"
	"magic-dashboard/internal/domain/registry"
)

// AreaKeyPrefix namespaces area pseudo-entities in the merged map.
const AreaKeyPrefix = "area."

// DomainOf returns the part of an entity id before the first dot.
func DomainOf(entityID string) string {
	domain, _, _ := strings.Cut(entityID, ".")
	return domain
}

// AreaKey returns the merged map key of an area pseudo-entity.
func AreaKey(areaID string) string {
	return AreaKeyPrefix + areaID
}

// SkipNull merges layers left to right. A later layer overwrites a field only
// when its value is not nil, so nil never replaces known data.
func SkipNull(layers ...model.Record) model.Record {
	out := model.Record{}
	for _, layer := range layers {
		for k, v := range layer {
			if v != nil {
				out[k] = v
			}
		}
	}
	return out
}

// Merge builds the merged entity map for one generation cycle.
//
// Every entity_id present in the entity registry or in states gets exactly one
// record, layered as device -> {domain} -> registry entry -> state. Registries are
// not guaranteed to agree with each other, so a missing registry entry, device or
// state contributes nothing instead of failing. Areas are inserted last under
// area.<area_id>, verbatim, overwriting any entity that happens to share the key.
func Merge(areas []model.Area, devices []model.Device, entities []model.EntityEntry, states map[string]model.State) model.MergedEntityMap {
	devicesByID := registry.Devices(devices)
	entriesByID := registry.Entities(entities)

	ids := make(map[string]struct{}, len(entities)+len(states))
	for _, e := range entities {
		ids[e.EntityID] = struct{}{}
	}
	for id := range states {
		ids[id] = struct{}{}
	}

	merged := make(model.MergedEntityMap, len(ids)+len(areas))
	for id := range ids {
		var entry, device, state model.Record

		e, hasEntry := entriesByID[id]
		if hasEntry {
			entry = e.Record()
		}
		s, hasState := states[id]
		if hasState {
			state = s.Record()
		}

		if d, ok := lookupDevice(devicesByID, e, s, hasEntry, hasState); ok {
			device = d.Record()
		}

		merged[id] = SkipNull(device, model.Record{"domain": DomainOf(id)}, entry, state)
	}

	for _, area := range areas {
		merged[AreaKey(area.AreaID)] = area.Record()
	}

	return merged
}

// lookupDevice prefers the device linked from the registry entry and falls back
// to a device reference carried by the state.
func lookupDevice(devices map[string]model.Device, e model.EntityEntry, s model.State, hasEntry, hasState bool) (model.Device, bool) {
	if hasEntry && e.DeviceID != nil {
		if d, ok := devices[*e.DeviceID]; ok {
			return d, true
		}
	}
	if hasState {
		if ref := s.DeviceRef(); ref != "" {
			d, ok := devices[ref]
			return d, ok
		}
	}
	return model.Device{}, false
}
