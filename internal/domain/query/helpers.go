package query

import "magic-dashboard/internal/domain/model"

// MagicAreaModel is the device model Magic Areas registers for each area.
const MagicAreaModel = "Magic Area"

// EntityExists reports whether the host has a live state for entityID.
func EntityExists(states map[string]model.State, entityID string) bool {
	_, ok := states[entityID]
	return ok
}

// FilterToMagicArea returns the registry entries belonging to the Magic Area
// device of areaID.
func FilterToMagicArea(devices []model.Device, entities []model.EntityEntry, areaID string) []model.EntityEntry {
	ids := map[string]struct{}{}
	for _, d := range devices {
		if d.AreaID == nil || *d.AreaID != areaID {
			continue
		}
		if d.Model == nil || *d.Model != MagicAreaModel {
			continue
		}
		ids[d.ID] = struct{}{}
	}

	var out []model.EntityEntry
	for _, e := range entities {
		if e.DeviceID == nil {
			continue
		}
		if _, ok := ids[*e.DeviceID]; ok {
			out = append(out, e)
		}
	}
	return out
}
