package merge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"magic-dashboard/internal/domain/model"
)

func ptr[T any](v T) *T { return &v }

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "light", DomainOf("light.kitchen_1"))
	assert.Equal(t, "sensor", DomainOf("sensor.a.b"))
	assert.Equal(t, "nodot", DomainOf("nodot"))
	assert.Equal(t, "", DomainOf(""))
}

func TestSkipNull(t *testing.T) {
	result := SkipNull(
		model.Record{"a": 1, "b": nil},
		model.Record{"b": 2, "c": 3},
		nil,
		model.Record{"a": nil, "c": "x"},
	)
	assert.Equal(t, model.Record{"a": 1, "b": 2, "c": "x"}, result)
}

func TestSkipNull_LaterNonNilWins(t *testing.T) {
	l1 := model.Record{"f": "one", "g": "keep"}
	l2 := model.Record{"f": "two", "g": nil}

	result := SkipNull(l1, l2)

	assert.Equal(t, "two", result["f"])
	assert.Equal(t, "keep", result["g"])
	// inputs untouched
	assert.Equal(t, "one", l1["f"])
}

func TestMerge_Scenario(t *testing.T) {
	areas := []model.Area{{AreaID: "kitchen", Name: "Kitchen"}}
	entities := []model.EntityEntry{{EntityID: "light.kitchen_1", DeviceID: nil}}
	states := map[string]model.State{
		"light.kitchen_1": {State: "on", Attributes: map[string]any{}},
		"zone.home":       {State: "zoning", Attributes: map[string]any{}},
	}

	merged := Merge(areas, []model.Device{}, entities, states)

	assert.ElementsMatch(t, []string{"light.kitchen_1", "zone.home", "area.kitchen"}, merged.Keys())
	assert.Equal(t, "light", merged["light.kitchen_1"]["domain"])
	assert.Equal(t, "light.kitchen_1", merged["light.kitchen_1"]["entity_id"])
	assert.Equal(t, "on", merged["light.kitchen_1"]["state"])
	assert.Equal(t, "zone", merged["zone.home"]["domain"])
	assert.Equal(t, "zoning", merged["zone.home"]["state"])
	assert.Equal(t, "Kitchen", merged["area.kitchen"]["name"])
}

func TestMerge_BlankStringsDoNotOverwrite(t *testing.T) {
	entities := []model.EntityEntry{{EntityID: "light.kitchen_1", AreaID: ptr("kitchen")}}
	states := map[string]model.State{
		"light.kitchen_1": {State: "on", Attributes: map[string]any{}},
	}

	rec := Merge(nil, nil, entities, states)["light.kitchen_1"]

	assert.Equal(t, "light.kitchen_1", rec["entity_id"])
	assert.Equal(t, "kitchen", rec["area_id"])
	// no platform on the entry means no platform field at all
	assert.NotContains(t, rec, "platform")

	noState := Merge(nil, nil, []model.EntityEntry{{EntityID: "switch.a", Platform: "zha"}},
		map[string]model.State{"switch.a": {Attributes: map[string]any{}}})["switch.a"]
	assert.Equal(t, "switch.a", noState["entity_id"])
	assert.NotContains(t, noState, "state")
}

func TestMerge_EveryIDExactlyOnceWithDomain(t *testing.T) {
	entities := []model.EntityEntry{
		{EntityID: "light.a"},
		{EntityID: "switch.b"},
		{EntityID: "light.a"},
	}
	states := map[string]model.State{
		"switch.b":        {EntityID: "switch.b", State: "off"},
		"sensor.c":        {EntityID: "sensor.c", State: "12"},
		"binary_sensor.d": {EntityID: "binary_sensor.d", State: "on"},
	}

	merged := Merge(nil, nil, entities, states)

	require.Len(t, merged, 4)
	for _, id := range []string{"light.a", "switch.b", "sensor.c", "binary_sensor.d"} {
		rec, ok := merged[id]
		require.True(t, ok, id)
		assert.Equal(t, DomainOf(id), rec["domain"], id)
	}
}

func TestMerge_NullNeverOverwrites(t *testing.T) {
	devices := []model.Device{{ID: "dev1", Manufacturer: ptr("Acme"), Model: ptr("X1"), AreaID: ptr("office")}}
	entities := []model.EntityEntry{{
		EntityID: "sensor.temp",
		DeviceID: ptr("dev1"),
		Platform: "zha",
		Extra:    map[string]any{"manufacturer": nil},
	}}

	merged := Merge(nil, devices, entities, nil)

	rec := merged["sensor.temp"]
	assert.Equal(t, "Acme", rec["manufacturer"])
	assert.Equal(t, "X1", rec["model"])
	// entry area_id is nil, device area shows through
	assert.Equal(t, "office", rec["area_id"])
	assert.Equal(t, "zha", rec["platform"])
	assert.NotContains(t, rec, "hidden_by")
	assert.NotContains(t, rec, "disabled_by")
}

func TestMerge_Precedence(t *testing.T) {
	devices := []model.Device{{ID: "dev1", Name: ptr("Device name"), AreaID: ptr("office")}}
	entities := []model.EntityEntry{{
		EntityID: "light.desk",
		DeviceID: ptr("dev1"),
		AreaID:   ptr("kitchen"),
		Name:     ptr("Entry name"),
	}}
	states := map[string]model.State{
		"light.desk": {
			EntityID:   "light.desk",
			State:      "on",
			Attributes: map[string]any{"brightness": 200.0},
			Extra:      map[string]any{"name": "State name", "domain": "bogus"},
		},
	}

	rec := Merge(nil, devices, entities, states)["light.desk"]

	assert.Equal(t, "kitchen", rec["area_id"])
	assert.Equal(t, "State name", rec["name"])
	assert.Equal(t, "dev1", rec["id"])
	// state layer is last, so even domain can be overwritten by a non-nil value
	assert.Equal(t, "bogus", rec["domain"])
	assert.Equal(t, map[string]any{"brightness": 200.0}, rec["attributes"])
}

func TestMerge_DeviceFromStateReference(t *testing.T) {
	devices := []model.Device{
		{ID: "top", Manufacturer: ptr("Top")},
		{ID: "attr", Manufacturer: ptr("Attr")},
	}
	states := map[string]model.State{
		"sensor.top":  {EntityID: "sensor.top", Extra: map[string]any{"device_id": "top"}},
		"sensor.attr": {EntityID: "sensor.attr", Attributes: map[string]any{"device_id": "attr"}},
		"sensor.none": {EntityID: "sensor.none", Attributes: map[string]any{"device_id": "missing"}},
	}
	entities := []model.EntityEntry{
		// registry device reference is dangling, so the state reference is used
		{EntityID: "sensor.attr", DeviceID: ptr("gone")},
	}

	merged := Merge(nil, devices, entities, states)

	assert.Equal(t, "Top", merged["sensor.top"]["manufacturer"])
	assert.Equal(t, "Attr", merged["sensor.attr"]["manufacturer"])
	assert.NotContains(t, merged["sensor.none"], "manufacturer")
}

func TestMerge_AreaOverwritesCollidingKey(t *testing.T) {
	areas := []model.Area{{AreaID: "kitchen", Name: "Kitchen", Icon: ptr("mdi:fridge")}}
	states := map[string]model.State{
		"area.kitchen": {EntityID: "area.kitchen", State: "weird"},
	}

	merged := Merge(areas, nil, nil, states)

	require.Len(t, merged, 1)
	rec := merged["area.kitchen"]
	assert.Equal(t, "kitchen", rec["area_id"])
	assert.Equal(t, "mdi:fridge", rec["icon"])
	assert.NotContains(t, rec, "state")
	// verbatim: nil floor_id kept
	assert.Contains(t, rec, "floor_id")
	assert.Nil(t, rec["floor_id"])
}

func TestMerge_EmptyInputs(t *testing.T) {
	merged := Merge(nil, nil, nil, nil)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}

func TestMerge_Idempotent(t *testing.T) {
	areas := []model.Area{{AreaID: "office", Name: "Office"}}
	devices := []model.Device{{ID: "d", Manufacturer: ptr("Acme")}}
	entities := []model.EntityEntry{{EntityID: "fan.office", DeviceID: ptr("d"), AreaID: ptr("office")}}
	states := map[string]model.State{"fan.office": {EntityID: "fan.office", State: "on"}}

	first := Merge(areas, devices, entities, states)
	second := Merge(areas, devices, entities, states)

	assert.Equal(t, first, second)
}

func TestMerge_FromHostJSON(t *testing.T) {
	var entities []model.EntityEntry
	require.NoError(t, json.Unmarshal([]byte(`[
		{"entity_id": "binary_sensor.office_occupancy", "device_id": null, "area_id": "office",
		 "platform": "magic_areas", "hidden_by": null, "disabled_by": null, "unique_id": "abc"}
	]`), &entities))
	var state model.State
	require.NoError(t, json.Unmarshal([]byte(`{
		"entity_id": "binary_sensor.office_occupancy", "state": "on",
		"attributes": {"device_class": "occupancy", "type": "area"},
		"last_changed": "2024-01-01T00:00:00+00:00", "context": {"id": "ctx"}
	}`), &state))

	rec := Merge(nil, nil, entities, map[string]model.State{state.EntityID: state})[state.EntityID]

	assert.Equal(t, "abc", rec["unique_id"])
	assert.Equal(t, map[string]any{"id": "ctx"}, rec["context"])
	assert.Equal(t, "2024-01-01T00:00:00+00:00", rec["last_changed"])
	assert.NotContains(t, rec, "last_updated")
	assert.Equal(t, "occupancy", rec.Attributes()["device_class"])
}
