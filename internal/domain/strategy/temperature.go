package strategy

import (
	"magic-dashboard/internal/domain/model"
	"magic-dashboard/internal/domain/query"
)

const temperatureTitle = "Individual Area Thermometers"

type TemperatureStrategy struct{}

// Generate plots every area thermometer. Sensors without an area, restored
// sensors and Magic Areas aggregates are left out.
func (s *TemperatureStrategy) Generate(in Input) model.View {
	view := header(in.Spec)
	view.Type = "panel"
	view.Badges = []model.Badge{AlertBadge()}

	var allowed map[string]bool
	if in.Config != nil && len(in.Config.Temperature.Areas) > 0 {
		allowed = map[string]bool{}
		for _, id := range in.Config.Temperature.Areas {
			allowed[id] = true
		}
	}

	entities := []any{}
	for _, rec := range Thermometers(in.Merged) {
		if allowed != nil && !allowed[rec.String("area_id")] {
			continue
		}
		entities = append(entities, map[string]any{"entity": rec.EntityID()})
	}

	view.Cards = []model.Card{{
		"type":             "custom:plotly-graph",
		"title":            temperatureTitle,
		"entities":         entities,
		"hours_to_show":    24,
		"refresh_interval": 10,
	}}
	return view
}

// Thermometers returns the temperature sensors eligible for the temperature view.
func Thermometers(merged model.MergedEntityMap) model.Records {
	out := model.Records{}
	for _, rec := range query.ByProperties(merged, map[string]any{"attributes.device_class": "temperature"}) {
		if rec["area_id"] == nil {
			continue
		}
		if restored, _ := query.NestedProperty(rec, "attributes.restored"); restored == true {
			continue
		}
		if rec.String("platform") == "magic_areas" {
			continue
		}
		out = append(out, rec)
	}
	return out
}
