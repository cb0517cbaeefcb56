package strategy

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"magic-dashboard/internal/domain/model"
	"magic-dashboard/internal/domain/query"
	"magic-dashboard/internal/domain/registry"
)

// Plan lists the views of the dashboard: one per visible area ordered by floor
// level then name, then people, weather and temperature, and the error view for
// admins only.
func Plan(snapshot *model.Snapshot, cfg *model.Config) []ViewSpec {
	if snapshot == nil {
		snapshot = &model.Snapshot{}
	}

	var specs []ViewSpec
	for _, area := range sortedAreas(snapshot.Areas, snapshot.Floors) {
		if cfg.IsAreaHidden(area.AreaID) {
			continue
		}
		spec := ViewSpec{
			Type:  TypeArea,
			Title: area.Name,
			Path:  area.AreaID,
			Area:  &area,
		}
		if area.Icon != nil {
			spec.Icon = *area.Icon
		}
		specs = append(specs, spec)
	}

	// a missing weather entity gets the fallback icon
	var weatherState string
	if weatherID := cfg.WeatherEntity(); query.EntityExists(snapshot.States, weatherID) {
		weatherState = snapshot.States[weatherID].State
	}

	specs = append(specs,
		ViewSpec{Type: TypePeople, Title: "People", Path: "people", Icon: "mdi:card-account-details"},
		ViewSpec{Type: TypeWeather, Title: "Weather", Path: "weather", Icon: WeatherIcon(weatherState)},
		ViewSpec{Type: TypeTemperature, Title: "Temperature", Path: "temperature", Icon: "mdi:thermometer"},
	)
	if snapshot.User != nil && snapshot.User.IsAdmin {
		specs = append(specs, ViewSpec{Type: TypeError, Title: "Errors", Path: "errors", Icon: "mdi:alert-decagram"})
	}
	return specs
}

// Build plans the dashboard and runs every view through its strategy.
func (f *Factory) Build(snapshot *model.Snapshot, merged model.MergedEntityMap, cfg *model.Config) *model.Dashboard {
	specs := Plan(snapshot, cfg)
	dashboard := &model.Dashboard{Views: make([]model.View, 0, len(specs))}
	for _, spec := range specs {
		s, ok := f.GetStrategy(spec.Type)
		if !ok {
			dashboard.Views = append(dashboard.Views, header(spec))
			continue
		}
		dashboard.Views = append(dashboard.Views, s.Generate(Input{Spec: spec, Merged: merged, Config: cfg}))
	}
	return dashboard
}

func sortedAreas(areas []model.Area, floors []model.Floor) []model.Area {
	levels := registry.FloorLevels(floors)
	level := func(a model.Area) int {
		if a.FloorID == nil {
			return 0
		}
		return levels[*a.FloorID]
	}

	col := collate.New(language.Und)
	sorted := append([]model.Area(nil), areas...)
	sort.SliceStable(sorted, func(i, j int) bool {
		li, lj := level(sorted[i]), level(sorted[j])
		if li != lj {
			return li < lj
		}
		return col.CompareString(sorted[i].Name, sorted[j].Name) < 0
	})
	return sorted
}
