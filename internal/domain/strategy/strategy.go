// Package strategy turns merged entity metadata into dashboard views.
//
// Each view type is produced by a Strategy registered in a Factory. Strategies only
// read the merged map through the query package; they never touch the registries.
package strategy

import "magic-dashboard/internal/domain/model"

// View strategy types, named after the custom strategy elements the dashboard host
// would otherwise load.
const (
	TypeArea        = "custom:magic-area"
	TypePeople      = "custom:magic-people"
	TypeWeather     = "custom:magic-weather"
	TypeTemperature = "custom:magic-temperature"
	TypeError       = "custom:magic-error"
)

// ViewSpec is the header of a view before its strategy fills it in.
type ViewSpec struct {
	Type  string
	Title string
	Path  string
	Icon  string
	Area  *model.Area
}

// Input is what a strategy gets to build one view.
type Input struct {
	Spec   ViewSpec
	Merged model.MergedEntityMap
	Config *model.Config
}

// Strategy builds one kind of view.
type Strategy interface {
	Generate(in Input) model.View
}

// header copies the ViewSpec fields every view carries.
func header(spec ViewSpec) model.View {
	return model.View{
		Title: spec.Title,
		Path:  spec.Path,
		Icon:  spec.Icon,
	}
}
