package strategy

import "magic-dashboard/internal/domain/model"

const defaultWeatherIcon = "mdi:weather-sunny"

var validWeatherIcons = map[string]bool{
	"mdi:weather-sunny":              true,
	"mdi:weather-cloudy":             true,
	"mdi:weather-rainy":              true,
	"mdi:weather-lightning":          true,
	"mdi:weather-snowy":              true,
	"mdi:weather-fog":                true,
	"mdi:weather-windy":              true,
	"mdi:weather-hail":               true,
	"mdi:weather-partly-cloudy":      true,
	"mdi:weather-sunset":             true,
	"mdi:weather-night":              true,
	"mdi:weather-tornado":            true,
	"mdi:weather-hurricane":          true,
	"mdi:weather-snowy-rainy":        true,
	"mdi:weather-lightning-rainy":    true,
	"mdi:weather-sunny-off":          true,
	"mdi:weather-cloudy-alert":       true,
	"mdi:weather-partly-snowy-rainy": true,
}

// WeatherIcon maps a weather state to its mdi icon, falling back to sunny for
// states without one.
func WeatherIcon(state string) string {
	icon := "mdi:weather-" + state
	if validWeatherIcons[icon] {
		return icon
	}
	return defaultWeatherIcon
}

type WeatherStrategy struct{}

func (s *WeatherStrategy) Generate(in Input) model.View {
	const maxColumns = 2
	entityID := in.Config.WeatherEntity()

	view := header(in.Spec)
	view.Type = "sections"
	view.MaxColumns = maxColumns
	view.Badges = []model.Badge{AlertBadge()}

	daily := model.Card{
		"type":          "custom:clock-weather-card",
		"entity":        entityID,
		"show_humidity": true,
		"forecast_rows": 7,
	}
	hourly := model.Card{
		"type":               "custom:clock-weather-card",
		"entity":             entityID,
		"show_humidity":      false,
		"hide_today_section": true,
		"hourly_forecast":    true,
		"forecast_rows":      24,
		"visibility":         []any{HideOnMobile()},
	}

	view.Sections = appendGrid(view.Sections, NewGrid([]model.Card{daily}, maxColumns))
	view.Sections = appendGrid(view.Sections, NewGrid([]model.Card{hourly}, 0))
	return view
}
