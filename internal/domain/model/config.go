package model

// DefaultWeatherEntityID is the weather entity used for the weather view icon
// when the config does not name one.
const DefaultWeatherEntityID = "weather.home"

type AreasConfig struct {
	Hide []string `json:"hide,omitempty"` // area_ids left out of the view list
}

type TemperatureConfig struct {
	// Areas restricts the temperature view to these area_ids. Empty means all areas.
	Areas []string `json:"areas,omitempty"`
}

// Config is the persisted dashboard configuration.
type Config struct {
	HassURL         string            `json:"hass_url"`
	HassToken       string            `json:"hass_token"`
	Debug           bool              `json:"debug,omitempty"`
	WeatherEntityID string            `json:"weather_entity_id,omitempty"`
	Areas           AreasConfig       `json:"areas"`
	Temperature     TemperatureConfig `json:"temperature"`
}

// IsAreaHidden reports whether the area is listed in areas.hide.
func (c *Config) IsAreaHidden(areaID string) bool {
	if c == nil {
		return false
	}
	for _, id := range c.Areas.Hide {
		if id == areaID {
			return true
		}
	}
	return false
}

// WeatherEntity returns the configured weather entity or the default one.
func (c *Config) WeatherEntity() string {
	if c == nil || c.WeatherEntityID == "" {
		return DefaultWeatherEntityID
	}
	return c.WeatherEntityID
}
