package strategy

type Factory struct {
	strategies map[string]Strategy
}

func NewFactory() *Factory {
	return &Factory{
		strategies: map[string]Strategy{
			TypeArea:        &AreaStrategy{},
			TypePeople:      &PeopleStrategy{},
			TypeWeather:     &WeatherStrategy{},
			TypeTemperature: &TemperatureStrategy{},
			TypeError:       &ErrorStrategy{},
		},
	}
}

// GetStrategy returns the strategy registered for viewType.
func (f *Factory) GetStrategy(viewType string) (Strategy, bool) {
	s, ok := f.strategies[viewType]
	return s, ok
}
