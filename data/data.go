package data

import "github.com/gr-butler/sensornode/accumulator"

// holder for everything measured during one report interval

type WeatherData struct {
	WindDelta   *accumulator.Accumulator
	RainDelta   *accumulator.Accumulator
	WindGust    *accumulator.Accumulator // moving average of WindDelta
	Temperature *accumulator.Accumulator // humidity sensor
	Humidity    *accumulator.Accumulator
	BaroTemp    *accumulator.Accumulator
	Pressure    *accumulator.Accumulator
	Battery     *accumulator.Accumulator
	Panel       *accumulator.Accumulator
}

func CreateWeatherData() *WeatherData {
	return &WeatherData{
		WindDelta:   accumulator.NewAccumulator(),
		RainDelta:   accumulator.NewAccumulator(),
		WindGust:    accumulator.NewAccumulator(),
		Temperature: accumulator.NewAccumulator(),
		Humidity:    accumulator.NewAccumulator(),
		BaroTemp:    accumulator.NewAccumulator(),
		Pressure:    accumulator.NewAccumulator(),
		Battery:     accumulator.NewAccumulator(),
		Panel:       accumulator.NewAccumulator(),
	}
}

func (wd *WeatherData) all() []*accumulator.Accumulator {
	return []*accumulator.Accumulator{
		wd.WindDelta, wd.RainDelta, wd.WindGust,
		wd.Temperature, wd.Humidity,
		wd.BaroTemp, wd.Pressure,
		wd.Battery, wd.Panel,
	}
}

func (wd *WeatherData) Reset() {
	for _, a := range wd.all() {
		a.Reset()
	}
}

// Empty is true when nothing has been stored since the last reset.
func (wd *WeatherData) Empty() bool {
	for _, a := range wd.all() {
		if !a.Empty() {
			return false
		}
	}
	return true
}
