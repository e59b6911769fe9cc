package sensors

import (
	"fmt"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

type sampler interface {
	Read() (analog.Sample, error)
}

// Voltage reads one ADC channel behind a resistor divider. Scale is the
// divider ratio, so the result is the voltage at the top of the divider.
type Voltage struct {
	Name  string
	pin   sampler
	scale float64
}

func NewVoltage(name string, pin sampler, scale float64) *Voltage {
	return &Voltage{Name: name, pin: pin, scale: scale}
}

func (v *Voltage) Read() (float64, error) {
	sample, err := v.pin.Read()
	if err != nil {
		return 0, fmt.Errorf("%s adc read failed: %w", v.Name, err)
	}
	return float64(sample.V) / float64(physic.Volt) * v.scale, nil
}
