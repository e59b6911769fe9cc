package sensors

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// senser is satisfied by the periph environmental drivers (bmxx80.Dev).
type senser interface {
	Sense(e *physic.Env) error
}

// ReadFunc adapts a function to a scalar sensor.
type ReadFunc func() (float64, error)

func (f ReadFunc) Read() (float64, error) {
	return f()
}

type Atmosphere struct {
	Name string
	dev  senser
}

func NewAtmosphere(name string, dev senser) *Atmosphere {
	return &Atmosphere{Name: name, dev: dev}
}

func (a *Atmosphere) sense() (physic.Env, error) {
	em := physic.Env{}
	if a.dev == nil {
		return em, fmt.Errorf("%s not initialised", a.Name)
	}
	if err := a.dev.Sense(&em); err != nil {
		return em, fmt.Errorf("%s read failed: %w", a.Name, err)
	}
	return em, nil
}

// Temperature in C.
func (a *Atmosphere) Temperature() ReadFunc {
	return func() (float64, error) {
		em, err := a.sense()
		if err != nil {
			return 0, err
		}
		return em.Temperature.Celsius(), nil
	}
}

// Humidity in %RH.
func (a *Atmosphere) Humidity() ReadFunc {
	return func() (float64, error) {
		em, err := a.sense()
		if err != nil {
			return 0, err
		}
		return float64(em.Humidity) / float64(physic.PercentRH), nil
	}
}

// Pressure in hPa.
func (a *Atmosphere) Pressure() ReadFunc {
	return func() (float64, error) {
		em, err := a.sense()
		if err != nil {
			return 0, err
		}
		return float64(em.Pressure) / float64(100*physic.Pascal), nil
	}
}
