package led

import (
	"sync"
	"time"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

type LED struct {
	Name     string
	lock     sync.Mutex
	on       bool
	gpioPin  gpio.PinOut
	duration time.Duration
}

// NewLED looks the pin up by name. A missing pin gives an LED that does
// nothing, a dead LED is not worth stopping the node for.
func NewLED(name string, GPIOPin string, duration time.Duration) *LED {
	logger.Infof("Creating new LED on pin [%v] called [%v]", GPIOPin, name)
	p := gpioreg.ByName(GPIOPin)
	if p == nil {
		logger.Errorf("Failed to find %v pin", GPIOPin)
		return &LED{Name: name, duration: duration}
	}
	return NewLEDOnPin(name, p, duration)
}

func NewLEDOnPin(name string, pin gpio.PinOut, duration time.Duration) *LED {
	l := &LED{
		Name:     name,
		gpioPin:  pin,
		duration: duration,
	}
	_ = l.gpioPin.Out(gpio.Low)
	return l
}

func (l *LED) On() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.on = true
	if l.gpioPin != nil {
		_ = l.gpioPin.Out(gpio.High)
	}
}

func (l *LED) Off() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.on = false
	if l.gpioPin != nil {
		_ = l.gpioPin.Out(gpio.Low)
	}
}

// Flash inverts the LED for the flash duration.
func (l *LED) Flash() {
	if l.gpioPin == nil {
		return
	}
	if !l.lock.TryLock() {
		// a flash is already running, drop this one
		return
	}
	defer l.lock.Unlock()
	_ = l.gpioPin.Out(!gpio.Level(l.on))
	time.Sleep(l.duration)
	_ = l.gpioPin.Out(gpio.Level(l.on))
}

func (l *LED) IsOn() bool {
	return l.on
}
