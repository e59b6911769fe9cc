package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestFlashRestoresState(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO19", L: gpio.High}
	l := NewLEDOnPin("activity", pin, 0)
	assert.Equal(t, gpio.Low, pin.Read())

	l.Flash()
	assert.Equal(t, gpio.Low, pin.Read())

	l.On()
	assert.True(t, l.IsOn())
	l.Flash()
	assert.Equal(t, gpio.High, pin.Read())

	l.Off()
	assert.Equal(t, gpio.Low, pin.Read())
}

func TestMissingPin(t *testing.T) {
	l := NewLED("activity", "NO_SUCH_PIN", 0)
	l.Flash()
	l.On()
	assert.True(t, l.IsOn())
}
