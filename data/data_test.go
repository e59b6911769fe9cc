package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReset(t *testing.T) {
	wd := CreateWeatherData()
	assert.True(t, wd.Empty())

	wd.WindDelta.Store(3)
	wd.Panel.Store(5.1)
	wd.WindGust.Store(16)
	assert.False(t, wd.Empty())

	wd.Reset()
	assert.True(t, wd.Empty())
	assert.Equal(t, uint32(0), wd.Panel.Count())
	assert.Equal(t, uint32(0), wd.WindGust.Count())
}
