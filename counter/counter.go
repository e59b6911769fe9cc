// Package counter turns the running count of a free running hardware event
// counter into per tick increments.
package counter

import (
	"errors"

	"github.com/gr-butler/sensornode/accumulator"
)

var ErrZeroModulus = errors.New("counter modulus must be positive")

// DeltaReader holds the previous raw count of one counter. The modulus is the
// value at which the hardware rolls over to zero.
//
// An increment of a full modulus or more between two reads can not be seen and
// comes out short.
type DeltaReader struct {
	modulus  uint32
	previous uint32
}

func NewDeltaReader(modulus uint32) (*DeltaReader, error) {
	if modulus == 0 {
		return nil, ErrZeroModulus
	}
	return &DeltaReader{modulus: modulus}, nil
}

// Prime sets the previous count without producing a delta, so the first tick
// after boot does not report everything counted before it.
func (d *DeltaReader) Prime(current uint32) {
	d.previous = current % d.modulus
}

func (d *DeltaReader) Delta(current uint32) uint32 {
	current %= d.modulus
	delta := int64(current) - int64(d.previous)
	if delta < 0 {
		delta += int64(d.modulus)
	}
	d.previous = current
	return uint32(delta)
}

// Feed stores the delta for current into acc and returns it.
func (d *DeltaReader) Feed(current uint32, acc *accumulator.Accumulator) uint32 {
	delta := d.Delta(current)
	acc.Store(float64(delta))
	return delta
}

func (d *DeltaReader) Previous() uint32 {
	return d.previous
}

func (d *DeltaReader) Modulus() uint32 {
	return d.modulus
}
