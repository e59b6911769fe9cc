package accumulator

import "math"

type Average float64
type Minimum float64
type Maximum float64
type Sum float64

// Accumulator keeps count, sum and extremes of the samples stored during one
// reporting interval. Accessors return NaN while the accumulator is empty.
type Accumulator struct {
	sum   float64
	count uint32
	min   float64
	max   float64
}

func NewAccumulator() *Accumulator {
	a := &Accumulator{}
	a.Reset()
	return a
}

func (a *Accumulator) Store(val float64) {
	a.sum += val
	a.count += 1
	if a.count == 1 {
		a.min = val
		a.max = val
		return
	}
	a.min = math.Min(a.min, val)
	a.max = math.Max(a.max, val)
}

func (a *Accumulator) Reset() {
	a.sum = 0
	a.count = 0
	a.min = math.Inf(1)
	a.max = math.Inf(-1)
}

func (a *Accumulator) Count() uint32 {
	return a.count
}

func (a *Accumulator) Empty() bool {
	return a.count == 0
}

func (a *Accumulator) Sum() Sum {
	return Sum(a.sum)
}

func (a *Accumulator) Average() Average {
	if a.count == 0 {
		return Average(math.NaN())
	}
	return Average(a.sum / float64(a.count))
}

func (a *Accumulator) Minimum() Minimum {
	if a.count == 0 {
		return Minimum(math.NaN())
	}
	return Minimum(a.min)
}

func (a *Accumulator) Maximum() Maximum {
	if a.count == 0 {
		return Maximum(math.NaN())
	}
	return Maximum(a.max)
}

// SoftAverage drops the minimum and maximum before averaging, which takes out
// a single spike at either end. Needs at least three samples.
func (a *Accumulator) SoftAverage() Average {
	if a.count < 3 {
		return Average(math.NaN())
	}
	return Average((a.sum - a.min - a.max) / float64(a.count-2))
}

func (v Average) Float64() float64 {
	return float64(v)
}

func (v Minimum) Float64() float64 {
	return float64(v)
}

func (v Maximum) Float64() float64 {
	return float64(v)
}

func (v Sum) Float64() float64 {
	return float64(v)
}
