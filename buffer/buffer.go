// Package buffer keeps the last few samples of a quantity in a fixed ring.
// Unlike the interval accumulators it is never cleared by a flush, so its
// statistics always cover the most recent window.
package buffer

import (
	"math"
	"sync"
)

type Average float64
type Minimum float64
type Maximum float64
type Sum float64

type SampleBuffer struct {
	position int
	size     int
	count    int
	sum      float64
	data     []float64
	lock     sync.Mutex
}

func NewBuffer(size int) *SampleBuffer {
	if size < 1 {
		size = 1
	}
	return &SampleBuffer{
		size: size,
		data: make([]float64, size),
	}
}

// AddItem stores val over the oldest sample once the ring is full.
func (b *SampleBuffer) AddItem(val float64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.sum = b.sum - b.data[b.position] + val
	b.data[b.position] = val
	b.position += 1
	if b.position == b.size {
		b.position = 0
	}
	if b.count < b.size {
		b.count += 1
	}
}

func (b *SampleBuffer) Reset() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.position = 0
	b.count = 0
	b.sum = 0
	for i := range b.data {
		b.data[i] = 0
	}
}

func (b *SampleBuffer) Count() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.count
}

func (b *SampleBuffer) Full() bool {
	return b.Count() == b.size
}

func (b *SampleBuffer) GetSize() int {
	return b.size
}

// items returns the stored samples, oldest first.
func (b *SampleBuffer) items() []float64 {
	out := make([]float64, 0, b.count)
	index := b.position - b.count
	if index < 0 {
		// we are at the start of the array, so need to reverse wrap
		index += b.size
	}
	for i := 0; i < b.count; i++ {
		out = append(out, b.data[index])
		index += 1
		if index == b.size {
			index = 0
		}
	}
	return out
}

// GetAverageMinMaxSum covers the samples held, NaN while empty.
func (b *SampleBuffer) GetAverageMinMaxSum() (Average, Minimum, Maximum, Sum) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.count == 0 {
		return Average(math.NaN()), Minimum(math.NaN()), Maximum(math.NaN()), 0
	}
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, x := range b.items() {
		min = math.Min(min, x)
		max = math.Max(max, x)
	}
	return Average(b.sum / float64(b.count)), Minimum(min), Maximum(max), Sum(b.sum)
}

func (b *SampleBuffer) Average() Average {
	a, _, _, _ := b.GetAverageMinMaxSum()
	return a
}

// SoftAverage leaves out one minimum and one maximum sample. Needs three.
func (b *SampleBuffer) SoftAverage() Average {
	_, min, max, sum := b.GetAverageMinMaxSum()
	n := b.Count()
	if n < 3 {
		return Average(math.NaN())
	}
	return Average((float64(sum) - float64(min) - float64(max)) / float64(n-2))
}

func (b *SampleBuffer) GetLast() float64 {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.count == 0 {
		return math.NaN()
	}
	index := b.position - 1
	if index < 0 {
		index += b.size
	}
	return b.data[index]
}

func (v Average) Float64() float64 {
	return float64(v)
}
