package accumulator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	acc := NewAccumulator()

	acc.Store(1)
	acc.Store(10)
	acc.Store(5)

	assert.Equal(t, uint32(3), acc.Count())
	assert.Equal(t, Sum(16), acc.Sum())
	assert.Equal(t, Minimum(1), acc.Minimum())
	assert.Equal(t, Maximum(10), acc.Maximum())
	assert.InDelta(t, 16.0/3.0, acc.Average().Float64(), 1e-12)

	acc.Store(-4.1)
	assert.Equal(t, Minimum(-4.1), acc.Minimum())
	assert.Equal(t, Maximum(10), acc.Maximum())
}

func TestFirstSampleSetsExtremes(t *testing.T) {
	acc := NewAccumulator()
	acc.Store(-20)

	assert.Equal(t, Minimum(-20), acc.Minimum())
	assert.Equal(t, Maximum(-20), acc.Maximum())
	assert.Equal(t, Average(-20), acc.Average())
}

func TestRandomSequences(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for run := 0; run < 200; run++ {
		n := 1 + r.Intn(100)
		samples := make([]float64, n)
		acc := NewAccumulator()
		sum := 0.0
		mn := math.Inf(1)
		mx := math.Inf(-1)
		for i := range samples {
			samples[i] = (r.Float64() - 0.5) * 2000
			acc.Store(samples[i])
			sum += samples[i]
			mn = math.Min(mn, samples[i])
			mx = math.Max(mx, samples[i])
		}
		require.Equal(t, uint32(n), acc.Count())
		require.InDelta(t, sum/float64(n), acc.Average().Float64(), 1e-9)
		require.Equal(t, mn, acc.Minimum().Float64())
		require.Equal(t, mx, acc.Maximum().Float64())
		for _, s := range samples {
			require.LessOrEqual(t, acc.Minimum().Float64(), s)
			require.GreaterOrEqual(t, acc.Maximum().Float64(), s)
		}
	}
}

func TestEmpty(t *testing.T) {
	acc := NewAccumulator()

	assert.True(t, acc.Empty())
	assert.Equal(t, uint32(0), acc.Count())
	assert.Equal(t, Sum(0), acc.Sum())
	assert.True(t, math.IsNaN(acc.Average().Float64()))
	assert.True(t, math.IsNaN(acc.Minimum().Float64()))
	assert.True(t, math.IsNaN(acc.Maximum().Float64()))
}

func TestResetIsNotAZeroSample(t *testing.T) {
	acc := NewAccumulator()
	acc.Store(3)
	acc.Store(7)
	acc.Reset()

	assert.True(t, acc.Empty())
	assert.True(t, math.IsNaN(acc.Average().Float64()))

	zero := NewAccumulator()
	zero.Store(0)
	assert.False(t, zero.Empty())
	assert.Equal(t, Average(0), zero.Average())
	assert.Equal(t, Minimum(0), zero.Minimum())

	// a reset accumulator starts over, no stale extremes
	acc.Store(100)
	assert.Equal(t, Minimum(100), acc.Minimum())
	assert.Equal(t, Maximum(100), acc.Maximum())
}

func TestSoftAverage(t *testing.T) {
	acc := NewAccumulator()
	acc.Store(2)
	acc.Store(50)
	assert.True(t, math.IsNaN(acc.SoftAverage().Float64()))

	acc.Store(4)
	acc.Store(6)
	acc.Store(-30)
	// drops -30 and 50
	assert.Equal(t, Average(4), acc.SoftAverage())
}
