package ook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPauseRange(t *testing.T) {
	min, max := PauseRange(8800)
	assert.Equal(t, uint32(4400), min)
	assert.Equal(t, uint32(35200), max)

	// the lower bound never drops below the minimum pause
	min, max = PauseRange(MinPauseUS)
	assert.Equal(t, uint32(MinPauseUS), min)
	assert.Equal(t, uint32(16000), max)

	_, max = PauseRange(math.MaxUint32)
	assert.Equal(t, uint32(math.MaxUint32), max)
}

func TestLooksLonger(t *testing.T) {
	assert.True(t, LooksLonger(980, 292))
	assert.True(t, LooksLonger(175, 100))
	assert.False(t, LooksLonger(174, 100))
	assert.False(t, LooksLonger(292, 980))
}

func TestClassifyPreamble(t *testing.T) {
	timing := BitTiming{200, 1000}

	tests := []struct {
		d    uint32
		want PreambleType
	}{
		{d: 99, want: PreambleShort},
		{d: 100, want: PreambleZero},
		{d: 300, want: PreambleZero},
		{d: 400, want: PreambleMedium},
		{d: 500, want: PreambleOne},
		{d: 1500, want: PreambleOne},
		{d: 1501, want: PreambleLong},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyPreamble(tt.d, timing), "duration %d", tt.d)
	}
}

func TestBitTiming(t *testing.T) {
	timing := BitTiming{292, 980}

	assert.True(t, timing.Known())
	assert.Equal(t, uint32(146), timing.MinZero())
	assert.Equal(t, uint32(438), timing.MaxZero())
	assert.Equal(t, uint32(490), timing.MinOne())
	assert.Equal(t, uint32(1470), timing.MaxOne())

	assert.False(t, BitTiming{292, 0}.Known())
}
