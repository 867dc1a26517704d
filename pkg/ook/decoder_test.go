package ook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feeder drives a decoder with durations instead of timestamps.
type feeder struct {
	d   *Decoder
	now uint32
}

func newFeeder(start uint32) *feeder {
	d := NewDecoder(DefaultRingSize)
	d.last = start
	return &feeder{d: d, now: start}
}

func (f *feeder) edge(durations ...uint32) {
	for _, duration := range durations {
		f.now += duration
		f.d.OnEdge(f.now)
	}
}

// transmit sends the bits between two pauses the way a transmitter does:
// one edge per bit, the last bit runs into the post pause.
func (f *feeder) transmit(bits string, timing BitTiming, pause uint32) {
	f.edge(pause)
	for i := 0; i < len(bits)-1; i++ {
		f.edge(timing[bits[i]-'0'])
	}
	f.edge(timing[bits[len(bits)-1]-'0'] + pause)
}

func TestDecoderHomeEasyV1A(t *testing.T) {
	f := newFeeder(0)
	f.transmit(v1aBits, BitTiming{292, 980}, 8800)

	assert.Equal(t, Stats{Completed: 1}, f.d.Stats())

	c, ok := f.d.Pop()
	require.True(t, ok)
	assert.True(t, c.Valid())
	assert.Equal(t, 47, c.Len())
	assert.Equal(t, [2]uint32{292, 980}, c.PreambleTime)
	assert.Equal(t, uint32(8800), c.PrePauseTime)
	assert.Equal(t, uint32(980+8800), c.PostPauseTime)
	assert.Equal(t, uint32(31800), c.Duration)
	assert.True(t, c.PrePauseStandalone)
	assert.True(t, c.PostPausePresent)

	require.True(t, c.Finalise())
	assert.Equal(t, "565655665666+5", c.String())

	r := c.Record()
	require.NotNil(t, r.Decode)
	require.NotNil(t, r.Decode.HomeEasyV1A)
	assert.Nil(t, r.Decode.HomeEasyV2A)
	assert.Equal(t, uint32(292), r.ZeroBitDuration)
	assert.Equal(t, uint32(980), r.OneBitDuration)
	assert.Equal(t, `{code: "565655665666+5",duration: 31800,prePause: "standalone",postPause: "present",`+
		`prePauseTime: 8800,postPauseTime: 9780,zeroBitDuration: 292,oneBitDuration: 980,`+
		`decode: {HomeEasyV1A: {code: "010100110111",group: 5,device: 3,action: "on"}}}`, r.String())

	_, ok = f.d.Pop()
	assert.False(t, ok)
}

func TestDecoderRepeats(t *testing.T) {
	f := newFeeder(0)
	timing := BitTiming{292, 980}

	f.edge(8800)
	for n := 0; n < 3; n++ {
		for i := 0; i < len(v1aBits)-1; i++ {
			f.edge(timing[v1aBits[i]-'0'])
		}
		f.edge(timing[1] + 8800)
	}

	assert.Equal(t, Stats{Completed: 3}, f.d.Stats())

	for n := 0; n < 3; n++ {
		c, ok := f.d.Pop()
		require.True(t, ok)
		// only the first code follows a standalone pause, the others follow the previous code
		assert.Equal(t, n == 0, c.PrePauseStandalone)
		require.True(t, c.Finalise())
		assert.Equal(t, "565655665666+5", c.String())
	}
}

func TestDecoderMinLength(t *testing.T) {
	pattern := strings.Repeat("0110", 20)

	// 44 sampled bits
	f := newFeeder(0)
	f.transmit(pattern[:MinLength+2], BitTiming{300, 900}, 10000)
	assert.Equal(t, Stats{TooShort: 1}, f.d.Stats())
	_, ok := f.d.Pop()
	assert.False(t, ok)

	// 45 sampled bits
	f = newFeeder(0)
	f.transmit(pattern[:MinLength+3], BitTiming{300, 900}, 10000)
	assert.Equal(t, Stats{Completed: 1}, f.d.Stats())
	c, ok := f.d.Pop()
	require.True(t, ok)
	assert.Equal(t, MinLength, c.Len())
}

func TestDecoderMaxLength(t *testing.T) {
	pattern := strings.Repeat("0110", 60)

	f := newFeeder(0)
	f.transmit(pattern[:MaxLength+3], BitTiming{300, 900}, 10000)
	assert.Equal(t, Stats{Completed: 1}, f.d.Stats())
	c, ok := f.d.Pop()
	require.True(t, ok)
	assert.Equal(t, MaxLength, c.Len())

	f = newFeeder(0)
	f.transmit(pattern[:MaxLength+4], BitTiming{300, 900}, 10000)
	assert.Equal(t, Stats{Aborted: 1}, f.d.Stats())
	_, ok = f.d.Pop()
	assert.False(t, ok)
}

func TestDecoderLearnsInvertedStart(t *testing.T) {
	// the first sampled bits are 1-bits, they are learned as 0-bits until the first real 0-bit
	bits := "01" + "1110" + strings.Repeat("0110", 11) + "0"

	f := newFeeder(0)
	f.transmit(bits, BitTiming{300, 900}, 10000)

	c, ok := f.d.Pop()
	require.True(t, ok)
	assert.Equal(t, bits[2:len(bits)-1], c.Bits())
	assert.Equal(t, [2]uint32{23 * 300, 25 * 900}, c.BitTotalTime)
	assert.Equal(t, BitTiming{300, 900}, c.BitTime())
}

func TestDecoderAbortsInvalidDuration(t *testing.T) {
	timing := BitTiming{292, 980}

	f := newFeeder(0)
	f.edge(8800)
	for i := 0; i < 20; i++ {
		f.edge(timing[v1aBits[i]-'0'])
	}
	// neither a 0-bit nor a 1-bit nor a pause
	f.edge(2000)

	assert.Equal(t, Stats{Aborted: 1}, f.d.Stats())
	assert.Nil(t, f.d.code)
}

func TestDecoderRestartAfterAbort(t *testing.T) {
	timing := BitTiming{292, 980}

	tests := []struct {
		name  string
		bits  int
		pause uint32
	}{
		// too long for a calibration sample
		{name: "calibrating", bits: 5, pause: 8800},
		// outside the pause range of the first message
		{name: "decoding", bits: 20, pause: 4200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFeeder(0)
			f.edge(8800)
			for i := 0; i < tt.bits; i++ {
				f.edge(timing[v1aBits[i]-'0'])
			}

			// the aborting duration is the pause in front of the next message
			f.transmit(v1aBits, timing, tt.pause)

			assert.Equal(t, Stats{Aborted: 1, Completed: 1}, f.d.Stats())

			c, ok := f.d.Pop()
			require.True(t, ok)
			assert.Equal(t, tt.pause, c.PrePauseTime)
			assert.True(t, c.PrePauseStandalone)
			require.True(t, c.Finalise())
			assert.Equal(t, "565655665666+5", c.String())

			_, ok = f.d.Pop()
			assert.False(t, ok)
		})
	}
}

func TestDecoderTimestampWrap(t *testing.T) {
	f := newFeeder(^uint32(0) - 20000)
	f.transmit(v1aBits, BitTiming{292, 980}, 8800)

	c, ok := f.d.Pop()
	require.True(t, ok)
	assert.Equal(t, uint32(31800), c.Duration)
	require.True(t, c.Finalise())
	assert.Equal(t, "565655665666+5", c.String())
}

func TestDecoderIgnoresNoise(t *testing.T) {
	f := newFeeder(0)
	f.edge(50, 3000, 120, 20, 700, 1500)

	assert.Equal(t, Stats{}, f.d.Stats())
	_, ok := f.d.Pop()
	assert.False(t, ok)
}

func TestDecoderDropsOldest(t *testing.T) {
	d := NewDecoder(2)
	f := &feeder{d: d}
	timing := BitTiming{292, 980}

	f.edge(8800)
	for n := 0; n < 3; n++ {
		for i := 0; i < len(v1aBits)-1; i++ {
			f.edge(timing[v1aBits[i]-'0'])
		}
		f.edge(timing[1] + 8800)
	}

	assert.Equal(t, Stats{Completed: 3, Dropped: 1}, d.Stats())

	c, ok := d.Pop()
	require.True(t, ok)
	assert.False(t, c.PrePauseStandalone)
	_, ok = d.Pop()
	assert.True(t, ok)
	_, ok = d.Pop()
	assert.False(t, ok)
}
