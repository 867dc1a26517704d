package ook

import "math"

// All relative durations are the numerator of a fraction with Divisor as
// denominator. Divisor is a power of 2 so the scaling is a shift.
const (
	Divisor = 1 << 3

	// relative to the learned bit durations
	MinZeroDuration = 4
	MaxZeroDuration = 12
	MinOneDuration  = 4
	MaxOneDuration  = 12

	// MinRelativeDuration is the minimum size of a 1-bit relative to a 0-bit.
	MinRelativeDuration = 14

	// PreambleRelativeDuration is the minimum size of the second preamble
	// pulse relative to the first one for them to be a real preamble.
	PreambleRelativeDuration = 64

	// relative to the pre pause duration
	MinPostPauseDuration = 4
	MaxPostPauseDuration = 32
)

// Absolute limits in microseconds.
const (
	// MinPauseUS is the minimum pause that starts a message.
	MinPauseUS = 4000

	MinBitUS = 100
	MaxBitUS = 5000
)

// Sampling limits in bits.
const (
	// MinSamples is the number of bits sampled before the learned durations are checked.
	MinSamples = 8
	// MaxSamples is the number of bits after which a message without a known 1-bit is dropped.
	MaxSamples = 32
)

// BitTiming holds the learned durations of a 0-bit and a 1-bit in microseconds.
// A zero value means unknown.
type BitTiming [2]uint32

// MinZero is the shortest duration accepted as 0-bit.
func (t BitTiming) MinZero() uint32 { return scale(t[0], MinZeroDuration) }

// MaxZero is the longest duration accepted as 0-bit.
func (t BitTiming) MaxZero() uint32 { return scale(t[0], MaxZeroDuration) }

// MinOne is the shortest duration accepted as 1-bit.
func (t BitTiming) MinOne() uint32 { return scale(t[1], MinOneDuration) }

// MaxOne is the longest duration accepted as 1-bit.
func (t BitTiming) MaxOne() uint32 { return scale(t[1], MaxOneDuration) }

// Known reports whether both durations have been learned.
func (t BitTiming) Known() bool {
	return t[0] != 0 && t[1] != 0
}

// PauseRange returns the range of durations accepted as the pause ending a
// message that started after a pause of prePause.
func PauseRange(prePause uint32) (min, max uint32) {
	min = scale(prePause, MinPostPauseDuration)
	if min < MinPauseUS {
		min = MinPauseUS
	}
	return min, scale(prePause, MaxPostPauseDuration)
}

// LooksLonger reports whether long is long enough to be a 1-bit if short is a 0-bit.
func LooksLonger(long, short uint32) bool {
	return long >= scale(short, MinRelativeDuration)
}

// PreambleType is the classification of a preamble duration.
type PreambleType int

const (
	PreambleShort PreambleType = iota
	PreambleZero
	PreambleMedium
	PreambleOne
	PreambleLong
)

// ClassifyPreamble classifies a preamble duration against the learned bit timing.
func ClassifyPreamble(d uint32, t BitTiming) PreambleType {
	switch {
	case d < t.MinZero():
		return PreambleShort
	case d > t.MaxOne():
		return PreambleLong
	case d <= t.MaxZero():
		return PreambleZero
	case d >= t.MinOne():
		return PreambleOne
	default:
		return PreambleMedium
	}
}

// scale returns d * num / Divisor, saturated to the uint32 range.
func scale(d uint32, num uint64) uint32 {
	v := uint64(d) * num / Divisor
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
