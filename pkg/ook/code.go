package ook

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Code lengths in bits, without the 2 bits that are handled as preamble times.
const (
	MinCodeLength = 12*4 - 2
	MaxCodeLength = 48*4 - 2
)

var (
	ErrInvalidCode  = errors.New("invalid code")
	ErrCodeTooLong  = errors.New("code too long")
	ErrCodeTooShort = errors.New("code too short")
)

// Code is a received or parsed message.
type Code struct {
	bits Bits

	// Duration is the time from the first to the last edge of the message (µs).
	Duration uint32
	// PrePauseTime is the pause before the message (µs).
	PrePauseTime uint32
	// PostPauseTime is the pause after the message (µs), including the final bit.
	PostPauseTime uint32
	// PreambleTime holds the first two durations after the pre pause (µs).
	PreambleTime [2]uint32
	// BitTotalTime is the sum of the durations of all 0-bits and 1-bits (µs).
	BitTotalTime [2]uint32
	// PrePauseStandalone is false if the pre pause was the post pause of another message.
	PrePauseStandalone bool
	// PostPausePresent is true if the message was terminated by a pause.
	PostPausePresent bool

	valid      bool
	finalised  bool
	finaliseOK bool
}

// reset prepares the code for assembly of a new message.
func (c *Code) reset() {
	*c = Code{}
}

// addBit appends a sampled bit and accounts its duration.
func (c *Code) addBit(bit uint8, duration uint32) {
	if c.bits.Push(bit) {
		c.BitTotalTime[bit] += duration
	}
}

// Valid reports whether the code holds a complete message.
func (c *Code) Valid() bool {
	return c.valid
}

// Len returns the number of bits.
func (c *Code) Len() int {
	return c.bits.Len()
}

// Bit returns the bit at index i.
func (c *Code) Bit(i int) uint8 {
	return c.bits.At(i)
}

// Bits returns the message as a string of '0' and '1'.
func (c *Code) Bits() string {
	return c.bits.String()
}

// HasPreamble reports whether the code carries preamble times.
func (c *Code) HasPreamble() bool {
	return c.PreambleTime[0] != 0 || c.PreambleTime[1] != 0
}

// BitTime returns the average 0-bit and 1-bit durations.
func (c *Code) BitTime() BitTiming {
	var t BitTiming

	zeros, ones := c.bits.Count()
	if zeros > 0 {
		t[0] = c.BitTotalTime[0] / uint32(zeros)
	}
	if ones > 0 {
		t[1] = c.BitTotalTime[1] / uint32(ones)
	}
	return t
}

// Finalise resolves the preamble and adds the final bit of a received code.
// The final bit is never sampled because the post pause extends it, so it is
// guessed: the value is 1 if the same prefix followed by a 1 was already seen
// in a complete nibble of the message, 0 otherwise. This is a heuristic
// without any guarantee of being the transmitted value.
//
// Finalise returns false if the code has no usable bits or the preamble
// timing is invalid. Calling it again returns the first result without
// changing the code.
func (c *Code) Finalise() bool {
	if c.finalised {
		return c.finaliseOK
	}

	c.finalised = true
	c.finaliseOK = c.finalise()
	return c.finaliseOK
}

func (c *Code) finalise() bool {
	if c.bits.Len() == 0 {
		// no data
		return false
	}

	bitTime := c.BitTime()

	if c.HasPreamble() {
		types := [2]PreambleType{
			ClassifyPreamble(c.PreambleTime[0], bitTime),
			ClassifyPreamble(c.PreambleTime[1], bitTime),
		}

		fold := false
		switch {
		case types[0] == PreambleZero && types[1] >= PreambleOne:
			if c.PreambleTime[1] > scale(c.PreambleTime[0], PreambleRelativeDuration) {
				fold = false
			} else if types[1] == PreambleOne {
				fold = true
			} else {
				// invalid timing of non-preamble bits
				return false
			}
		case types[0] != PreambleMedium && types[1] != PreambleMedium:
			fold = true
		default:
			// invalid timing of bits
			return false
		}

		if fold {
			var preambleBits [2]uint8
			for i, t := range types {
				if t == PreambleOne || t == PreambleLong {
					preambleBits[i] = 1
				}
			}

			if !c.bits.Prepend(preambleBits[0], preambleBits[1]) {
				return false
			}

			c.BitTotalTime[preambleBits[0]] += c.PreambleTime[0]
			c.BitTotalTime[preambleBits[1]] += c.PreambleTime[1]
			c.PreambleTime = [2]uint32{}
		}
	}

	final := c.guessFinalBit()
	if !c.bits.Push(final) {
		return false
	}
	c.BitTotalTime[final] += bitTime[final]

	return true
}

// guessFinalBit looks at the complete nibbles for a group that starts with
// the trailing bits followed by a 1.
func (c *Code) guessFinalBit() uint8 {
	var seen [5][16]bool

	for i := 0; i < c.bits.Nibbles(); i++ {
		v := c.bits.Nibble(i)
		seen[1][v>>3] = true
		seen[2][v>>2] = true
		seen[3][v>>1] = true
		seen[4][v] = true
	}

	width := c.bits.TrailingCount() + 1
	if seen[width][(c.bits.TrailingValue()<<1)|1] {
		return 1
	}
	return 0
}

// String renders the code as hex nibbles, followed by "+" and the packed
// trailing bits if the length is not a multiple of 4.
func (c *Code) String() string {
	var sb strings.Builder

	for i := 0; i < c.bits.Nibbles(); i++ {
		sb.WriteByte(hexDigit(c.bits.Nibble(i)))
	}

	if n := c.bits.TrailingCount(); n > 0 {
		sb.WriteByte('+')
		sb.WriteByte(hexDigit(1<<n | c.bits.TrailingValue()))
	}

	return sb.String()
}

func hexDigit(v uint8) byte {
	if v < 10 {
		return '0' + v
	}
	return 'A' + v - 10
}

// ParseCode parses a code literal of the form
//  [<preamble high>-<preamble low>-]<hex digits>[+<packed trailing bits>]
// The packed trailing bits are a hex digit with the highest set bit marking
// the count: 8+v three bits, 4+v two bits, 2+v one bit.
func ParseCode(s string) (Code, error) {
	var c Code

	if parts := strings.Split(s, "-"); len(parts) == 3 {
		for i := 0; i < 2; i++ {
			v, err := strconv.ParseUint(parts[i], 10, 32)
			if err != nil {
				return c, fmt.Errorf("%w: preamble %q", ErrInvalidCode, parts[i])
			}
			c.PreambleTime[i] = uint32(v)
		}
		s = parts[2]
	} else if len(parts) != 1 {
		return c, fmt.Errorf("%w: %q", ErrInvalidCode, s)
	}

	hex, trailing := s, ""
	if i := strings.IndexByte(s, '+'); i >= 0 {
		hex, trailing = s[:i], s[i+1:]
		if len(trailing) != 1 {
			return c, fmt.Errorf("%w: trailing bits %q", ErrInvalidCode, trailing)
		}
	}

	for i := 0; i < len(hex); i++ {
		v, ok := hexValue(hex[i])
		if !ok {
			return c, fmt.Errorf("%w: digit %q", ErrInvalidCode, hex[i])
		}
		if c.bits.Len()+4 > MaxCodeLength {
			return c, ErrCodeTooLong
		}
		for shift := 3; shift >= 0; shift-- {
			c.bits.Push((v >> shift) & 1)
		}
	}

	if trailing != "" {
		v, ok := hexValue(trailing[0])
		if !ok {
			return c, fmt.Errorf("%w: trailing bits %q", ErrInvalidCode, trailing)
		}

		n := 0
		switch {
		case v&0x8 != 0:
			n = 3
		case v&0x4 != 0:
			n = 2
		case v&0x2 != 0:
			n = 1
		}
		if c.bits.Len()+n > MaxCodeLength {
			return c, ErrCodeTooLong
		}
		for shift := n - 1; shift >= 0; shift-- {
			c.bits.Push((v >> shift) & 1)
		}
	}

	if c.bits.Len() < MinCodeLength {
		return c, ErrCodeTooShort
	}

	c.PrePauseStandalone = true
	c.PostPausePresent = true
	c.valid = true
	c.finalised = true
	c.finaliseOK = true
	return c, nil
}

func hexValue(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}
