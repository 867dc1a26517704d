package ook

// MaxBits is the capacity of a Bits vector.
// It holds the longest code plus the two preamble bits folded in by Finalise.
const MaxBits = MaxCodeLength + 2

// Bits is a fixed capacity bit vector, packed MSB first.
type Bits struct {
	buf [(MaxBits + 7) / 8]byte
	n   int
}

// Len returns the number of stored bits.
func (b *Bits) Len() int {
	return b.n
}

// Reset removes all bits.
func (b *Bits) Reset() {
	b.buf = [len(b.buf)]byte{}
	b.n = 0
}

// Push appends a bit and reports whether there was room for it.
func (b *Bits) Push(bit uint8) bool {
	if b.n >= MaxBits {
		return false
	}

	mask := byte(0x80) >> (b.n & 0x07)
	if bit != 0 {
		b.buf[b.n/8] |= mask
	} else {
		b.buf[b.n/8] &^= mask
	}

	b.n++
	return true
}

// At returns the bit at index i.
func (b *Bits) At(i int) uint8 {
	return (b.buf[i/8] >> (7 - (i & 0x07))) & 1
}

// Nibbles returns the number of complete 4 bit groups.
func (b *Bits) Nibbles() int {
	return b.n >> 2
}

// Nibble returns the value of the i-th 4 bit group.
func (b *Bits) Nibble(i int) uint8 {
	if i&1 == 0 {
		return b.buf[i/2] >> 4
	}
	return b.buf[i/2] & 0x0f
}

// TrailingCount returns the number of bits after the last complete nibble (0..3).
func (b *Bits) TrailingCount() int {
	return b.n & 0x03
}

// TrailingValue returns the bits after the last complete nibble, right aligned.
func (b *Bits) TrailingValue() uint8 {
	c := b.TrailingCount()
	if c == 0 {
		return 0
	}
	return (b.Nibble(b.Nibbles()) >> (4 - c)) & (0x07 >> (3 - c))
}

// Invert flips every stored bit.
func (b *Bits) Invert() {
	full := b.n / 8
	for i := 0; i < full; i++ {
		b.buf[i] = ^b.buf[i]
	}

	if rest := b.n & 0x07; rest > 0 {
		b.buf[full] ^= byte(0xff) << (8 - rest)
	}
}

// Prepend inserts two bits in front of the stored bits.
// It reports false if the vector has no room for them.
func (b *Bits) Prepend(first, second uint8) bool {
	if b.n+2 > MaxBits {
		return false
	}

	for i := len(b.buf) - 1; i > 0; i-- {
		b.buf[i] = (b.buf[i-1] << 6) | (b.buf[i] >> 2)
	}
	b.buf[0] >>= 2

	if first != 0 {
		b.buf[0] |= 0x80
	}
	if second != 0 {
		b.buf[0] |= 0x40
	}

	b.n += 2
	return true
}

// Count returns the number of 0 and 1 bits.
func (b *Bits) Count() (zeros, ones int) {
	for i := 0; i < b.n; i++ {
		if b.At(i) != 0 {
			ones++
		}
	}
	return b.n - ones, ones
}

// String renders the bits as a string of '0' and '1'.
func (b *Bits) String() string {
	s := make([]byte, b.n)
	for i := range s {
		s[i] = '0' + b.At(i)
	}
	return string(s)
}
