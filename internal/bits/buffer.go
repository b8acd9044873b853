package bits

import (
	"errors"
	"fmt"
	"strings"
)

// MaxWidth is the widest field ReadUint returns in one call.
const MaxWidth = 64

var (
	ErrInvalidHexDigit = errors.New("bits: invalid hex digit")
	ErrTruncated       = errors.New("bits: truncated input")
	ErrInvalidWidth    = errors.New("bits: invalid read width")
	ErrRegionOverrun   = errors.New("bits: read past region end")
)

// HexDigitError reports the first character that is not a hex digit.
type HexDigitError struct {
	Index int
	Char  rune
}

func (e *HexDigitError) Error() string {
	return fmt.Sprintf("bits: invalid hex digit %q at index %d", e.Char, e.Index)
}

func (e *HexDigitError) Is(target error) bool {
	return target == ErrInvalidHexDigit
}

// Buffer is an immutable MSB-first bit sequence.
type Buffer struct {
	data []byte
	n    int
}

// FromHex decodes s into a buffer holding 4 bits per hex digit.
// Surrounding whitespace is ignored; an odd number of digits is allowed.
func FromHex(s string) (*Buffer, error) {
	s = strings.TrimSpace(s)
	data := make([]byte, (len(s)+1)/2)
	for i, r := range s {
		nibble, ok := hexNibble(r)
		if !ok {
			return nil, &HexDigitError{Index: i, Char: r}
		}
		if i%2 == 0 {
			data[i/2] = nibble << 4
		} else {
			data[i/2] |= nibble
		}
	}
	return &Buffer{data: data, n: len(s) * 4}, nil
}

// FromBytes wraps a copy of b.
func FromBytes(b []byte) *Buffer {
	data := make([]byte, len(b))
	copy(data, b)
	return &Buffer{data: data, n: len(b) * 8}
}

func hexNibble(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0'), true
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return byte(r-'A') + 10, true
	default:
		return 0, false
	}
}

// Len returns the buffer length in bits.
func (b *Buffer) Len() int {
	return b.n
}

// Bit returns the bit at index i. The caller guarantees 0 <= i < Len().
func (b *Buffer) Bit(i int) bool {
	return b.data[i/8]>>(7-uint(i%8))&1 == 1
}

// ReadUint interprets bits [start, start+width) as a big-endian unsigned integer.
func (b *Buffer) ReadUint(start, width int) (uint64, error) {
	if start < 0 || width < 0 || width > MaxWidth {
		return 0, ErrInvalidWidth
	}
	if start+width > b.n {
		return 0, ErrTruncated
	}
	var v uint64
	for i := start; i < start+width; i++ {
		v <<= 1
		if b.Bit(i) {
			v |= 1
		}
	}
	return v, nil
}

// String renders the buffer as a string of '0' and '1'.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow(b.n)
	for i := 0; i < b.n; i++ {
		if b.Bit(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
