// Package bitstest builds MSB-first bit strings for decoder fixtures.
package bitstest

import (
	"fmt"
	"strings"
)

// Writer appends bits MSB-first.
type Writer struct {
	bits []bool
}

func (w *Writer) Len() int {
	return len(w.bits)
}

func (w *Writer) PutBit(v bool) *Writer {
	w.bits = append(w.bits, v)
	return w
}

// PutUint appends the low width bits of v, most significant first.
func (w *Writer) PutUint(width int, v uint64) *Writer {
	for i := width - 1; i >= 0; i-- {
		w.PutBit((v>>uint(i))&1 == 1)
	}
	return w
}

// PutBits appends another writer's bits.
func (w *Writer) PutBits(other *Writer) *Writer {
	w.bits = append(w.bits, other.bits...)
	return w
}

// Hex pads the bits with zeros to a nibble boundary and renders upper-case hex.
func (w *Writer) Hex() string {
	var sb strings.Builder
	for i := 0; i < len(w.bits); i += 4 {
		var nibble uint8
		for j := 0; j < 4; j++ {
			nibble <<= 1
			if i+j < len(w.bits) && w.bits[i+j] {
				nibble |= 1
			}
		}
		fmt.Fprintf(&sb, "%X", nibble)
	}
	return sb.String()
}
