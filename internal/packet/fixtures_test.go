package packet

import (
	"testing"

	"github.com/danmuck/packetctl/internal/bits/bitstest"
)

func literalBits(version uint8, nibbles ...uint8) *bitstest.Writer {
	w := &bitstest.Writer{}
	w.PutUint(VersionWidth, uint64(version)).PutUint(TypeWidth, uint64(TypeLiteral))
	for i, n := range nibbles {
		w.PutBit(i < len(nibbles)-1).PutUint(NibbleWidth, uint64(n))
	}
	return w
}

func literalOf(version uint8, v uint64) *bitstest.Writer {
	var nibbles []uint8
	for {
		nibbles = append([]uint8{uint8(v & 0xf)}, nibbles...)
		v >>= 4
		if v == 0 {
			break
		}
	}
	return literalBits(version, nibbles...)
}

// literalPow2 encodes 2^exp.
func literalPow2(version uint8, exp int) *bitstest.Writer {
	nibbles := []uint8{1 << uint(exp%4)}
	for i := 0; i < exp/4; i++ {
		nibbles = append(nibbles, 0)
	}
	return literalBits(version, nibbles...)
}

func countOp(version uint8, kind OperatorKind, children ...*bitstest.Writer) *bitstest.Writer {
	return countOpN(version, kind, len(children), children...)
}

func countOpN(version uint8, kind OperatorKind, n int, children ...*bitstest.Writer) *bitstest.Writer {
	w := &bitstest.Writer{}
	w.PutUint(VersionWidth, uint64(version)).PutUint(TypeWidth, uint64(kind))
	w.PutBit(true).PutUint(CountFieldWidth, uint64(n))
	for _, c := range children {
		w.PutBits(c)
	}
	return w
}

func bitsOp(version uint8, kind OperatorKind, children ...*bitstest.Writer) *bitstest.Writer {
	total := 0
	for _, c := range children {
		total += c.Len()
	}
	return bitsOpL(version, kind, total, children...)
}

func bitsOpL(version uint8, kind OperatorKind, length int, children ...*bitstest.Writer) *bitstest.Writer {
	w := &bitstest.Writer{}
	w.PutUint(VersionWidth, uint64(version)).PutUint(TypeWidth, uint64(kind))
	w.PutBit(false).PutUint(BitsFieldWidth, uint64(length))
	for _, c := range children {
		w.PutBits(c)
	}
	return w
}

func padded(w *bitstest.Writer, n int) *bitstest.Writer {
	return w.PutUint(n, 0)
}

// checkConsumedBits asserts the header + body + children accounting on every node.
func checkConsumedBits(t *testing.T, p Packet) {
	t.Helper()
	Walk(p, func(n Packet, _ int) bool {
		switch v := n.(type) {
		case *Literal:
			if v.Bits != HeaderBits+GroupBits*v.Groups() || (v.Bits-HeaderBits)%GroupBits != 0 {
				t.Fatalf("literal bits inconsistent: %d", v.Bits)
			}
		case *Operator:
			sum := v.Length.HeaderBits()
			for _, c := range v.Children {
				sum += c.ConsumedBits()
			}
			if sum != v.Bits {
				t.Fatalf("operator %s bits=%d, header+children=%d", v.Kind, v.Bits, sum)
			}
		}
		return true
	})
}
