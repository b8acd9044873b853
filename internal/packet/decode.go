package packet

import (
	"fmt"
	"strings"

	"github.com/danmuck/packetctl/internal/bits"
	"github.com/holiman/uint256"
)

// Strategy selects the decoder's traversal form.
type Strategy string

const (
	// StrategyStack keeps pending operators on a heap-allocated stack.
	StrategyStack Strategy = "stack"
	// StrategyRecursive descends with native recursion.
	StrategyRecursive Strategy = "recursive"
)

func ParseStrategy(raw string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StrategyStack:
		return StrategyStack, nil
	case StrategyRecursive:
		return StrategyRecursive, nil
	default:
		return "", fmt.Errorf("packet: unknown decode strategy %q (expected stack or recursive)", raw)
	}
}

// Limits constrains decode memory use.
type Limits struct {
	MaxDepth int
}

func DefaultLimits() Limits {
	return Limits{MaxDepth: 4096}
}

func (l Limits) WithDefaults() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultLimits().MaxDepth
	}
	return l
}

// Decoder decodes one packet tree per call and holds no state between calls.
type Decoder struct {
	Limits   Limits
	Strategy Strategy
}

func NewDecoder(strategy Strategy, limits Limits) Decoder {
	if strategy == "" {
		strategy = StrategyStack
	}
	return Decoder{Limits: limits.WithDefaults(), Strategy: strategy}
}

// Decode decodes the packet starting at bit offset start and returns it with
// the offset of the first bit after it.
func Decode(buf *bits.Buffer, start int) (Packet, int, error) {
	return NewDecoder(StrategyStack, DefaultLimits()).Decode(buf, start)
}

// DecodeHex decodes the root packet of a hex transmission. Trailing padding is ignored.
func DecodeHex(s string) (Packet, error) {
	buf, err := bits.FromHex(s)
	if err != nil {
		return nil, err
	}
	p, _, err := Decode(buf, 0)
	return p, err
}

func (d Decoder) Decode(buf *bits.Buffer, start int) (Packet, int, error) {
	if start < 0 || start > buf.Len() {
		return nil, start, decodeErr(start, ErrTruncatedInput)
	}
	d.Limits = d.Limits.WithDefaults()
	c := bits.NewCursor(buf, start)

	var (
		p   Packet
		err error
	)
	switch d.Strategy {
	case StrategyRecursive:
		p, err = d.decodeRecursive(c, 0)
	case StrategyStack, "":
		p, err = d.decodeStack(c)
	default:
		return nil, start, fmt.Errorf("packet: unknown decode strategy %q", d.Strategy)
	}
	if err != nil {
		return nil, start, err
	}
	return p, c.Offset(), nil
}

func (d Decoder) decodeRecursive(c *bits.Cursor, depth int) (Packet, error) {
	start := c.Offset()
	if depth > d.Limits.MaxDepth {
		return nil, decodeErr(start, ErrDepthExceeded)
	}
	h, err := readHeader(c)
	if err != nil {
		return nil, err
	}
	if h.typeID == TypeLiteral {
		return readLiteral(c, h)
	}
	f, err := openOperator(c, h)
	if err != nil {
		return nil, err
	}
	for f.more() {
		child, err := d.decodeRecursive(f.cur, depth+1)
		if err != nil {
			return nil, err
		}
		f.add(child)
	}
	return f.close()
}

type header struct {
	start   int
	version uint8
	typeID  uint8
}

func readHeader(c *bits.Cursor) (header, error) {
	h := header{start: c.Offset()}
	version, err := c.ReadUint(VersionWidth)
	if err != nil {
		return header{}, decodeErr(h.start, err)
	}
	typeID, err := c.ReadUint(TypeWidth)
	if err != nil {
		return header{}, decodeErr(h.start, err)
	}
	h.version = uint8(version)
	h.typeID = uint8(typeID)
	return h, nil
}

func readLiteral(c *bits.Cursor, h header) (*Literal, error) {
	lit := &Literal{Ver: h.version}
	var nibble uint256.Int
	for {
		more, err := c.ReadBit()
		if err != nil {
			return nil, decodeErr(h.start, err)
		}
		v, err := c.ReadUint(NibbleWidth)
		if err != nil {
			return nil, decodeErr(h.start, err)
		}
		if lit.Value.BitLen() > MaxValueBits-NibbleWidth {
			return nil, decodeErr(h.start, fmt.Errorf("%w: literal exceeds %d bits", ErrArithmeticOverflow, MaxValueBits))
		}
		nibble.SetUint64(v)
		lit.Value.Lsh(&lit.Value, NibbleWidth)
		lit.Value.Or(&lit.Value, &nibble)
		if !more {
			break
		}
	}
	lit.Bits = c.Offset() - h.start
	return lit, nil
}

// opFrame is an operator whose children are still being decoded. cur reads the
// child region; parent is the cursor the operator header was read from.
type opFrame struct {
	op     *Operator
	start  int
	count  int
	cur    *bits.Cursor
	parent *bits.Cursor
}

func openOperator(c *bits.Cursor, h header) (*opFrame, error) {
	kind, err := ParseOperatorKind(h.typeID)
	if err != nil {
		return nil, decodeErr(h.start, err)
	}
	id, err := c.ReadBit()
	if err != nil {
		return nil, decodeErr(h.start, err)
	}
	length := LengthBits
	if id {
		length = LengthCount
	}
	n, err := c.ReadUint(length.FieldWidth())
	if err != nil {
		return nil, decodeErr(h.start, err)
	}

	f := &opFrame{
		op:     &Operator{Ver: h.version, Kind: kind, Length: length},
		start:  h.start,
		cur:    c,
		parent: c,
	}
	if length == LengthCount {
		f.count = int(n)
		f.op.Children = make([]Packet, 0, min(f.count, 8))
		return f, nil
	}
	region, err := c.Narrow(c.Offset() + int(n))
	if err != nil {
		return nil, decodeErr(h.start, err)
	}
	f.cur = region
	return f, nil
}

func (f *opFrame) more() bool {
	if f.op.Length == LengthCount {
		return len(f.op.Children) < f.count
	}
	return f.cur.Remaining() > 0
}

func (f *opFrame) add(child Packet) {
	f.op.Children = append(f.op.Children, child)
}

func (f *opFrame) close() (*Operator, error) {
	if err := f.op.Kind.CheckArity(len(f.op.Children)); err != nil {
		return nil, decodeErr(f.start, err)
	}
	end := f.cur.Offset()
	if err := f.parent.Seek(end); err != nil {
		return nil, decodeErr(f.start, err)
	}
	f.op.Bits = end - f.start
	return f.op, nil
}
