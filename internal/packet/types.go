package packet

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Wire layout constants.
const (
	VersionWidth    = 3
	TypeWidth       = 3
	HeaderBits      = VersionWidth + TypeWidth
	GroupBits       = 5
	NibbleWidth     = 4
	CountFieldWidth = 11
	BitsFieldWidth  = 15

	// TypeLiteral is the type code reserved for literal packets.
	TypeLiteral uint8 = 4

	// MaxValueBits caps literal values and evaluation results.
	MaxValueBits = 128
)

// Packet is either a *Literal or an *Operator.
type Packet interface {
	Version() uint8
	TypeID() uint8
	// ConsumedBits counts the header, body, and every descendant.
	ConsumedBits() int
	sealed()
}

// Literal carries one unsigned integer of at most 128 bits.
type Literal struct {
	Ver   uint8
	Value uint256.Int
	Bits  int
}

func (l *Literal) Version() uint8    { return l.Ver }
func (l *Literal) TypeID() uint8     { return TypeLiteral }
func (l *Literal) ConsumedBits() int { return l.Bits }
func (l *Literal) sealed()           {}

// Groups is the number of 5-bit groups the literal body used.
func (l *Literal) Groups() int {
	return (l.Bits - HeaderBits) / GroupBits
}

// Operator applies Kind to its ordered children.
type Operator struct {
	Ver      uint8
	Kind     OperatorKind
	Length   LengthType
	Children []Packet
	Bits     int
}

func (o *Operator) Version() uint8    { return o.Ver }
func (o *Operator) TypeID() uint8     { return uint8(o.Kind) }
func (o *Operator) ConsumedBits() int { return o.Bits }
func (o *Operator) sealed()           {}

// OperatorKind values are the wire type codes.
type OperatorKind uint8

const (
	OpSum         OperatorKind = 0
	OpProduct     OperatorKind = 1
	OpMinimum     OperatorKind = 2
	OpMaximum     OperatorKind = 3
	OpGreaterThan OperatorKind = 5
	OpLessThan    OperatorKind = 6
	OpEqualTo     OperatorKind = 7
)

var operatorNames = map[OperatorKind]string{
	OpSum:         "sum",
	OpProduct:     "product",
	OpMinimum:     "minimum",
	OpMaximum:     "maximum",
	OpGreaterThan: "greater_than",
	OpLessThan:    "less_than",
	OpEqualTo:     "equal_to",
}

// ParseOperatorKind maps a type code to an operator. Code 4 and codes above 7 are rejected.
func ParseOperatorKind(code uint8) (OperatorKind, error) {
	kind := OperatorKind(code)
	if _, ok := operatorNames[kind]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownOperatorCode, code)
	}
	return kind, nil
}

func (k OperatorKind) String() string {
	if name, ok := operatorNames[k]; ok {
		return name
	}
	return fmt.Sprintf("operator(%d)", uint8(k))
}

// Comparison reports whether k takes exactly two operands.
func (k OperatorKind) Comparison() bool {
	return k == OpGreaterThan || k == OpLessThan || k == OpEqualTo
}

// CheckArity validates a child count for k.
func (k OperatorKind) CheckArity(children int) error {
	if k.Comparison() {
		if children != 2 {
			return fmt.Errorf("%w: %s needs 2 children, got %d", ErrInvalidChildArity, k, children)
		}
		return nil
	}
	if children < 1 {
		return fmt.Errorf("%w: %s needs at least 1 child, got %d", ErrInvalidChildArity, k, children)
	}
	return nil
}

// LengthType selects how an operator declares the extent of its children.
type LengthType uint8

const (
	// LengthBits declares the total bit length of the child region.
	LengthBits LengthType = 0
	// LengthCount declares the number of direct children.
	LengthCount LengthType = 1
)

// FieldWidth is the width of the length field that follows the length-type bit.
func (t LengthType) FieldWidth() int {
	if t == LengthCount {
		return CountFieldWidth
	}
	return BitsFieldWidth
}

// HeaderBits is the operator overhead before the first child.
func (t LengthType) HeaderBits() int {
	return HeaderBits + 1 + t.FieldWidth()
}

func (t LengthType) String() string {
	if t == LengthCount {
		return "count"
	}
	return "bits"
}
