package packet

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Evaluate reduces p to a single unsigned integer of at most 128 bits.
// It does not modify p.
func Evaluate(p Packet) (uint256.Int, error) {
	switch n := p.(type) {
	case *Literal:
		return n.Value, nil
	case *Operator:
		return evalOperator(n)
	default:
		return uint256.Int{}, fmt.Errorf("packet: cannot evaluate %T", p)
	}
}

func evalOperator(o *Operator) (uint256.Int, error) {
	var zero uint256.Int
	if err := o.Kind.CheckArity(len(o.Children)); err != nil {
		return zero, &EvalError{Kind: o.Kind, Err: err}
	}
	values := make([]uint256.Int, len(o.Children))
	for i, child := range o.Children {
		v, err := Evaluate(child)
		if err != nil {
			return zero, err
		}
		values[i] = v
	}

	var acc uint256.Int
	switch o.Kind {
	case OpSum:
		for i := range values {
			if _, overflow := acc.AddOverflow(&acc, &values[i]); overflow || acc.BitLen() > MaxValueBits {
				return zero, &EvalError{Kind: o.Kind, Err: ErrArithmeticOverflow}
			}
		}
	case OpProduct:
		acc.SetOne()
		for i := range values {
			if _, overflow := acc.MulOverflow(&acc, &values[i]); overflow || acc.BitLen() > MaxValueBits {
				return zero, &EvalError{Kind: o.Kind, Err: ErrArithmeticOverflow}
			}
		}
	case OpMinimum:
		acc = values[0]
		for i := range values[1:] {
			if values[i+1].Lt(&acc) {
				acc = values[i+1]
			}
		}
	case OpMaximum:
		acc = values[0]
		for i := range values[1:] {
			if values[i+1].Gt(&acc) {
				acc = values[i+1]
			}
		}
	case OpGreaterThan:
		setBool(&acc, values[0].Gt(&values[1]))
	case OpLessThan:
		setBool(&acc, values[0].Lt(&values[1]))
	case OpEqualTo:
		setBool(&acc, values[0].Eq(&values[1]))
	default:
		return zero, &EvalError{Kind: o.Kind, Err: ErrUnknownOperatorCode}
	}
	return acc, nil
}

func setBool(z *uint256.Int, v bool) {
	if v {
		z.SetOne()
		return
	}
	z.Clear()
}

// VersionSum adds the version of p and of every descendant.
func VersionSum(p Packet) uint64 {
	var sum uint64
	Walk(p, func(n Packet, _ int) bool {
		sum += uint64(n.Version())
		return true
	})
	return sum
}

// Walk visits p and its descendants in pre-order. Returning false from fn
// skips the children of the visited packet.
func Walk(p Packet, fn func(p Packet, depth int) bool) {
	type item struct {
		p     Packet
		depth int
	}
	stack := []item{{p: p}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(it.p, it.depth) {
			continue
		}
		op, ok := it.p.(*Operator)
		if !ok {
			continue
		}
		for i := len(op.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{p: op.Children[i], depth: it.depth + 1})
		}
	}
}

// TreeStats summarises a decoded tree.
type TreeStats struct {
	Packets   int `yaml:"packets"`
	Literals  int `yaml:"literals"`
	Operators int `yaml:"operators"`
	MaxDepth  int `yaml:"max_depth"`
	Bits      int `yaml:"bits"`
}

func Stats(p Packet) TreeStats {
	s := TreeStats{Bits: p.ConsumedBits()}
	Walk(p, func(n Packet, depth int) bool {
		s.Packets++
		if _, ok := n.(*Literal); ok {
			s.Literals++
		} else {
			s.Operators++
		}
		s.MaxDepth = max(s.MaxDepth, depth)
		return true
	})
	return s
}
