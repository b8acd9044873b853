package packet

import (
	"errors"
	"fmt"

	"github.com/danmuck/packetctl/internal/bits"
)

var (
	ErrInvalidHexDigit     = bits.ErrInvalidHexDigit
	ErrTruncatedInput      = bits.ErrTruncated
	ErrUnknownOperatorCode = errors.New("packet: unknown operator code")
	ErrInvalidChildArity   = errors.New("packet: invalid child arity")
	ErrStructuralMismatch  = errors.New("packet: length region boundary mismatch")
	ErrArithmeticOverflow  = errors.New("packet: arithmetic overflow")
	ErrDepthExceeded       = errors.New("packet: nesting depth exceeded")
)

// DecodeError locates a decode failure at the bit offset of the packet being decoded.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("packet: decode at bit %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EvalError names the operator whose evaluation failed.
type EvalError struct {
	Kind OperatorKind
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("packet: evaluate %s: %v", e.Kind, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// decodeErr wraps err once; an existing DecodeError keeps its innermost offset.
func decodeErr(offset int, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, bits.ErrRegionOverrun) {
		err = fmt.Errorf("%w: %v", ErrStructuralMismatch, err)
	}
	return &DecodeError{Offset: offset, Err: err}
}

// Kind returns the taxonomy name of err, or "unknown".
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidHexDigit):
		return "invalid_hex_digit"
	case errors.Is(err, ErrStructuralMismatch):
		return "structural_mismatch"
	case errors.Is(err, ErrTruncatedInput):
		return "truncated_input"
	case errors.Is(err, ErrUnknownOperatorCode):
		return "unknown_operator_code"
	case errors.Is(err, ErrInvalidChildArity):
		return "invalid_child_arity"
	case errors.Is(err, ErrArithmeticOverflow):
		return "arithmetic_overflow"
	case errors.Is(err, ErrDepthExceeded):
		return "depth_exceeded"
	default:
		return "unknown"
	}
}
