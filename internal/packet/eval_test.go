package packet

import (
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/packetctl/internal/testutil/testlog"
	"github.com/holiman/uint256"
)

func TestEvaluateVectors(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		name string
		hex  string
		want uint64
	}{
		{"sum of 1 and 2", "C200B40A82", 3},
		{"product of 6 and 9", "04005AC33890", 54},
		{"minimum of 7 8 9", "880086C3E88112", 7},
		{"maximum of 7 8 9", "CE00C43D881120", 9},
		{"5 less than 15", "D8005AC2A8F0", 1},
		{"5 greater than 15", "F600BC2D8F", 0},
		{"5 equal to 15", "9C005AC2F8F0", 0},
		{"1 plus 3 equals 2 times 2", "9C0141080250320F1802104A08", 1},
	}
	for _, tc := range cases {
		for _, s := range strategies {
			p, _, err := decodeWith(t, s, tc.hex)
			if err != nil {
				t.Fatalf("%s/%s: decode: %v", tc.name, s, err)
			}
			got, err := Evaluate(p)
			if err != nil {
				t.Fatalf("%s/%s: evaluate: %v", tc.name, s, err)
			}
			if !got.IsUint64() || got.Uint64() != tc.want {
				t.Fatalf("%s/%s: got=%s want=%d", tc.name, s, got.Dec(), tc.want)
			}
		}
	}
}

func TestEvaluateIsRepeatable(t *testing.T) {
	testlog.Start(t)
	p, err := DecodeHex("9C0141080250320F1802104A08")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	before := Inspect(p)
	first, err := Evaluate(p)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	second, err := Evaluate(p)
	if err != nil {
		t.Fatalf("evaluate again: %v", err)
	}
	if !first.Eq(&second) {
		t.Fatalf("evaluation not repeatable: %s vs %s", first.Dec(), second.Dec())
	}
	after := Inspect(p)
	if before.Bits != after.Bits || len(before.Children) != len(after.Children) {
		t.Fatalf("evaluate mutated the tree")
	}
}

func TestEvaluateWideValues(t *testing.T) {
	testlog.Start(t)
	// 2^63 * 2^64 = 2^127 still fits.
	p, err := DecodeHex(countOp(0, OpProduct, literalPow2(0, 63), literalPow2(0, 64)).Hex())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := Evaluate(p)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	want := new(uint256.Int).Lsh(uint256.NewInt(1), 127)
	if !got.Eq(want) {
		t.Fatalf("got=%s want=%s", got.Dec(), want.Dec())
	}
	if got.Dec() != "170141183460469231731687303715884105728" {
		t.Fatalf("unexpected decimal rendering %s", got.Dec())
	}
}

func TestEvaluateMaxLiteral(t *testing.T) {
	testlog.Start(t)
	nibbles := make([]uint8, 32)
	for i := range nibbles {
		nibbles[i] = 0xf
	}
	p, err := DecodeHex(literalBits(0, nibbles...).Hex())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := Evaluate(p)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got.BitLen() != MaxValueBits {
		t.Fatalf("expected %d-bit value, got %d bits", MaxValueBits, got.BitLen())
	}
}

func TestEvaluateProductOverflow(t *testing.T) {
	testlog.Start(t)
	p, err := DecodeHex(countOp(0, OpProduct, literalPow2(0, 64), literalPow2(0, 64)).Hex())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	_, err = Evaluate(p)
	if !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
	var ee *EvalError
	if !errors.As(err, &ee) || ee.Kind != OpProduct {
		t.Fatalf("expected EvalError for product, got %v", err)
	}
}

func TestEvaluateSumOverflow(t *testing.T) {
	testlog.Start(t)
	nibbles := make([]uint8, 32)
	for i := range nibbles {
		nibbles[i] = 0xf
	}
	p, err := DecodeHex(countOp(0, OpSum, literalBits(0, nibbles...), literalOf(0, 1)).Hex())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := Evaluate(p); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestEvaluateRejectsHandBuiltBadArity(t *testing.T) {
	testlog.Start(t)
	one := &Literal{Value: *uint256.NewInt(1), Bits: 11}
	cases := []*Operator{
		{Kind: OpGreaterThan, Children: []Packet{one}},
		{Kind: OpMaximum},
	}
	for _, op := range cases {
		if _, err := Evaluate(op); !errors.Is(err, ErrInvalidChildArity) {
			t.Fatalf("%s: expected ErrInvalidChildArity, got %v", op.Kind, err)
		}
	}
}

func TestStatsAndReport(t *testing.T) {
	testlog.Start(t)
	p, err := DecodeHex("C0015000016115A2E0802F182340")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	stats := Stats(p)
	if stats.Packets != stats.Literals+stats.Operators {
		t.Fatalf("inconsistent stats: %+v", stats)
	}
	if stats.Literals != 4 || stats.Operators != 3 || stats.Bits != p.ConsumedBits() {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	report := NewReport(p)
	if report.VersionSum != 23 || report.Value == "" || report.EvalError != "" {
		t.Fatalf("unexpected report: %+v", report)
	}
	out, err := report.YAML()
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	text := string(out)
	for _, want := range []string{"version_sum: 23", "type: literal", "length_type: bits", "root:"} {
		if !strings.Contains(text, want) {
			t.Fatalf("report missing %q:\n%s", want, text)
		}
	}
}

func TestReportKeepsEvalError(t *testing.T) {
	testlog.Start(t)
	p, err := DecodeHex(countOp(0, OpProduct, literalPow2(0, 64), literalPow2(0, 64)).Hex())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	report := NewReport(p)
	if report.Value != "" || !strings.Contains(report.EvalError, "overflow") {
		t.Fatalf("expected eval error in report, got %+v", report)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	p, err := DecodeHex("EE00D40C823060")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	visited := 0
	Walk(p, func(Packet, int) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Fatalf("expected only root visited, got %d", visited)
	}
}
