package transmission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/danmuck/packetctl/internal/packet"
	"github.com/danmuck/packetctl/internal/source"
	"github.com/danmuck/packetctl/internal/testutil/testlog"
)

func newTestRunner(strategy packet.Strategy) *Runner {
	return NewRunner(packet.NewDecoder(strategy, packet.DefaultLimits()))
}

func TestRunModes(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		hex  string
		mode Mode
		want string
	}{
		{"8A004A801A8002F478", ModeVersionSum, "16"},
		{"A0016C880162017C3686B18A3D4780", ModeVersionSum, "31"},
		{"9C0141080250320F1802104A08", ModeEvaluate, "1"},
		{"04005AC33890", ModeEvaluate, "54"},
		{"d2fe28\n", ModeEvaluate, "2021"},
	}
	for _, strategy := range []packet.Strategy{packet.StrategyStack, packet.StrategyRecursive} {
		r := newTestRunner(strategy)
		for _, tc := range cases {
			res, err := r.Run(context.Background(), source.StringSource(tc.hex), tc.mode)
			if err != nil {
				t.Fatalf("%s %s: run: %v", strategy, tc.hex, err)
			}
			if res.Value != tc.want || res.Mode != tc.mode {
				t.Fatalf("%s %s: got=%+v want=%s", strategy, tc.hex, res, tc.want)
			}
			if res.Stats.Packets == 0 {
				t.Fatalf("%s %s: expected stats", strategy, tc.hex)
			}
		}
	}
}

func TestRunSurfacesTypedFailures(t *testing.T) {
	testlog.Start(t)
	r := newTestRunner(packet.StrategyStack)
	cases := []struct {
		hex   string
		stage string
		want  error
	}{
		{"XYZ", "parse", packet.ErrInvalidHexDigit},
		{"D2FE", "decode", packet.ErrTruncatedInput},
		{"", "read", source.ErrEmptyInput},
	}
	for _, tc := range cases {
		_, err := r.Run(context.Background(), source.StringSource(tc.hex), ModeEvaluate)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.hex, tc.want, err)
		}
		if !strings.HasPrefix(err.Error(), tc.stage+":") {
			t.Fatalf("%q: expected stage %s in %q", tc.hex, tc.stage, err.Error())
		}
	}
}

func TestRunRejectsUnknownMode(t *testing.T) {
	testlog.Start(t)
	if _, err := newTestRunner(packet.StrategyStack).Run(context.Background(), source.StringSource("D2FE28"), "part3"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	testlog.Start(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRunner(packet.StrategyStack).Run(ctx, source.StringSource("D2FE28"), ModeEvaluate)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestInspect(t *testing.T) {
	testlog.Start(t)
	report, err := newTestRunner(packet.StrategyRecursive).Inspect(context.Background(), source.StringSource("EE00D40C823060"))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if report.VersionSum != 14 || report.Value != "3" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Root.Type != "maximum" || len(report.Root.Children) != 3 {
		t.Fatalf("unexpected root: %+v", report.Root)
	}
}

func TestParseMode(t *testing.T) {
	for raw, want := range map[string]Mode{"versions": ModeVersionSum, "part1": ModeVersionSum, "EVAL": ModeEvaluate, "evaluate": ModeEvaluate} {
		got, err := ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("%s: got=%q err=%v", raw, got, err)
		}
	}
	if _, err := ParseMode("inspect"); err == nil {
		t.Fatalf("expected error for inspect mode")
	}
}

func TestFailureKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("source stdin: %w", source.ErrEmptyInput), "empty_input"},
		{fmt.Errorf("source f: %w (limit 4 bytes)", source.ErrInputTooLarge), "input_too_large"},
		{&packet.DecodeError{Offset: 3, Err: packet.ErrTruncatedInput}, "truncated_input"},
		{errors.New("boom"), "unknown"},
	}
	for _, tc := range cases {
		if got := failureKind(tc.err); got != tc.want {
			t.Fatalf("%v: got=%s want=%s", tc.err, got, tc.want)
		}
	}
}

func TestReadFailureIsCountedByKind(t *testing.T) {
	testlog.Start(t)
	r := newTestRunner(packet.StrategyStack)
	src := source.ReaderSource{R: strings.NewReader("D2FE28D2FE28"), Label: "small", MaxBytes: 4}
	_, err := r.Run(context.Background(), src, ModeVersionSum)
	if !errors.Is(err, source.ErrInputTooLarge) {
		t.Fatalf("expected ErrInputTooLarge, got %v", err)
	}
	if failureKind(err) != "input_too_large" {
		t.Fatalf("unexpected kind %s for %v", failureKind(err), err)
	}
}
