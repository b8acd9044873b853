package transmission

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/packetctl/internal/bits"
	"github.com/danmuck/packetctl/internal/logging"
	"github.com/danmuck/packetctl/internal/observability"
	"github.com/danmuck/packetctl/internal/packet"
	"github.com/danmuck/packetctl/internal/source"
	"github.com/rs/zerolog"
)

// Mode selects which integer a run derives from the root packet.
type Mode string

const (
	ModeVersionSum Mode = "version_sum"
	ModeEvaluate   Mode = "evaluate"
	modeInspect    Mode = "inspect"
)

func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "version_sum", "versions", "part1":
		return ModeVersionSum, nil
	case "evaluate", "eval", "part2":
		return ModeEvaluate, nil
	default:
		return "", fmt.Errorf("transmission: unknown mode %q", raw)
	}
}

// Result is the outcome of one run.
type Result struct {
	Mode  Mode
	Value string
	Stats packet.TreeStats
}

// Runner drives text source -> bit buffer -> decoder -> reduction.
type Runner struct {
	decoder packet.Decoder
	log     zerolog.Logger
}

func NewRunner(decoder packet.Decoder) *Runner {
	return &Runner{decoder: decoder, log: logging.For("transmission")}
}

// Run decodes the transmission from src and reduces it according to mode.
func (r *Runner) Run(ctx context.Context, src source.TextSource, mode Mode) (Result, error) {
	if mode != ModeVersionSum && mode != ModeEvaluate {
		return Result{}, fmt.Errorf("transmission: unknown mode %q", mode)
	}
	root, err := r.decode(ctx, src, mode)
	if err != nil {
		return Result{}, err
	}
	res := Result{Mode: mode, Stats: packet.Stats(root)}

	switch mode {
	case ModeVersionSum:
		res.Value = strconv.FormatUint(packet.VersionSum(root), 10)
	case ModeEvaluate:
		start := time.Now()
		v, err := packet.Evaluate(root)
		observability.ObserveStage("evaluate", time.Since(start))
		if err != nil {
			return Result{}, r.fail(mode, "evaluate", err)
		}
		res.Value = v.Dec()
	}

	observability.RecordRun(string(mode), "ok")
	r.log.Info().
		Str("source", src.Name()).
		Str("mode", string(mode)).
		Str("value", res.Value).
		Int("packets", res.Stats.Packets).
		Msg("run complete")
	return res, nil
}

// Inspect decodes src and builds the full inspection report.
func (r *Runner) Inspect(ctx context.Context, src source.TextSource) (packet.Report, error) {
	root, err := r.decode(ctx, src, modeInspect)
	if err != nil {
		return packet.Report{}, err
	}
	observability.RecordRun(string(modeInspect), "ok")
	return packet.NewReport(root), nil
}

func (r *Runner) decode(ctx context.Context, src source.TextSource, mode Mode) (packet.Packet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := src.Text()
	observability.ObserveStage("read", time.Since(start))
	if err != nil {
		return nil, r.fail(mode, "read", err)
	}

	buf, err := bits.FromHex(text)
	if err != nil {
		return nil, r.fail(mode, "parse", err)
	}
	r.log.Debug().Str("source", src.Name()).Int("bits", buf.Len()).Msg("transmission loaded")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	root, next, err := r.decoder.Decode(buf, 0)
	observability.ObserveStage("decode", time.Since(start))
	if err != nil {
		return nil, r.fail(mode, "decode", err)
	}

	stats := packet.Stats(root)
	observability.RecordTree(stats.Literals, stats.Operators, stats.MaxDepth, root.ConsumedBits())
	r.log.Debug().
		Str("strategy", string(r.decoder.Strategy)).
		Int("consumed_bits", next).
		Int("padding_bits", buf.Len()-next).
		Int("packets", stats.Packets).
		Int("depth", stats.MaxDepth).
		Msg("transmission decoded")
	return root, nil
}

func (r *Runner) fail(mode Mode, stage string, err error) error {
	kind := failureKind(err)
	observability.RecordFailure(stage, kind)
	observability.RecordRun(string(mode), "error")
	r.log.Error().Err(err).Str("stage", stage).Str("kind", kind).Msg("run failed")
	return fmt.Errorf("%s: %w", stage, err)
}

// failureKind extends packet.Kind with the source failures.
func failureKind(err error) string {
	switch {
	case errors.Is(err, source.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, source.ErrInputTooLarge):
		return "input_too_large"
	default:
		return packet.Kind(err)
	}
}
