package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"synapse/internal/trace"
)

// setupTracing inspects trace-related flags and attaches a tracer to the
// command context. The returned cleanup gets the command's error: in ring
// mode the buffered events are dumped only when the command failed.
func setupTracing(cmd *cobra.Command) (func(error), error) {
	flags := cmd.Root().PersistentFlags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	mode, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(ctx, trace.Nop))
		return func(error) {}, nil
	}

	switch mode {
	case "stream":
		tracer, err := trace.New(trace.Config{Level: level, Format: format, OutputPath: traceOutput})
		if err != nil {
			return nil, fmt.Errorf("failed to create tracer: %w", err)
		}
		cmd.SetContext(trace.WithTracer(ctx, tracer))
		return func(error) {
			if err := tracer.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to close trace output: %v\n", err)
			}
		}, nil
	case "ring":
		ring := trace.NewRingTracer(ringSize, level)
		cmd.SetContext(trace.WithTracer(ctx, ring))
		return func(cmdErr error) {
			if cmdErr == nil {
				return
			}
			if err := dumpRing(ring, traceOutput, format); err != nil {
				fmt.Fprintf(os.Stderr, "failed to dump trace: %v\n", err)
			}
		}, nil
	}
	return nil, fmt.Errorf("unknown trace mode %q (must be stream or ring)", mode)
}

func dumpRing(ring *trace.RingTracer, path string, format trace.Format) error {
	if path == "" || path == "-" {
		return ring.Dump(os.Stderr, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ring.Dump(f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
