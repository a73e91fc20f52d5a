package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fyrsmithlabs/jsondistill/internal/distill"
)

// progress writes human-readable status lines. Quiet progress discards them.
type progress struct {
	w     io.Writer
	quiet bool
}

func newProgress(w io.Writer, quiet bool) *progress {
	return &progress{w: w, quiet: quiet}
}

func (p *progress) printf(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *progress) print(s string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.w, s)
}

// distillFile distills the JSON file at in and writes the result to out.
// Both paths must be absolute.
func distillFile(ctx context.Context, svc *distill.Service, in, out string, opts distill.Options, p *progress) (*distill.Result, error) {
	p.printf("Input File: %s", in)
	p.printf("Output File: %s", out)
	p.printf("Strict Typing: %t", opts.StrictTyping)
	p.printf("Repeat Threshold: %d", opts.RepeatThreshold)
	p.printf("Position Dependent: %t", opts.PositionDependent)

	data, err := os.ReadFile(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", in, err)
	}

	p.print("Distilling JSON...")
	result, err := svc.DistillBytes(ctx, data, opts)
	if err != nil {
		if distill.IsParseError(err) {
			return nil, fmt.Errorf("failed to parse JSON from file %s: %w", in, err)
		}
		return nil, fmt.Errorf("distillation failed: %w", err)
	}
	p.print("Distillation complete.")

	if err := writeOutput(out, result.Output); err != nil {
		return nil, err
	}

	p.print(renderStats(result, len(data)))
	p.printf("Successfully processed and saved distilled JSON to: %s", out)
	return result, nil
}
