package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newFingerprintCmd(opts *rootOptions) *cobra.Command {
	var (
		strict    bool
		showShape bool
	)

	cmd := &cobra.Command{
		Use:   "fingerprint INPUT",
		Short: "Print the shape fingerprint of a JSON document",
		Long: `Print the 8 hex digit fingerprint of the document's root shape. Documents
with the same structure share a fingerprint. Use - to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, opts.configPath, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("strict-typing") {
				strict = a.cfg.Distill.StrictTyping
			}
			fp, shape, err := a.svc.Fingerprint(ctx, data, strict)
			if err != nil {
				return err
			}

			if showShape {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", fp, shape)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), fp)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict-typing", true, "distinguish bool, str, int, float and null")
	cmd.Flags().BoolVar(&showShape, "shape", false, "also print the canonical shape text")
	return cmd
}

// readInput reads path, or r when path is "-".
func readInput(r io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return data, nil
	}
	abs, err := resolveInput(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", abs, err)
	}
	return data, nil
}
