package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fyrsmithlabs/jsondistill/internal/distill"
)

// rootOptions holds flags shared by the root command and its subcommands.
type rootOptions struct {
	configPath string
	quiet      bool

	input     string
	output    string
	mcpServer bool
	distill   distillFlags
}

// distillFlags are the per-run options. Flags left unset fall back to the
// distill section of the config.
type distillFlags struct {
	strictTyping      bool
	repeatThreshold   int
	positionDependent bool
}

func (d *distillFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&d.strictTyping, "strict-typing", true, "distinguish bool, str, int, float and null in shapes")
	fs.IntVarP(&d.repeatThreshold, "repeat-threshold", "r", 2, "minimum run length folded into a pattern")
	fs.BoolVar(&d.positionDependent, "position-dependent", false, "show a shape's example in every list where it occurs")
}

// options overlays the flags the user set on defaults.
func (d *distillFlags) options(fs *pflag.FlagSet, defaults distill.Options) distill.Options {
	opts := defaults
	if fs.Changed("strict-typing") {
		opts.StrictTyping = d.strictTyping
	}
	if fs.Changed("repeat-threshold") {
		opts.RepeatThreshold = d.repeatThreshold
	}
	if fs.Changed("position-dependent") {
		opts.PositionDependent = d.positionDependent
	}
	return opts
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "jsondistill [INPUT]",
		Short: "Distills large JSON files by summarizing repetitive list structures.",
		Long: `jsondistill reads a JSON document and writes a smaller one with the same
structure: lists of same-shaped items are reduced to one example per shape
and runs of repeating shapes are replaced by pattern summaries.

Examples:
  # Write data_distilled.json to the working directory
  jsondistill data.json

  # Choose the output and keep examples in every list
  jsondistill -i data.json -o out/summary.json --position-dependent

  # Run as an MCP server on stdio
  jsondistill --mcp-server`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (.yaml, .yml or .toml)")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress output and info logs")

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "input JSON file")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default <input stem>_distilled.json in the working directory)")
	f.BoolVar(&opts.mcpServer, "mcp-server", false, "run as an MCP server on stdio")
	opts.distill.register(f)
	cmd.MarkFlagsMutuallyExclusive("mcp-server", "input")
	cmd.MarkFlagsMutuallyExclusive("mcp-server", "output")

	cmd.AddCommand(
		newServeCmd(opts),
		newMCPCmd(opts),
		newWatchCmd(opts),
		newFingerprintCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func runRoot(cmd *cobra.Command, opts *rootOptions, args []string) error {
	if opts.mcpServer {
		if len(args) > 0 {
			return errors.New("--mcp-server cannot be combined with an input file")
		}
		return runMCP(cmd, opts)
	}

	in, err := inputPath(args, opts.input)
	if err != nil {
		return err
	}
	in, err = resolveInput(in)
	if err != nil {
		return err
	}
	out, err := resolveOutput(opts.output, in)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, opts.configPath, cmd.ErrOrStderr(), opts.quiet)
	if err != nil {
		return err
	}
	defer a.Close()

	p := newProgress(cmd.ErrOrStderr(), opts.quiet)
	_, err = distillFile(ctx, a.svc, in, out, opts.distill.options(cmd.Flags(), a.defaults()), p)
	return err
}
