package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bdwells00/hash/internal/config"
	"github.com/bdwells00/hash/internal/coordinator"
	"github.com/bdwells00/hash/internal/digest"
	"github.com/bdwells00/hash/internal/render"
)

var version = "2.0.0"

func main() {
	start := time.Now()

	if err := newRootCmd(start).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(start time.Time) *cobra.Command {
	opts := config.Default()

	cmd := &cobra.Command{
		Use:           "hash",
		Short:         "Calculate hash codes for files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, start, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.File, "file", "f", opts.File,
		"file to generate hash against")
	flags.StringVar(&opts.Algorithm, "hash", opts.Algorithm,
		"hash type to use; ignored if --all is used")
	flags.IntVarP(&opts.Length, "length", "l", opts.Length,
		"digest length (1-128) for variable-length hashes; ignored for all others")
	flags.BoolVar(&opts.All, "all", false,
		"run all available hashes against the file; cannot be used with --compare")
	flags.BoolVar(&opts.Available, "available", false,
		"print available hashes, their values, and exit")
	flags.IntVarP(&opts.Blocksize, "blocksize", "b", opts.Blocksize,
		"number of 1 kB read blocks per chunk (1-100000000)")
	flags.StringVarP(&opts.Compare, "compare", "c", "",
		"value to compare against the generated hash; cannot be used with --all")
	flags.IntVar(&opts.Workers, "parallel", 0,
		"run --all passes across N workers; overhead time is not meaningful")
	flags.BoolVar(&opts.NoColor, "no-color", opts.NoColor,
		"don't colorize output")
	flags.CountVarP(&opts.Verbose, "verbose", "v",
		"display additional details")

	cmd.AddCommand(versionCmd())
	return cmd
}

func run(cmd *cobra.Command, start time.Time, opts config.Options) error {
	out := render.New(cmd.OutOrStdout(), opts)
	out.Title("hash", version)
	out.Diagnostics(opts)

	if err := opts.Validate(); err != nil {
		return err
	}

	if opts.Available {
		out.Available(opts.Length)
		return nil
	}

	coord := coordinator.New(coordinator.Config{
		ChunkSize: opts.ChunkSize(),
		Length:    opts.Length,
		Workers:   opts.Workers,
		Start:     start,
	})

	var results []*digest.Result
	var err error
	if opts.All {
		results, err = coord.RunAll(opts.File)
	} else {
		var result *digest.Result
		if result, err = coord.RunSingle(opts.Algorithm, opts.File); err == nil {
			results = append(results, result)
		}
	}
	if err != nil {
		// Completed passes stay valid when a later one fails; show
		// them before surfacing the error.
		out.Results(results)
		return err
	}

	out.Results(results)

	if opts.Compare != "" && len(results) == 1 {
		out.Compare(digest.Compare(results[0].Hex, opts.Compare))
	}

	out.Timing(coord.Summarize(results))
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("hash v%s\n", version)
		},
	}
}
