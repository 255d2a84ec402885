package render

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/bdwells00/hash/internal/algorithm"
	"github.com/bdwells00/hash/internal/config"
	"github.com/bdwells00/hash/internal/coordinator"
	"github.com/bdwells00/hash/internal/digest"
)

// Renderer turns structured results into console output. The core packages
// never print; everything user-facing funnels through here.
type Renderer struct {
	out     io.Writer
	verbose int

	blue  func(a ...interface{}) string
	red   func(a ...interface{}) string
	green func(a ...interface{}) string
}

// New creates a Renderer writing to out. Color is disabled process-wide
// when opts.NoColor is set.
func New(out io.Writer, opts config.Options) *Renderer {
	if opts.NoColor {
		color.NoColor = true
	}

	return &Renderer{
		out:     out,
		verbose: opts.Verbose,
		blue:    color.New(color.FgHiBlue).SprintFunc(),
		red:     color.New(color.FgRed).SprintFunc(),
		green:   color.New(color.FgGreen).SprintFunc(),
	}
}

// Title prints the program banner.
func (r *Renderer) Title(name, version string) {
	fmt.Fprintf(r.out, "%s\n\n", r.blue(fmt.Sprintf("%s v%s: calculate file hash codes", name, version)))
}

// Diagnostics prints runtime and option details at verbose level 1+.
func (r *Renderer) Diagnostics(opts config.Options) {
	if r.verbose < 1 {
		return
	}
	fmt.Fprintf(r.out, "Go: %s | %s/%s | %d CPUs\n",
		runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	fmt.Fprintf(r.out, "Args: file: %s | hash: %s | length: %d | all: %v | blocksize: %d | compare: %s | workers: %d\n\n",
		opts.File, r.red(opts.Algorithm), opts.Length, opts.All,
		opts.Blocksize, opts.Compare, opts.Workers)
}

// Available prints the full algorithm table. Variable-length algorithms
// report the configured output length rather than a fixed value.
func (r *Renderer) Available(length int) {
	fmt.Fprintln(r.out, "Available:")
	fmt.Fprintf(r.out, "%-16s%-16s%-16s%s\n", "Hash:", "Block size:", "Digest Length:", "Hex Length:")
	for _, desc := range algorithm.List() {
		size := desc.DigestSize
		if desc.VariableLength && length > 0 {
			size = length
		}
		fmt.Fprintf(r.out, "%-16s%s\n", r.red(fmt.Sprintf("%-16s", desc.Name)),
			r.blue(fmt.Sprintf("%-16d%-16d%d", desc.BlockSize, size, 2*size)))
	}
}

// Results prints the per-algorithm timing table, preceded by a file size
// summary taken from the first pass.
func (r *Renderer) Results(results []*digest.Result) {
	if len(results) == 0 {
		return
	}

	size := results[0].Bytes
	fmt.Fprintf(r.out, "Size: %s\n\n", humanize.Bytes(uint64(size)))
	fmt.Fprintf(r.out, "%-12s%-14s%-14s%-14s%s\n",
		"Hash:", "Read Time:", "Hash Time:", "Hash Speed:", "Hex Value:")
	for _, result := range results {
		fmt.Fprintf(r.out, "%s%s%s\n",
			r.red(fmt.Sprintf("%-12s", result.Algorithm)),
			r.blue(fmt.Sprintf("%-14s%-14s%-14s",
				formatSeconds(result.ReadTime),
				formatSeconds(result.HashTime),
				speed(size, result.HashTime))),
			result.Hex)
	}
}

// Compare prints the generated and reference values and the verdict.
func (r *Renderer) Compare(outcome digest.Outcome) {
	fmt.Fprintf(r.out, "\nGenerated: %s\n", outcome.Computed)
	fmt.Fprintf(r.out, " Compared: %s\n", outcome.Reference)
	if outcome.Matches {
		fmt.Fprintln(r.out, r.green("HASHES MATCH!!"))
	} else {
		fmt.Fprintln(r.out, r.red("HASHES DO NOT MATCH!!"))
	}
}

// Timing prints total and overhead time at verbose level 1+.
func (r *Renderer) Timing(summary coordinator.Summary) {
	if r.verbose < 1 {
		return
	}
	fmt.Fprintf(r.out, "\n%s - Total Time\n", formatSeconds(summary.Total))
	fmt.Fprintf(r.out, "%s - Program Overhead Time\n", formatSeconds(summary.Overhead))
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.4fs", d.Seconds())
}

// speed renders bytes-per-second in decimal notation, or a dash when the
// measured duration rounds to zero.
func speed(bytes int64, d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	rate := float64(bytes) / d.Seconds()
	return humanize.Bytes(uint64(rate)) + "/s"
}
