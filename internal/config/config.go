package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"github.com/bdwells00/hash/internal/chunker"
	"github.com/bdwells00/hash/internal/digest"
)

var (
	// ErrInvalidBlockSize is returned when the blocksize multiplier is
	// out of range.
	ErrInvalidBlockSize = errors.New("invalid blocksize")

	// ErrInvalidCombination is returned for mutually exclusive options.
	ErrInvalidCombination = errors.New("invalid option combination")

	// ErrNoFile is returned when no input file was given.
	ErrNoFile = errors.New("no file specified")
)

// Option defaults and bounds.
const (
	DefaultAlgorithm = "sha256"
	DefaultBlocksize = 16
	DefaultLength    = 32

	MinBlocksize = 1
	MaxBlocksize = 100_000_000
)

// Options holds one invocation's configuration.
type Options struct {
	File      string // file to digest
	Algorithm string // ignored when All is set
	Length    int    // output bytes for variable-length algorithms
	All       bool   // run every registered algorithm
	Available bool   // list algorithms and exit
	Blocksize int    // chunk size multiplier (x 1000 bytes)
	Compare   string // reference digest, mutually exclusive with All
	Workers   int    // parallel passes in all mode; <=1 is sequential
	NoColor   bool
	Verbose   int
}

// Default returns Options seeded from environment variables, ready for
// flag overrides.
func Default() Options {
	return Options{
		Algorithm: getEnv("HASH_ALGORITHM", DefaultAlgorithm),
		Length:    getEnvInt("HASH_LENGTH", DefaultLength),
		Blocksize: getEnvInt("HASH_BLOCKSIZE", DefaultBlocksize),
		NoColor:   os.Getenv("NO_COLOR") != "",
	}
}

// Validate checks option ranges and mutually exclusive combinations,
// reporting every violation in one error. It runs before any file is
// opened.
func (o Options) Validate() error {
	var errs *multierror.Error

	if o.Length < digest.MinLength || o.Length > digest.MaxLength {
		errs = multierror.Append(errs, fmt.Errorf(
			"%w: --length %d not in [%d, %d]",
			digest.ErrInvalidLength, o.Length, digest.MinLength, digest.MaxLength))
	}
	if o.Blocksize < MinBlocksize || o.Blocksize > MaxBlocksize {
		errs = multierror.Append(errs, fmt.Errorf(
			"%w: --blocksize %d not in [%d, %d]",
			ErrInvalidBlockSize, o.Blocksize, MinBlocksize, MaxBlocksize))
	}
	if o.All && o.Compare != "" {
		errs = multierror.Append(errs, fmt.Errorf(
			`%w: cannot combine "--compare" with "--all"`, ErrInvalidCombination))
	}
	if o.File == "" && !o.Available {
		errs = multierror.Append(errs, ErrNoFile)
	}

	return errs.ErrorOrNil()
}

// ChunkSize converts the blocksize multiplier into a chunk size in bytes.
func (o Options) ChunkSize() int64 {
	return int64(o.Blocksize) * chunker.BlockSizeFactor
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
