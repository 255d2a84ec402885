package digest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bdwells00/hash/internal/algorithm"
)

// MinLength and MaxLength bound the caller-selectable output size for
// variable-length algorithms, in bytes.
const (
	MinLength = 1
	MaxLength = 128
)

// ErrInvalidLength is returned when a variable-length digest is requested
// outside [MinLength, MaxLength].
var ErrInvalidLength = errors.New("invalid digest length")

// ChunkSource is a single pass over a file's bytes. *chunker.Reader
// implements it; tests substitute in-memory sources.
type ChunkSource interface {
	// Next returns the next chunk, or io.EOF when exhausted.
	Next() ([]byte, error)

	// ReadTime reports time spent in the underlying reads so far.
	ReadTime() time.Duration

	// BytesRead reports total bytes yielded so far.
	BytesRead() int64

	// Close releases the source. Safe to call more than once.
	Close() error
}

// Result is one completed digest pass over one file.
type Result struct {
	Algorithm string
	Bytes     int64
	ReadTime  time.Duration
	HashTime  time.Duration
	Hex       string
}

// Run feeds every chunk from src through a fresh digest state for desc and
// finalizes it. For variable-length algorithms, length selects the output
// size in bytes (0 means the descriptor default); fixed-length algorithms
// ignore length. HashTime covers only the update and finalize calls;
// ReadTime is taken from the source's own measurement. src is closed on all
// return paths.
func Run(desc algorithm.Descriptor, length int, src ChunkSource) (*Result, error) {
	defer src.Close()

	size := desc.DigestSize
	if desc.VariableLength && length != 0 {
		if length < MinLength || length > MaxLength {
			return nil, fmt.Errorf("%w: %d not in [%d, %d]",
				ErrInvalidLength, length, MinLength, MaxLength)
		}
		size = length
	}

	var hashTime time.Duration
	state := desc.NewState()

	for {
		chunk, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		start := time.Now()
		state.Write(chunk)
		hashTime += time.Since(start)
	}

	start := time.Now()
	sum := state.Sum(size)
	hashTime += time.Since(start)

	return &Result{
		Algorithm: desc.Name,
		Bytes:     src.BytesRead(),
		ReadTime:  src.ReadTime(),
		HashTime:  hashTime,
		Hex:       hex.EncodeToString(sum),
	}, nil
}
