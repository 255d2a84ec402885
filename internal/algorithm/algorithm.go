package algorithm

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"io"
	"sort"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

// ErrUnknownAlgorithm is returned by Lookup for names outside the
// supported set.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// State is an in-progress digest computation for one algorithm. Feed file
// bytes through Write, then call Sum exactly once to finalize.
type State interface {
	io.Writer

	// Sum finalizes the digest and returns the raw digest bytes. size
	// selects the output length for variable-length algorithms and is
	// ignored for fixed-length ones.
	Sum(size int) []byte
}

// Descriptor describes one supported algorithm.
type Descriptor struct {
	// Name uniquely identifies the algorithm (lowercase).
	Name string

	// BlockSize is the algorithm's internal block size in bytes. It is
	// informational only and has no effect on digest output.
	BlockSize int

	// DigestSize is the output size in bytes. For variable-length
	// algorithms it is the default used when the caller does not choose
	// a length.
	DigestSize int

	// VariableLength marks the extendable-output family, whose output
	// size is caller-selectable and prefix-stable.
	VariableLength bool

	newState func() State
}

// NewState returns a fresh digest state for this algorithm.
func (d Descriptor) NewState() State {
	return d.newState()
}

// fixedState adapts a hash.Hash to State, ignoring the requested size.
type fixedState struct {
	hash.Hash
}

func (s fixedState) Sum(int) []byte {
	return s.Hash.Sum(nil)
}

// shakeState squeezes a caller-selected number of bytes out of a SHAKE
// sponge.
type shakeState struct {
	h sha3.ShakeHash
}

func (s shakeState) Write(p []byte) (int, error) {
	return s.h.Write(p)
}

func (s shakeState) Sum(size int) []byte {
	out := make([]byte, size)
	// Reading from a finalized SHAKE sponge cannot fail.
	s.h.Read(out)
	return out
}

// blake3State uses the BLAKE3 extendable-output reader for its Sum.
type blake3State struct {
	h *blake3.Hasher
}

func (s blake3State) Write(p []byte) (int, error) {
	return s.h.Write(p)
}

func (s blake3State) Sum(size int) []byte {
	out := make([]byte, size)
	io.ReadFull(s.h.Digest(), out)
	return out
}

func mustBlake2b(size int) hash.Hash {
	h, err := blake2b.New(size, nil)
	if err != nil {
		panic(fmt.Sprintf("blake2b-%d: %v", size*8, err))
	}
	return h
}

func mustBlake2s() hash.Hash {
	h, err := blake2s.New256(nil)
	if err != nil {
		panic(fmt.Sprintf("blake2s: %v", err))
	}
	return h
}

// registry is the full supported set, fixed at build time. Block sizes are
// the algorithms' published rate/block values.
var registry = map[string]Descriptor{
	"blake2b": {
		Name: "blake2b", BlockSize: 128, DigestSize: 64,
		newState: func() State { return fixedState{mustBlake2b(64)} },
	},
	"blake2s": {
		Name: "blake2s", BlockSize: 64, DigestSize: 32,
		newState: func() State { return fixedState{mustBlake2s()} },
	},
	"blake3": {
		Name: "blake3", BlockSize: 64, DigestSize: 32, VariableLength: true,
		newState: func() State { return blake3State{blake3.New()} },
	},
	"md5": {
		Name: "md5", BlockSize: 64, DigestSize: 16,
		newState: func() State { return fixedState{md5.New()} },
	},
	"sha1": {
		Name: "sha1", BlockSize: 64, DigestSize: 20,
		newState: func() State { return fixedState{sha1.New()} },
	},
	"sha224": {
		Name: "sha224", BlockSize: 64, DigestSize: 28,
		newState: func() State { return fixedState{sha256.New224()} },
	},
	"sha256": {
		Name: "sha256", BlockSize: 64, DigestSize: 32,
		newState: func() State { return fixedState{sha256.New()} },
	},
	"sha384": {
		Name: "sha384", BlockSize: 128, DigestSize: 48,
		newState: func() State { return fixedState{sha512.New384()} },
	},
	"sha3_224": {
		Name: "sha3_224", BlockSize: 144, DigestSize: 28,
		newState: func() State { return fixedState{sha3.New224()} },
	},
	"sha3_256": {
		Name: "sha3_256", BlockSize: 136, DigestSize: 32,
		newState: func() State { return fixedState{sha3.New256()} },
	},
	"sha3_384": {
		Name: "sha3_384", BlockSize: 104, DigestSize: 48,
		newState: func() State { return fixedState{sha3.New384()} },
	},
	"sha3_512": {
		Name: "sha3_512", BlockSize: 72, DigestSize: 64,
		newState: func() State { return fixedState{sha3.New512()} },
	},
	"sha512": {
		Name: "sha512", BlockSize: 128, DigestSize: 64,
		newState: func() State { return fixedState{sha512.New()} },
	},
	"shake_128": {
		Name: "shake_128", BlockSize: 168, DigestSize: 32, VariableLength: true,
		newState: func() State { return shakeState{sha3.NewShake128()} },
	},
	"shake_256": {
		Name: "shake_256", BlockSize: 136, DigestSize: 32, VariableLength: true,
		newState: func() State { return shakeState{sha3.NewShake256()} },
	},
}

// Lookup finds the descriptor for name. Matching is case-insensitive.
func Lookup(name string) (Descriptor, error) {
	d, ok := registry[strings.ToLower(name)]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return d, nil
}

// List returns every descriptor in lexicographic name order.
func List() []Descriptor {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	descriptors := make([]Descriptor, 0, len(names))
	for _, name := range names {
		descriptors = append(descriptors, registry[name])
	}
	return descriptors
}
