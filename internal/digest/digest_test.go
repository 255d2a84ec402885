package digest_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bdwells00/hash/internal/algorithm"
	"github.com/bdwells00/hash/internal/chunker"
	"github.com/bdwells00/hash/internal/digest"
)

// memSource is an in-memory ChunkSource for tests.
type memSource struct {
	data   []byte
	chunk  int
	pos    int
	closed int
}

func (m *memSource) Next() ([]byte, error) {
	if m.pos >= len(m.data) {
		return nil, io.EOF
	}
	end := m.pos + m.chunk
	if end > len(m.data) {
		end = len(m.data)
	}
	out := m.data[m.pos:end]
	m.pos = end
	return out, nil
}

func (m *memSource) ReadTime() time.Duration { return 0 }
func (m *memSource) BytesRead() int64        { return int64(m.pos) }
func (m *memSource) Close() error            { m.closed++; return nil }

func mustLookup(t *testing.T, name string) algorithm.Descriptor {
	t.Helper()
	desc, err := algorithm.Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return desc
}

func sum(t *testing.T, name string, length int, data []byte) string {
	t.Helper()
	result, err := digest.Run(mustLookup(t, name), length, &memSource{data: data, chunk: 1000})
	if err != nil {
		t.Fatalf("run %s: %v", name, err)
	}
	return result.Hex
}

func TestRun(t *testing.T) {
	t.Run("computes the well-known empty-input sha256", func(t *testing.T) {
		expected := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if got := sum(t, "sha256", 0, nil); got != expected {
			t.Errorf("expected %s, got %s", expected, got)
		}
	})

	t.Run("computes known digests for hello world", func(t *testing.T) {
		input := []byte("hello world")
		cases := map[string]string{
			"md5":    "5eb63bbbe01eeed093cb22bb8f5acdc3",
			"sha256": "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
			"blake3": "d74981efa70a0c880b8d8c1985d075dbcbf679b99a5f9914e5aaf96b831a9e24",
		}
		for name, expected := range cases {
			if got := sum(t, name, 0, input); got != expected {
				t.Errorf("%s: expected %s, got %s", name, expected, got)
			}
		}
	})

	t.Run("is independent of chunk size", func(t *testing.T) {
		data := bytes.Repeat([]byte("chunking must not change the digest "), 300)
		var first string
		for _, chunk := range []int{1, 7, 1000, len(data) + 1} {
			result, err := digest.Run(mustLookup(t, "sha512"), 0,
				&memSource{data: data, chunk: chunk})
			if err != nil {
				t.Fatalf("chunk %d: %v", chunk, err)
			}
			if first == "" {
				first = result.Hex
				continue
			}
			if result.Hex != first {
				t.Errorf("chunk %d: expected %s, got %s", chunk, first, result.Hex)
			}
		}
	})

	t.Run("is deterministic across runs", func(t *testing.T) {
		data := []byte("same input, same output")
		if a, b := sum(t, "blake2b", 0, data), sum(t, "blake2b", 0, data); a != b {
			t.Errorf("digests differ: %s vs %s", a, b)
		}
	})

	t.Run("hex output is twice the digest size", func(t *testing.T) {
		for _, desc := range algorithm.List() {
			result, err := digest.Run(desc, 0, &memSource{data: []byte("x"), chunk: 10})
			if err != nil {
				t.Fatalf("%s: %v", desc.Name, err)
			}
			if len(result.Hex) != 2*desc.DigestSize {
				t.Errorf("%s: expected %d hex chars, got %d",
					desc.Name, 2*desc.DigestSize, len(result.Hex))
			}
		}
	})

	t.Run("ignores length for fixed algorithms", func(t *testing.T) {
		data := []byte("fixed")
		if a, b := sum(t, "sha256", 5, data), sum(t, "sha256", 0, data); a != b {
			t.Errorf("length must be ignored for sha256: %s vs %s", a, b)
		}
	})

	t.Run("rejects out-of-range variable lengths", func(t *testing.T) {
		for _, length := range []int{-1, 129, 4096} {
			src := &memSource{data: []byte("x"), chunk: 10}
			_, err := digest.Run(mustLookup(t, "shake_128"), length, src)
			if !errors.Is(err, digest.ErrInvalidLength) {
				t.Errorf("length %d: expected ErrInvalidLength, got %v", length, err)
			}
			if src.closed != 1 {
				t.Errorf("length %d: expected source closed once, got %d", length, src.closed)
			}
		}
	})

	t.Run("closes the source exactly once", func(t *testing.T) {
		src := &memSource{data: []byte("close me"), chunk: 4}
		if _, err := digest.Run(mustLookup(t, "sha1"), 0, src); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if src.closed != 1 {
			t.Errorf("expected source closed once, got %d", src.closed)
		}
	})

	t.Run("computes a file digest through the chunked reader", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "input.txt")
		if err := os.WriteFile(path, []byte("hello world"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		src, err := chunker.Open(path, 1000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result, err := digest.Run(mustLookup(t, "sha256"), 0, src)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
		if result.Hex != expected {
			t.Errorf("expected %s, got %s", expected, result.Hex)
		}
		if result.Bytes != 11 {
			t.Errorf("expected 11 bytes, got %d", result.Bytes)
		}
		if result.Algorithm != "sha256" {
			t.Errorf("expected algorithm sha256, got %s", result.Algorithm)
		}
	})
}

func TestRunVariableLength(t *testing.T) {
	t.Run("computes the well-known empty-input shake_128", func(t *testing.T) {
		expected := "7f9c2ba4e88f827d616045507605853ed73b8093f6efbc88eb1a6eacfa66ef26"
		if got := sum(t, "shake_128", 32, nil); got != expected {
			t.Errorf("expected %s, got %s", expected, got)
		}
	})

	t.Run("shorter outputs are prefixes of longer ones", func(t *testing.T) {
		data := []byte("prefix stability")
		for _, name := range []string{"shake_128", "shake_256", "blake3"} {
			one := sum(t, name, 1, data)
			std := sum(t, name, 32, data)
			max := sum(t, name, 128, data)

			if len(one) != 2 {
				t.Errorf("%s: expected 2 hex chars at length 1, got %d", name, len(one))
			}
			if len(max) != 256 {
				t.Errorf("%s: expected 256 hex chars at length 128, got %d", name, len(max))
			}
			if !strings.HasPrefix(std, one) {
				t.Errorf("%s: %s is not a prefix of %s", name, one, std)
			}
			if !strings.HasPrefix(max, std) {
				t.Errorf("%s: %s is not a prefix of %s", name, std, max)
			}
		}
	})

	t.Run("defaults to the descriptor size when length is absent", func(t *testing.T) {
		data := []byte("default length")
		if a, b := sum(t, "shake_256", 0, data), sum(t, "shake_256", 32, data); a != b {
			t.Errorf("expected default length 32: %s vs %s", a, b)
		}
	})
}

func TestCompare(t *testing.T) {
	t.Run("matches regardless of hex case", func(t *testing.T) {
		outcome := digest.Compare("ABCDEF0123", "abcdef0123")
		if !outcome.Matches {
			t.Error("expected case-insensitive match")
		}
	})

	t.Run("does not trim whitespace", func(t *testing.T) {
		if digest.Compare("abc ", "abc").Matches {
			t.Error("trailing whitespace must not match")
		}
		if digest.Compare("abc", " abc").Matches {
			t.Error("leading whitespace must not match")
		}
	})

	t.Run("rejects different digests", func(t *testing.T) {
		if digest.Compare("abc123", "abc124").Matches {
			t.Error("expected mismatch")
		}
	})

	t.Run("preserves both sides in the outcome", func(t *testing.T) {
		outcome := digest.Compare("AA", "bb")
		if outcome.Computed != "AA" || outcome.Reference != "bb" {
			t.Errorf("unexpected outcome: %+v", outcome)
		}
	})
}
