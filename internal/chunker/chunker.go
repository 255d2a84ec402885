package chunker

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
)

// BlockSizeFactor converts the CLI blocksize multiplier to a chunk size in
// bytes (a multiplier of 16 reads 16 kB chunks).
const BlockSizeFactor = 1000

var (
	// ErrFileNotFound is returned by Open when the path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrFileUnreadable is returned when the path exists but cannot be
	// read (permissions, is a directory, mid-pass read failure).
	ErrFileUnreadable = errors.New("file unreadable")
)

// Reader streams one file as a finite sequence of fixed-size chunks,
// accumulating the wall-clock time spent in the underlying reads. Every
// chunk is full-size except possibly the last. A Reader is good for exactly
// one pass; a fresh pass requires a fresh Open.
type Reader struct {
	f        *os.File
	path     string
	buf      []byte
	size     int64
	read     int64
	readTime time.Duration
	done     bool
}

// Open opens path for a single chunked pass. The file handle is released by
// Close, or automatically once Next reports io.EOF or a read failure.
func Open(path string, chunkSize int64) (*Reader, error) {
	if chunkSize <= 0 {
		chunkSize = 16 * BlockSizeFactor
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrFileUnreadable, path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrFileUnreadable, path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileUnreadable, path)
	}

	return &Reader{
		f:    f,
		path: path,
		buf:  make([]byte, chunkSize),
		size: info.Size(),
	}, nil
}

// Next returns the next chunk. The returned slice is only valid until the
// following call. Next returns io.EOF once the file is exhausted; the file
// handle is closed before that (or any read error) is returned.
func (r *Reader) Next() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}

	start := time.Now()
	n, err := io.ReadFull(r.f, r.buf)
	r.readTime += time.Since(start)
	r.read += int64(n)

	switch {
	case err == io.EOF:
		// Exhausted exactly on a chunk boundary (or empty file).
		r.done = true
		r.Close()
		return nil, io.EOF
	case err == io.ErrUnexpectedEOF:
		// Short final chunk.
		r.done = true
		r.Close()
		return r.buf[:n], nil
	case err != nil:
		r.done = true
		r.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrFileUnreadable, r.path, err)
	}

	return r.buf, nil
}

// Close releases the file handle. It is safe to call more than once; the
// handle is closed exactly once per pass.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	f := r.f
	r.f = nil
	return f.Close()
}

// ReadTime reports the accumulated wall-clock time spent in read calls. It
// excludes any time the consumer spends between chunks.
func (r *Reader) ReadTime() time.Duration {
	return r.readTime
}

// BytesRead reports the total bytes yielded so far.
func (r *Reader) BytesRead() int64 {
	return r.read
}

// Size reports the file size at the time of Open.
func (r *Reader) Size() int64 {
	return r.size
}
