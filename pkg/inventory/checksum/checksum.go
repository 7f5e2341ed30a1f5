// Package checksum streams files through a 256-bit digest and reports the
// result as lowercase hex. It offers a strict policy that returns a typed
// *types.ChecksumError and a lenient policy that folds the failure into an
// "ERROR: ..." marker.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/siudek-family/media-project/pkg/inventory/types"
	"github.com/zeebo/blake3"
)

// DefaultChunkSize is the read size used when streaming a file into the digest.
const DefaultChunkSize = 64 * 1024

// Algorithm names a supported digest.
type Algorithm string

const (
	// SHA256 is the default digest.
	SHA256 Algorithm = "sha256"
	// BLAKE3 is BLAKE3 with its default 32-byte output.
	BLAKE3 Algorithm = "blake3"
)

// ErrUnknownAlgorithm is returned when an algorithm name is not supported.
var ErrUnknownAlgorithm = errors.New("unknown checksum algorithm")

// ParseAlgorithm parses an algorithm name. The empty string selects SHA256.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sha256", "sha-256":
		return SHA256, nil
	case "blake3":
		return BLAKE3, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownAlgorithm, s)
	}
}

func (a Algorithm) newHash() hash.Hash {
	if a == BLAKE3 {
		return blake3.New()
	}
	return sha256.New()
}

// Engine computes file digests. The zero value hashes with SHA256 in
// DefaultChunkSize reads.
type Engine struct {
	Algorithm Algorithm
	ChunkSize int
}

// New returns an Engine for the given algorithm and chunk size.
// A non-positive chunk size selects DefaultChunkSize.
func New(alg Algorithm, chunkSize int) *Engine {
	return &Engine{Algorithm: alg, ChunkSize: chunkSize}
}

// Compute returns the hex digest of the file at path. Any I/O failure is
// returned as a *types.ChecksumError. Nothing is cached: every call re-reads
// the whole file.
func (e *Engine) Compute(path string) (string, error) {
	sum, _, err := e.compute(path)
	return sum, err
}

// ComputeSize is Compute that also reports the number of bytes read.
func (e *Engine) ComputeSize(path string) (string, int64, error) {
	return e.compute(path)
}

// Lenient returns the hex digest of the file at path, or "ERROR: <message>"
// when the file cannot be read.
func (e *Engine) Lenient(path string) string {
	sum, _, err := e.compute(path)
	if err != nil {
		return types.ErrorMarker(err)
	}
	return sum
}

func (e *Engine) compute(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, &types.ChecksumError{Path: path, Err: err}
	}
	defer f.Close()

	chunk := e.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	h := e.Algorithm.newHash()
	buf := make([]byte, chunk)
	var total int64
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", total, &types.ChecksumError{Path: path, Err: err}
		}
	}

	return hex.EncodeToString(h.Sum(nil)), total, nil
}
