package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/siudek-family/media-project/pkg/inventory/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helloWorldSHA256 = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input   string
		want    Algorithm
		wantErr bool
	}{
		{"", SHA256, false},
		{"sha256", SHA256, false},
		{"SHA-256", SHA256, false},
		{"blake3", BLAKE3, false},
		{"md5", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Compute_KnownDigest(t *testing.T) {
	path := writeFile(t, t.TempDir(), "test.txt", "hello world")

	var e Engine
	sum, err := e.Compute(path)
	require.NoError(t, err)
	assert.Equal(t, helloWorldSHA256, sum)
}

func TestEngine_Compute_MatchesReference(t *testing.T) {
	dir := t.TempDir()

	// Larger than several chunks and not a multiple of the chunk size.
	content := strings.Repeat("media-inventory-", 20000) + "tail"
	path := writeFile(t, dir, "big.bin", content)

	ref := sha256.Sum256([]byte(content))
	want := hex.EncodeToString(ref[:])

	for _, chunk := range []int{0, 1, 7, 4096, DefaultChunkSize} {
		e := New(SHA256, chunk)
		sum, n, err := e.ComputeSize(path)
		require.NoError(t, err)
		assert.Equal(t, want, sum, "chunk size %d", chunk)
		assert.Equal(t, int64(len(content)), n)
	}
}

func TestEngine_Compute_EmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty", "")

	sum, err := New(SHA256, 0).Compute(path)
	require.NoError(t, err)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", sum)
}

func TestEngine_Compute_BLAKE3(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", "hello world")
	b := writeFile(t, dir, "b", "hello world")

	e := New(BLAKE3, 0)
	sumA, err := e.Compute(a)
	require.NoError(t, err)
	sumB, err := e.Compute(b)
	require.NoError(t, err)

	assert.Len(t, sumA, 64)
	assert.Equal(t, sumA, sumB)
	assert.NotEqual(t, helloWorldSHA256, sumA)
	assert.Equal(t, strings.ToLower(sumA), sumA)
}

func TestEngine_Compute_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent_file.txt")

	_, err := New(SHA256, 0).Compute(path)
	require.Error(t, err)

	var ce *types.ChecksumError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, path, ce.Path)
	assert.Contains(t, err.Error(), "Failed to compute checksum")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEngine_Compute_Directory(t *testing.T) {
	// Opening a directory succeeds on unix but reading it fails.
	_, err := New(SHA256, 0).Compute(t.TempDir())
	var ce *types.ChecksumError
	assert.ErrorAs(t, err, &ce)
}

func TestEngine_Lenient(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "test.txt", "hello world")

	e := New(SHA256, 0)
	assert.Equal(t, helloWorldSHA256, e.Lenient(path))

	got := e.Lenient(filepath.Join(dir, "missing.txt"))
	assert.True(t, strings.HasPrefix(got, "ERROR: "), got)
}

func TestEngine_PoliciesAgree(t *testing.T) {
	path := writeFile(t, t.TempDir(), "same.txt", "identical bytes")

	e := New(SHA256, 0)
	strict, err := e.Compute(path)
	require.NoError(t, err)
	assert.Equal(t, strict, e.Lenient(path))
}
