package walker

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/siudek-family/media-project/pkg/inventory/checksum"
	"github.com/siudek-family/media-project/pkg/inventory/filter"
	"github.com/siudek-family/media-project/pkg/inventory/report"
	"github.com/siudek-family/media-project/pkg/inventory/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sumABC = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	sumDEF = "cb8379ac2098aa165029e3938a51da0bcecfc008fd6795f401178647f96c5b34"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

// createTestTree writes files (relative path → content) under a fresh
// directory and returns it.
func createTestTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// sampleTree is {a.txt: "abc", sub/b.txt: "def"}.
func sampleTree(t *testing.T) string {
	return createTestTree(t, map[string]string{
		"a.txt":     "abc",
		"sub/b.txt": "def",
	})
}

// snapshot returns every path under root with file contents, for comparing
// a tree before and after a run.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	snap := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if d.IsDir() {
			snap[rel] = "<dir>"
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		snap[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return snap
}

func run(t *testing.T, opts Options) (*Result, string) {
	t.Helper()
	var buf bytes.Buffer
	opts.Out = report.New(&buf)
	w, err := New(opts)
	require.NoError(t, err)
	res, err := w.Walk(context.Background())
	require.NoError(t, err)
	return res, buf.String()
}

func readEntry(t *testing.T, path string) types.Entry {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var e types.Entry
	require.NoError(t, json.Unmarshal(data, &e))
	return e
}

func readInventory(t *testing.T, path string) []types.Entry {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []types.Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	return entries
}

func TestNew_Validation(t *testing.T) {
	t.Run("empty root", func(t *testing.T) {
		_, err := New(Options{})
		require.Error(t, err)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := New(Options{Root: filepath.Join(t.TempDir(), "nope")})
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("root is a file", func(t *testing.T) {
		root := createTestTree(t, map[string]string{"f.txt": "x"})
		_, err := New(Options{Root: filepath.Join(root, "f.txt")})
		require.ErrorIs(t, err, ErrNotDirectory)
	})

	t.Run("defaults", func(t *testing.T) {
		w, err := New(Options{Root: t.TempDir()})
		require.NoError(t, err)
		opts := w.Options()
		assert.True(t, filepath.IsAbs(opts.Root))
		assert.NotNil(t, opts.Engine)
		assert.NotNil(t, opts.Out)
		assert.False(t, opts.Mirrored())
	})
}

func TestWalk_MirrorEndToEnd(t *testing.T) {
	src := sampleTree(t)
	target := filepath.Join(t.TempDir(), "target")

	res, out := run(t, Options{Root: src, Target: target})

	a := readEntry(t, filepath.Join(target, "a.txt.json"))
	assert.Equal(t, "a.txt", a.Filename)
	assert.Regexp(t, hexDigest, a.Checksum)
	assert.Equal(t, sumABC, a.Checksum)

	b := readEntry(t, filepath.Join(target, "sub", "b.txt.json"))
	assert.Equal(t, "b.txt", b.Filename)
	assert.Equal(t, sumDEF, b.Checksum)

	assert.Equal(t, int64(2), res.Folders)
	assert.Equal(t, int64(2), res.Files)
	assert.Equal(t, int64(6), res.Bytes)
	assert.Equal(t, int64(2), res.Created)
	assert.Zero(t, res.Existing)
	assert.False(t, res.Dry)

	assert.Contains(t, out, "Scanning source folders in "+src+"...")
	assert.Contains(t, out, "Target root: "+target)
	assert.Contains(t, out, "Processing folder: "+src)
	assert.Contains(t, out, "Creating inventory for "+src+" (1 files)...")
	assert.Contains(t, out, "  [1/1] Processing: a.txt")
	assert.Contains(t, out, "Processed 2 folders.")
	assert.Contains(t, out, "Hashed 2 files")
}

func TestWalk_MirrorSecondRunSkipsEverything(t *testing.T) {
	src := sampleTree(t)
	target := filepath.Join(t.TempDir(), "target")

	first, _ := run(t, Options{Root: src, Target: target})
	require.Equal(t, int64(2), first.Created)

	before := snapshot(t, target)
	second, out := run(t, Options{Root: src, Target: target})

	assert.Zero(t, second.Created)
	assert.Equal(t, first.Created, second.Existing)
	assert.Equal(t, before, snapshot(t, target))
	assert.Contains(t, out, "Skipped 1 existing JSON files in "+target)
}

func TestWalk_MirrorSkipsFoldersWithoutFiles(t *testing.T) {
	src := createTestTree(t, map[string]string{
		"only-dirs/leaf/c.txt": "abc",
	})
	target := filepath.Join(t.TempDir(), "target")

	res, out := run(t, Options{Root: src, Target: target})

	assert.Equal(t, int64(1), res.Folders)
	assert.Equal(t, int64(2), res.Skipped)
	assert.FileExists(t, filepath.Join(target, "only-dirs", "leaf", "c.txt.json"))
	assert.NotContains(t, out, "Processing folder: "+src+"\n")
	assert.NotContains(t, out, "Skipping")
}

func TestWalk_MirrorTargetInsideSource(t *testing.T) {
	src := sampleTree(t)
	target := filepath.Join(src, "manifests")
	require.NoError(t, os.MkdirAll(target, 0o755))

	first, _ := run(t, Options{Root: src, Target: target})
	assert.Equal(t, int64(2), first.Folders)
	assert.Equal(t, int64(2), first.Created)

	second, _ := run(t, Options{Root: src, Target: target})
	assert.Equal(t, int64(2), second.Folders)
	assert.Zero(t, second.Created)
	assert.NoDirExists(t, filepath.Join(target, "manifests"))
}

func TestWalk_SingleEndToEnd(t *testing.T) {
	root := sampleTree(t)

	res, out := run(t, Options{Root: root})

	rootEntries := readInventory(t, filepath.Join(root, types.InventoryFilename))
	assert.Equal(t, []types.Entry{{Filename: "a.txt", Checksum: sumABC}}, rootEntries)

	subEntries := readInventory(t, filepath.Join(root, "sub", types.InventoryFilename))
	assert.Equal(t, []types.Entry{{Filename: "b.txt", Checksum: sumDEF}}, subEntries)

	assert.Equal(t, int64(2), res.Folders)
	assert.Equal(t, int64(2), res.Created)
	assert.Contains(t, out, "Scanning for media folders in "+root+"...")
	assert.Contains(t, out, "] Media folder: "+root)
	assert.Contains(t, out, "Processed 2 media folders.")
}

func TestWalk_SingleMarkerAtRoot(t *testing.T) {
	root := createTestTree(t, map[string]string{
		"a.txt":               "abc",
		"no_media.json":       "{}",
		"sub/b.txt":           "def",
		"sub/deeper/c.txt":    "abc",
		"other/no_media.json": "",
	})

	res, out := run(t, Options{Root: root})

	assert.NoFileExists(t, filepath.Join(root, types.InventoryFilename))
	assert.NoFileExists(t, filepath.Join(root, "other", types.InventoryFilename))
	assert.FileExists(t, filepath.Join(root, "sub", types.InventoryFilename))
	assert.FileExists(t, filepath.Join(root, "sub", "deeper", types.InventoryFilename))

	assert.Equal(t, int64(2), res.Folders)
	assert.Equal(t, int64(2), res.Skipped)
	assert.Contains(t, out, "Skipping "+root+" (no_media.json present)")
}

func TestWalk_SingleRerunListsPreviousInventory(t *testing.T) {
	root := sampleTree(t)

	run(t, Options{Root: root})
	previousSum, err := checksum.New(checksum.SHA256, checksum.DefaultChunkSize).Compute(filepath.Join(root, types.InventoryFilename))
	require.NoError(t, err)

	res, out := run(t, Options{Root: root})

	rootEntries := readInventory(t, filepath.Join(root, types.InventoryFilename))
	assert.Equal(t, []types.Entry{
		{Filename: "a.txt", Checksum: sumABC},
		{Filename: types.InventoryFilename, Checksum: previousSum},
	}, rootEntries)
	assert.Equal(t, int64(4), res.Files)
	assert.Contains(t, out, "Creating inventory for "+root+" (2 files)...")
	assert.Contains(t, out, "  [2/2] Processing: "+types.InventoryFilename)
}

func TestWalk_SingleEmptyFolder(t *testing.T) {
	root := t.TempDir()

	res, _ := run(t, Options{Root: root})

	data, err := os.ReadFile(filepath.Join(root, types.InventoryFilename))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
	assert.Equal(t, int64(1), res.Folders)
}

func TestWalk_DryModeCreatesNothing(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		root := sampleTree(t)
		before := snapshot(t, root)

		res, out := run(t, Options{Root: root, Dry: true})

		assert.Equal(t, before, snapshot(t, root))
		assert.True(t, res.Dry)
		assert.Equal(t, int64(2), res.Folders)
		assert.Contains(t, out, "Scanning for media folders in "+root+"... [DRY MODE]")
		assert.Contains(t, out, "[DRY MODE] Would write inventory to: "+filepath.Join(root, types.InventoryFilename))
		assert.NotContains(t, out, "Hashed")
	})

	t.Run("mirror", func(t *testing.T) {
		src := sampleTree(t)
		target := filepath.Join(t.TempDir(), "target")
		before := snapshot(t, src)

		res, out := run(t, Options{Root: src, Target: target, Dry: true})

		assert.Equal(t, before, snapshot(t, src))
		assert.NoDirExists(t, target)
		assert.Equal(t, int64(2), res.Created)
		assert.Contains(t, out, "[DRY MODE] Would create directory: "+filepath.Join(target, "sub"))
		assert.Contains(t, out, "[DRY MODE] Would write: "+filepath.Join(target, "a.txt.json"))
	})
}

func TestWalk_Exclude(t *testing.T) {
	root := createTestTree(t, map[string]string{
		"a.txt":             "abc",
		".git/objects/x":    "abc",
		"keep/b.txt":        "def",
		"archive/old/c.txt": "abc",
	})
	ex, err := filter.NewExclude(".git", "archive/*")
	require.NoError(t, err)

	res, _ := run(t, Options{Root: root, Exclude: ex})

	assert.Equal(t, int64(3), res.Folders) // root, keep, archive
	assert.NoFileExists(t, filepath.Join(root, ".git", types.InventoryFilename))
	assert.NoFileExists(t, filepath.Join(root, ".git", "objects", types.InventoryFilename))
	assert.NoFileExists(t, filepath.Join(root, "archive", "old", types.InventoryFilename))
	assert.FileExists(t, filepath.Join(root, "archive", types.InventoryFilename))
}

func TestWalk_Blake3(t *testing.T) {
	src := sampleTree(t)
	target := filepath.Join(t.TempDir(), "target")

	_, _ = run(t, Options{
		Root:   src,
		Target: target,
		Engine: checksum.New(checksum.BLAKE3, 0),
	})

	a := readEntry(t, filepath.Join(target, "a.txt.json"))
	assert.Regexp(t, hexDigest, a.Checksum)
	assert.NotEqual(t, sumABC, a.Checksum)
}

func TestWalk_UnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	src := sampleTree(t)
	locked := filepath.Join(src, "sub", "locked.bin")
	require.NoError(t, os.WriteFile(locked, []byte("secret"), 0o000))
	target := filepath.Join(t.TempDir(), "target")

	res, out := run(t, Options{Root: src, Target: target})

	e := readEntry(t, filepath.Join(target, "sub", "locked.bin.json"))
	assert.True(t, e.Failed())
	assert.Contains(t, e.Checksum, "Failed to compute checksum")
	assert.Equal(t, int64(1), res.Failures)
	assert.Contains(t, out, "WARNING:")

	// The other file in the folder is still hashed.
	assert.Equal(t, sumDEF, readEntry(t, filepath.Join(target, "sub", "b.txt.json")).Checksum)
}

func TestWalk_Cancelled(t *testing.T) {
	root := sampleTree(t)
	w, err := New(Options{Root: root})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = w.Walk(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(root, types.InventoryFilename))
}
