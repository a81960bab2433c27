package archive

import (
	"archive/tar"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/senzup/internal/domain"
	"github.com/bnema/senzup/internal/logging"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestTGZ_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := filepath.Join(t.TempDir(), "demo")
	writeTree(t, src, map[string]string{
		"docker-bin/senzup":                     "binary",
		"docker-bin/docker-environment-vars.sh": "export A=1\n",
		"g2/g2BuildVersion.json":                "{}",
		"var/docker_save/images.txt":            "a:1\n",
		".senzing/project-name":                 "demo\n",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(src, "data"), 0o755))
	require.NoError(t, os.Symlink("g2BuildVersion.json", filepath.Join(src, "g2", "current.json")))

	a := NewTGZ(logging.Discard())
	archive := filepath.Join(t.TempDir(), "demo.tgz")
	require.NoError(t, a.Create(ctx, src, archive, []string{"*/docker-bin/senzup"}))

	first, err := a.FirstEntry(ctx, archive)
	require.NoError(t, err)
	assert.Equal(t, "demo/", first)

	dest := t.TempDir()
	require.NoError(t, a.Extract(ctx, archive, dest, nil))

	root := filepath.Join(dest, "demo")
	assert.DirExists(t, filepath.Join(root, "data"))
	assert.FileExists(t, filepath.Join(root, ".senzing", "project-name"))
	assert.NoFileExists(t, filepath.Join(root, "docker-bin", "senzup"))

	env, err := os.ReadFile(filepath.Join(root, "docker-bin", "docker-environment-vars.sh"))
	require.NoError(t, err)
	assert.Equal(t, "export A=1\n", string(env))

	link, err := os.Readlink(filepath.Join(root, "g2", "current.json"))
	require.NoError(t, err)
	assert.Equal(t, "g2BuildVersion.json", link)
}

func TestTGZ_ExtractExcludes(t *testing.T) {
	ctx := context.Background()
	src := filepath.Join(t.TempDir(), "demo")
	writeTree(t, src, map[string]string{
		"docker-bin/senzup": "binary",
		"g2/lib.so":         "lib",
	})

	a := NewTGZ(logging.Discard())
	archive := filepath.Join(t.TempDir(), "demo.tgz")
	require.NoError(t, a.Create(ctx, src, archive, nil))

	dest := t.TempDir()
	require.NoError(t, a.Extract(ctx, archive, dest, []string{"*/docker-bin/senzup"}))

	assert.NoFileExists(t, filepath.Join(dest, "demo", "docker-bin", "senzup"))
	assert.FileExists(t, filepath.Join(dest, "demo", "g2", "lib.so"))
}

func TestTGZ_InvalidExcludePattern(t *testing.T) {
	a := NewTGZ(logging.Discard())
	err := a.Create(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "x.tgz"), []string{"[unclosed"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestTGZ_FirstEntry_NotGzip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "plain.tgz")
	require.NoError(t, os.WriteFile(p, []byte("not gzip"), 0o644))

	_, err := NewTGZ(logging.Discard()).FirstEntry(context.Background(), p)
	assert.Error(t, err)
}

func TestTGZ_CreateHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := filepath.Join(t.TempDir(), "demo")
	writeTree(t, src, map[string]string{"a.txt": "a"})
	outDir := t.TempDir()

	err := NewTGZ(logging.Discard()).Create(ctx, src, filepath.Join(outDir, "demo.tgz"), nil)
	assert.ErrorIs(t, err, context.Canceled)

	leftovers, _ := filepath.Glob(filepath.Join(outDir, "*"))
	assert.Empty(t, leftovers)
}

func TestTGZ_ExtractRejectsTraversal(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "evil.tgz")
	f, err := os.Create(archive)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	body := []byte("owned")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "../outside.txt", Mode: 0o644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
	_, err = tw.Write(body)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	parent := t.TempDir()
	dest := filepath.Join(parent, "dest")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	err = NewTGZ(logging.Discard()).Extract(context.Background(), archive, dest, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.NoFileExists(t, filepath.Join(parent, "outside.txt"))
}
