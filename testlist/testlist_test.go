package testlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTestFile = `package sample

import "testing"

func TestAlpha(t *testing.T) {}

func TestBeta(t *testing.T) {}

func testLowercase(t *testing.T) {}

func Test(t *testing.T) {}

func TestWrongSignature(t *testing.T, extra int) {}

func helper() {}
`

func writeModule(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"),
		[]byte("module example.com/sample\n\ngo 1.21\n"), 0o644))

	pkgDir := filepath.Join(dir, "pkg", "sample")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "sample_test.go"),
		[]byte(sampleTestFile), 0o644))

	return dir
}

func TestDiscoverRelativePath(t *testing.T) {
	dir := writeModule(t)

	names, err := Discover("./pkg/sample", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"TestAlpha", "TestBeta"}, names)
}

func TestDiscoverImportPath(t *testing.T) {
	dir := writeModule(t)

	names, err := Discover("example.com/sample/pkg/sample", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"TestAlpha", "TestBeta"}, names)
}

func TestDiscoverOutsideModule(t *testing.T) {
	dir := writeModule(t)

	_, err := Discover("example.com/other/pkg", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not in module")
}

func TestDiscoverMissingDirectory(t *testing.T) {
	dir := writeModule(t)

	_, err := Discover("./does/not/exist", dir)
	require.Error(t, err)
}
