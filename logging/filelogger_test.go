package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileLoggerCreatesRunDir(t *testing.T) {
	base := t.TempDir()
	l, err := NewFileLogger(base, "run-1", log.New())
	require.NoError(t, err)

	info, err := os.Stat(l.RunDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(base, "run-1"), l.RunDir())
}

func TestNewFileLoggerValidation(t *testing.T) {
	_, err := NewFileLogger("", "run-1", log.New())
	assert.ErrorContains(t, err, "log directory is required")

	_, err = NewFileLogger(t.TempDir(), "", log.New())
	assert.ErrorContains(t, err, "run ID is required")
}

func TestWriteFailureSanitizesLabelPath(t *testing.T) {
	l, err := NewFileLogger(t.TempDir(), "run-1", log.New())
	require.NoError(t, err)

	require.NoError(t, l.WriteFailure("group one/broken: test", "boom\n"))

	content, err := os.ReadFile(filepath.Join(l.RunDir(), "group_one_broken__test.log"))
	require.NoError(t, err)
	assert.Equal(t, "boom\n", string(content))
}
