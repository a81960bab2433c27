package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLog_PromoteAppendsAndRemovesTemp(t *testing.T) {
	tmp := t.TempDir()
	historyPath := filepath.Join(tmp, "proj", ".senzing", "project-history.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(historyPath), 0750))
	require.NoError(t, os.WriteFile(historyPath, []byte("earlier run\n"), 0640))

	l, err := NewTempLog(tmp)
	require.NoError(t, err)
	defer l.Close()

	tempPath := l.Path()
	_, err = l.Write([]byte("extracting archive\n"))
	require.NoError(t, err)

	require.NoError(t, l.Promote(historyPath))
	_, err = l.Write([]byte("after promote\n"))
	require.NoError(t, err)
	require.NoError(t, l.Close())

	_, err = os.Stat(tempPath)
	assert.True(t, os.IsNotExist(err), "temporary log should be discarded")

	data, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "earlier run\n"))
	assert.Contains(t, content, "senzup run "+l.RunID())
	assert.Contains(t, content, "extracting archive")
	assert.Contains(t, content, "after promote")
	assert.Equal(t, historyPath, l.Path())
}

func TestFileLog_PromoteTwice(t *testing.T) {
	tmp := t.TempDir()
	l, err := NewTempLog(tmp)
	require.NoError(t, err)
	defer l.Close()

	first := filepath.Join(tmp, "a.log")
	require.NoError(t, l.Promote(first))
	assert.NoError(t, l.Promote(first))
	assert.Error(t, l.Promote(filepath.Join(tmp, "b.log")))
}
