package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazyFile_CreatesOnFirstWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sites.czml")
	lf := newLazyFile(path)

	assert.NoFileExists(t, path)
	require.NoError(t, lf.Close())
	assert.NoFileExists(t, path)

	_, err := lf.Write([]byte("[]"))
	require.NoError(t, err)
	require.NoError(t, lf.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestOpenOutput_Stdout(t *testing.T) {
	var stdout bytes.Buffer
	w, closeFn := openOutput("-", &stdout)

	_, err := w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, closeFn())
	assert.Equal(t, "x", stdout.String())
}
