package cli

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type initFunc func() error

func (f initFunc) Init() error { return f() }

func TestInit(t *testing.T) {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse(nil))

	var calls int
	ctx, cleanup, err := f.Init(initFunc(func() error { calls++; return nil }))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, ctx.Err())
	cleanup()
	assert.EqualError(t, ctx.Err(), "interrupted")
	assert.NotErrorIs(t, ctx.Err(), context.Canceled)

	_, _, err = f.Init(initFunc(func() error { return os.ErrNotExist }))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pds")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	assert.True(t, FileExists(path))
	assert.True(t, FileExists("-"))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "b.pds")))
}
