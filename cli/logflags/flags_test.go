package logflags

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/sddsgo/xref/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFlags(t *testing.T) {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	assert.Equal(t, zap.WarnLevel, f.Config.Level)

	path := filepath.Join(t.TempDir(), "x.log")
	require.NoError(t, fs.Parse([]string{"-log.level", "debug", "-log.path", path, "-log.filemode", "truncate", "-log.console=false"}))
	assert.Equal(t, logger.Config{Path: path, Mode: logger.FileModeTruncate, Level: zap.DebugLevel}, f.Config)
	l, err := f.Open()
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	require.Error(t, fs.Parse([]string{"-log.filemode", "often"}))
}
