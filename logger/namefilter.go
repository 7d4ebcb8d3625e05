package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// nameFilterCore passes only the entries of the named logger and its
// children.
type nameFilterCore struct {
	zapcore.Core
	name string
}

func newNameFilterCore(next zapcore.Core, name string) zapcore.Core {
	return &nameFilterCore{next, name}
}

func (core *nameFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &nameFilterCore{core.Core.With(fields), core.name}
}

func (core *nameFilterCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if e.LoggerName == core.name || strings.HasPrefix(e.LoggerName, core.name+".") {
		return core.Core.Check(e, ce)
	}
	// skip entry
	return ce
}
