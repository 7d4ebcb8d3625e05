// Package fs holds file system helpers used when a dataset is rewritten in
// place.
package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

var ErrAborted = errors.New("replacement aborted")

// Replacer is an io.WriteCloser that atomically replaces the content of a
// file.  Either Close or Abort must be called; Close renames the temporary
// file over the target while Abort removes it and leaves the target as it
// was.
type Replacer struct {
	f        *os.File
	err      error
	filename string
	perm     os.FileMode
	done     bool
}

// NewFileReplacer creates the temporary file next to filename.  A zero perm
// keeps the mode of the existing file, or 0666 if there is none.
func NewFileReplacer(filename string, perm os.FileMode) (*Replacer, error) {
	filename, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	if perm == 0 {
		perm = 0666
		if info, err := os.Stat(filename); err == nil {
			perm = info.Mode().Perm()
		}
	}
	f, err := os.CreateTemp(filepath.Dir(filename), ".tmp-"+filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	return &Replacer{
		f:        f,
		filename: filename,
		perm:     perm,
	}, nil
}

func (r *Replacer) Name() string {
	return r.filename
}

func (r *Replacer) Write(b []byte) (int, error) {
	n, err := r.f.Write(b)
	if err != nil && r.err == nil {
		r.err = err
	}
	return n, err
}

func (r *Replacer) Abort() {
	if r.err == nil {
		r.err = ErrAborted
	}
	_ = r.close()
}

func (r *Replacer) Close() error {
	return r.close()
}

func (r *Replacer) close() (err error) {
	if r.done {
		return r.err
	}
	r.done = true
	defer func() {
		if err != nil || r.err != nil {
			os.Remove(r.f.Name())
		}
	}()
	if err := r.f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(r.f.Name(), r.perm); err != nil {
		return err
	}
	if r.err == nil {
		return os.Rename(r.f.Name(), r.filename)
	}
	return r.err
}

// ReplaceFile replaces the content of name with whatever fn writes, or
// leaves it untouched if fn fails.
func ReplaceFile(name string, perm os.FileMode, fn func(w io.Writer) error) error {
	r, err := NewFileReplacer(name, perm)
	if err != nil {
		return err
	}
	if err := fn(r); err != nil {
		r.Abort()
		return err
	}
	return r.Close()
}
