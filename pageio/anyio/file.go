// Package anyio opens datasets by path.  The path "-" names standard input
// for readers and standard output for writers.
package anyio

import (
	"fmt"
	"io"
	"os"

	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/pageio"
	"github.com/sddsgo/xref/pageio/pdsio"
	"github.com/sddsgo/xref/pkg/fs"
	"go.uber.org/multierr"
)

const Stdio = "-"

type WriterOpts = pdsio.WriterOpts

type file struct {
	*pdsio.Reader
	io.Closer
	path string
}

func (f *file) String() string {
	return f.path
}

// OpenReader opens path and reads its layout header.
func OpenReader(path string) (pageio.ReadCloser, error) {
	var rc io.ReadCloser = io.NopCloser(os.Stdin)
	if path != Stdio {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		rc = f
	}
	r, err := pdsio.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &file{Reader: r, Closer: rc, path: path}, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// CreateWriter creates or truncates path and writes the layout header.
func CreateWriter(path string, layout *page.Layout, opts WriterOpts) (pageio.WriteCloser, error) {
	var wc io.WriteCloser = nopCloser{os.Stdout}
	if path != Stdio {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		wc = f
	}
	w, err := pdsio.NewWriter(wc, layout, opts)
	if err != nil {
		return nil, multierr.Append(err, wc.Close())
	}
	return w, nil
}

// Replacer is a writer whose output replaces an existing file on Close.
// Abort discards everything written and keeps the original file.
type Replacer struct {
	*pdsio.Writer
	replacer *fs.Replacer
}

// ReplaceWriter returns a writer whose output atomically replaces path when
// closed.  path may be open for reading while the replacement is written.
func ReplaceWriter(path string, layout *page.Layout, opts WriterOpts) (*Replacer, error) {
	r, err := fs.NewFileReplacer(path, 0)
	if err != nil {
		return nil, err
	}
	w, err := pdsio.NewWriter(r, layout, opts)
	if err != nil {
		r.Abort()
		return nil, err
	}
	return &Replacer{Writer: w, replacer: r}, nil
}

func (r *Replacer) Abort() {
	r.replacer.Abort()
}
