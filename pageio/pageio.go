// Package pageio defines the interfaces through which the engine reads and
// writes paged datasets.
package pageio

import (
	"io"

	"github.com/sddsgo/xref/page"
)

// Reader wraps the Read method.
//
// Read returns the next page and a nil error, a nil page and the next
// error, or a nil page and nil error to indicate that no pages remain.
// Every page returned shares the layout reported by Layout.
type Reader interface {
	Layout() *page.Layout
	Read() (*page.Page, error)
}

// Writer writes the selected rows of a page.
type Writer interface {
	Write(*page.Page) error
}

type ReadCloser interface {
	Reader
	io.Closer
}

type WriteCloser interface {
	Writer
	io.Closer
}

func NopReadCloser(r Reader) ReadCloser {
	return nopReadCloser{r}
}

type nopReadCloser struct {
	Reader
}

func (nopReadCloser) Close() error { return nil }

// Copy writes every page of r to w and returns the number of pages copied.
func Copy(w Writer, r Reader) (int, error) {
	var n int
	for {
		p, err := r.Read()
		if p == nil || err != nil {
			return n, err
		}
		if err := w.Write(p); err != nil {
			return n, err
		}
		n++
	}
}
