// Package pagebuf provides an in-memory dataset.
package pagebuf

import (
	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/pageio"
)

// Array is a slice of pages that implements the pageio.Reader and
// pageio.Writer interfaces.
type Array struct {
	layout *page.Layout
	pages  []*page.Page
	next   int
}

var _ pageio.Reader = (*Array)(nil)
var _ pageio.Writer = (*Array)(nil)

func NewArray(layout *page.Layout, pages ...*page.Page) *Array {
	return &Array{layout: layout, pages: pages}
}

func (a *Array) Layout() *page.Layout {
	return a.layout
}

func (a *Array) Pages() []*page.Page {
	return a.pages
}

// Write appends a copy of the selected rows of p.
func (a *Array) Write(p *page.Page) error {
	p = p.Copy()
	p.DeleteUnselected()
	p.Number = len(a.pages) + 1
	a.pages = append(a.pages, p)
	return nil
}

// Read returns the next page not yet read, or nil when every page has been
// returned.  Pages are handed out as copies so a consumer may modify their
// row flags without affecting a later Rewind.
func (a *Array) Read() (*page.Page, error) {
	if a.next >= len(a.pages) {
		return nil, nil
	}
	p := a.pages[a.next].Copy()
	a.next++
	p.Number = a.next
	return p, nil
}

// Rewind restarts reading from the first page.
func (a *Array) Rewind() {
	a.next = 0
}

// NewReader returns an independent reader over the same pages.
func (a *Array) NewReader() pageio.Reader {
	return &Array{layout: a.layout, pages: a.pages}
}
