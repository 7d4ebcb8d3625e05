package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/sddsgo/xref/page"
)

type WriterOpts struct {
	// PageColumn prepends a "page" column holding the page number.
	PageColumn bool
}

// Writer writes the selected rows of every page under a single header.
// Parameters and arrays are not written.
type Writer struct {
	writer  io.WriteCloser
	encoder *csv.Writer
	layout  *page.Layout
	opts    WriterOpts
	header  bool
	strings []string
}

func NewWriter(w io.WriteCloser, layout *page.Layout, opts WriterOpts) *Writer {
	return &Writer{
		writer:  w,
		encoder: csv.NewWriter(w),
		layout:  layout,
		opts:    opts,
	}
}

func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		w.writer.Close()
		return err
	}
	return w.writer.Close()
}

func (w *Writer) Flush() error {
	if !w.header {
		if err := w.writeHeader(); err != nil {
			return err
		}
	}
	w.encoder.Flush()
	return w.encoder.Error()
}

func (w *Writer) writeHeader() error {
	w.header = true
	hdr := w.layout.Names(page.ColumnKind)
	if w.opts.PageColumn {
		hdr = append([]string{"page"}, hdr...)
	}
	return w.encoder.Write(hdr)
}

func (w *Writer) Write(p *page.Page) error {
	if !w.header {
		if err := w.writeHeader(); err != nil {
			return err
		}
	}
	for row, ok := range p.RowFlags {
		if !ok {
			continue
		}
		w.strings = w.strings[:0]
		if w.opts.PageColumn {
			w.strings = append(w.strings, strconv.Itoa(p.Number))
		}
		for _, c := range p.Columns {
			w.strings = append(w.strings, cell(c, row))
		}
		if err := w.encoder.Write(w.strings); err != nil {
			return err
		}
	}
	return nil
}

func cell(c *page.Column, row int) string {
	switch c.Type() {
	case page.String:
		return c.String(row)
	case page.Character:
		return string(rune(c.Bytes(row)[0]))
	}
	return c.Format(row)
}
