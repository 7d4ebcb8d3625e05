package pdsio

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/pageio"
	"gopkg.in/yaml.v3"
)

type WriterOpts struct {
	// NoCompression stores every frame as is.
	NoCompression bool
}

type Writer struct {
	closer io.Closer
	frames frameWriter
	layout *page.Layout
	buf    []byte
}

var _ pageio.WriteCloser = (*Writer)(nil)

// NewWriter writes the magic and the layout header to w and returns a
// writer for pages of that layout.
func NewWriter(w io.WriteCloser, layout *page.Layout, opts WriterOpts) (*Writer, error) {
	bw := bufio.NewWriter(w)
	hdr, err := yaml.Marshal(layout)
	if err != nil {
		return nil, err
	}
	b := append([]byte(Magic), binary.AppendUvarint(nil, uint64(len(hdr)))...)
	if _, err := bw.Write(append(b, hdr...)); err != nil {
		return nil, err
	}
	return &Writer{
		closer: w,
		frames: frameWriter{w: bw, compress: !opts.NoCompression},
		layout: layout,
	}, nil
}

func (w *Writer) Layout() *page.Layout {
	return w.layout
}

// Write encodes the selected rows of p as one page frame.
func (w *Writer) Write(p *page.Page) error {
	w.buf = appendPage(w.buf[:0], p)
	return w.frames.writeFrame(PageFrame, w.buf)
}

// Close writes the end-of-stream marker, flushes and closes the underlying
// writer.
func (w *Writer) Close() error {
	err := w.frames.w.WriteByte(EOS)
	if err == nil {
		err = w.frames.w.Flush()
	}
	if cerr := w.closer.Close(); err == nil {
		err = cerr
	}
	return err
}
