// Package pdsio implements a binary file format for paged datasets: a magic
// string, a YAML layout header and a sequence of optionally lz4-compressed
// page frames ending with an end-of-stream marker.
package pdsio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/pageio"
	"gopkg.in/yaml.v3"
)

type Reader struct {
	frames frameReader
	layout *page.Layout
	pageno int
	eos    bool
}

var _ pageio.Reader = (*Reader)(nil)

// NewReader reads and validates the magic and the layout header of r.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil || string(magic) != Magic {
		return nil, ErrBadMagic
	}
	n, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("pdsio: reading header length: %w", noEOF(err))
	}
	if n > MaxFrameSize {
		return nil, fmt.Errorf("pdsio: header too large (%d bytes)", n)
	}
	hdr := make([]byte, n)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, fmt.Errorf("pdsio: reading header: %w", noEOF(err))
	}
	layout := &page.Layout{}
	if err := yaml.Unmarshal(hdr, layout); err != nil {
		return nil, fmt.Errorf("pdsio: decoding layout: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("pdsio: %w", err)
	}
	return &Reader{frames: frameReader{r: br}, layout: layout}, nil
}

func (r *Reader) Layout() *page.Layout {
	return r.layout
}

// Read returns the next page or nil after the end-of-stream marker.
func (r *Reader) Read() (*page.Page, error) {
	if r.eos {
		return nil, nil
	}
	kind, b, err := r.frames.readFrame()
	if err != nil {
		return nil, err
	}
	if kind == EOS {
		r.eos = true
		return nil, nil
	}
	p, err := decodePage(r.layout, b)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", r.pageno+1, err)
	}
	r.pageno++
	p.Number = r.pageno
	return p, nil
}
