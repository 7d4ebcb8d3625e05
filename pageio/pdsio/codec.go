package pdsio

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sddsgo/xref/page"
)

var errTruncated = errors.New("pdsio: truncated page payload")

// appendPage encodes the selected rows of p.
func appendPage(dst []byte, p *page.Page) []byte {
	dst = binary.AppendUvarint(dst, uint64(p.CountSelected()))
	for _, c := range p.Parameters {
		dst = appendValue(dst, c, 0)
	}
	for _, a := range p.Arrays {
		dst = binary.AppendUvarint(dst, uint64(len(a.Dims)))
		for _, d := range a.Dims {
			dst = binary.AppendUvarint(dst, uint64(d))
		}
		for i := 0; i < a.Len(); i++ {
			dst = appendValue(dst, a.Column, i)
		}
	}
	for _, c := range p.Columns {
		for i, ok := range p.RowFlags {
			if ok {
				dst = appendValue(dst, c, i)
			}
		}
	}
	return dst
}

func appendValue(dst []byte, c *page.Column, i int) []byte {
	if c.Type() == page.String {
		s := c.String(i)
		dst = binary.AppendUvarint(dst, uint64(len(s)))
		return append(dst, s...)
	}
	return append(dst, c.Bytes(i)...)
}

type decoder struct {
	buf []byte
}

func (d *decoder) uvarint() (int, error) {
	v, n := binary.Uvarint(d.buf)
	if n <= 0 || v > MaxFrameSize {
		return 0, errTruncated
	}
	d.buf = d.buf[n:]
	return int(v), nil
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if n < 0 || n > len(d.buf) {
		return nil, errTruncated
	}
	b := d.buf[:n]
	d.buf = d.buf[n:]
	return b, nil
}

// column reads n values of typ.
func (d *decoder) column(typ page.Type, n int) (*page.Column, error) {
	if typ != page.String {
		b, err := d.bytes(n * typ.Size())
		if err != nil {
			return nil, err
		}
		return page.NewColumnFromBytes(typ, append([]byte(nil), b...))
	}
	if n > len(d.buf) {
		return nil, errTruncated
	}
	vals := make([]string, n)
	for i := range vals {
		size, err := d.uvarint()
		if err != nil {
			return nil, err
		}
		b, err := d.bytes(size)
		if err != nil {
			return nil, err
		}
		vals[i] = string(b)
	}
	return page.NewStringColumn(vals), nil
}

func decodePage(layout *page.Layout, buf []byte) (*page.Page, error) {
	d := &decoder{buf: buf}
	rows, err := d.uvarint()
	if err != nil {
		return nil, err
	}
	// Every row takes at least one byte per column.
	if len(layout.Columns) > 0 && rows > len(d.buf) {
		return nil, errTruncated
	}
	p := page.New(layout, 0)
	p.RowFlags = make([]bool, rows)
	p.SetRowFlags(true)
	for k, def := range layout.Parameters {
		if p.Parameters[k], err = d.column(def.Type, 1); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", def.Name, err)
		}
	}
	for k, def := range layout.Arrays {
		ndims, err := d.uvarint()
		if err != nil {
			return nil, err
		}
		if ndims > len(d.buf) {
			return nil, errTruncated
		}
		dims := make([]int, ndims)
		n := 1
		for j := range dims {
			if dims[j], err = d.uvarint(); err != nil {
				return nil, err
			}
			n *= dims[j]
			if n > MaxFrameSize {
				return nil, errTruncated
			}
		}
		if ndims == 0 {
			n = 0
		}
		col, err := d.column(def.Type, n)
		if err != nil {
			return nil, fmt.Errorf("array %q: %w", def.Name, err)
		}
		p.Arrays[k] = &page.Array{Dims: dims, Column: col}
	}
	for k, def := range layout.Columns {
		if p.Columns[k], err = d.column(def.Type, rows); err != nil {
			return nil, fmt.Errorf("column %q: %w", def.Name, err)
		}
	}
	if len(d.buf) != 0 {
		return nil, fmt.Errorf("pdsio: %d trailing bytes in page payload", len(d.buf))
	}
	return p, nil
}
