// Package csvio converts between CSV text and paged datasets.  A CSV file
// has a single header row naming the columns; it carries no parameters or
// arrays.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/sddsgo/xref/page"
)

type ReaderOpts struct {
	// PageRows splits the rows into pages of at most PageRows rows.  Zero
	// puts every row on one page.
	PageRows int
	// Strings reads every column as a string column.
	Strings bool
}

// Reader reads the whole CSV input up front since a column's type is only
// known once every value has been seen.
type Reader struct {
	layout *page.Layout
	cols   []*page.Column
	rows   int
	size   int
	next   int
	number int
}

func NewReader(r io.Reader, opts ReaderOpts) (*Reader, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty csv file")
	}
	hdr, records := records[0], records[1:]
	layout := &page.Layout{}
	cols := make([]*page.Column, 0, len(hdr))
	for k, name := range hdr {
		vals := make([]string, len(records))
		for i, rec := range records {
			vals[i] = rec[k]
		}
		typ := page.String
		if !opts.Strings {
			typ = infer(vals)
		}
		if err := layout.Define(page.ColumnKind, page.Definition{Name: name, Type: typ}); err != nil {
			return nil, fmt.Errorf("csv header: %w", err)
		}
		cols = append(cols, convert(typ, vals))
	}
	size := opts.PageRows
	if size <= 0 {
		size = len(records)
	}
	return &Reader{layout: layout, cols: cols, rows: len(records), size: size}, nil
}

// infer returns Long64 if every non-empty value is an integer, Double if
// every one is a number and String otherwise.
func infer(vals []string) page.Type {
	typ := page.Long64
	var seen bool
	for _, s := range vals {
		if s == "" {
			continue
		}
		seen = true
		if typ == page.Long64 {
			if _, err := strconv.ParseInt(s, 10, 64); err == nil {
				continue
			}
			typ = page.Double
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return page.String
		}
	}
	if !seen {
		return page.String
	}
	return typ
}

func convert(typ page.Type, vals []string) *page.Column {
	if typ == page.String {
		return page.NewStringColumn(vals)
	}
	c := page.NewColumn(typ, len(vals))
	for i, s := range vals {
		switch {
		case s == "" && typ == page.Double:
			c.SetFloat64(i, math.NaN())
		case s == "":
		case typ == page.Long64:
			v, _ := strconv.ParseInt(s, 10, 64)
			c.SetInt64(i, v)
		default:
			v, _ := strconv.ParseFloat(s, 64)
			c.SetFloat64(i, v)
		}
	}
	return c
}

func (r *Reader) Layout() *page.Layout {
	return r.layout
}

// Read returns the next page.  An input without data rows yields a single
// empty page.
func (r *Reader) Read() (*page.Page, error) {
	if r.next >= r.rows && (r.rows > 0 || r.number > 0) {
		return nil, nil
	}
	end := r.next + r.size
	if end > r.rows {
		end = r.rows
	}
	p := page.New(r.layout, end-r.next)
	for k, c := range r.cols {
		for i := r.next; i < end; i++ {
			p.Columns[k].CopyRow(i-r.next, c, i)
		}
	}
	r.next = end
	r.number++
	p.Number = r.number
	return p, nil
}
