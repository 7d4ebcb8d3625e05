package pdsio

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/sddsgo/xref/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func testPage(t *testing.T, rows int) *page.Page {
	l := &page.Layout{}
	require.NoError(t, l.Define(page.ColumnKind, page.Definition{Name: "name", Type: page.String, Units: "none"}))
	require.NoError(t, l.Define(page.ColumnKind, page.Definition{Name: "x", Type: page.Double}))
	require.NoError(t, l.Define(page.ColumnKind, page.Definition{Name: "c", Type: page.Character}))
	require.NoError(t, l.Define(page.ParameterKind, page.Definition{Name: "P", Type: page.Long64}))
	require.NoError(t, l.Define(page.ParameterKind, page.Definition{Name: "Label", Type: page.String}))
	require.NoError(t, l.Define(page.ArrayKind, page.Definition{Name: "A", Type: page.Float, Dimensions: 2}))
	p := page.New(l, rows)
	for i := 0; i < rows; i++ {
		p.Columns[0].SetString(i, strings.Repeat("row", i%4))
		p.Columns[1].SetFloat64(i, float64(i)*1.5)
		p.Columns[2].SetInt64(i, int64('a'+i%26))
	}
	p.Parameters[0].SetInt64(0, -42)
	p.Parameters[1].SetString(0, "label")
	p.Arrays[0] = &page.Array{Dims: []int{2, 3}, Column: page.NewDoubleColumn([]float64{1, 2, 3, 4, 5, 6})}
	p.Arrays[0].Column = convert(p.Arrays[0].Column, page.Float)
	return p
}

func convert(c *page.Column, typ page.Type) *page.Column {
	out := page.NewColumn(typ, c.Len())
	for i := 0; i < c.Len(); i++ {
		out.CopyRow(i, c, i)
	}
	return out
}

func roundTrip(t *testing.T, opts WriterOpts, pages ...*page.Page) []*page.Page {
	var buf bytes.Buffer
	w, err := NewWriter(nopCloser{&buf}, pages[0].Layout, opts)
	require.NoError(t, err)
	for _, p := range pages {
		require.NoError(t, w.Write(p))
	}
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, pages[0].Layout, r.Layout())
	var out []*page.Page
	for {
		p, err := r.Read()
		require.NoError(t, err)
		if p == nil {
			break
		}
		require.NoError(t, p.Validate())
		out = append(out, p)
	}
	p, err := r.Read()
	require.NoError(t, err)
	assert.Nil(t, p)
	return out
}

func TestRoundTrip(t *testing.T) {
	for _, opts := range []WriterOpts{{}, {NoCompression: true}} {
		in := []*page.Page{testPage(t, 100), testPage(t, 0), testPage(t, 3)}
		out := roundTrip(t, opts, in...)
		require.Len(t, out, 3)
		for k := range in {
			assert.Equal(t, k+1, out[k].Number)
			for i := range in[k].Columns {
				assert.True(t, in[k].Columns[i].Equal(out[k].Columns[i]))
			}
			for i := range in[k].Parameters {
				assert.True(t, in[k].Parameters[i].Equal(out[k].Parameters[i]))
			}
			assert.Equal(t, []int{2, 3}, out[k].Arrays[0].Dims)
			assert.True(t, in[k].Arrays[0].Column.Equal(out[k].Arrays[0].Column))
		}
	}
}

func TestUnselectedRowsAreNotWritten(t *testing.T) {
	p := testPage(t, 4)
	require.NoError(t, p.AssignRowFlags([]bool{false, true, false, true}))
	out := roundTrip(t, WriterOpts{}, p)
	require.Len(t, out, 1)
	xs, err := out[0].ColumnDoubles("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 4.5}, xs)
}

func TestBadInput(t *testing.T) {
	_, err := NewReader(strings.NewReader("not a dataset"))
	require.ErrorIs(t, err, ErrBadMagic)

	var buf bytes.Buffer
	w, err := NewWriter(nopCloser{&buf}, testPage(t, 1).Layout, WriterOpts{NoCompression: true})
	require.NoError(t, err)
	require.NoError(t, w.Write(testPage(t, 10)))
	require.NoError(t, w.Close())
	b := buf.Bytes()
	r, err := NewReader(bytes.NewReader(b[:len(b)-10]))
	require.NoError(t, err)
	_, err = r.Read()
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRowCountExceedsPayload(t *testing.T) {
	l := testPage(t, 0).Layout
	payload := binary.AppendUvarint(nil, 1<<29)
	payload = append(payload, 0, 0, 0, 0)
	_, err := decodePage(l, payload)
	require.ErrorIs(t, err, errTruncated)

	good := appendPage(nil, testPage(t, 5))
	p, err := decodePage(l, good)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Rows())
}
