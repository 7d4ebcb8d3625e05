package csvio

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/pageio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const input = `name,x,n,note
a,1.5,1,first
b,,2,
c,3,-4,"quoted, comma"
`

func TestReader(t *testing.T) {
	r, err := NewReader(strings.NewReader(input), ReaderOpts{PageRows: 2})
	require.NoError(t, err)
	l := r.Layout()
	assert.Equal(t, []string{"name", "x", "n", "note"}, l.Names(page.ColumnKind))
	assert.Equal(t, []page.Type{page.String, page.Double, page.Long64, page.String},
		[]page.Type{l.Columns[0].Type, l.Columns[1].Type, l.Columns[2].Type, l.Columns[3].Type})

	p, err := r.Read()
	require.NoError(t, err)
	require.NoError(t, p.Validate())
	assert.Equal(t, 1, p.Number)
	x, err := p.ColumnDoubles("x")
	require.NoError(t, err)
	assert.Equal(t, 1.5, x[0])
	assert.True(t, math.IsNaN(x[1]))

	p, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, 2, p.Number)
	notes, err := p.ColumnStrings("note")
	require.NoError(t, err)
	assert.Equal(t, []string{"quoted, comma"}, notes)

	p, err = r.Read()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestReaderEdgeCases(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), ReaderOpts{})
	assert.EqualError(t, err, "empty csv file")
	_, err = NewReader(strings.NewReader("a,a\n1,2\n"), ReaderOpts{})
	require.Error(t, err)

	r, err := NewReader(strings.NewReader("a,b\n"), ReaderOpts{})
	require.NoError(t, err)
	p, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, 0, p.Rows())
	p, err = r.Read()
	require.NoError(t, err)
	assert.Nil(t, p)

	r, err = NewReader(strings.NewReader("id\n007\n"), ReaderOpts{Strings: true})
	require.NoError(t, err)
	assert.Equal(t, page.String, r.Layout().Columns[0].Type)
}

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func TestRoundTrip(t *testing.T) {
	r, err := NewReader(strings.NewReader(input), ReaderOpts{PageRows: 2})
	require.NoError(t, err)
	var buf bytes.Buffer
	w := NewWriter(nopCloser{&buf}, r.Layout(), WriterOpts{})
	_, err = pageio.Copy(w, r)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, strings.Replace(input, ",,", ",NaN,", 1), buf.String())
}

func TestWriterSkipsUnselectedRows(t *testing.T) {
	l := &page.Layout{}
	require.NoError(t, l.Define(page.ColumnKind, page.Definition{Name: "c", Type: page.Character}))
	p := page.New(l, 3)
	for i, b := range "xyz" {
		p.Columns[0].SetInt64(i, int64(b))
	}
	p.Number = 7
	p.RowFlags[1] = false
	var buf bytes.Buffer
	w := NewWriter(nopCloser{&buf}, l, WriterOpts{PageColumn: true})
	require.NoError(t, w.Write(p))
	require.NoError(t, w.Close())
	assert.Equal(t, "page,c\n7,x\n7,z\n", buf.String())

	buf.Reset()
	w = NewWriter(nopCloser{&buf}, l, WriterOpts{})
	require.NoError(t, w.Close())
	assert.Equal(t, "c\n", buf.String())
}
