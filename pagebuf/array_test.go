package pagebuf

import (
	"testing"

	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/pageio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayRoundTrip(t *testing.T) {
	l := &page.Layout{}
	require.NoError(t, l.Define(page.ColumnKind, page.Definition{Name: "k", Type: page.String}))
	p := page.New(l, 3)
	for i, s := range []string{"a", "b", "c"} {
		p.Columns[0].SetString(i, s)
	}
	p.RowFlags[1] = false

	a := NewArray(l)
	require.NoError(t, a.Write(p))
	assert.Equal(t, 3, p.Rows(), "Write must not modify its argument")

	r := a.NewReader()
	got, err := r.Read()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Number)
	vals, err := got.ColumnStrings("k")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, vals)

	got, err = r.Read()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestArrayCopy(t *testing.T) {
	l := &page.Layout{}
	src := NewArray(l, page.New(l, 1), page.New(l, 2))
	dst := NewArray(l)
	n, err := pageio.Copy(dst, src)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, dst.Pages(), 2)
	assert.Equal(t, 2, dst.Pages()[1].Rows())

	src.Rewind()
	p, err := src.Read()
	require.NoError(t, err)
	assert.Equal(t, 1, p.Rows())
}
