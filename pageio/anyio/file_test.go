package anyio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sddsgo/xref/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layout(t *testing.T) *page.Layout {
	l := &page.Layout{}
	require.NoError(t, l.Define(page.ColumnKind, page.Definition{Name: "k", Type: page.Long}))
	return l
}

func writeFile(t *testing.T, path string, rows ...int) {
	l := layout(t)
	w, err := CreateWriter(path, l, WriterOpts{})
	require.NoError(t, err)
	for _, n := range rows {
		require.NoError(t, w.Write(page.New(l, n)))
	}
	require.NoError(t, w.Close())
}

func readRows(t *testing.T, path string) []int {
	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	var rows []int
	for {
		p, err := r.Read()
		require.NoError(t, err)
		if p == nil {
			return rows
		}
		rows = append(rows, p.Rows())
	}
}

func TestCreateAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.pds")
	writeFile(t, path, 2, 0, 5)
	assert.Equal(t, []int{2, 0, 5}, readRows(t, path))
}

func TestOpenNotDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0666))
	_, err := OpenReader(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestReplaceWhileReading(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.pds")
	writeFile(t, path, 1, 2)

	r, err := OpenReader(path)
	require.NoError(t, err)
	w, err := ReplaceWriter(path, r.Layout(), WriterOpts{})
	require.NoError(t, err)
	for {
		p, err := r.Read()
		require.NoError(t, err)
		if p == nil {
			break
		}
		p.RowFlags[0] = false
		require.NoError(t, w.Write(p))
	}
	require.NoError(t, r.Close())
	require.NoError(t, w.Close())
	assert.Equal(t, []int{0, 1}, readRows(t, path))
}

func TestReplaceAbort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.pds")
	writeFile(t, path, 3)
	w, err := ReplaceWriter(path, layout(t), WriterOpts{})
	require.NoError(t, err)
	require.NoError(t, w.Write(page.New(layout(t), 7)))
	w.Abort()
	assert.Equal(t, []int{3}, readRows(t, path))
}
