package join

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sddsgo/xref/cmd/xref/root"
	"github.com/sddsgo/xref/errors"
	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/pageio/anyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	root.Xref.Add(Cmd)
	os.Exit(m.Run())
}

func writeDataset(t *testing.T, path string, names []string, values ...[]float64) {
	t.Helper()
	l := &page.Layout{}
	require.NoError(t, l.Define(page.ColumnKind, page.Definition{Name: "key", Type: page.String}))
	require.NoError(t, l.Define(page.ParameterKind, page.Definition{Name: "Run", Type: page.Long}))
	p := page.New(l, len(names))
	p.Columns[0] = page.NewStringColumn(names)
	for k, vals := range values {
		name := string(rune('V' + k))
		require.NoError(t, l.Define(page.ColumnKind, page.Definition{Name: name, Type: page.Double}))
		p.Columns = append(p.Columns, page.NewDoubleColumn(vals))
	}
	w, err := anyio.CreateWriter(path, l, anyio.WriterOpts{})
	require.NoError(t, err)
	require.NoError(t, w.Write(p))
	require.NoError(t, w.Close())
}

func readDataset(t *testing.T, path string) (*page.Layout, []*page.Page) {
	t.Helper()
	r, err := anyio.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()
	var pages []*page.Page
	for {
		p, err := r.Read()
		require.NoError(t, err)
		if p == nil {
			return r.Layout(), pages
		}
		pages = append(pages, p)
	}
}

func exec(args ...string) error {
	return root.Xref.ExecRoot(append([]string{"-log.path", "/dev/null", "join"}, args...))
}

type fixture struct {
	dir, primary, secondary, job string
}

func newFixture(t *testing.T, job string) fixture {
	dir := t.TempDir()
	f := fixture{
		dir:       dir,
		primary:   filepath.Join(dir, "primary.pds"),
		secondary: filepath.Join(dir, "secondary.pds"),
		job:       filepath.Join(dir, "job.yaml"),
	}
	writeDataset(t, f.primary, []string{"a", "b", "c"})
	writeDataset(t, f.secondary, []string{"b", "z"}, []float64{10, 20})
	require.NoError(t, os.WriteFile(f.job, []byte(job), 0644))
	return f
}

func TestJoinToOutput(t *testing.T) {
	f := newFixture(t, "match: key\ntake: [V]\n")
	out := filepath.Join(f.dir, "out.pds")
	require.NoError(t, exec("-job", f.job, "-o", out, f.primary, f.secondary))
	l, pages := readDataset(t, out)
	assert.Equal(t, []string{"key", "V"}, l.Names(page.ColumnKind))
	require.Len(t, pages, 1)
	keys, err := pages[0].ColumnStrings("key")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
	v, err := pages[0].ColumnDoubles("V")
	require.NoError(t, err)
	assert.Equal(t, []float64{10}, v)
}

func TestJoinInPlace(t *testing.T) {
	f := newFixture(t, "match: key\ntake: [V]\nfillIn: true\nnoWarnings: true\n")
	require.NoError(t, exec("-job", f.job, f.primary, f.secondary))
	_, pages := readDataset(t, f.primary)
	v, err := pages[0].ColumnDoubles("V")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10, 0}, v)
}

func TestGuardLeavesPrimary(t *testing.T) {
	f := newFixture(t, "match: key\nifNot: {parameters: [Run]}\n")
	before, err := os.ReadFile(f.primary)
	require.NoError(t, err)
	require.NoError(t, exec("-job", f.job, f.primary, f.secondary))
	after, err := os.ReadFile(f.primary)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSchemaErrorLeavesPrimary(t *testing.T) {
	f := newFixture(t, "match: {primary: key, secondary: missing}\n")
	before, err := os.ReadFile(f.primary)
	require.NoError(t, err)
	err = exec("-job", f.job, f.primary, f.secondary)
	assert.True(t, errors.Is(err, errors.Schema), "%v", err)
	after, err := os.ReadFile(f.primary)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestUsageErrors(t *testing.T) {
	f := newFixture(t, "")
	assert.True(t, errors.Is(exec(f.primary), errors.Invalid))
	assert.True(t, errors.Is(exec("-", f.secondary), errors.Invalid))
	assert.True(t, errors.Is(exec(f.primary, filepath.Join(f.dir, "nope.pds")), errors.IO))
	assert.True(t, errors.Is(exec("-job", filepath.Join(f.dir, "nope.yaml"), f.primary, f.secondary), errors.Other))
}

