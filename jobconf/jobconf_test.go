package jobconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sddsgo/xref/errors"
	"github.com/sddsgo/xref/join"
	"github.com/sddsgo/xref/keyindex"
	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/projection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullJob = `
flavor: xref
strategy: hash
match:
  - {primary: name, secondary: label}
  - {primary: sector}
equate:
  - {primary: x, secondary: x2, tolerance: 0.001}
reuse: {rows: true, page: true}
fillIn: true
noWarnings: true
take: [a, "b*"]
leave: [c]
transfer: {parameters: ["P*"]}
rename:
  columns: {z: zz, a: aa}
editNames:
  - {kind: column, match: "b*", edit: "ei/%ld/"}
replace: {columns: [d]}
ifIs: {parameters: [Run]}
ifNot: {arrays: [Bad]}
`

func TestConfig(t *testing.T) {
	job, err := Parse([]byte(fullJob))
	require.NoError(t, err)
	conf, err := job.Config()
	require.NoError(t, err)
	assert.Equal(t, join.Spec{
		Flavor:   join.Xref,
		Strategy: keyindex.StrategyHash,
		Match: []join.KeyPair{
			{Primary: "name", Secondary: "label"},
			{Primary: "sector"},
		},
		Equate:    []join.KeyPair{{Primary: "x", Secondary: "x2", Tolerance: 0.001}},
		Reuse:     true,
		ReusePage: true,
		FillIn:    true,
	}, conf.Spec)
	assert.True(t, conf.NoWarnings)
	assert.Equal(t, []projection.Directive{
		projection.Take{Names: []string{"a", "b*"}},
		projection.Leave{Names: []string{"c"}},
		projection.Transfer{Kind: page.ParameterKind, Names: []string{"P*"}},
		projection.Rename{Kind: page.ColumnKind, From: "a", To: "aa"},
		projection.Rename{Kind: page.ColumnKind, From: "z", To: "zz"},
		projection.EditNames{Kind: page.ColumnKind, Match: "b*", Edit: "ei/%ld/"},
		projection.Replace{Kind: page.ColumnKind, Names: []string{"d"}},
		projection.IfIs{Kind: page.ParameterKind, Names: []string{"Run"}},
		projection.IfNot{Kind: page.ArrayKind, Names: []string{"Bad"}},
	}, conf.Directives)
}

func TestMatchShorthand(t *testing.T) {
	for _, src := range []string{"match: name", "match: {primary: name}", "match: [{primary: name}]"} {
		job, err := Parse([]byte(src))
		require.NoError(t, err, src)
		assert.Equal(t, Pairs{{Primary: "name"}}, job.Match, src)
	}
}

func TestEmptyJob(t *testing.T) {
	job, err := Parse(nil)
	require.NoError(t, err)
	conf, err := job.Config()
	require.NoError(t, err)
	assert.True(t, conf.Spec.Positional())
	assert.Empty(t, conf.Directives)
}

func TestInvalidJobs(t *testing.T) {
	cases := []string{
		"colums: [a]",
		"flavor: merge",
		"strategy: btree",
		"pattern: both\nmatch: a\nwildcard: true",
		"editNames: [{kind: table, match: a, edit: e}]",
		"editNames: [{kind: column, match: a, edit: 'q'}]",
		"flavor: select",
		"invert: true\nmatch: a",
	}
	for _, src := range cases {
		job, err := Parse([]byte(src))
		if err == nil {
			_, err = job.Config()
		}
		assert.True(t, errors.Is(err, errors.Invalid), "%q: %v", src, err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte("flavor: select\nmatch: id\ninvert: true\n"), 0644))
	job, err := Load(path)
	require.NoError(t, err)
	conf, err := job.Config()
	require.NoError(t, err)
	assert.Equal(t, join.Select, conf.Spec.Flavor)
	assert.True(t, conf.Spec.Invert)

	require.NoError(t, os.WriteFile(path, []byte("match: [1, 2"), 0644))
	_, err = Load(path)
	assert.True(t, errors.Is(err, errors.Invalid))
	assert.Contains(t, err.Error(), path)
}
