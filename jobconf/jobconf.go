// Package jobconf reads the YAML job file that configures a join.
package jobconf

import (
	"bytes"
	"io"
	"os"

	"github.com/sddsgo/xref/errors"
	"github.com/sddsgo/xref/join"
	"github.com/sddsgo/xref/keyindex"
	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/projection"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

type Pair struct {
	Primary   string  `yaml:"primary"`
	Secondary string  `yaml:"secondary,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// Pairs accepts a single column name, a single pair or a list of pairs.
type Pairs []Pair

func (p *Pairs) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*p = Pairs{{Primary: value.Value}}
		return nil
	case yaml.MappingNode:
		var one Pair
		if err := value.Decode(&one); err != nil {
			return err
		}
		*p = Pairs{one}
		return nil
	}
	var list []Pair
	if err := value.Decode(&list); err != nil {
		return err
	}
	*p = list
	return nil
}

type Reuse struct {
	Rows bool `yaml:"rows"`
	Page bool `yaml:"page"`
}

type Transfer struct {
	Parameters []string `yaml:"parameters,omitempty"`
	Arrays     []string `yaml:"arrays,omitempty"`
}

type Names struct {
	Columns    []string `yaml:"columns,omitempty"`
	Parameters []string `yaml:"parameters,omitempty"`
	Arrays     []string `yaml:"arrays,omitempty"`
}

type Renames struct {
	Columns    map[string]string `yaml:"columns,omitempty"`
	Parameters map[string]string `yaml:"parameters,omitempty"`
	Arrays     map[string]string `yaml:"arrays,omitempty"`
}

type Edit struct {
	Kind  string `yaml:"kind"`
	Match string `yaml:"match"`
	Edit  string `yaml:"edit"`
}

type Job struct {
	Flavor     string   `yaml:"flavor"`
	Strategy   string   `yaml:"strategy"`
	Match      Pairs    `yaml:"match"`
	Wildcard   bool     `yaml:"wildcard"`
	Pattern    string   `yaml:"pattern"`
	Equate     Pairs    `yaml:"equate"`
	Invert     bool     `yaml:"invert"`
	Reuse      Reuse    `yaml:"reuse"`
	FillIn     bool     `yaml:"fillIn"`
	NoWarnings bool     `yaml:"noWarnings"`
	CacheSize  int      `yaml:"cacheSize"`
	Take       []string `yaml:"take"`
	Leave      []string `yaml:"leave"`
	Transfer   Transfer `yaml:"transfer"`
	Rename     Renames  `yaml:"rename"`
	EditNames  []Edit   `yaml:"editNames"`
	Replace    Names    `yaml:"replace"`
	IfIs       Names    `yaml:"ifIs"`
	IfNot      Names    `yaml:"ifNot"`
}

func Load(path string) (*Job, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	job, err := Parse(b)
	if err != nil {
		return nil, errors.E(errors.Invalid, "%s: %w", path, err)
	}
	return job, nil
}

// Parse decodes a job.  Unknown keys are an error.  An empty document is
// a positional join that takes every column.
func Parse(b []byte) (*Job, error) {
	job := &Job{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(job); err != nil && err != io.EOF {
		return nil, errors.E(errors.Invalid, err)
	}
	return job, nil
}

// Config converts the job into an engine configuration.
func (j *Job) Config() (join.Config, error) {
	var conf join.Config
	flavor, err := join.ParseFlavor(j.Flavor)
	if err != nil {
		return conf, err
	}
	strategy, err := keyindex.ParseStrategy(j.Strategy)
	if err != nil {
		return conf, errors.E(errors.Invalid, err)
	}
	side, err := join.ParsePatternSide(j.Pattern)
	if err != nil {
		return conf, err
	}
	conf.Spec = join.Spec{
		Flavor:      flavor,
		Strategy:    strategy,
		Match:       keyPairs(j.Match),
		Equate:      keyPairs(j.Equate),
		Wildcard:    j.Wildcard,
		PatternSide: side,
		Invert:      j.Invert,
		Reuse:       j.Reuse.Rows,
		ReusePage:   j.Reuse.Page,
		FillIn:      j.FillIn,
	}
	conf.NoWarnings = j.NoWarnings
	conf.CacheSize = j.CacheSize
	conf.Directives, err = j.directives()
	if err != nil {
		return conf, err
	}
	return conf, conf.Spec.Validate()
}

func keyPairs(pairs Pairs) []join.KeyPair {
	var out []join.KeyPair
	for _, p := range pairs {
		out = append(out, join.KeyPair{Primary: p.Primary, Secondary: p.Secondary, Tolerance: p.Tolerance})
	}
	return out
}

var kinds = []page.Kind{page.ColumnKind, page.ParameterKind, page.ArrayKind}

func (n Names) of(k page.Kind) []string {
	switch k {
	case page.ColumnKind:
		return n.Columns
	case page.ParameterKind:
		return n.Parameters
	}
	return n.Arrays
}

func (r Renames) of(k page.Kind) map[string]string {
	switch k {
	case page.ColumnKind:
		return r.Columns
	case page.ParameterKind:
		return r.Parameters
	}
	return r.Arrays
}

func (j *Job) directives() ([]projection.Directive, error) {
	var out []projection.Directive
	if len(j.Take) > 0 {
		out = append(out, projection.Take{Names: j.Take})
	}
	if len(j.Leave) > 0 {
		out = append(out, projection.Leave{Names: j.Leave})
	}
	if len(j.Transfer.Parameters) > 0 {
		out = append(out, projection.Transfer{Kind: page.ParameterKind, Names: j.Transfer.Parameters})
	}
	if len(j.Transfer.Arrays) > 0 {
		out = append(out, projection.Transfer{Kind: page.ArrayKind, Names: j.Transfer.Arrays})
	}
	for _, k := range kinds {
		renames := j.Rename.of(k)
		from := maps.Keys(renames)
		slices.Sort(from)
		for _, name := range from {
			out = append(out, projection.Rename{Kind: k, From: name, To: renames[name]})
		}
	}
	for _, e := range j.EditNames {
		k, err := page.ParseKind(e.Kind)
		if err != nil {
			return nil, errors.E(errors.Invalid, "editNames: %w", err)
		}
		out = append(out, projection.EditNames{Kind: k, Match: e.Match, Edit: e.Edit})
	}
	for _, k := range kinds {
		if names := j.Replace.of(k); len(names) > 0 {
			out = append(out, projection.Replace{Kind: k, Names: names})
		}
		if names := j.IfIs.of(k); len(names) > 0 {
			out = append(out, projection.IfIs{Kind: k, Names: names})
		}
		if names := j.IfNot.of(k); len(names) > 0 {
			out = append(out, projection.IfNot{Kind: k, Names: names})
		}
	}
	return out, projection.Validate(out)
}
