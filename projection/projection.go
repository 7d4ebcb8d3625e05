package projection

import (
	"fmt"

	"github.com/sddsgo/xref/editname"
	"github.com/sddsgo/xref/errors"
	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/reglob"
	"golang.org/x/exp/slices"
)

// Pair maps an entity of the secondary to its name in the output.  Replace
// pairs overwrite an entity that the output already has.
type Pair struct {
	Origin  string
	Output  string
	Replace bool
}

// Projection is the resolved output of one secondary, in secondary
// definition order per kind.
type Projection struct {
	Columns    []Pair
	Parameters []Pair
	Arrays     []Pair
	// LeaveAll is set when every column was left.
	LeaveAll bool
	Warnings []string
}

func (p *Projection) Pairs(k page.Kind) []Pair {
	switch k {
	case page.ColumnKind:
		return p.Columns
	case page.ParameterKind:
		return p.Parameters
	case page.ArrayKind:
		return p.Arrays
	}
	return nil
}

func (p *Projection) add(k page.Kind, pair Pair) {
	switch k {
	case page.ColumnKind:
		p.Columns = append(p.Columns, pair)
	case page.ParameterKind:
		p.Parameters = append(p.Parameters, pair)
	case page.ArrayKind:
		p.Arrays = append(p.Arrays, pair)
	}
}

func (p *Projection) warnf(format string, args ...interface{}) {
	p.Warnings = append(p.Warnings, fmt.Sprintf(format, args...))
}

type edit struct {
	match string
	prog  *editname.Program
}

type perKind [3][]string

// plan is a directive list sorted by concern.
type plan struct {
	take     []string
	taking   bool
	leave    []string
	transfer perKind
	rename   [3]map[string]string
	edits    [3][]edit
	replace  perKind
	ifIs     perKind
	ifNot    perKind
}

func kindIndex(k page.Kind) (int, error) {
	switch k {
	case page.ColumnKind, page.ParameterKind, page.ArrayKind:
		return int(k), nil
	}
	return 0, errors.E(errors.Invalid, "unknown entity kind %d", int(k))
}

// compile checks the directives and groups them.  n is the 1-based number
// of the secondary, substituted for "%ld" in edit expressions.
func compile(directives []Directive, n int) (*plan, error) {
	p := &plan{}
	for i := range p.rename {
		p.rename[i] = make(map[string]string)
	}
	for _, d := range directives {
		switch d := d.(type) {
		case Take:
			p.taking = true
			p.take = append(p.take, d.Names...)
		case Leave:
			p.leave = append(p.leave, d.Names...)
		case Transfer:
			if d.Kind == page.ColumnKind {
				return nil, errors.E(errors.Invalid, "transfer applies to parameters and arrays, not columns")
			}
			k, err := kindIndex(d.Kind)
			if err != nil {
				return nil, err
			}
			p.transfer[k] = append(p.transfer[k], d.Names...)
		case Rename:
			k, err := kindIndex(d.Kind)
			if err != nil {
				return nil, err
			}
			if d.From == "" || d.To == "" {
				return nil, errors.E(errors.Invalid, "rename of %s needs both names", d.Kind)
			}
			p.rename[k][d.From] = d.To
		case EditNames:
			k, err := kindIndex(d.Kind)
			if err != nil {
				return nil, err
			}
			prog, err := editname.Compile(editname.ExpandIndex(d.Edit, n))
			if err != nil {
				return nil, errors.E(errors.Invalid, err)
			}
			p.edits[k] = append(p.edits[k], edit{match: d.Match, prog: prog})
		case Replace:
			k, err := kindIndex(d.Kind)
			if err != nil {
				return nil, err
			}
			p.replace[k] = append(p.replace[k], d.Names...)
		case IfIs:
			k, err := kindIndex(d.Kind)
			if err != nil {
				return nil, err
			}
			p.ifIs[k] = append(p.ifIs[k], d.Names...)
		case IfNot:
			k, err := kindIndex(d.Kind)
			if err != nil {
				return nil, err
			}
			p.ifNot[k] = append(p.ifNot[k], d.Names...)
			if d.Kind == page.ColumnKind {
				p.leave = append(p.leave, d.Names...)
			}
		case nil:
			return nil, errors.E(errors.Invalid, "nil directive")
		default:
			return nil, errors.E(errors.Invalid, "unknown directive %T", d)
		}
	}
	return p, nil
}

// Validate reports malformed directives without resolving them.
func Validate(directives []Directive) error {
	_, err := compile(directives, 1)
	return err
}

// CheckGuards returns an error wrapping errors.ErrGuard if an IfIs entity
// is missing from the primary layout or an IfNot entity is present.
func CheckGuards(directives []Directive, primary *page.Layout, cache *reglob.Cache) error {
	p, err := compile(directives, 1)
	if err != nil {
		return err
	}
	for _, k := range []page.Kind{page.ColumnKind, page.ParameterKind, page.ArrayKind} {
		names := primary.Names(k)
		for _, pattern := range p.ifIs[k] {
			if len(cache.Filter(pattern, names)) == 0 {
				return fmt.Errorf("%s %q does not exist: %w", k, pattern, errors.ErrGuard)
			}
		}
		for _, pattern := range p.ifNot[k] {
			if len(cache.Filter(pattern, names)) != 0 {
				return fmt.Errorf("%s %q exists: %w", k, pattern, errors.ErrGuard)
			}
		}
	}
	return nil
}

// Resolve computes the projection of the secondary numbered n (1-based)
// and defines its output entities in out, which holds the primary's
// layout plus whatever earlier secondaries added.  primary is consulted
// for replace directives.
func Resolve(directives []Directive, secondary, primary, out *page.Layout, n int, cache *reglob.Cache) (*Projection, error) {
	p, err := compile(directives, n)
	if err != nil {
		return nil, err
	}
	proj := &Projection{}
	cols, err := p.columns(secondary, cache)
	if err != nil {
		return nil, err
	}
	proj.LeaveAll = cols == nil
	for _, name := range cols {
		p.project(proj, page.ColumnKind, secondary, out, name, cache)
	}
	if len(proj.Columns) == 0 && !proj.LeaveAll {
		proj.warnf("there are no columns being taken from secondary %d that are not already in the output", n)
	}
	for _, k := range []page.Kind{page.ParameterKind, page.ArrayKind} {
		for _, name := range expand(p.transfer[k], secondary.Names(k), cache) {
			p.project(proj, k, secondary, out, name, cache)
		}
	}
	for _, k := range []page.Kind{page.ColumnKind, page.ParameterKind, page.ArrayKind} {
		if err := p.replaceEntities(proj, k, secondary, primary, out, cache); err != nil {
			return nil, err
		}
	}
	return proj, nil
}

// columns applies take and leave.  It returns nil if every column is left.
func (p *plan) columns(secondary *page.Layout, cache *reglob.Cache) ([]string, error) {
	names := secondary.Names(page.ColumnKind)
	if len(names) == 0 || slices.Contains(p.leave, "*") {
		return nil, nil
	}
	set := names
	if p.taking {
		for _, pattern := range p.take {
			if !reglob.HasWildcards(pattern) && secondary.Index(page.ColumnKind, reglob.Unescape(pattern)) < 0 {
				return nil, errors.E(errors.Schema, "column %q not found in secondary", pattern)
			}
		}
		set = expand(p.take, names, cache)
	}
	out := make([]string, 0, len(set))
	for _, name := range set {
		if !matchAny(p.leave, name, cache) {
			out = append(out, name)
		}
	}
	return out, nil
}

// expand returns the names matching any pattern, in the order of names.
func expand(patterns, names []string, cache *reglob.Cache) []string {
	var out []string
	for _, name := range names {
		if matchAny(patterns, name, cache) {
			out = append(out, name)
		}
	}
	return out
}

func matchAny(patterns []string, name string, cache *reglob.Cache) bool {
	for _, pattern := range patterns {
		if cache.Match(pattern, name) {
			return true
		}
	}
	return false
}

// outputName returns the output name of an entity: the rename map first, then
// every matching edit in declaration order, each seeing the result of the
// previous one.
func (p *plan) outputName(k page.Kind, name string, cache *reglob.Cache) string {
	if to, ok := p.rename[k][name]; ok {
		name = to
	}
	for _, e := range p.edits[k] {
		if cache.Match(e.match, name) {
			name = e.prog.Apply(name)
		}
	}
	return name
}

// project adds name to the projection unless its output name is taken.
func (p *plan) project(proj *Projection, k page.Kind, secondary, out *page.Layout, name string, cache *reglob.Cache) {
	def, _ := secondary.Lookup(k, name)
	def.Name = p.outputName(k, name, cache)
	if out.Index(k, def.Name) >= 0 {
		if !matchAny(p.replace[k], name, cache) {
			proj.warnf("%s %q from secondary already exists in output as %q; dropped", k, name, def.Name)
		}
		return
	}
	if err := out.Define(k, def); err != nil {
		proj.warnf("%s %q: %s; dropped", k, name, err)
		return
	}
	proj.add(k, Pair{Origin: name, Output: def.Name})
}

func (p *plan) replaceEntities(proj *Projection, k page.Kind, secondary, primary, out *page.Layout, cache *reglob.Cache) error {
	names := secondary.Names(k)
	for _, pattern := range p.replace[k] {
		if !reglob.HasWildcards(pattern) && secondary.Index(k, reglob.Unescape(pattern)) < 0 {
			return errors.E(errors.Schema, "%s %q to replace not found in secondary", k, pattern)
		}
	}
	for _, name := range expand(p.replace[k], names, cache) {
		if primary.Index(k, name) < 0 {
			proj.warnf("replace %s %q does not exist in the primary; ignored", k, name)
			continue
		}
		if slices.IndexFunc(proj.Pairs(k), func(pr Pair) bool { return pr.Replace && pr.Output == name }) >= 0 {
			continue
		}
		from, _ := secondary.Lookup(k, name)
		to, _ := out.Lookup(k, name)
		if from.Type != to.Type {
			if from.Type == page.String || to.Type == page.String {
				proj.warnf("cannot replace %s %q of type %s with type %s; ignored", k, name, to.Type, from.Type)
				continue
			}
			proj.warnf("replace %s %q has type %s in the secondary; redefining it", k, name, from.Type)
			if err := out.Retype(k, name, from.Type); err != nil {
				return err
			}
		}
		proj.add(k, Pair{Origin: name, Output: name, Replace: true})
	}
	return nil
}
