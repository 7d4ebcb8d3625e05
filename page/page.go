// Package page implements the in-memory model of a paged, self-describing
// dataset: a Layout shared by every page and Pages holding typed columns,
// parameters, arrays and a per-row selection mask.
package page

import (
	"fmt"
)

// Array is a named array value: a flat column of elements plus its
// dimension sizes.
type Array struct {
	Dims []int
	*Column
}

func NewArray(typ Type, dims ...int) *Array {
	n := 1
	for _, d := range dims {
		n *= d
	}
	if len(dims) == 0 {
		n = 0
	}
	return &Array{Dims: append([]int(nil), dims...), Column: NewColumn(typ, n)}
}

func (a *Array) Copy() *Array {
	return &Array{Dims: append([]int(nil), a.Dims...), Column: a.Column.Copy()}
}

// Convert returns a copy of a whose elements have type typ.
func (a *Array) Convert(typ Type) *Array {
	if a.Type() == typ {
		return a.Copy()
	}
	c := NewColumn(typ, a.Len())
	for i := 0; i < a.Len(); i++ {
		c.CopyRow(i, a.Column, i)
	}
	return &Array{Dims: append([]int(nil), a.Dims...), Column: c}
}

// Page is one table of a dataset.  Columns, Parameters and Arrays are
// aligned with the corresponding definitions of Layout.  RowFlags always
// has one entry per row.
type Page struct {
	Layout     *Layout
	Number     int
	RowFlags   []bool
	Columns    []*Column
	Parameters []*Column
	Arrays     []*Array
}

// New returns a page of n rows with zero-valued columns and parameters,
// empty arrays and every row selected.
func New(layout *Layout, n int) *Page {
	p := &Page{
		Layout:     layout,
		RowFlags:   make([]bool, n),
		Columns:    make([]*Column, len(layout.Columns)),
		Parameters: make([]*Column, len(layout.Parameters)),
		Arrays:     make([]*Array, len(layout.Arrays)),
	}
	for i := range p.RowFlags {
		p.RowFlags[i] = true
	}
	for i, d := range layout.Columns {
		p.Columns[i] = NewColumn(d.Type, n)
	}
	for i, d := range layout.Parameters {
		p.Parameters[i] = NewColumn(d.Type, 1)
	}
	for i, d := range layout.Arrays {
		p.Arrays[i] = NewArray(d.Type)
	}
	return p
}

func (p *Page) Rows() int {
	return len(p.RowFlags)
}

// CountSelected returns the number of rows whose flag is set.
func (p *Page) CountSelected() int {
	var n int
	for _, ok := range p.RowFlags {
		if ok {
			n++
		}
	}
	return n
}

// SetRowFlags sets every row flag to v.
func (p *Page) SetRowFlags(v bool) {
	for i := range p.RowFlags {
		p.RowFlags[i] = v
	}
}

// AssignRowFlags replaces the selection mask with flags.
func (p *Page) AssignRowFlags(flags []bool) error {
	if len(flags) != len(p.RowFlags) {
		return fmt.Errorf("row flag count %d does not match row count %d", len(flags), len(p.RowFlags))
	}
	copy(p.RowFlags, flags)
	return nil
}

// SelectRows clears the flag of every row for which keep returns false.
func (p *Page) SelectRows(keep func(row int) bool) {
	for i, ok := range p.RowFlags {
		if ok && !keep(i) {
			p.RowFlags[i] = false
		}
	}
}

func (p *Page) Column(name string) (*Column, error) {
	i := p.Layout.Index(ColumnKind, name)
	if i < 0 {
		return nil, fmt.Errorf("column %q not found", name)
	}
	return p.Columns[i], nil
}

// ColumnStrings returns a copy of the values of a string column.
func (p *Page) ColumnStrings(name string) ([]string, error) {
	c, err := p.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Type() != String {
		return nil, fmt.Errorf("column %q is %s, not string", name, c.Type())
	}
	return c.Strings(), nil
}

// ColumnDoubles returns the values of a numeric column as doubles.
func (p *Page) ColumnDoubles(name string) ([]float64, error) {
	c, err := p.Column(name)
	if err != nil {
		return nil, err
	}
	if !c.Type().IsNumeric() {
		return nil, fmt.Errorf("column %q is %s, not numeric", name, c.Type())
	}
	return c.Doubles(), nil
}

func (p *Page) Parameter(name string) (*Column, error) {
	i := p.Layout.Index(ParameterKind, name)
	if i < 0 {
		return nil, fmt.Errorf("parameter %q not found", name)
	}
	return p.Parameters[i], nil
}

func (p *Page) Array(name string) (*Array, error) {
	i := p.Layout.Index(ArrayKind, name)
	if i < 0 {
		return nil, fmt.Errorf("array %q not found", name)
	}
	return p.Arrays[i], nil
}

// CopyRow copies row src of from into row dst of p for every column the
// two layouts share by name.
func (p *Page) CopyRow(dst int, from *Page, src int) {
	for i, d := range p.Layout.Columns {
		j := from.Layout.Index(ColumnKind, d.Name)
		if j < 0 {
			continue
		}
		p.Columns[i].CopyRow(dst, from.Columns[j], src)
	}
}

// CopyRows copies every row of from into the same row of p for every
// column the two layouts share by name.  The pages must have the same
// number of rows.
func (p *Page) CopyRows(from *Page) error {
	if p.Rows() != from.Rows() {
		return fmt.Errorf("cannot copy %d rows into page of %d rows", from.Rows(), p.Rows())
	}
	for i, d := range p.Layout.Columns {
		j := from.Layout.Index(ColumnKind, d.Name)
		if j < 0 {
			continue
		}
		dst, src := p.Columns[i], from.Columns[j]
		if dst.Type() == src.Type() {
			p.Columns[i] = src.Copy()
			continue
		}
		for row := 0; row < p.Rows(); row++ {
			dst.CopyRow(row, src, row)
		}
	}
	return nil
}

// CopyParameters copies every parameter and array that p's layout shares
// by name with from, converting values to the types of p's layout.
func (p *Page) CopyParameters(from *Page) {
	for i, d := range p.Layout.Parameters {
		if j := from.Layout.Index(ParameterKind, d.Name); j >= 0 {
			p.Parameters[i].CopyRow(0, from.Parameters[j], 0)
		}
	}
	for i, d := range p.Layout.Arrays {
		if j := from.Layout.Index(ArrayKind, d.Name); j >= 0 {
			p.Arrays[i] = from.Arrays[j].Convert(d.Type)
		}
	}
}

// DeleteUnselected physically removes the rows whose flag is clear.
func (p *Page) DeleteUnselected() {
	if p.CountSelected() == len(p.RowFlags) {
		return
	}
	for _, c := range p.Columns {
		c.Compact(p.RowFlags)
	}
	n := p.CountSelected()
	p.RowFlags = p.RowFlags[:n]
	p.SetRowFlags(true)
}

// Copy returns a deep copy of the page sharing its layout.
func (p *Page) Copy() *Page {
	out := &Page{
		Layout:     p.Layout,
		Number:     p.Number,
		RowFlags:   append([]bool(nil), p.RowFlags...),
		Columns:    make([]*Column, len(p.Columns)),
		Parameters: make([]*Column, len(p.Parameters)),
		Arrays:     make([]*Array, len(p.Arrays)),
	}
	for i, c := range p.Columns {
		out.Columns[i] = c.Copy()
	}
	for i, c := range p.Parameters {
		out.Parameters[i] = c.Copy()
	}
	for i, a := range p.Arrays {
		out.Arrays[i] = a.Copy()
	}
	return out
}

// Validate checks that the page data agrees with its layout.
func (p *Page) Validate() error {
	l := p.Layout
	if len(p.Columns) != len(l.Columns) || len(p.Parameters) != len(l.Parameters) || len(p.Arrays) != len(l.Arrays) {
		return fmt.Errorf("page %d does not match its layout", p.Number)
	}
	for i, c := range p.Columns {
		if c.Type() != l.Columns[i].Type {
			return fmt.Errorf("column %q: %s data for %s definition", l.Columns[i].Name, c.Type(), l.Columns[i].Type)
		}
		if c.Len() != len(p.RowFlags) {
			return fmt.Errorf("column %q: %d rows, page has %d", l.Columns[i].Name, c.Len(), len(p.RowFlags))
		}
	}
	for i, c := range p.Parameters {
		if c.Type() != l.Parameters[i].Type || c.Len() != 1 {
			return fmt.Errorf("parameter %q does not match its definition", l.Parameters[i].Name)
		}
	}
	for i, a := range p.Arrays {
		if a.Type() != l.Arrays[i].Type {
			return fmt.Errorf("array %q: %s data for %s definition", l.Arrays[i].Name, a.Type(), l.Arrays[i].Type)
		}
	}
	return nil
}
