package page

import "fmt"

// Kind names the three namespaces of a layout.
type Kind int

const (
	ColumnKind Kind = iota
	ParameterKind
	ArrayKind
)

func (k Kind) String() string {
	switch k {
	case ColumnKind:
		return "column"
	case ParameterKind:
		return "parameter"
	case ArrayKind:
		return "array"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts the singular or plural name of a kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "column", "columns":
		return ColumnKind, nil
	case "parameter", "parameters":
		return ParameterKind, nil
	case "array", "arrays":
		return ArrayKind, nil
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// Definition describes one column, parameter or array.  Dimensions is
// only meaningful for arrays.
type Definition struct {
	Name        string `yaml:"name"`
	Type        Type   `yaml:"type"`
	Units       string `yaml:"units,omitempty"`
	Description string `yaml:"description,omitempty"`
	Dimensions  int    `yaml:"dimensions,omitempty"`
}

// Layout is the schema shared by every page of a dataset.
type Layout struct {
	Columns    []Definition `yaml:"columns,omitempty"`
	Parameters []Definition `yaml:"parameters,omitempty"`
	Arrays     []Definition `yaml:"arrays,omitempty"`
}

func (l *Layout) Definitions(k Kind) []Definition {
	switch k {
	case ColumnKind:
		return l.Columns
	case ParameterKind:
		return l.Parameters
	case ArrayKind:
		return l.Arrays
	}
	return nil
}

// Index returns the position of the named entity of kind k or -1.
func (l *Layout) Index(k Kind, name string) int {
	for i, d := range l.Definitions(k) {
		if d.Name == name {
			return i
		}
	}
	return -1
}

func (l *Layout) Lookup(k Kind, name string) (Definition, bool) {
	if i := l.Index(k, name); i >= 0 {
		return l.Definitions(k)[i], true
	}
	return Definition{}, false
}

func (l *Layout) Names(k Kind) []string {
	defs := l.Definitions(k)
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	return names
}

// Define appends a definition of kind k.  It fails if the name is taken.
func (l *Layout) Define(k Kind, d Definition) error {
	if d.Name == "" {
		return fmt.Errorf("%s with empty name", k)
	}
	if !d.Type.valid() {
		return fmt.Errorf("%s %q: invalid type", k, d.Name)
	}
	if l.Index(k, d.Name) >= 0 {
		return fmt.Errorf("%s %q already defined", k, d.Name)
	}
	switch k {
	case ColumnKind:
		l.Columns = append(l.Columns, d)
	case ParameterKind:
		l.Parameters = append(l.Parameters, d)
	case ArrayKind:
		if d.Dimensions < 1 {
			d.Dimensions = 1
		}
		l.Arrays = append(l.Arrays, d)
	default:
		return fmt.Errorf("unknown entity kind %d", int(k))
	}
	return nil
}

// Retype changes the type of an existing definition.
func (l *Layout) Retype(k Kind, name string, typ Type) error {
	i := l.Index(k, name)
	if i < 0 {
		return fmt.Errorf("%s %q not defined", k, name)
	}
	l.Definitions(k)[i].Type = typ
	return nil
}

// Copy returns a deep copy of the layout.
func (l *Layout) Copy() *Layout {
	return &Layout{
		Columns:    append([]Definition(nil), l.Columns...),
		Parameters: append([]Definition(nil), l.Parameters...),
		Arrays:     append([]Definition(nil), l.Arrays...),
	}
}

// Validate checks for empty or duplicate names and invalid types.
func (l *Layout) Validate() error {
	for _, k := range []Kind{ColumnKind, ParameterKind, ArrayKind} {
		seen := make(map[string]struct{})
		for _, d := range l.Definitions(k) {
			if d.Name == "" {
				return fmt.Errorf("%s with empty name", k)
			}
			if !d.Type.valid() {
				return fmt.Errorf("%s %q: invalid type", k, d.Name)
			}
			if _, ok := seen[d.Name]; ok {
				return fmt.Errorf("duplicate %s %q", k, d.Name)
			}
			seen[d.Name] = struct{}{}
		}
	}
	return nil
}
