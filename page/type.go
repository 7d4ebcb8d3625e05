package page

import (
	"fmt"
	"strings"
)

// Type is the element type of a column, parameter or array.
type Type int

const (
	Double Type = iota + 1
	Float
	Long64
	ULong64
	Long
	ULong
	Short
	UShort
	Character
	String
)

var typeNames = [...]string{
	Double:    "double",
	Float:     "float",
	Long64:    "long64",
	ULong64:   "ulong64",
	Long:      "long",
	ULong:     "ulong",
	Short:     "short",
	UShort:    "ushort",
	Character: "character",
	String:    "string",
}

var typeSizes = [...]int{
	Double:    8,
	Float:     4,
	Long64:    8,
	ULong64:   8,
	Long:      4,
	ULong:     4,
	Short:     2,
	UShort:    2,
	Character: 1,
	String:    0,
}

func (t Type) valid() bool {
	return t >= Double && t <= String
}

func (t Type) String() string {
	if !t.valid() {
		return fmt.Sprintf("type(%d)", int(t))
	}
	return typeNames[t]
}

// Size returns the width in bytes of one fixed-width value, or 0 for
// String.
func (t Type) Size() int {
	if !t.valid() {
		return 0
	}
	return typeSizes[t]
}

// IsNumeric reports whether values of t can be read as doubles.
func (t Type) IsNumeric() bool {
	return t.valid() && t != String && t != Character
}

func (t Type) IsFixed() bool {
	return t.valid() && t != String
}

// ParseType returns the Type named s.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if t != 0 && name == s {
			return Type(t), nil
		}
	}
	return 0, fmt.Errorf("unknown type %q", s)
}

func (t Type) MarshalYAML() (interface{}, error) {
	if !t.valid() {
		return nil, fmt.Errorf("cannot marshal invalid type %d", int(t))
	}
	return t.String(), nil
}

func (t *Type) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	typ, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = typ
	return nil
}
