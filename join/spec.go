// Package join cross-references the pages of a primary dataset with the
// pages of one or more secondary datasets, either selecting primary rows
// by the presence of a matching secondary row or splicing projected
// secondary columns into them.
package join

import (
	"fmt"

	"github.com/sddsgo/xref/errors"
	"github.com/sddsgo/xref/keyindex"
)

// Flavor selects what a match does to the primary row.
type Flavor int

const (
	// Xref splices the projected secondary columns into matched rows.
	Xref Flavor = iota
	// Select keeps or drops primary rows; the output layout is the
	// primary's.
	Select
)

func (f Flavor) String() string {
	switch f {
	case Xref:
		return "xref"
	case Select:
		return "select"
	}
	return fmt.Sprintf("flavor(%d)", int(f))
}

func ParseFlavor(s string) (Flavor, error) {
	switch s {
	case "", "xref":
		return Xref, nil
	case "select":
		return Select, nil
	}
	return 0, errors.E(errors.Invalid, "unknown flavor %q", s)
}

// PatternSide says which dataset supplies the patterns of a wildcard match.
type PatternSide int

const (
	SecondaryPatterns PatternSide = iota
	PrimaryPatterns
)

func ParsePatternSide(s string) (PatternSide, error) {
	switch s {
	case "", "secondary":
		return SecondaryPatterns, nil
	case "primary":
		return PrimaryPatterns, nil
	}
	return 0, errors.E(errors.Invalid, "unknown pattern side %q", s)
}

// KeyPair names a primary key column and the secondary column it is
// compared with.  Tolerance applies to equate pairs only.
type KeyPair struct {
	Primary   string
	Secondary string
	Tolerance float64
}

// Spec says how primary rows are paired with secondary rows.  Match pairs
// compare string columns and Equate pairs numeric columns; every pair must
// hold for a row to match.  With neither, rows are paired by position.
type Spec struct {
	Flavor      Flavor
	Strategy    keyindex.Strategy
	Match       []KeyPair
	Equate      []KeyPair
	Wildcard    bool
	PatternSide PatternSide
	Invert      bool
	// Reuse lets one secondary row match any number of primary rows.
	Reuse bool
	// ReusePage pairs every primary page with the first secondary page.
	ReusePage bool
	FillIn    bool
}

func (s *Spec) Positional() bool {
	return len(s.Match) == 0 && len(s.Equate) == 0
}

// Validate checks the combination of options.
func (s *Spec) Validate() error {
	for _, p := range append(append([]KeyPair(nil), s.Match...), s.Equate...) {
		if p.Primary == "" {
			return errors.E(errors.Invalid, "key pair with empty primary column")
		}
		if p.Tolerance < 0 {
			return errors.E(errors.Invalid, "negative tolerance %g for %q", p.Tolerance, p.Primary)
		}
	}
	for _, p := range s.Match {
		if p.Tolerance != 0 {
			return errors.E(errors.Invalid, "match pair %q cannot have a tolerance", p.Primary)
		}
	}
	if s.Wildcard && len(s.Match) == 0 {
		return errors.E(errors.Invalid, "wildcard matching needs a match column")
	}
	if s.Invert && s.Flavor != Select {
		return errors.E(errors.Invalid, "invert applies to the select flavor only")
	}
	if s.Flavor == Select && s.Positional() {
		return errors.E(errors.Invalid, "select needs a match or equate column")
	}
	return nil
}

// normalize fills in default secondary column names.
func (s *Spec) normalize() {
	for _, pairs := range [][]KeyPair{s.Match, s.Equate} {
		for i := range pairs {
			if pairs[i].Secondary == "" {
				pairs[i].Secondary = pairs[i].Primary
			}
		}
	}
}

// indexed returns the pair whose secondary column is indexed and whether
// it is a string pair.  The remaining pairs are checked on the candidates
// the index returns.  Without an exact pair, wildcard and tolerance
// comparisons fall back to a scan and ok is false.
func (s *Spec) indexed() (pair KeyPair, str bool, ok bool) {
	if len(s.Match) > 0 {
		if s.Wildcard {
			return KeyPair{}, false, false
		}
		return s.Match[0], true, true
	}
	for _, p := range s.Equate {
		if p.Tolerance != 0 {
			return KeyPair{}, false, false
		}
	}
	if len(s.Equate) > 0 {
		return s.Equate[0], false, true
	}
	return KeyPair{}, false, false
}

func (s *Spec) copy() Spec {
	out := *s
	out.Match = append([]KeyPair(nil), s.Match...)
	out.Equate = append([]KeyPair(nil), s.Equate...)
	out.normalize()
	return out
}
