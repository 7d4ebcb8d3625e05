package join

import (
	"fmt"
	"math"

	"github.com/sddsgo/xref/errors"
	"github.com/sddsgo/xref/keyindex"
	"github.com/sddsgo/xref/page"
	"github.com/sddsgo/xref/reglob"
)

// pageKeys holds the key columns of one page, one entry per key pair.
type pageKeys struct {
	match  []keyindex.Keys
	equate []keyindex.Keys
}

func extractKeys(spec *Spec, p *page.Page, primary bool) (pageKeys, error) {
	var keys pageKeys
	name := func(pair KeyPair) string {
		if primary {
			return pair.Primary
		}
		return pair.Secondary
	}
	for _, pair := range spec.Match {
		c, err := p.Column(name(pair))
		if err != nil {
			return keys, err
		}
		keys.match = append(keys.match, keyindex.StringKeys(c))
	}
	for _, pair := range spec.Equate {
		c, err := p.Column(name(pair))
		if err != nil {
			return keys, err
		}
		keys.equate = append(keys.equate, keyindex.DoubleKeys(c))
	}
	return keys, nil
}

// checkKeyColumns verifies that every key column of a layout exists and is
// of the right kind: string for match pairs, numeric for equate pairs.
func checkKeyColumns(spec *Spec, l *page.Layout, primary bool, what string) error {
	for _, pair := range spec.Match {
		name := pair.Secondary
		if primary {
			name = pair.Primary
		}
		def, ok := l.Lookup(page.ColumnKind, name)
		if !ok || def.Type != page.String {
			return errors.E(errors.Schema, "column %q not found or not string type in %s", name, what)
		}
	}
	for _, pair := range spec.Equate {
		name := pair.Secondary
		if primary {
			name = pair.Primary
		}
		def, ok := l.Lookup(page.ColumnKind, name)
		if !ok || !def.Type.IsNumeric() {
			return errors.E(errors.Schema, "column %q not found or not numeric type in %s", name, what)
		}
	}
	return nil
}

// matcher pairs the rows of one primary page with the rows of one
// secondary page.
type matcher struct {
	spec     *Spec
	cache    *reglob.Cache
	indexed  bool
	strIndex bool
	index    keyindex.Index
	sec      *page.Page
	secKeys  pageKeys
	prim     pageKeys
}

func newMatcher(spec *Spec, cache *reglob.Cache) *matcher {
	_, str, ok := spec.indexed()
	return &matcher{spec: spec, cache: cache, indexed: ok, strIndex: str}
}

// setSecondary indexes a new secondary page.
func (m *matcher) setSecondary(p *page.Page) error {
	m.sec = p
	m.index = nil
	if m.spec.Positional() {
		return nil
	}
	keys, err := extractKeys(m.spec, p, false)
	if err != nil {
		return err
	}
	m.secKeys = keys
	if len(keys.match) > 0 {
		m.index = keyindex.Build(m.spec.Strategy, keys.match[0])
	} else {
		m.index = keyindex.Build(m.spec.Strategy, keys.equate[0])
	}
	return nil
}

// reset makes every row of a pinned secondary page available again.
func (m *matcher) reset() {
	m.sec.SetRowFlags(true)
	if m.index != nil {
		m.index.Reset()
	}
}

func (m *matcher) setPrimary(p *page.Page) error {
	if m.spec.Positional() {
		return nil
	}
	keys, err := extractKeys(m.spec, p, true)
	if err != nil {
		return err
	}
	m.prim = keys
	return nil
}

// match returns the secondary row paired with primary row.
func (m *matcher) match(row int) (int, bool) {
	if m.sec == nil {
		return -1, false
	}
	if m.spec.Positional() {
		n := m.sec.Rows()
		switch {
		case row < n:
			return row, m.sec.RowFlags[row]
		case m.spec.Reuse && n > 0:
			return n - 1, m.sec.RowFlags[n-1]
		}
		return -1, false
	}
	if m.indexed {
		var probe keyindex.Value
		if m.strIndex {
			probe = keyindex.String(m.prim.match[0].StringAt(row))
		} else {
			probe = keyindex.Double(m.prim.equate[0].DoubleAt(row))
		}
		return m.index.Lookup(probe, m.spec.Reuse, func(sec int) bool {
			return m.sec.RowFlags[sec] && m.pairs(row, sec, true)
		})
	}
	return m.index.Scan(func(sec int) bool {
		return m.sec.RowFlags[sec] && m.pairs(row, sec, false)
	}, m.spec.Reuse)
}

// pairs reports whether every key pair holds for the two rows, skipping
// the indexed pair when skipFirst is set.
func (m *matcher) pairs(row, sec int, skipFirst bool) bool {
	for i, keys := range m.prim.match {
		if skipFirst && m.strIndex && i == 0 {
			continue
		}
		a, b := keys.StringAt(row), m.secKeys.match[i].StringAt(sec)
		if !m.matchString(a, b) {
			return false
		}
	}
	for i, keys := range m.prim.equate {
		if skipFirst && !m.strIndex && i == 0 {
			continue
		}
		a, b := keys.DoubleAt(row), m.secKeys.equate[i].DoubleAt(sec)
		if !equate(a, b, m.spec.Equate[i].Tolerance) {
			return false
		}
	}
	return true
}

func (m *matcher) matchString(primary, secondary string) bool {
	if !m.spec.Wildcard {
		return primary == secondary
	}
	if m.spec.PatternSide == PrimaryPatterns {
		return m.cache.Match(primary, secondary)
	}
	return m.cache.Match(secondary, primary)
}

func equate(a, b, tolerance float64) bool {
	if tolerance == 0 {
		return keyindex.Equal(keyindex.Double(a), keyindex.Double(b))
	}
	return math.Abs(a-b) <= tolerance
}

// describe names the key of a primary row for diagnostics.
func (m *matcher) describe(row int) string {
	switch {
	case len(m.spec.Match) > 0:
		return fmt.Sprintf("%s = %q", m.spec.Match[0].Primary, m.prim.match[0].StringAt(row))
	case len(m.spec.Equate) > 0:
		return fmt.Sprintf("%s = %g", m.spec.Equate[0].Primary, m.prim.equate[0].DoubleAt(row))
	}
	return "by position"
}
