package keyindex

import (
	"fmt"
	"math"
	"sort"

	"github.com/zeebo/xxh3"
)

// Strategy selects how an index finds the group of a probe key.
type Strategy int

const (
	StrategySorted Strategy = iota
	StrategyHash
)

func (s Strategy) String() string {
	switch s {
	case StrategySorted:
		return "sorted"
	case StrategyHash:
		return "hash"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "sorted":
		return StrategySorted, nil
	case "hash":
		return StrategyHash, nil
	}
	return 0, fmt.Errorf("unknown join strategy %q", s)
}

// Group is a key and the secondary rows holding it, in original row order.
// Consumed[i] is set once Rows[i] has been handed out without reuse.
type Group struct {
	Key      Value
	Rows     []int
	Consumed []bool
}

func (g *Group) add(row int) {
	g.Rows = append(g.Rows, row)
	g.Consumed = append(g.Consumed, false)
}

// Index finds secondary rows for primary keys.
//
// Unless reuse is set, a row returned by Lookup or Scan is consumed and is
// not returned again until Reset.
type Index interface {
	// Lookup returns the first row of the probe's group accepted by
	// accept (nil accepts every row).
	Lookup(probe Value, reuse bool, accept func(row int) bool) (int, bool)
	// Scan returns the first row in original order for which match is
	// true.  It is used when keys are compared by tolerance or wildcard
	// and so cannot be located by equality.
	Scan(match func(row int) bool, reuse bool) (int, bool)
	// Reset makes every row available again.
	Reset()
	Keys() Keys
	Groups() []*Group
}

func Build(s Strategy, keys Keys) Index {
	if s == StrategyHash {
		return BuildHash(keys)
	}
	return BuildSorted(keys)
}

// member locates a row inside its group.
type member struct {
	group *Group
	at    int
}

type rows struct {
	keys    Keys
	members []member
}

func (r *rows) Keys() Keys {
	return r.keys
}

func (r *rows) join(g *Group, row int) {
	r.members[row] = member{group: g, at: len(g.Rows)}
	g.add(row)
}

func (r *rows) reset(groups []*Group) {
	for _, g := range groups {
		for i := range g.Consumed {
			g.Consumed[i] = false
		}
	}
}

func take(g *Group, reuse bool, accept func(int) bool) (int, bool) {
	for i, row := range g.Rows {
		if accept != nil && !accept(row) {
			continue
		}
		if reuse {
			return row, true
		}
		if !g.Consumed[i] {
			g.Consumed[i] = true
			return row, true
		}
	}
	return -1, false
}

func (r *rows) Scan(match func(int) bool, reuse bool) (int, bool) {
	for row, m := range r.members {
		if !reuse && m.group.Consumed[m.at] {
			continue
		}
		if match(row) {
			if !reuse {
				m.group.Consumed[m.at] = true
			}
			return row, true
		}
	}
	return -1, false
}

// Sorted holds the key groups in key order.
type Sorted struct {
	rows
	groups []*Group
}

// BuildSorted pairs each key with its row, sorts stably by key and
// coalesces equal keys into groups that keep original row order.
func BuildSorted(keys Keys) *Sorted {
	n := keys.Len()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return Compare(keys.At(order[a]), keys.At(order[b])) < 0
	})
	s := &Sorted{rows: rows{keys: keys, members: make([]member, n)}}
	for _, row := range order {
		key := keys.At(row)
		var g *Group
		if len(s.groups) > 0 && Equal(s.groups[len(s.groups)-1].Key, key) {
			g = s.groups[len(s.groups)-1]
		} else {
			g = &Group{Key: key}
			s.groups = append(s.groups, g)
		}
		s.join(g, row)
	}
	return s
}

func (s *Sorted) Reset() {
	s.reset(s.groups)
}

func (s *Sorted) Groups() []*Group {
	return s.groups
}

func (s *Sorted) find(probe Value) *Group {
	i := sort.Search(len(s.groups), func(i int) bool {
		return Compare(s.groups[i].Key, probe) >= 0
	})
	if i < len(s.groups) && Equal(s.groups[i].Key, probe) {
		return s.groups[i]
	}
	return nil
}

func (s *Sorted) Lookup(probe Value, reuse bool, accept func(int) bool) (int, bool) {
	g := s.find(probe)
	if g == nil {
		return -1, false
	}
	return take(g, reuse, accept)
}

// MinBuckets is the smallest bucket count of a hash index.
const MinBuckets = 64

// Hash is a table of chained key groups.
type Hash struct {
	rows
	buckets [][]*Group
	groups  []*Group
	mask    uint64
}

// BuildHash inserts every key in row order.
func BuildHash(keys Keys) *Hash {
	n := keys.Len()
	nbuckets := MinBuckets
	for nbuckets < n {
		nbuckets <<= 1
	}
	h := &Hash{
		rows:    rows{keys: keys, members: make([]member, n)},
		buckets: make([][]*Group, nbuckets),
		mask:    uint64(nbuckets - 1),
	}
	for row := 0; row < n; row++ {
		key := keys.At(row)
		b := hash(key) & h.mask
		g := lookupChain(h.buckets[b], key)
		if g == nil {
			g = &Group{Key: key}
			h.buckets[b] = append(h.buckets[b], g)
			h.groups = append(h.groups, g)
		}
		h.join(g, row)
	}
	return h
}

func (h *Hash) Reset() {
	h.reset(h.groups)
}

func lookupChain(chain []*Group, key Value) *Group {
	for _, g := range chain {
		if Equal(g.Key, key) {
			return g
		}
	}
	return nil
}

// Groups returns the groups in order of first appearance.
func (h *Hash) Groups() []*Group {
	return h.groups
}

func (h *Hash) Lookup(probe Value, reuse bool, accept func(int) bool) (int, bool) {
	g := lookupChain(h.buckets[hash(probe)&h.mask], probe)
	if g == nil {
		return -1, false
	}
	return take(g, reuse, accept)
}

var nanBits = math.Float64bits(math.NaN())

func hash(v Value) uint64 {
	if v.str {
		return xxh3.HashString(v.s)
	}
	bits := math.Float64bits(v.f)
	if math.IsNaN(v.f) {
		bits = nanBits
	}
	var b [8]byte
	for i := range b {
		b[i] = byte(bits >> (8 * i))
	}
	return xxh3.Hash(b[:])
}
