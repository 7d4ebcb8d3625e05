// Package keyindex indexes the key column of a secondary page so that
// primary rows can be matched against it, either through a sorted array of
// key groups searched by bisection or through a hash table of key groups.
// Both index types hand out secondary rows under the same consumption
// rules and always agree on the result.
package keyindex

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sddsgo/xref/page"
)

// Keys is the key column of one page read as strings or as doubles.
type Keys struct {
	strs []string
	nums []float64
	str  bool
}

func StringKeys(c *page.Column) Keys {
	return Keys{strs: c.Strings(), str: true}
}

// DoubleKeys reads any numeric column converted to float64.
func DoubleKeys(c *page.Column) Keys {
	return Keys{nums: c.Doubles()}
}

func NewStringKeys(vals []string) Keys {
	return Keys{strs: vals, str: true}
}

func NewDoubleKeys(vals []float64) Keys {
	return Keys{nums: vals}
}

func (k Keys) IsString() bool {
	return k.str
}

func (k Keys) Len() int {
	if k.str {
		return len(k.strs)
	}
	return len(k.nums)
}

func (k Keys) At(i int) Value {
	if k.str {
		return String(k.strs[i])
	}
	return Double(k.nums[i])
}

func (k Keys) StringAt(i int) string {
	return k.strs[i]
}

func (k Keys) DoubleAt(i int) float64 {
	return k.nums[i]
}

// Value is a key: a string or a double.
type Value struct {
	s   string
	f   float64
	str bool
}

func String(s string) Value {
	return Value{s: s, str: true}
}

// Double returns the key for f.  Negative zero is the same key as zero.
func Double(f float64) Value {
	if f == 0 {
		f = 0
	}
	return Value{f: f}
}

func (v Value) IsString() bool {
	return v.str
}

func (v Value) Str() string {
	return v.s
}

func (v Value) Float64() float64 {
	return v.f
}

func (v Value) String() string {
	if v.str {
		return v.s
	}
	return strconv.FormatFloat(v.f, 'g', -1, 64)
}

func (v Value) GoString() string {
	if v.str {
		return fmt.Sprintf("keyindex.String(%q)", v.s)
	}
	return fmt.Sprintf("keyindex.Double(%v)", v.f)
}

// Compare orders strings lexicographically and doubles numerically with
// NaN equal to itself and after every number.  Strings sort after doubles.
func Compare(a, b Value) int {
	switch {
	case a.str && b.str:
		return strings.Compare(a.s, b.s)
	case a.str:
		return 1
	case b.str:
		return -1
	}
	an, bn := math.IsNaN(a.f), math.IsNaN(b.f)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	case a.f < b.f:
		return -1
	case a.f > b.f:
		return 1
	}
	return 0
}

func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}
