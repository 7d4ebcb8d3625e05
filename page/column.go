package page

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// Column holds n values of one Type.  Fixed-width values are kept in a
// single little-endian block so that a row can be copied as raw bytes;
// strings are kept in a slice.
type Column struct {
	typ  Type
	n    int
	raw  []byte
	strs []string
}

func NewColumn(typ Type, n int) *Column {
	c := &Column{typ: typ, n: n}
	if typ == String {
		c.strs = make([]string, n)
	} else {
		c.raw = make([]byte, n*typ.Size())
	}
	return c
}

// NewColumnFromBytes wraps a raw block of fixed-width values.
func NewColumnFromBytes(typ Type, raw []byte) (*Column, error) {
	size := typ.Size()
	if size == 0 {
		return nil, fmt.Errorf("%s is not a fixed-width type", typ)
	}
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%d bytes is not a multiple of %s width %d", len(raw), typ, size)
	}
	return &Column{typ: typ, n: len(raw) / size, raw: raw}, nil
}

func NewStringColumn(vals []string) *Column {
	return &Column{typ: String, n: len(vals), strs: append([]string(nil), vals...)}
}

func NewDoubleColumn(vals []float64) *Column {
	c := NewColumn(Double, len(vals))
	for i, v := range vals {
		c.SetFloat64(i, v)
	}
	return c
}

func NewLongColumn(vals []int64, typ Type) *Column {
	c := NewColumn(typ, len(vals))
	for i, v := range vals {
		c.SetInt64(i, v)
	}
	return c
}

func (c *Column) Type() Type { return c.typ }
func (c *Column) Len() int   { return c.n }

// Bytes returns the raw block of a fixed-width column, or the raw bytes
// of row i when i >= 0.
func (c *Column) Bytes(i int) []byte {
	if c.typ == String {
		return nil
	}
	if i < 0 {
		return c.raw
	}
	size := c.typ.Size()
	return c.raw[i*size : (i+1)*size]
}

func (c *Column) String(i int) string {
	if c.typ == String {
		return c.strs[i]
	}
	return c.Format(i)
}

func (c *Column) SetString(i int, s string) {
	if c.typ == String {
		c.strs[i] = s
		return
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		c.SetFloat64(i, f)
	}
}

// Float64 returns row i converted to a double.  Strings parse or yield NaN.
func (c *Column) Float64(i int) float64 {
	switch c.typ {
	case Double:
		return math.Float64frombits(binary.LittleEndian.Uint64(c.Bytes(i)))
	case Float:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(c.Bytes(i))))
	case Long64:
		return float64(int64(binary.LittleEndian.Uint64(c.Bytes(i))))
	case ULong64:
		return float64(binary.LittleEndian.Uint64(c.Bytes(i)))
	case Long:
		return float64(int32(binary.LittleEndian.Uint32(c.Bytes(i))))
	case ULong:
		return float64(binary.LittleEndian.Uint32(c.Bytes(i)))
	case Short:
		return float64(int16(binary.LittleEndian.Uint16(c.Bytes(i))))
	case UShort:
		return float64(binary.LittleEndian.Uint16(c.Bytes(i)))
	case Character:
		return float64(c.raw[i])
	case String:
		f, err := strconv.ParseFloat(c.strs[i], 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

func (c *Column) SetFloat64(i int, v float64) {
	switch c.typ {
	case Double:
		binary.LittleEndian.PutUint64(c.Bytes(i), math.Float64bits(v))
	case Float:
		binary.LittleEndian.PutUint32(c.Bytes(i), math.Float32bits(float32(v)))
	case String:
		c.strs[i] = strconv.FormatFloat(v, 'g', -1, 64)
	default:
		c.SetInt64(i, int64(v))
	}
}

func (c *Column) SetInt64(i int, v int64) {
	switch c.typ {
	case Double, Float:
		c.SetFloat64(i, float64(v))
	case Long64, ULong64:
		binary.LittleEndian.PutUint64(c.Bytes(i), uint64(v))
	case Long, ULong:
		binary.LittleEndian.PutUint32(c.Bytes(i), uint32(v))
	case Short, UShort:
		binary.LittleEndian.PutUint16(c.Bytes(i), uint16(v))
	case Character:
		c.raw[i] = byte(v)
	case String:
		c.strs[i] = strconv.FormatInt(v, 10)
	}
}

// Format renders row i for diagnostics.
func (c *Column) Format(i int) string {
	switch c.typ {
	case String:
		return strconv.Quote(c.strs[i])
	case Character:
		return strconv.QuoteRune(rune(c.raw[i]))
	case Double, Float:
		return strconv.FormatFloat(c.Float64(i), 'g', -1, 64)
	case ULong64:
		return strconv.FormatUint(binary.LittleEndian.Uint64(c.Bytes(i)), 10)
	}
	return strconv.FormatFloat(c.Float64(i), 'f', -1, 64)
}

// Strings returns a copy of a string column.
func (c *Column) Strings() []string {
	if c.typ != String {
		out := make([]string, c.n)
		for i := range out {
			out[i] = c.String(i)
		}
		return out
	}
	return append([]string(nil), c.strs...)
}

// Doubles returns every row converted to a double.
func (c *Column) Doubles() []float64 {
	out := make([]float64, c.n)
	for i := range out {
		out[i] = c.Float64(i)
	}
	return out
}

// CopyRow copies row src of from into row dst of c.  Equal fixed-width
// types are copied as raw blocks and strings by value; differing numeric
// types convert through double.
func (c *Column) CopyRow(dst int, from *Column, src int) {
	switch {
	case c.typ == String && from.typ == String:
		c.strs[dst] = from.strs[src]
	case c.typ == from.typ:
		copy(c.Bytes(dst), from.Bytes(src))
	case c.typ == String:
		c.strs[dst] = from.String(src)
	case from.typ == String:
		c.SetString(dst, from.strs[src])
	default:
		c.SetFloat64(dst, from.Float64(src))
	}
}

// Zero resets row i to the type's default value.
func (c *Column) Zero(i int) {
	if c.typ == String {
		c.strs[i] = ""
		return
	}
	b := c.Bytes(i)
	for k := range b {
		b[k] = 0
	}
}

// Copy returns a deep copy of the column.
func (c *Column) Copy() *Column {
	out := &Column{typ: c.typ, n: c.n}
	if c.typ == String {
		out.strs = append([]string(nil), c.strs...)
	} else {
		out.raw = append([]byte(nil), c.raw...)
	}
	return out
}

// Compact keeps only the rows whose flag is set.
func (c *Column) Compact(flags []bool) {
	size := c.typ.Size()
	k := 0
	for i := 0; i < c.n; i++ {
		if !flags[i] {
			continue
		}
		if k != i {
			if c.typ == String {
				c.strs[k] = c.strs[i]
			} else {
				copy(c.raw[k*size:(k+1)*size], c.raw[i*size:(i+1)*size])
			}
		}
		k++
	}
	if c.typ == String {
		for i := k; i < c.n; i++ {
			c.strs[i] = ""
		}
		c.strs = c.strs[:k]
	} else {
		c.raw = c.raw[:k*size]
	}
	c.n = k
}

// Equal reports whether two columns hold identical bytes or strings.
func (c *Column) Equal(o *Column) bool {
	if c.typ != o.typ || c.n != o.n {
		return false
	}
	if c.typ == String {
		for i := range c.strs {
			if c.strs[i] != o.strs[i] {
				return false
			}
		}
		return true
	}
	return string(c.raw) == string(o.raw)
}
