package keyindex

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var strategies = []Strategy{StrategySorted, StrategyHash}

func probe(idx Index, keys []Value, reuse bool) []int {
	var out []int
	for _, k := range keys {
		row, _ := idx.Lookup(k, reuse, nil)
		out = append(out, row)
	}
	return out
}

func TestConsumption(t *testing.T) {
	keys := NewStringKeys([]string{"A", "A", "B"})
	probes := []Value{String("A"), String("A"), String("A")}
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			idx := Build(s, keys)
			assert.Equal(t, []int{0, 1, -1}, probe(idx, probes, false))
			idx.Reset()
			assert.Equal(t, []int{0, 1, -1}, probe(idx, probes, false))
			idx.Reset()
			assert.Equal(t, []int{0, 0, 0}, probe(idx, probes, true))
			row, ok := idx.Lookup(String("C"), true, nil)
			assert.False(t, ok)
			assert.Equal(t, -1, row)
		})
	}
}

func TestAccept(t *testing.T) {
	keys := NewDoubleKeys([]float64{1, 2, 1, 1})
	for _, s := range strategies {
		idx := Build(s, keys)
		odd := func(row int) bool { return row%2 == 1 }
		row, ok := idx.Lookup(Double(1), false, odd)
		require.True(t, ok)
		assert.Equal(t, 3, row)
		_, ok = idx.Lookup(Double(1), false, odd)
		assert.False(t, ok)
		row, ok = idx.Lookup(Double(1), false, nil)
		require.True(t, ok)
		assert.Equal(t, 0, row)
	}
}

func TestSortedGroups(t *testing.T) {
	idx := BuildSorted(NewStringKeys([]string{"b", "a", "b", "c", "a"}))
	var keys []string
	var rows [][]int
	for _, g := range idx.Groups() {
		keys = append(keys, g.Key.Str())
		rows = append(rows, g.Rows)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Equal(t, [][]int{{1, 4}, {0, 2}, {3}}, rows)
}

func TestDoubleKeyEdgeCases(t *testing.T) {
	keys := NewDoubleKeys([]float64{math.NaN(), math.Copysign(0, -1), 3})
	for _, s := range strategies {
		idx := Build(s, keys)
		row, ok := idx.Lookup(Double(0), true, nil)
		require.True(t, ok, s)
		assert.Equal(t, 1, row)
		row, ok = idx.Lookup(Double(math.NaN()), true, nil)
		require.True(t, ok, s)
		assert.Equal(t, 0, row)
		_, ok = idx.Lookup(String("3"), true, nil)
		assert.False(t, ok)
	}
	groups := BuildSorted(keys).Groups()
	assert.True(t, math.IsNaN(groups[len(groups)-1].Key.Float64()))
}

func TestScan(t *testing.T) {
	keys := NewDoubleKeys([]float64{1.0, 1.05, 0.98})
	near := func(x float64) func(int) bool {
		return func(row int) bool { return math.Abs(keys.DoubleAt(row)-x) <= 0.1 }
	}
	for _, s := range strategies {
		idx := Build(s, keys)
		var got []int
		for i := 0; i < 4; i++ {
			row, _ := idx.Scan(near(1), false)
			got = append(got, row)
		}
		assert.Equal(t, []int{0, 1, 2, -1}, got)
		row, ok := idx.Scan(near(1), true)
		assert.True(t, ok, "reuse ignores consumption")
		assert.Equal(t, 0, row)
		idx.Reset()
		row, ok = idx.Scan(near(1.04), false)
		assert.True(t, ok)
		assert.Equal(t, 0, row)
	}
}

func TestScanSharesConsumption(t *testing.T) {
	idx := BuildHash(NewStringKeys([]string{"x", "x"}))
	row, ok := idx.Lookup(String("x"), false, nil)
	require.True(t, ok)
	assert.Equal(t, 0, row)
	row, ok = idx.Scan(func(row int) bool { return true }, false)
	require.True(t, ok)
	assert.Equal(t, 1, row)
	_, ok = idx.Lookup(String("x"), false, nil)
	assert.False(t, ok)
}

func TestStrategiesAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	letters := []string{"a", "b", "c", "d", "e", "f", "g"}
	secondary := make([]string, 500)
	for i := range secondary {
		secondary[i] = letters[rng.Intn(len(letters))]
	}
	probes := make([]Value, 700)
	for i := range probes {
		probes[i] = String(letters[rng.Intn(len(letters))])
		if i%50 == 0 {
			probes[i] = String("zz")
		}
	}
	keys := NewStringKeys(secondary)
	for _, reuse := range []bool{false, true} {
		sorted := probe(BuildSorted(keys), probes, reuse)
		hashed := probe(BuildHash(keys), probes, reuse)
		assert.Equal(t, sorted, hashed)
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("hash")
	require.NoError(t, err)
	assert.Equal(t, StrategyHash, s)
	s, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategySorted, s)
	_, err = ParseStrategy("btree")
	assert.Error(t, err)
}
