package editname

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdit(t *testing.T) {
	cases := []struct {
		name string
		expr string
		want string
	}{
		{"bar", "ei/2/", "bar2"},
		{"bar", "i/x_/", "x_bar"},
		{"bar", "d", "ar"},
		{"bar", "2d", "r"},
		{"bar", "ef D", "ba"},
		{"rate", "fk", "r"},
		{"rate", "2fK", "te"},
		{"Old.Old", "%/Old/New/", "New.Old"},
		{"Old.Old", "%g/Old/New/", "New.New"},
		{"Old.Old", "s/./%g/Old/New/", "Old.New"},
		{"a.b.c", "es/x/S/./i/:/", "a.b:.c"},
		{"abc", "3i|-|", "---abc"},
		{"abc", "10f10b", "abc"},
		{"abc", "", "abc"},
	}
	for _, c := range cases {
		got, err := Edit(c.name, c.expr)
		require.NoError(t, err, c.expr)
		assert.Equal(t, c.want, got, "%q applied to %q", c.expr, c.name)
	}
}

func TestCompileErrors(t *testing.T) {
	for _, expr := range []string{"i/abc", "3", "%/a", "%//x/", "q", "s"} {
		_, err := Compile(expr)
		var e *Error
		require.ErrorAs(t, err, &e, expr)
	}
}

func TestExpandIndex(t *testing.T) {
	assert.Equal(t, "ei/3/", ExpandIndex("ei/%ld/", 3))
	assert.Equal(t, "ei/_007/", ExpandIndex("ei/_%03ld/", 7))
	assert.Equal(t, "ei/%ld/", ExpandIndex("ei/%%ld/", 7))
	assert.Equal(t, "%/a/b/", ExpandIndex("%/a/b/", 7))
	assert.Equal(t, "ei/2/", ExpandIndex("ei/2/", 7))
}
