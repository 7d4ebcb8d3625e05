package charm

import (
	"bytes"
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rootCommand struct {
	verbose bool
	ran     []string
}

func (r *rootCommand) Run(args []string) error {
	if len(args) == 0 {
		return NeedHelp
	}
	return ErrNoRun
}

type leafCommand struct {
	root *rootCommand
	out  string
}

func (l *leafCommand) Run(args []string) error {
	l.root.ran = append(args, l.out)
	return nil
}

func testTree(root *rootCommand) *Spec {
	top := &Spec{
		Name:  "xref",
		Usage: "xref <command> [options]",
		Short: "join paged datasets",
		New: func(_ Command, f *flag.FlagSet) (Command, error) {
			f.BoolVar(&root.verbose, "v", false, "verbose")
			return root, nil
		},
	}
	top.Add(&Spec{
		Name:  "join",
		Usage: "join [options] primary secondary...",
		Short: "join datasets",
		Long:  "Join reads a primary dataset and one or more secondaries.",
		New: func(parent Command, f *flag.FlagSet) (Command, error) {
			c := &leafCommand{root: parent.(*rootCommand)}
			f.StringVar(&c.out, "o", "", "output path")
			return c, nil
		},
	})
	top.Add(Help)
	return top
}

func TestExecRoot(t *testing.T) {
	root := &rootCommand{}
	top := testTree(root)
	require.NoError(t, top.ExecRoot([]string{"-v", "join", "-o", "out.pds", "a.pds", "b.pds"}))
	assert.True(t, root.verbose)
	assert.Equal(t, []string{"a.pds", "b.pds", "out.pds"}, root.ran)

	err := top.ExecRoot([]string{"merge"})
	assert.EqualError(t, err, `"xref": no such sub-command "merge": options are: join help`)

	err = top.ExecRoot([]string{"join", "-bogus"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestHelp(t *testing.T) {
	var buf bytes.Buffer
	defer func(w io.Writer) { helpOutput = w }(helpOutput)
	helpOutput = &buf
	top := testTree(&rootCommand{})

	require.NoError(t, top.ExecRoot([]string{"help", "join"}))
	assert.Contains(t, buf.String(), "join - join datasets")
	assert.Contains(t, buf.String(), `-o output path`)
	assert.Contains(t, buf.String(), "[xref flags]")

	buf.Reset()
	require.NoError(t, top.ExecRoot(nil))
	assert.Contains(t, buf.String(), "COMMANDS")

	buf.Reset()
	require.NoError(t, top.ExecRoot([]string{"join", "-h"}))
	assert.Contains(t, buf.String(), "Join reads a primary dataset")

	assert.EqualError(t, top.ExecRoot([]string{"help", "nope"}), "no such command: nope")
}
