package cat

import (
	"flag"
	"os"

	"github.com/sddsgo/xref/cmd/xref/root"
	"github.com/sddsgo/xref/errors"
	"github.com/sddsgo/xref/pageio"
	"github.com/sddsgo/xref/pageio/anyio"
	"github.com/sddsgo/xref/pageio/csvio"
	"github.com/sddsgo/xref/pkg/charm"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var Cmd = &charm.Spec{
	Name:  "cat",
	Usage: "cat [options] file",
	Short: "print a paged dataset as CSV",
	Long: `
The cat command writes the rows of every page of a dataset to stdout as CSV
under a single header.  With -layout it prints the dataset's column,
parameter and array definitions as YAML instead.`,
	New: New,
}

type Command struct {
	*root.Command
	layout     bool
	writerOpts csvio.WriterOpts
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.BoolVar(&c.layout, "layout", false, "print the layout as YAML")
	f.BoolVar(&c.writerOpts.PageColumn, "page", false, "prepend the page number to every row")
	return c, nil
}

func (c *Command) Run(args []string) (err error) {
	_, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 1 {
		return errors.E(errors.Invalid, "xref cat: a single dataset path is required")
	}
	r, err := anyio.OpenReader(args[0])
	if err != nil {
		return errors.E(errors.IO, err)
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()
	if c.layout {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		return multierr.Append(enc.Encode(r.Layout()), enc.Close())
	}
	w := csvio.NewWriter(nopCloser{os.Stdout}, r.Layout(), c.writerOpts)
	_, err = pageio.Copy(w, r)
	return multierr.Append(err, w.Close())
}

type nopCloser struct {
	*os.File
}

func (nopCloser) Close() error { return nil }
