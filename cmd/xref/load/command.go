package load

import (
	"flag"
	"io"
	"os"

	"github.com/sddsgo/xref/cmd/xref/root"
	"github.com/sddsgo/xref/errors"
	"github.com/sddsgo/xref/pageio"
	"github.com/sddsgo/xref/pageio/anyio"
	"github.com/sddsgo/xref/pageio/csvio"
	"github.com/sddsgo/xref/pkg/charm"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var Cmd = &charm.Spec{
	Name:  "load",
	Usage: "load [options] input.csv output",
	Short: "convert a CSV file to a paged dataset",
	Long: `
The load command reads a CSV file whose first row names the columns and
writes it as a paged dataset.  Columns whose values are all integers become
long64 columns, columns of numbers become double columns and every other
column is a string column.  Use - for stdin or stdout.`,
	New: New,
}

type Command struct {
	*root.Command
	readerOpts csvio.ReaderOpts
	noCompress bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.IntVar(&c.readerOpts.PageRows, "pagerows", 0, "rows per page (0 for a single page)")
	f.BoolVar(&c.readerOpts.Strings, "strings", false, "read every column as a string")
	f.BoolVar(&c.noCompress, "nocompress", false, "do not compress pages")
	return c, nil
}

func (c *Command) Run(args []string) (err error) {
	_, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 2 {
		return errors.E(errors.Invalid, "xref load: an input and an output path are required")
	}
	logger, err := c.Logger()
	if err != nil {
		return err
	}
	defer logger.Sync()
	var in io.ReadCloser = os.Stdin
	if args[0] != anyio.Stdio {
		if in, err = os.Open(args[0]); err != nil {
			return errors.E(errors.IO, err)
		}
	}
	defer func() {
		err = multierr.Append(err, in.Close())
	}()
	r, err := csvio.NewReader(in, c.readerOpts)
	if err != nil {
		return errors.E(errors.Invalid, "%s: %w", args[0], err)
	}
	w, err := anyio.CreateWriter(args[1], r.Layout(), anyio.WriterOpts{NoCompression: c.noCompress})
	if err != nil {
		return errors.E(errors.IO, err)
	}
	n, err := pageio.Copy(w, r)
	if err = multierr.Append(err, w.Close()); err != nil {
		return errors.E(errors.IO, err)
	}
	logger.Debug("loaded", zap.String("path", args[0]), zap.Int("pages", n))
	return nil
}
