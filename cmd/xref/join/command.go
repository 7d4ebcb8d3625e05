package join

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"flag"
	"os"

	"github.com/sddsgo/xref/cli"
	"github.com/sddsgo/xref/cmd/xref/root"
	"github.com/sddsgo/xref/errors"
	"github.com/sddsgo/xref/jobconf"
	xrefjoin "github.com/sddsgo/xref/join"
	"github.com/sddsgo/xref/pageio"
	"github.com/sddsgo/xref/pageio/anyio"
	"github.com/sddsgo/xref/pkg/charm"
	"github.com/sddsgo/xref/pkg/rlimit"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var Cmd = &charm.Spec{
	Name:  "join",
	Usage: "join [options] primary secondary...",
	Short: "join a primary dataset with secondary datasets",
	Long: `
The join command reads the primary dataset and every secondary dataset page by
page and pairs the rows of each primary page with the rows of the matching
secondary pages as described by the YAML job file given with -job.  Without
-job, rows are paired by position and every secondary column is added.

Without -o the primary file is replaced by the output once the join
completes.  If the job's ifIs or ifNot conditions reject the primary, nothing
is written and the command succeeds.`,
	New: New,
}

type Command struct {
	*root.Command
	jobPath    string
	outputPath string
	noCompress bool
	stats      bool
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	f.StringVar(&c.jobPath, "job", "", "path of YAML job file")
	f.StringVar(&c.outputPath, "o", "", "write output to path (- for stdout) instead of replacing the primary")
	f.BoolVar(&c.noCompress, "nocompress", false, "do not compress output pages")
	f.BoolVar(&c.stats, "stats", false, "log join statistics when done")
	return c, nil
}

func (c *Command) Run(args []string) (err error) {
	ctx, cleanup, err := c.Init()
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) < 2 {
		return errors.E(errors.Invalid, "xref join: a primary and at least one secondary dataset are required")
	}
	if args[0] == anyio.Stdio && c.outputPath == "" {
		return errors.E(errors.Invalid, "xref join: -o is required when the primary is read from stdin")
	}
	for _, path := range args {
		if !cli.FileExists(path) {
			return errors.E(errors.IO, "xref join: %s: no such file", path)
		}
	}
	logger, err := c.Logger()
	if err != nil {
		return err
	}
	defer logger.Sync()
	conf, err := c.config()
	if err != nil {
		return err
	}
	if len(args) > 64 {
		if _, err := rlimit.RaiseOpenFilesLimit(); err != nil {
			return err
		}
	}
	readers := make([]pageio.ReadCloser, 0, len(args))
	defer func() {
		for _, r := range readers {
			err = multierr.Append(err, r.Close())
		}
	}()
	for _, path := range args {
		r, err := anyio.OpenReader(path)
		if err != nil {
			return errors.E(errors.IO, err)
		}
		readers = append(readers, r)
	}
	secondaries := make([]pageio.Reader, 0, len(readers)-1)
	for _, r := range readers[1:] {
		secondaries = append(secondaries, r)
	}
	engine, err := xrefjoin.New(logger.Named("join"), conf, readers[0], secondaries)
	if stderrors.Is(err, errors.ErrGuard) {
		logger.Info("primary rejected; no output written", zap.Error(err))
		return nil
	}
	if err != nil {
		return err
	}
	if err := c.run(ctx, engine, args[0]); err != nil {
		return err
	}
	if c.stats {
		return json.NewEncoder(os.Stderr).Encode(engine.Stats())
	}
	return nil
}

func (c *Command) config() (xrefjoin.Config, error) {
	job := &jobconf.Job{}
	if c.jobPath != "" {
		var err error
		if job, err = jobconf.Load(c.jobPath); err != nil {
			return xrefjoin.Config{}, err
		}
	}
	return job.Config()
}

// run writes the output to -o or, without it, to a replacement of the
// primary that is only put in place if the whole join succeeds.
func (c *Command) run(ctx context.Context, engine *xrefjoin.Engine, primary string) error {
	opts := anyio.WriterOpts{NoCompression: c.noCompress}
	if c.outputPath != "" {
		w, err := anyio.CreateWriter(c.outputPath, engine.Layout(), opts)
		if err != nil {
			return errors.E(errors.IO, err)
		}
		return multierr.Append(engine.Run(ctx, w), w.Close())
	}
	w, err := anyio.ReplaceWriter(primary, engine.Layout(), opts)
	if err != nil {
		return errors.E(errors.IO, err)
	}
	if err := engine.Run(ctx, w); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}
