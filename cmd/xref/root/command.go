package root

import (
	"flag"

	"github.com/sddsgo/xref/cli"
	"github.com/sddsgo/xref/cli/logflags"
	"github.com/sddsgo/xref/pkg/charm"
	"go.uber.org/zap"
)

var Xref = &charm.Spec{
	Name:  "xref",
	Usage: "xref <command> [options] [arguments...]",
	Short: "cross-reference paged datasets",
	Long: `
xref joins the pages of a primary dataset with the pages of one or more
secondary datasets, either selecting primary rows that have (or lack) a
matching secondary row or adding the columns of the matching row.`,
	New: New,
}

type Command struct {
	charm.Command
	cli.Flags
	LogFlags logflags.Flags
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{}
	c.SetFlags(f)
	c.LogFlags.SetFlags(f)
	return c, nil
}

// Logger opens the logger configured by the log flags.
func (c *Command) Logger() (*zap.Logger, error) {
	return c.LogFlags.Open()
}

func (c *Command) Run(args []string) error {
	_, cancel, err := c.Init()
	if err != nil {
		return err
	}
	defer cancel()
	if len(args) == 0 {
		return charm.NeedHelp
	}
	return charm.ErrNoRun
}
