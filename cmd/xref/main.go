package main

import (
	"fmt"
	"os"

	"github.com/sddsgo/xref/cmd/xref/cat"
	"github.com/sddsgo/xref/cmd/xref/join"
	"github.com/sddsgo/xref/cmd/xref/load"
	"github.com/sddsgo/xref/cmd/xref/root"
	"github.com/sddsgo/xref/pkg/charm"
)

func main() {
	xref := root.Xref
	xref.Add(join.Cmd)
	xref.Add(load.Cmd)
	xref.Add(cat.Cmd)
	xref.Add(charm.Help)
	if err := xref.ExecRoot(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
