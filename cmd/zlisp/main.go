// Command zlisp is the executable entry point for the zlisp compiler and
// virtual machine (see internal/maincmd for the actual command
// implementations).
package main

import (
	"os"

	"github.com/mna/mainer"
	"github.com/universalsequences/zlisp/internal/maincmd"
)

var (
	// placeholder values, replaced on build
	version   = "{v}" // must be N.N[.N]
	buildDate = "{d}" // must be YYYY-mm-DD
)

func main() {
	c := maincmd.Cmd{BuildVersion: version, BuildDate: buildDate}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
