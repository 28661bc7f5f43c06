package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/universalsequences/zlisp/lang/scanner"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

// TokenizeFiles scans every named file in turn and prints one line per
// token, in the teacher's "pos: token literal" format.
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}
		src, err := os.ReadFile(file)
		if err != nil {
			return printError(stdio, err)
		}
		toks, err := scanner.ScanAll(file, string(src))
		if err != nil {
			return printError(stdio, err)
		}
		for _, tv := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", tv.Pos, tv.Token)
			if tv.Text != "" {
				fmt.Fprintf(stdio.Stdout, " %q", tv.Text)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	return nil
}
