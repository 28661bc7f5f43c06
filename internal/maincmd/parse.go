package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/universalsequences/zlisp/lang/parser"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, args...)
}

// ParseFiles parses every top-level form of every named file and prints
// each resulting value tree on its own line (there is no separate AST
// printer: a parsed value.Value already prints itself, §3/§6).
func ParseFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return printError(stdio, err)
		}
		src, err := os.ReadFile(file)
		if err != nil {
			return printError(stdio, err)
		}
		forms, err := parser.ParseAll(file, string(src))
		if err != nil {
			return printError(stdio, err)
		}
		for _, f := range forms {
			fmt.Fprintln(stdio.Stdout, f.String())
		}
	}
	return nil
}
