package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/universalsequences/zlisp/lang/parser"
	"github.com/universalsequences/zlisp/lang/resolver"
)

func (c *Cmd) Resolve(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ResolveFiles(ctx, stdio, args...)
}

// ResolveFiles parses every named file, validates each top-level form (§4.2
// special-form shapes), and prints the tree if it is valid, or reports the
// first InvalidExpression/InvalidOperator/InvalidFunctionDefinition/
// InvalidPattern/InvalidLambda error.
func ResolveFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
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
		if err := resolver.ValidateAll(forms); err != nil {
			return printError(stdio, err)
		}
		for _, f := range forms {
			fmt.Fprintln(stdio.Stdout, f.String())
		}
	}
	return nil
}
