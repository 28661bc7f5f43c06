package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/universalsequences/zlisp/lang/compiler"
	"github.com/universalsequences/zlisp/lang/parser"
	"github.com/universalsequences/zlisp/lang/resolver"
)

func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DisasmFiles(ctx, stdio, args...)
}

// DisasmFiles compiles every top-level form of every named file and prints
// its pseudo-assembly listing (lang/compiler's asm.go), one listing per
// form, in source order.
func DisasmFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
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
		for i, f := range forms {
			code, err := compiler.Compile(f)
			if err != nil {
				return printError(stdio, err)
			}
			fmt.Fprintf(stdio.Stdout, "; form %d: %s\n", i, f.String())
			fmt.Fprint(stdio.Stdout, compiler.Disassemble(code))
		}
	}
	return nil
}
