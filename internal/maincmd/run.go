package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"
	"github.com/universalsequences/zlisp/lang/builtins"
	"github.com/universalsequences/zlisp/lang/compiler"
	"github.com/universalsequences/zlisp/lang/environment"
	"github.com/universalsequences/zlisp/lang/gc"
	"github.com/universalsequences/zlisp/lang/machine"
	"github.com/universalsequences/zlisp/lang/parser"
	"github.com/universalsequences/zlisp/lang/resolver"
	"github.com/universalsequences/zlisp/lang/value"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	th := machine.NewWithGlobal(environment.New(), gc.New())
	th.Stdout = stdio.Stdout
	th.Stderr = stdio.Stderr
	if c.Trace {
		th.Trace = func(pc int, op value.Opcode) {
			fmt.Fprintf(stdio.Stderr, "%03d\t%s\n", pc, op)
		}
	}
	builtins.Install(th.Global())
	return RunFiles(ctx, stdio, th, args...)
}

// RunFiles runs every top-level form of every named file, in order, against
// a single shared Thread (§6 "Embedding surface": "parse -> compile ->
// execute per input", run repeatedly over one global environment so later
// files see earlier ones' top-level `set`/`defun` bindings). The final
// result of the very last form executed is printed to stdout.
func RunFiles(ctx context.Context, stdio mainer.Stdio, th *machine.Thread, files ...string) error {
	var result value.Value
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
			code, err := compiler.Compile(f)
			if err != nil {
				return printError(stdio, err)
			}
			result, err = th.Run(ctx, code)
			if err != nil {
				return printError(stdio, err)
			}
		}
	}
	if result != nil {
		fmt.Fprintln(stdio.Stdout, result.String())
	}
	return nil
}
