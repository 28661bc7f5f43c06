// Package compiler walks a parsed value.Value tree and emits a flat,
// jump-back-patched instruction sequence (§4.1, §4.2 of the governing
// specification). There is no intermediate control-flow graph: jumps are
// written with a placeholder offset and patched once their target position
// is known, in the style of a single-pass bytecode compiler.
package compiler

import (
	"github.com/universalsequences/zlisp/lang/value"
)

// Compiler accumulates a single instruction buffer. The zero value is ready
// to use via New.
type Compiler struct {
	code []value.Instruction
}

// New returns an empty Compiler.
func New() *Compiler { return &Compiler{} }

// Compile compiles a single top-level expression into a fresh instruction
// buffer. It does not append a trailing Return: a top-level buffer runs off
// the end of its frame and the VM takes the sole remaining operand as the
// result (§4.4 step 1). Each call to Compile starts a new, independent
// buffer; callers that need to run several top-level forms in sequence
// (§6 "parse -> compile -> execute per input") compile and execute them one
// at a time so each leaves exactly one residual value (§3 invariant I3, §8
// P1), rather than packing multiple forms into one buffer.
func Compile(v value.Value) ([]value.Instruction, error) {
	c := New()
	if err := c.compileExpr(v); err != nil {
		return nil, err
	}
	return c.code, nil
}

func (c *Compiler) emit(instr value.Instruction) int {
	c.code = append(c.code, instr)
	return len(c.code) - 1
}

// compileExpr compiles v and appends its code to c.code, per the rules of
// §4.2, dispatching on v's concrete type.
func (c *Compiler) compileExpr(v value.Value) error {
	switch t := v.(type) {
	case value.Number:
		c.emit(value.Instruction{Op: value.PUSHCONST, Num: float64(t)})
		return nil
	case value.Nil:
		c.emitNil()
		return nil
	case *value.String:
		c.emit(value.Instruction{Op: value.PUSHCONSTSTRING, Str: t.Go()})
		return nil
	case value.Symbol:
		c.emit(value.Instruction{Op: value.LOADVAR, Str: string(t)})
		return nil
	case *value.Quote:
		c.emit(value.Instruction{Op: value.PUSHQUOTE, Payload: t.Inner})
		return nil
	case *value.ObjectLiteral:
		return c.compileObjectLiteral(t)
	case *value.List:
		return c.compileList(t)
	default:
		return errf(UnsupportedExpression, "cannot compile value of kind %s", v.Kind())
	}
}

// emitNil pushes the unique Nil value via PushQuote (§4.2's `if` rule: "...
// or emit a nil constant"; there is no dedicated PushNil opcode, and Nil is
// not heap-allocated, so wrapping it as a literal PushQuote payload is
// enough — PushQuote always "pushes Value unchanged").
func (c *Compiler) emitNil() {
	c.emit(value.Instruction{Op: value.PUSHQUOTE, Payload: value.Nil{}})
}

func (c *Compiler) compileObjectLiteral(ol *value.ObjectLiteral) error {
	c.emit(value.Instruction{Op: value.PUSHEMPTYOBJECT})
	for _, entry := range ol.Entries {
		if entry.Spread {
			if err := c.compileExpr(entry.Expr); err != nil {
				return err
			}
			c.emit(value.Instruction{Op: value.CALLOBJMERGE, Int: 1})
			continue
		}
		c.emit(value.Instruction{Op: value.PUSHCONSTSYMBOL, Str: entry.Key})
		if err := c.compileExpr(entry.Expr); err != nil {
			return err
		}
		c.emit(value.Instruction{Op: value.CALLOBJSET, Int: 2})
	}
	return nil
}

var arithOps = map[value.Symbol]value.Opcode{
	"+": value.ADD,
	"-": value.SUB,
	"*": value.MUL,
	"/": value.DIV,
}

func (c *Compiler) compileList(lst *value.List) error {
	if len(lst.Elems) == 0 {
		return errf(InvalidExpression, "empty list")
	}

	if head, ok := lst.Elems[0].(value.Symbol); ok {
		switch head {
		case "set":
			return c.compileSet(lst)
		case "defun":
			return c.compileDefun(lst)
		case "lambda":
			return c.compileLambda(lst)
		case "let":
			return c.compileLet(lst)
		case "if":
			return c.compileIf(lst)
		}
		if op, ok := arithOps[head]; ok {
			return c.compileArith(op, lst.Elems[1:])
		}
	}

	return c.compileCall(lst)
}

// compileCall compiles an ordinary function application: the callee
// (Symbol or nested List), then each argument left-to-right, then Call.
func (c *Compiler) compileCall(lst *value.List) error {
	if err := c.compileExpr(lst.Elems[0]); err != nil {
		return err
	}
	for _, arg := range lst.Elems[1:] {
		if err := c.compileExpr(arg); err != nil {
			return err
		}
	}
	c.emit(value.Instruction{Op: value.CALL, Int: len(lst.Elems) - 1})
	return nil
}

// compileArith compiles a variadic `+`/`-`/`*`/`/` call. §9 Open Question
// (a) leaves arity-1 behavior for these operators unspecified; this
// implementation treats fewer than two operands as a compile error rather
// than silent identity.
func (c *Compiler) compileArith(op value.Opcode, operands []value.Value) error {
	if len(operands) < 2 {
		return errf(InvalidExpression, "%s requires at least 2 operands, got %d", op, len(operands))
	}
	for _, operand := range operands {
		if err := c.compileExpr(operand); err != nil {
			return err
		}
	}
	c.emit(value.Instruction{Op: op, Int: len(operands)})
	return nil
}

// compileSet compiles `(set NAME EXPR)`. StoreVar is non-consuming, so the
// assigned value is left as the expression's own result (§9 design note
// (c)).
func (c *Compiler) compileSet(lst *value.List) error {
	if len(lst.Elems) != 3 {
		return errf(InvalidExpression, "set requires exactly 2 arguments, got %d", len(lst.Elems)-1)
	}
	name, ok := lst.Elems[1].(value.Symbol)
	if !ok {
		return errf(InvalidOperator, "set target must be a symbol, got %s", lst.Elems[1].Kind())
	}
	if err := c.compileExpr(lst.Elems[2]); err != nil {
		return err
	}
	c.emit(value.Instruction{Op: value.STOREVAR, Str: string(name)})
	return nil
}

// compileDefun compiles `(defun NAME PATTERNS BODY)`. PATTERNS may be a
// parenthesized list of patterns or, for a single pattern, the bare pattern
// itself (§8 scenario 4: `(defun f 0 1)`).
func (c *Compiler) compileDefun(lst *value.List) error {
	if len(lst.Elems) != 4 {
		return errf(InvalidFunctionDefinition, "defun requires a name, a pattern list, and a body")
	}
	name, ok := lst.Elems[1].(value.Symbol)
	if !ok {
		return errf(InvalidFunctionDefinition, "defun name must be a symbol, got %s", lst.Elems[1].Kind())
	}
	patterns, err := compilePatternSpec(lst.Elems[2])
	if err != nil {
		return err
	}

	body := New()
	if err := body.compileExpr(lst.Elems[3]); err != nil {
		return err
	}
	body.emit(value.Instruction{Op: value.RETURN})

	def := &value.FunctionDef{Patterns: patterns, Code: body.code}
	c.emit(value.Instruction{Op: value.PUSHFUNCDEF, Payload: def})
	c.emit(value.Instruction{Op: value.DEFINEFUNCDEF, Str: string(name)})
	return nil
}

func compilePatternSpec(v value.Value) ([]value.Pattern, error) {
	if lst, ok := v.(*value.List); ok {
		patterns := make([]value.Pattern, len(lst.Elems))
		for i, p := range lst.Elems {
			pat, err := compilePatternElement(p)
			if err != nil {
				return nil, err
			}
			patterns[i] = pat
		}
		return patterns, nil
	}
	pat, err := compilePatternElement(v)
	if err != nil {
		return nil, err
	}
	return []value.Pattern{pat}, nil
}

func compilePatternElement(v value.Value) (value.Pattern, error) {
	switch t := v.(type) {
	case value.Symbol:
		return value.Pattern{Kind: value.PatternSymbol, Name: string(t)}, nil
	case value.Number:
		return value.Pattern{Kind: value.PatternNumber, Num: float64(t)}, nil
	default:
		return value.Pattern{}, errf(InvalidPattern, "pattern must be a symbol or number literal, got %s", v.Kind())
	}
}

// compileLambda compiles `(lambda (PARAMS...) BODY)` into a template
// Closure pushed by PushFunc. The template's Env is left nil: it is not a
// usable capture, only Params/Code data for the machine to copy when it
// instantiates a real, env-capturing Closure at the moment this expression
// is evaluated (see lang/machine's PushFunc handler) — the same lambda
// expression, compiled once, produces a fresh closure with a fresh capture
// environment on every evaluation (e.g. once per call when nested in a
// function body).
func (c *Compiler) compileLambda(lst *value.List) error {
	if len(lst.Elems) != 3 {
		return errf(InvalidLambda, "lambda requires a parameter list and a body")
	}
	paramsList, ok := lst.Elems[1].(*value.List)
	if !ok {
		return errf(InvalidLambda, "lambda parameter list must be a list, got %s", lst.Elems[1].Kind())
	}
	params := make([]string, len(paramsList.Elems))
	for i, p := range paramsList.Elems {
		sym, ok := p.(value.Symbol)
		if !ok {
			return errf(InvalidLambda, "lambda parameter must be a symbol, got %s", p.Kind())
		}
		params[i] = string(sym)
	}

	body := New()
	if err := body.compileExpr(lst.Elems[2]); err != nil {
		return err
	}
	body.emit(value.Instruction{Op: value.RETURN})

	template := &value.Closure{Params: params, Code: body.code}
	c.emit(value.Instruction{Op: value.PUSHFUNC, Payload: template})
	return nil
}

// compileLet compiles `(let ((N1 E1) (N2 E2) ...) BODY)`. Unlike `set`,
// binding values must not leak onto the operand stack (§3 invariant I3):
// each StoreVar is followed by an explicit Pop, even though StoreVar itself
// is non-consuming.
func (c *Compiler) compileLet(lst *value.List) error {
	if len(lst.Elems) != 3 {
		return errf(InvalidExpression, "let requires a binding list and a body")
	}
	bindings, ok := lst.Elems[1].(*value.List)
	if !ok {
		return errf(InvalidExpression, "let bindings must be a list, got %s", lst.Elems[1].Kind())
	}

	c.emit(value.Instruction{Op: value.ENTERSCOPE})
	for _, b := range bindings.Elems {
		bl, ok := b.(*value.List)
		if !ok || len(bl.Elems) != 2 {
			return errf(InvalidExpression, "let binding must be a (name expr) pair")
		}
		name, ok := bl.Elems[0].(value.Symbol)
		if !ok {
			return errf(InvalidExpression, "let binding name must be a symbol, got %s", bl.Elems[0].Kind())
		}
		if err := c.compileExpr(bl.Elems[1]); err != nil {
			return err
		}
		c.emit(value.Instruction{Op: value.STOREVAR, Str: string(name)})
		c.emit(value.Instruction{Op: value.POP})
	}
	if err := c.compileExpr(lst.Elems[2]); err != nil {
		return err
	}
	c.emit(value.Instruction{Op: value.EXITSCOPE})
	return nil
}

// compileIf compiles `(if COND THEN [ELSE])`. Offsets are back-patched once
// the target position is known, relative to the jump instruction's own
// index (§4.1).
func (c *Compiler) compileIf(lst *value.List) error {
	if len(lst.Elems) != 3 && len(lst.Elems) != 4 {
		return errf(InvalidExpression, "if requires a condition, a then-branch, and an optional else-branch")
	}
	if err := c.compileExpr(lst.Elems[1]); err != nil {
		return err
	}

	p1 := c.emit(value.Instruction{Op: value.JUMPIFFALSE})
	if err := c.compileExpr(lst.Elems[2]); err != nil {
		return err
	}
	p2 := c.emit(value.Instruction{Op: value.JMP})
	c.code[p1].Int = len(c.code) - p1

	if len(lst.Elems) == 4 {
		if err := c.compileExpr(lst.Elems[3]); err != nil {
			return err
		}
	} else {
		c.emitNil()
	}
	c.code[p2].Int = len(c.code) - p2
	return nil
}
