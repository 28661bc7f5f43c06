// Package parser builds value.Value trees directly out of scanner tokens
// (§6 of spec.md leaves the parsing algorithm to this interface contract;
// this is the concrete implementation). There is no separate AST: List,
// Cons, Symbol, String, Number, Quote and ObjectLiteral are themselves
// Value variants, so the parser's output is exactly what the compiler and
// resolver consume.
package parser

import (
	"fmt"
	"strconv"

	"github.com/universalsequences/zlisp/lang/scanner"
	"github.com/universalsequences/zlisp/lang/token"
	"github.com/universalsequences/zlisp/lang/value"
)

// Error is a parse-time failure, positioned at the token that caused it.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// ParseAll parses every top-level form in src and returns them in order.
// A zlisp program is a sequence of forms, not a single enclosing list.
func ParseAll(filename, src string) ([]value.Value, error) {
	toks, err := scanner.ScanAll(filename, src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var forms []value.Value
	for p.cur().Token != token.EOF {
		v, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, v)
	}
	return forms, nil
}

// ParseOne parses exactly one form from src and reports an error if
// anything besides trailing EOF follows it.
func ParseOne(filename, src string) (value.Value, error) {
	toks, err := scanner.ScanAll(filename, src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	v, err := p.parseForm()
	if err != nil {
		return nil, err
	}
	if p.cur().Token != token.EOF {
		return nil, &Error{Pos: p.cur().Pos, Msg: "unexpected trailing input"}
	}
	return v, nil
}

// parser walks a pre-scanned token slice; the grammar is small enough that
// scanning the whole source up front (rather than streaming token-by-token)
// keeps this package simple.
type parser struct {
	toks []scanner.TokenAndValue
	pos  int
}

func (p *parser) cur() scanner.TokenAndValue {
	return p.toks[p.pos]
}

func (p *parser) advance() scanner.TokenAndValue {
	tv := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tv
}

func (p *parser) expect(tok token.Token) (scanner.TokenAndValue, error) {
	tv := p.cur()
	if tv.Token != tok {
		return tv, &Error{Pos: tv.Pos, Msg: fmt.Sprintf("expected %s, got %s", tok, tv.Token)}
	}
	return p.advance(), nil
}

// parseForm parses exactly one top-level value: a number, string, symbol
// (including the `'expr` quote shorthand), list, or object literal.
func (p *parser) parseForm() (value.Value, error) {
	tv := p.cur()
	switch tv.Token {
	case token.NUMBER:
		p.advance()
		n, err := parseNumber(tv)
		if err != nil {
			return nil, err
		}
		return n, nil
	case token.STRING:
		p.advance()
		// Not GC-tracked: this node is only ever read by the compiler for its
		// Bytes and discarded (PUSHCONSTSTRING carries the raw string, not this
		// object; the machine allocates the tracked *value.String at run time).
		return &value.String{Bytes: []byte(tv.Text)}, nil
	case token.SYMBOL:
		return p.parseSymbolForm(tv)
	case token.LPAREN:
		return p.parseList()
	case token.LBRACE:
		return p.parseObjectLiteral()
	case token.EOF:
		return nil, &Error{Pos: tv.Pos, Msg: "unexpected EOF"}
	default:
		return nil, &Error{Pos: tv.Pos, Msg: fmt.Sprintf("unexpected token %s", tv.Token)}
	}
}

func parseNumber(tv scanner.TokenAndValue) (value.Number, error) {
	n, err := strconv.ParseFloat(tv.Text, 64)
	if err != nil {
		return 0, &Error{Pos: tv.Pos, Msg: fmt.Sprintf("invalid number %q", tv.Text)}
	}
	return value.Number(n), nil
}

// parseSymbolForm handles a bare SYMBOL token, including the `'name` and
// lone `'` quote shorthand forms (§6: "'expr and (quote expr) are
// equivalent"). The scanner has no notion of quoting; it only ever produces
// SYMBOL tokens, so the parser is where the leading apostrophe is peeled
// off.
func (p *parser) parseSymbolForm(tv scanner.TokenAndValue) (value.Value, error) {
	p.advance()
	if tv.Text == "'" {
		inner, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		return &value.Quote{Inner: inner}, nil
	}
	if len(tv.Text) > 1 && tv.Text[0] == '\'' {
		return &value.Quote{Inner: value.Symbol(tv.Text[1:])}, nil
	}
	return value.Symbol(tv.Text), nil
}

// parseList parses a `(...)` form. The first element, if it is the bare
// symbol `quote`, makes the whole form a Quote of its single argument
// (§6: "(quote expr)"); otherwise it is an ordinary List of its elements,
// to be interpreted by the resolver/compiler as a call or special form.
func (p *parser) parseList() (value.Value, error) {
	open := p.cur()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var elems []value.Value
	for p.cur().Token != token.RPAREN {
		if p.cur().Token == token.EOF {
			return nil, &Error{Pos: open.Pos, Msg: "unterminated list"}
		}
		v, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	p.advance() // RPAREN

	if len(elems) == 2 {
		if sym, ok := elems[0].(value.Symbol); ok && sym == "quote" {
			return &value.Quote{Inner: elems[1]}, nil
		}
	}
	return &value.List{Elems: elems}, nil
}

// parseObjectLiteral parses a `{ KEY EXPR ... EXPR ... }` form into an
// ObjectLiteral (§6): each entry is either a `KEY EXPR` pair or a `... EXPR`
// spread, where `...` is the literal three-dot symbol token.
func (p *parser) parseObjectLiteral() (value.Value, error) {
	open := p.cur()
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	var entries []value.ObjectLiteralEntry
	for p.cur().Token != token.RBRACE {
		if p.cur().Token == token.EOF {
			return nil, &Error{Pos: open.Pos, Msg: "unterminated object literal"}
		}
		if p.cur().Token == token.SYMBOL && p.cur().Text == "..." {
			p.advance()
			expr, err := p.parseForm()
			if err != nil {
				return nil, err
			}
			entries = append(entries, value.ObjectLiteralEntry{Spread: true, Expr: expr})
			continue
		}
		keyTok := p.cur()
		if keyTok.Token != token.SYMBOL {
			return nil, &Error{Pos: keyTok.Pos, Msg: fmt.Sprintf("invalid object key %s", keyTok.Token)}
		}
		p.advance()
		expr, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		entries = append(entries, value.ObjectLiteralEntry{Key: keyTok.Text, Expr: expr})
	}
	p.advance() // RBRACE
	return &value.ObjectLiteral{Entries: entries}, nil
}
