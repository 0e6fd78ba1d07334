// parser.go — recursive-descent parser producing the Ampell syntax tree.
//
// The parser consumes the flat token sequence from lexer.go through a single
// forward cursor with one token of lookahead; there is no backtracking.
// parseBlock collects statements until end of input or a ']' (which it leaves
// unconsumed for the caller to retire), and parseStatement dispatches on the
// current token kind. Function and conditional bodies recurse through the
// same routine, so nesting resolves to unbounded depth without any bracket
// balancing in the lexer. Payloads are obtained by stripping delimiter syntax
// (brackets, quotes, sigils) from the token lexeme.
package ampell

import (
	"errors"
	"fmt"
	"strings"
)

// ParseError reports a structural malformation: what was expected and what
// was found, with the position of the offending token. Incomplete marks
// errors caused by running out of input, for REPL continuation prompts.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err is a lex or parse failure that more input
// could repair (an unterminated literal or an unclosed body at end of input).
func IsIncomplete(err error) bool {
	var le *LexError
	if errors.As(err, &le) {
		return le.Incomplete
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Incomplete
	}
	return false
}

// Parse consumes a token sequence (EOF-terminated, as produced by the lexer)
// and returns the Program root.
func Parse(toks []Token) (*Program, error) {
	p := &parser{toks: toks}
	return p.program()
}

// ParseSource runs the lexer and parser over src.
func ParseSource(src string) (*Program, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(toks)
}

type parser struct {
	toks []Token
	i    int
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) match(tt TokenType) bool {
	if p.peek().Type == tt && tt != EOF {
		p.i++
		return true
	}
	return false
}

// need consumes a token of type tt or fails with an expected-vs-found error.
func (p *parser) need(tt TokenType, what string) (Token, error) {
	if p.match(tt) {
		return p.prev(), nil
	}
	g := p.peek()
	msg := fmt.Sprintf("expected %s %s, found %s", tt, what, g.Type)
	return Token{}, &ParseError{Line: g.Line, Col: g.Col, Msg: msg, Incomplete: g.Type == EOF}
}

// ─────────────────────────────── grammar ────────────────────────────────────

func (p *parser) program() (*Program, error) {
	stmts, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		g := p.peek()
		return nil, &ParseError{Line: g.Line, Col: g.Col, Msg: "unexpected ']' with no open body"}
	}
	return &Program{Statements: stmts}, nil
}

// parseBlock parses statements until end of input or a ']' token, which is
// left unconsumed for the caller.
func (p *parser) parseBlock() ([]Node, error) {
	var stmts []Node
	for !p.atEnd() && p.peek().Type != RBRACKET {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *parser) parseStatement() (Node, error) {
	tok := p.peek()
	p.i++

	switch tok.Type {
	case PUSH:
		// &[payload]
		return &Push{Raw: tok.Lexeme[2 : len(tok.Lexeme)-1]}, nil

	case OP:
		return &Operator{Op: tok.Lexeme}, nil

	case ASSIGN:
		// >>name
		return &Assign{Name: tok.Lexeme[2:]}, nil

	case CALL:
		// name:
		return &FunctionCall{Name: tok.Lexeme[:len(tok.Lexeme)-1]}, nil

	case SWITCH:
		// \[name] — empty or blank interior means "main" (resolved at eval).
		return &StackSwitch{Name: strings.TrimSpace(tok.Lexeme[2 : len(tok.Lexeme)-1])}, nil

	case INPUT:
		// ^"prompt"~name — the lexer guarantees the shape; split on the
		// closing quote since the prompt itself may contain '~'.
		inner := tok.Lexeme[2:]
		q := strings.IndexByte(inner, '"')
		return &Input{Prompt: inner[:q], Name: inner[q+2:]}, nil

	case FUNCDEF:
		name := tok.Lexeme[1:]
		if _, err := p.need(LBRACKET, fmt.Sprintf("to open the body of function '%s'", name)); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RBRACKET, fmt.Sprintf("to close the body of function '%s'", name)); err != nil {
			return nil, err
		}
		return &FunctionDef{Name: name, Body: body}, nil

	case COND:
		op := tok.Lexeme
		if _, err := p.need(LBRACKET, fmt.Sprintf("to open the body of conditional '%s'", op)); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RBRACKET, fmt.Sprintf("to close the body of conditional '%s'", op)); err != nil {
			return nil, err
		}
		return &Conditional{Op: op, Body: body}, nil
	}

	return nil, &ParseError{
		Line: tok.Line,
		Col:  tok.Col,
		Msg:  fmt.Sprintf("unexpected %s in statement position", tok.Type),
	}
}
