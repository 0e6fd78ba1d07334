// lexer.go — scanner for Ampell source text.
package ampell

import (
	"fmt"
	"unicode/utf8"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Forms that consume their own delimiters
	PUSH   // &[ ... ]
	SWITCH // \[ ... ]
	INPUT  // ^"prompt"~name

	// Prefixed identifiers
	ASSIGN  // >>name
	FUNCDEF // @name
	CALL    // name:

	// Structure
	COND     // one of = ! < >
	LBRACKET // "["
	RBRACKET // "]"

	// Stack operators
	OP // % $ + - * / and the aliases − × ÷
)

var tokenTypeNames = map[TokenType]string{
	EOF:      "end of input",
	PUSH:     "push literal",
	SWITCH:   "stack switch",
	INPUT:    "input",
	ASSIGN:   "assignment",
	FUNCDEF:  "function definition",
	CALL:     "function call",
	COND:     "conditional operator",
	LBRACKET: "'['",
	RBRACKET: "']'",
	OP:       "operator",
}

func (tt TokenType) String() string {
	if s, ok := tokenTypeNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(tt))
}

// Token is a lexical token. Lexeme is the raw source slice including any
// delimiter syntax; the parser strips delimiters to obtain payloads.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int // 1-based
	Col    int // 0-based byte column
}

// Lexer scans an Ampell source string into a flat token sequence.
type Lexer struct {
	src   string
	start int // start index of current token
	cur   int // current index
	line  int
	col   int
	toks  []Token

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Tokenize scans src completely and returns the tokens (EOF included).
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType) Token {
	tok := Token{
		Type:   tt,
		Lexeme: l.src[l.start:l.cur],
		Line:   l.tokStartLine,
		Col:    l.tokStartCol,
	}
	l.toks = append(l.toks, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.src[l.cur] {
		case ' ', '\t', '\r', '\n':
			l.advance()
			l.start = l.cur
		default:
			return
		}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// ----- errors -----

// LexError reports an unrecognized or malformed lexical form. Col is 0-based;
// renderers show it 1-based. Incomplete marks forms cut off by end of input,
// so a REPL can keep reading instead of failing.
type LexError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.line, Col: l.col, Msg: msg}
}

// errAtStart reports at the start of the current token rather than the cursor.
func (l *Lexer) errAtStart(msg string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

func (l *Lexer) errIncomplete(msg string) error {
	return &LexError{Line: l.line, Col: l.col, Msg: msg, Incomplete: true}
}

// ----- scanners -----

// scanUntil consumes up to and including the next occurrence of term,
// scanned forward from the current position (no nesting, runs across
// newlines). what appears in the error when input ends first.
func (l *Lexer) scanUntil(term byte, what string) error {
	for {
		ch, ok := l.advance()
		if !ok {
			return l.errIncomplete(fmt.Sprintf("%s was not terminated with %q", what, string(term)))
		}
		if ch == term {
			return nil
		}
	}
}

// scanIdentifier consumes [A-Za-z0-9_]* from the current position.
func (l *Lexer) scanIdentifier() string {
	from := l.cur
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[from:l.cur]
}

// scanInput handles ^"prompt"~name. The leading '^' is already consumed.
func (l *Lexer) scanInput() (Token, error) {
	if b, ok := l.peek(); !ok || b != '"' {
		return Token{}, l.err("expected '\"' after '^' to open an input prompt")
	}
	l.advance()
	if err := l.scanUntil('"', "input prompt"); err != nil {
		return Token{}, err
	}
	if b, ok := l.peek(); !ok || b != '~' {
		return Token{}, l.err("expected '~' after input prompt")
	}
	l.advance()
	if name := l.scanIdentifier(); name == "" {
		return Token{}, l.err("expected variable name after '~'")
	}
	return l.addToken(INPUT), nil
}

// skipComment consumes a '#' comment through end of line. The '#' is already
// consumed; the caller has checked that '[' does not follow.
func (l *Lexer) skipComment() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			l.start = l.cur
			return
		}
		l.advance()
	}
}

// ----- main scanner -----

// scanToken produces the next token. Multi-character forms are tried before
// single-character fallbacks ('>>' before the conditional '>'), and the
// delimited forms (&[...], \[...], ^"..."~name) consume their own brackets,
// so '[' and ']' tokens only ever delimit function and conditional bodies.
func (l *Lexer) scanToken() (Token, error) {
	for {
		l.skipWhitespace()
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.start = l.cur

		if l.isAtEnd() {
			return l.addToken(EOF), nil
		}

		ch, _ := l.advance()

		switch ch {
		case '&':
			if b, ok := l.peek(); !ok || b != '[' {
				return Token{}, l.err("expected '[' after '&' to open a push literal")
			}
			l.advance()
			if err := l.scanUntil(']', "push literal"); err != nil {
				return Token{}, err
			}
			return l.addToken(PUSH), nil

		case '\\':
			if b, ok := l.peek(); !ok || b != '[' {
				return Token{}, l.err("expected '[' after '\\' to open a stack switch")
			}
			l.advance()
			if err := l.scanUntil(']', "stack switch"); err != nil {
				return Token{}, err
			}
			return l.addToken(SWITCH), nil

		case '^':
			return l.scanInput()

		case '>':
			if b, ok := l.peek(); ok && b == '>' {
				l.advance()
				if b2, ok2 := l.peek(); !ok2 || !isAlpha(b2) {
					return Token{}, l.err("expected variable name after '>>'")
				}
				l.scanIdentifier()
				return l.addToken(ASSIGN), nil
			}
			return l.addToken(COND), nil

		case '=', '!', '<':
			return l.addToken(COND), nil

		case '@':
			if b, ok := l.peek(); !ok || !isAlpha(b) {
				return Token{}, l.err("expected function name after '@'")
			}
			l.scanIdentifier()
			return l.addToken(FUNCDEF), nil

		case '[':
			return l.addToken(LBRACKET), nil
		case ']':
			return l.addToken(RBRACKET), nil

		case '%', '$', '+', '-', '*', '/':
			return l.addToken(OP), nil

		case '#':
			// '#[' is reserved and has no lexical meaning.
			if b, ok := l.peek(); ok && b == '[' {
				return Token{}, l.errAtStart("unexpected character '#'")
			}
			l.skipComment()
			continue
		}

		// Identifiers only occur as function calls: name followed by ':'.
		if isAlpha(ch) {
			l.scanIdentifier()
			if b, ok := l.peek(); ok && b == ':' {
				l.advance()
				return l.addToken(CALL), nil
			}
			return Token{}, l.errAtStart(fmt.Sprintf("bare identifier %q (function calls need a trailing ':')", l.src[l.start:l.cur]))
		}

		// Non-ASCII: the unicode operator aliases, otherwise an error.
		if ch >= utf8.RuneSelf {
			l.cur-- // re-decode from the lead byte
			l.col--
			r, size := utf8.DecodeRuneInString(l.src[l.cur:])
			if r == '−' || r == '×' || r == '÷' {
				l.cur += size
				l.col += size
				return l.addToken(OP), nil
			}
			return Token{}, l.errAtStart(fmt.Sprintf("unexpected character %q", r))
		}

		return Token{}, l.errAtStart(fmt.Sprintf("unexpected character %q", ch))
	}
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.toks, nil
		}
	}
}
