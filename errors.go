// errors.go — caret-snippet rendering for lex and parse errors.
//
// WrapErrorWithSource turns a *LexError or *ParseError into a multi-line,
// plain-text snippet with the offending line, one line of context on each
// side, and a caret under the 1-based column:
//
//	PARSE ERROR in fib.ampl at 2:9: expected ']' to close the body of function 'fib', found end of input
//
//	   1 | &[10]
//	   2 | @fib[<[$
//	     |         ^
//
// Any other error is returned unchanged. Runtime soft errors never reach
// this path: the evaluator prints and continues.
package ampell

import (
	"fmt"
	"strings"
)

// WrapErrorWithSource renders err against src without a source name.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName renders err against src, labeling the snippet with
// srcName (typically the file path) when it is non-empty.
func WrapErrorWithName(err error, srcName, src string) error {
	switch e := err.(type) {
	case *LexError:
		// Lexer/parser Col are 0-based; render 1-based.
		return fmt.Errorf("%s", snippet(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// snippet builds the caret-annotated block. Coordinates are 1-based and
// clamped to the source bounds so rendering never fails.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
