// interpreter.go — tree-walking evaluator and runtime state for Ampell.
//
// OVERVIEW
// --------
// One Interpreter owns all mutable state for a program run: the named value
// stacks, the active stack name, the variable table, and the function table.
// Run walks a parsed tree node by node with an exhaustive type switch, so
// every node kind has exactly one evaluation rule.
//
// Error discipline (see also errors.go):
//   - Lexing/parsing are all-or-nothing; Exec surfaces those as Go errors
//     before anything executes.
//   - Runtime soft errors (undefined function, division by zero, unsupported
//     operand kinds) are reported to Out and execution continues; operations
//     short on stack depth are silent no-ops. A division by zero (and any
//     unsupported operand pairing) restores both operands, so the error path
//     never consumes stack contents.
//   - Only host faults (console I/O failure) come back as Go errors from Run.
//
// Arithmetic unifies kinds as follows: two ints stay int except '/', which
// yields a float; mixing in a float yields a float; '+' concatenates two text
// values; '*' repeats text by an integer count. Comparisons order values by
// kind rank first (numbers before text), numerically among numbers and
// lexicographically among text; '=' across number and text is always false.
package ampell

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
//                                   VALUES
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTInt ValueTag = iota // int64
	VTNum                 // float64
	VTStr                 // string
)

// Value is the universal runtime carrier: a tag plus the Go payload for that
// tag. Values are copied when pushed, popped, or assigned; there is no shared
// mutable value identity.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Primitive constructors.
func Int(n int64) Value   { return Value{Tag: VTInt, Data: n} }
func Num(f float64) Value { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value  { return Value{Tag: VTStr, Data: s} }

// String renders the display form: what '$' prints. Text is verbatim;
// integral floats keep a ".0" suffix so they stay distinguishable from
// integers in output.
func (v Value) String() string {
	switch v.Tag {
	case VTInt:
		return strconv.FormatInt(v.Data.(int64), 10)
	case VTNum:
		return formatFloat(v.Data.(float64))
	case VTStr:
		return v.Data.(string)
	default:
		return "<unknown>"
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") { // exponents, NaN, Inf keep their form
		s += ".0"
	}
	return s
}

////////////////////////////////////////////////////////////////////////////////
//                               CONSOLE INTERFACE
////////////////////////////////////////////////////////////////////////////////

// LineReader supplies one line of user input for the ^"prompt"~name
// construct. The CLI backs this with a line editor; the default reads from
// stdin after writing the prompt to the interpreter's Out.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

type stdinReader struct {
	r *bufio.Reader
	w io.Writer
}

func (s *stdinReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(s.w, prompt)
	line, err := s.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

////////////////////////////////////////////////////////////////////////////////
//                                 INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// Interpreter holds the runtime state for one program run and executes parsed
// trees against it. State persists across Exec/Run calls on the same
// instance, which is what the REPL relies on.
type Interpreter struct {
	stacks  map[string][]Value
	current string
	vars    map[string]Value
	funcs   map[string][]Node

	// Out receives program output ('$', prompts, soft-error reports).
	Out io.Writer
	// In supplies lines for the input construct.
	In LineReader
}

// NewInterpreter returns a ready interpreter: the "main" stack exists and is
// active, console I/O is wired to stdin/stdout.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{
		stacks:  map[string][]Value{"main": nil},
		current: "main",
		vars:    map[string]Value{},
		funcs:   map[string][]Node{},
		Out:     os.Stdout,
	}
	ip.In = &stdinReader{r: bufio.NewReader(os.Stdin), w: os.Stdout}
	return ip
}

// CurrentStackName returns the name of the active stack.
func (ip *Interpreter) CurrentStackName() string { return ip.current }

// Stack returns a copy of the named stack's contents (bottom first) and
// whether the stack exists.
func (ip *Interpreter) Stack(name string) ([]Value, bool) {
	s, ok := ip.stacks[name]
	if !ok {
		return nil, false
	}
	out := make([]Value, len(s))
	copy(out, s)
	return out, true
}

// StackNames returns the names of all stacks that exist, unordered.
func (ip *Interpreter) StackNames() []string {
	names := make([]string, 0, len(ip.stacks))
	for n := range ip.stacks {
		names = append(names, n)
	}
	return names
}

// Var returns the value bound to name, if any.
func (ip *Interpreter) Var(name string) (Value, bool) {
	v, ok := ip.vars[name]
	return v, ok
}

// VarNames returns the names of all bound variables, unordered.
func (ip *Interpreter) VarNames() []string {
	names := make([]string, 0, len(ip.vars))
	for n := range ip.vars {
		names = append(names, n)
	}
	return names
}

// Exec runs the whole pipeline over src: tokenize, parse, evaluate. A lex or
// parse error aborts before any execution; the returned error from the walk
// itself can only be a host I/O fault.
func (ip *Interpreter) Exec(src string) error {
	prog, err := ParseSource(src)
	if err != nil {
		return err
	}
	return ip.Run(prog)
}

// Run executes a parsed program against the interpreter's state.
func (ip *Interpreter) Run(prog *Program) error {
	return ip.eval(prog)
}

// ----- stack primitives (always the active stack) -----

func (ip *Interpreter) depth() int { return len(ip.stacks[ip.current]) }

func (ip *Interpreter) push(v Value) {
	ip.stacks[ip.current] = append(ip.stacks[ip.current], v)
}

// pop removes and returns the top value. Callers check depth first.
func (ip *Interpreter) pop() Value {
	s := ip.stacks[ip.current]
	v := s[len(s)-1]
	ip.stacks[ip.current] = s[:len(s)-1]
	return v
}

// top and second peek without removing. Callers check depth first.
func (ip *Interpreter) top() Value    { s := ip.stacks[ip.current]; return s[len(s)-1] }
func (ip *Interpreter) second() Value { s := ip.stacks[ip.current]; return s[len(s)-2] }

func (ip *Interpreter) report(format string, args ...interface{}) {
	fmt.Fprintf(ip.Out, format+"\n", args...)
}

// ----- dispatch -----

func (ip *Interpreter) eval(n Node) error {
	switch n := n.(type) {
	case *Program:
		return ip.evalBody(n.Statements)

	case *Push:
		ip.push(ip.resolve(n.Raw))
		return nil

	case *Operator:
		ip.evalOperator(n.Op)
		return nil

	case *Assign:
		// Peek semantics: the value stays on the stack. Empty stack is a no-op.
		if ip.depth() > 0 {
			ip.vars[n.Name] = ip.top()
		}
		return nil

	case *Input:
		line, err := ip.In.ReadLine(n.Prompt)
		if err != nil {
			return fmt.Errorf("reading input for '%s': %w", n.Name, err)
		}
		ip.vars[n.Name] = coerceInput(line)
		return nil

	case *StackSwitch:
		name := n.Name
		if name == "" {
			name = "main"
		}
		if _, ok := ip.stacks[name]; !ok {
			ip.stacks[name] = nil
		}
		ip.current = name
		return nil

	case *FunctionDef:
		ip.funcs[n.Name] = n.Body
		return nil

	case *FunctionCall:
		body, ok := ip.funcs[n.Name]
		if !ok {
			ip.report("Error: Function '%s' not defined", n.Name)
			return nil
		}
		return ip.evalBody(body)

	case *Conditional:
		// Fewer than two values: skip silently.
		if ip.depth() < 2 {
			return nil
		}
		// Peek only; the comparison consumes nothing.
		b, a := ip.top(), ip.second()
		if compare(n.Op, a, b) {
			return ip.evalBody(n.Body)
		}
		return nil
	}

	// The Node sum is closed; reaching here means a parser bug.
	panic(fmt.Sprintf("ampell: no evaluation rule for %T", n))
}

func (ip *Interpreter) evalBody(body []Node) error {
	for _, stmt := range body {
		if err := ip.eval(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ----- value resolution -----

// resolve turns a push literal's raw text into a Value: an exact variable
// name wins, then a numeric parse (a '.' selects floating-point), then quote
// stripping, then the text verbatim.
func (ip *Interpreter) resolve(raw string) Value {
	s := strings.TrimSpace(raw)
	if v, ok := ip.vars[s]; ok {
		return v
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Num(f)
		}
	} else if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(n)
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return Str(s[1 : len(s)-1])
	}
	return Str(s)
}

// coerceInput converts a console response: integer, else float, else text.
func coerceInput(line string) Value {
	if n, err := strconv.ParseInt(line, 10, 64); err == nil {
		return Int(n)
	}
	if f, err := strconv.ParseFloat(line, 64); err == nil {
		return Num(f)
	}
	return Str(line)
}

// ----- operators -----

func (ip *Interpreter) evalOperator(op string) {
	switch op {
	case "%":
		if ip.depth() > 0 {
			ip.pop()
		}
		return
	case "$":
		if ip.depth() > 0 {
			fmt.Fprintln(ip.Out, ip.top().String())
		}
		return
	}

	// Arithmetic needs two operands; anything less is a no-op with no pops.
	if ip.depth() < 2 {
		return
	}
	b := ip.pop()
	a := ip.pop()

	if canonicalOp(op) == "/" && isZero(b) {
		ip.report("Error: Division by zero")
		ip.push(a)
		ip.push(b)
		return
	}

	res, ok := arith(canonicalOp(op), a, b)
	if !ok {
		ip.report("Error: unsupported operand types for '%s'", op)
		ip.push(a)
		ip.push(b)
		return
	}
	ip.push(res)
}

// canonicalOp folds the unicode aliases onto their ASCII operators.
func canonicalOp(op string) string {
	switch op {
	case "−":
		return "-"
	case "×":
		return "*"
	case "÷":
		return "/"
	}
	return op
}

func isZero(v Value) bool {
	switch v.Tag {
	case VTInt:
		return v.Data.(int64) == 0
	case VTNum:
		return v.Data.(float64) == 0
	}
	return false
}

func asFloat(v Value) float64 {
	if v.Tag == VTInt {
		return float64(v.Data.(int64))
	}
	return v.Data.(float64)
}

func isNumeric(v Value) bool { return v.Tag == VTInt || v.Tag == VTNum }

// arith applies a canonical arithmetic operator. The bool result is false
// for operand kinds the operator does not define.
func arith(op string, a, b Value) (Value, bool) {
	// Two integers stay integral, except division.
	if a.Tag == VTInt && b.Tag == VTInt {
		x, y := a.Data.(int64), b.Data.(int64)
		switch op {
		case "+":
			return Int(x + y), true
		case "-":
			return Int(x - y), true
		case "*":
			return Int(x * y), true
		case "/":
			return Num(float64(x) / float64(y)), true
		}
	}

	if isNumeric(a) && isNumeric(b) {
		x, y := asFloat(a), asFloat(b)
		switch op {
		case "+":
			return Num(x + y), true
		case "-":
			return Num(x - y), true
		case "*":
			return Num(x * y), true
		case "/":
			return Num(x / y), true
		}
	}

	if a.Tag == VTStr && b.Tag == VTStr && op == "+" {
		return Str(a.Data.(string) + b.Data.(string)), true
	}

	// Text repetition: text * int in either operand order.
	if op == "*" {
		if a.Tag == VTStr && b.Tag == VTInt {
			return Str(repeat(a.Data.(string), b.Data.(int64))), true
		}
		if a.Tag == VTInt && b.Tag == VTStr {
			return Str(repeat(b.Data.(string), a.Data.(int64))), true
		}
	}

	return Value{}, false
}

func repeat(s string, n int64) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, int(n))
}

// ----- comparisons -----

// kindRank orders kinds for cross-kind comparison: numbers before text.
func kindRank(v Value) int {
	if v.Tag == VTStr {
		return 1
	}
	return 0
}

func valuesEqual(a, b Value) bool {
	if a.Tag == VTInt && b.Tag == VTInt {
		return a.Data.(int64) == b.Data.(int64)
	}
	if isNumeric(a) && isNumeric(b) {
		return asFloat(a) == asFloat(b)
	}
	if a.Tag == VTStr && b.Tag == VTStr {
		return a.Data.(string) == b.Data.(string)
	}
	return false
}

// valueLess is a total order over all value kinds: kind rank first, then
// numeric or lexicographic order within a kind. NaN sorts below every number
// so the order stays total.
func valueLess(a, b Value) bool {
	if ra, rb := kindRank(a), kindRank(b); ra != rb {
		return ra < rb
	}
	if a.Tag == VTStr {
		return a.Data.(string) < b.Data.(string)
	}
	if a.Tag == VTInt && b.Tag == VTInt {
		return a.Data.(int64) < b.Data.(int64)
	}
	x, y := asFloat(a), asFloat(b)
	if math.IsNaN(x) {
		return !math.IsNaN(y)
	}
	return x < y
}

func compare(op string, a, b Value) bool {
	switch op {
	case "=":
		return valuesEqual(a, b)
	case "!":
		return !valuesEqual(a, b)
	case "<":
		return valueLess(a, b)
	case ">":
		return valueLess(b, a)
	}
	return false
}
