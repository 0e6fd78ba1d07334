// ast.go — syntax tree node definitions.
//
// The AST is a closed set of node kinds: the evaluator dispatches on them
// with an exhaustive type switch, so every construct the parser can produce
// has exactly one evaluation rule. Nodes are built once by the parser and
// never mutated afterwards; function bodies are re-executed by reference.
package ampell

// Node is implemented by every syntax tree node.
type Node interface {
	node()
}

// Program is the root node: an ordered sequence of statements.
type Program struct {
	Statements []Node
}

// Push pushes a literal onto the active stack: &[value].
// Raw holds the interior text verbatim; resolution to a runtime value
// (variable lookup, numeric parse, quote stripping) happens at eval time.
type Push struct {
	Raw string
}

// Operator is a stack operation: % $ + - * / and the aliases − × ÷.
type Operator struct {
	Op string
}

// Assign binds the top of the active stack to a variable: >>name.
type Assign struct {
	Name string
}

// Input prompts the user and binds the response to a variable: ^"prompt"~name.
type Input struct {
	Prompt string
	Name   string
}

// Conditional guards a body on a comparison of the two topmost values:
// =[...], ![...], <[...], >[...].
type Conditional struct {
	Op   string
	Body []Node
}

// FunctionDef stores a named body: @name[...].
type FunctionDef struct {
	Name string
	Body []Node
}

// FunctionCall invokes a stored body: name:.
type FunctionCall struct {
	Name string
}

// StackSwitch makes the named stack active: \[name]. An empty name means "main".
type StackSwitch struct {
	Name string
}

func (*Program) node()      {}
func (*Push) node()         {}
func (*Operator) node()     {}
func (*Assign) node()       {}
func (*Input) node()        {}
func (*Conditional) node()  {}
func (*FunctionDef) node()  {}
func (*FunctionCall) node() {}
func (*StackSwitch) node()  {}
