// printer.go — human-readable rendering of values and interpreter state.
package ampell

import (
	"fmt"
	"sort"
	"strings"
)

// FormatValue renders v for state dumps: like Value.String, except text is
// quoted so stack listings stay unambiguous.
func FormatValue(v Value) string {
	if v.Tag == VTStr {
		return quoteString(v.Data.(string))
	}
	return v.String()
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// FormatStack renders a stack bottom-first: [1, 2.5, "x"].
func FormatStack(s []Value) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = FormatValue(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatState renders the post-run report: the active stack name, every
// non-empty stack, and the variable table. Names are sorted so the output is
// deterministic.
func FormatState(ip *Interpreter) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Current stack: %s\n", ip.CurrentStackName())

	names := ip.StackNames()
	sort.Strings(names)
	for _, name := range names {
		s, _ := ip.Stack(name)
		if len(s) == 0 {
			continue
		}
		fmt.Fprintf(&b, "Stack '%s': %s\n", name, FormatStack(s))
	}

	vars := ip.VarNames()
	if len(vars) > 0 {
		sort.Strings(vars)
		parts := make([]string, len(vars))
		for i, name := range vars {
			v, _ := ip.Var(name)
			parts[i] = fmt.Sprintf("%s: %s", name, FormatValue(v))
		}
		fmt.Fprintf(&b, "Variables: {%s}\n", strings.Join(parts, ", "))
	}

	return b.String()
}
