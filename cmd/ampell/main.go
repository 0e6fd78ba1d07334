package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/repr"
	"github.com/peterh/liner"

	"github.com/ampell-lang/ampell"
)

const (
	appName     = "ampell"
	historyFile = ".ampell_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("Ampell %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", ampell.Version)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "ast":
		os.Exit(cmdAst(os.Args[2:]))
	case "version":
		fmt.Println(ampell.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Ampell %s (built %s)

Usage:
  %s run [--quiet] [file.ampl]    Run a script (prompts for a filename if omitted).
  %s repl                         Start the REPL.
  %s ast <file.ampl>              Print the parsed syntax tree.
  %s version                      Print the compiled version.

`, ampell.Version, ampell.BuildDate, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	quiet := fs.Bool("quiet", false, "suppress the banner and post-run state report")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	file := ""
	if fs.NArg() > 0 {
		file = fs.Arg(0)
	} else {
		f, ok := promptFilename()
		if !ok {
			return 2
		}
		file = f
	}

	src, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: File '%s' not found!\n", file)
		} else {
			fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		}
		return 1
	}

	prog, perr := ampell.ParseSource(string(src))
	if perr != nil {
		fmt.Fprintln(os.Stderr, red(ampell.WrapErrorWithName(perr, file, string(src)).Error()))
		return 1
	}

	ip := ampell.NewInterpreter()

	if !*quiet {
		fmt.Printf("Executing %s...\n", file)
		fmt.Println(strings.Repeat("-", 20))
	}
	if rerr := ip.Run(prog); rerr != nil {
		fmt.Fprintln(os.Stderr, red(fmt.Sprintf("%s: %v", appName, rerr)))
		return 1
	}
	if !*quiet {
		fmt.Println(strings.Repeat("-", 20))
		fmt.Println("Execution completed.")
		fmt.Print(ampell.FormatState(ip))
	}
	return 0
}

// promptFilename asks for a script path interactively, the behavior when run
// is given no argument.
func promptFilename() (string, bool) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	name, err := ln.Prompt("Enter a file with valid Ampell code: ")
	if err != nil {
		return "", false
	}
	name = strings.TrimSpace(name)
	return name, name != ""
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

// linerReader feeds the interpreter's input construct through the REPL's
// line editor, so ^"prompt"~name gets editing and history too.
type linerReader struct {
	ln *liner.State
}

func (r *linerReader) ReadLine(prompt string) (string, error) {
	return r.ln.Prompt(prompt)
}

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := ampell.NewInterpreter()
	ip.In = &linerReader{ln: ln}

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			case ":state":
				fmt.Print(ampell.FormatState(ip))
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		prog, perr := ampell.ParseSource(code)
		if perr != nil {
			fmt.Fprintln(os.Stderr, red(ampell.WrapErrorWithSource(perr, code).Error()))
			continue
		}
		if rerr := ip.Run(prog); rerr != nil {
			fmt.Fprintln(os.Stderr, red(rerr.Error()))
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe accumulates lines until the buffer lexes and parses
// without running out of input, so unclosed bodies get a continuation prompt.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := ampell.ParseSource(src); ampell.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

// -----------------------------------------------------------------------------
// ast
// -----------------------------------------------------------------------------

func cmdAst(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s ast <file.ampl>\n", appName)
		return 2
	}
	file := args[0]

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	prog, perr := ampell.ParseSource(string(src))
	if perr != nil {
		fmt.Fprintln(os.Stderr, red(ampell.WrapErrorWithName(perr, file, string(src)).Error()))
		return 1
	}

	repr.New(os.Stdout, repr.Indent("  ")).Println(prog)
	return 0
}
