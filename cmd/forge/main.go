// Command forge is the host process of spec §6 "External interfaces":
// it reads an already-parsed entry program from disk, wires up a
// Runtime, and calls run(program, args), mapping the result onto the
// process exit code.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/forgelang/forge/internal/ast"
	"github.com/forgelang/forge/internal/config"
	"github.com/forgelang/forge/internal/runtime"
	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: forge <entry.fgast> [args...]")
		return 1
	}
	entryPath := args[0]
	apexArgs := args[1:]

	project, err := config.LoadProject("forge.yaml")
	if err != nil {
		fmt.Fprintln(os.Stderr, colorize("forge.yaml: "+err.Error()))
		return 1
	}

	data, err := os.ReadFile(entryPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, colorize(err.Error()))
		return 1
	}
	prog, err := ast.Decode(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, colorize("decode "+entryPath+": "+err.Error()))
		return 1
	}

	rt := runtime.New(project, os.Stdout, os.Stderr)

	argItems := make([]values.Value, len(apexArgs))
	for i, a := range apexArgs {
		argItems[i] = values.String{Value: a}
	}
	argsVec := values.NewVec(argItems, types.StringTag{})

	code, rerr := runtime.Run(rt, prog, []values.Value{argsVec})
	if rerr != nil {
		fmt.Fprintln(os.Stderr, colorize(runtime.FormatError(rerr)))
	}
	return code
}

// colorize wraps msg in red ANSI escapes only when stderr is an
// interactive terminal (spec §6 "Exit codes" prints to stderr; the
// color is a courtesy this host adds, not a spec requirement).
func colorize(msg string) string {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return msg
	}
	return "\x1b[31m" + msg + "\x1b[0m"
}
