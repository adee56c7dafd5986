// Command tacc compiles one source file to three-address code,
// grounded on xiaobogaga-hack/compiler/main.go's flag.String("path",...)
// driver — generalized from that program's single print-and-continue
// error handling into the three-way exit code split this module's
// pipeline needs (syntax failure vs. semantic diagnostics vs. success).
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"tacgen/internal/ast"
	"tacgen/internal/compiler"
	"tacgen/internal/session"
)

var emitScopes = flag.Bool("emit-scopes", false, "print the scope tree to stderr after a successful compile")

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tacc [-emit-scopes] <source-file>")
		os.Exit(2)
	}
	os.Exit(run(flag.Arg(0)))
}

func run(path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tacc: %s\n", err)
		return 2
	}
	defer f.Close()

	result, err := compiler.Compile(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tacc: %s\n", err)
		return 2
	}

	if result.Ctx.Diags.HasErrors() {
		_ = result.Ctx.Diags.Emit(os.Stderr)
		return 1
	}

	if err := compiler.EmitIR(os.Stdout, result); err != nil {
		fmt.Fprintf(os.Stderr, "tacc: %s\n", err)
		return 2
	}

	if *emitScopes {
		printScopes(result.Ctx, result.Prog)
	}
	return 0
}

// printScopes is a debugging aid: it lists the global scope and each
// function's scope with the names bound directly in it. It has no
// effect on stdout IR or the process exit code.
func printScopes(ctx *session.Context, prog *ast.Program) {
	global := ctx.Decor.Scope(prog.ID())
	fmt.Fprintf(os.Stderr, "scope global: %s\n", strings.Join(ctx.Symbols.ScopeNames(global), ", "))
	for _, fn := range prog.Functions {
		scope := ctx.Decor.Scope(fn.ID())
		fmt.Fprintf(os.Stderr, "scope %s: %s\n", fn.Name, strings.Join(ctx.Symbols.ScopeNames(scope), ", "))
	}
}
