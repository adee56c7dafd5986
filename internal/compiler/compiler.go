// Package compiler sequences the lexer, parser, and semantic passes
// into one call, the way xiaobogaga-hack/compiler/internal/compiler.go's
// Compile orchestrates Parse → buildSymbolTables → SymbolExistenceChecker →
// typeChecker → generateCodes — generalized from that function's
// print-per-stage/panic-on-error style into explicit returned errors and
// diagnostics, since this module threads a session.Context rather than
// panicking out of a global pipeline.
package compiler

import (
	"io"

	"tacgen/internal/ast"
	"tacgen/internal/codegen"
	"tacgen/internal/ir"
	"tacgen/internal/lexer"
	"tacgen/internal/parser"
	"tacgen/internal/sema"
	"tacgen/internal/session"
)

// Result carries everything a caller (the driver, or a test) might need
// from a compile: the session the passes ran against, the parsed tree,
// and the lowered program (nil if diagnostics prevented code generation).
type Result struct {
	Ctx  *session.Context
	Prog *ast.Program
	IR   *ir.Program
}

// Compile runs the full pipeline over src: lex, parse, Symbol pass, Type
// pass, and — only if no diagnostic was recorded — the Code pass. A
// non-nil error means lexing or parsing failed outright (a syntax
// error); semantic diagnostics are not returned as an error, they live
// in Result.Ctx.Diags and the caller decides how to report them.
func Compile(src io.Reader) (*Result, error) {
	toks, err := lexer.New().Tokenize(src)
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(toks)
	if err != nil {
		return nil, err
	}

	ctx := session.New()
	sema.SymbolPass(ctx, prog)
	sema.TypePass(ctx, prog)

	result := &Result{Ctx: ctx, Prog: prog}
	if ctx.Diags.HasErrors() {
		return result, nil
	}
	result.IR = codegen.CodePass(ctx, prog)
	return result, nil
}

// EmitIR renders the compiled program's IR to w. Callers must check
// Result.IR != nil first (equivalently, !Ctx.Diags.HasErrors()).
func EmitIR(w io.Writer, result *Result) error {
	return codegen.Emit(w, result.IR)
}
