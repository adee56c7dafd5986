// Package sema implements the Symbol pass and Type pass: the two
// semantic passes that run between parsing and code generation.
// Grounded on the two-phase shape of xiaobogaga-hack's own
// `buildSymbolTables` (compiler/internal/symbol_table.go) followed by
// `typeChecker`/`SymbolExistenceChecker` (compiler/type_checker.go) —
// generalized from Jack's class/method registration to this
// language's flat function registration, and rewritten to read and
// write an explicit session.Context instead of the teacher's
// package-level symbolTable map.
package sema

import (
	"tacgen/internal/ast"
	"tacgen/internal/diag"
	"tacgen/internal/session"
	"tacgen/internal/types"
)

// SymbolPass walks prog, building the global scope and one child scope
// per function, registering every declaration it finds, and decorating
// `program`/`function` nodes with the scope they opened. It reports
// `declaredIdent` for any name collision and leaves the first binding
// in place.
func SymbolPass(ctx *session.Context, prog *ast.Program) {
	global := ctx.Symbols.PushNewScope("global")
	ctx.Decor.SetScope(prog.ID(), global)

	for _, fn := range prog.Functions {
		visitFunction(ctx, fn)
	}

	ctx.Symbols.Pop()
}

func visitFunction(ctx *session.Context, fn *ast.Function) {
	fnScope := ctx.Symbols.PushNewScope(fn.Name)
	ctx.Decor.SetScope(fn.ID(), fnScope)

	paramTypes := make([]types.TypeId, 0, len(fn.Params))
	for _, p := range fn.Params {
		pt := visitType(ctx, p.Type)
		paramTypes = append(paramTypes, pt)
		if ctx.Symbols.FindInCurrent(p.Name) {
			reportDeclaredIdent(ctx, p.Pos(), p.Name)
			continue
		}
		ctx.Symbols.AddParameter(p.Name, pt)
	}

	for _, decl := range fn.Locals {
		visitVarDecl(ctx, decl)
	}

	for _, stmt := range fn.Body {
		visitStmtForDecls(ctx, stmt)
	}

	ctx.Symbols.Pop()

	retType := ctx.Types.CreateVoid()
	if fn.ReturnType != nil {
		retType = visitType(ctx, fn.ReturnType)
	}
	funcType := ctx.Types.CreateFunction(paramTypes, retType)
	if ctx.Symbols.FindInCurrent(fn.Name) {
		reportDeclaredIdent(ctx, fn.Pos(), fn.Name)
		return
	}
	ctx.Symbols.AddFunction(fn.Name, funcType)
}

// visitStmtForDecls recurses into nested statement bodies (if/while)
// looking for declarations. Only VarDecl nodes mounted on a Function's
// Locals are real declaration sites in this grammar — this walk exists
// so a future grammar extension allowing block-scoped `var` inside
// if/while bodies has a single place to add that without touching the
// Type pass.
func visitStmtForDecls(ctx *session.Context, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		for _, inner := range s.Then {
			visitStmtForDecls(ctx, inner)
		}
		for _, inner := range s.Else {
			visitStmtForDecls(ctx, inner)
		}
	case *ast.WhileStmt:
		for _, inner := range s.Body {
			visitStmtForDecls(ctx, inner)
		}
	}
}

func visitVarDecl(ctx *session.Context, decl *ast.VarDecl) {
	t := visitType(ctx, decl.Type)
	for _, name := range decl.Names {
		if ctx.Symbols.FindInCurrent(name) {
			reportDeclaredIdent(ctx, decl.Pos(), name)
			continue
		}
		ctx.Symbols.AddLocal(name, t)
	}
}

// visitType constructs the TypeId for a type node bottom-up and
// decorates the node with it, so later passes can read a node's type
// decoration uniformly whether the node is an expression or a type.
func visitType(ctx *session.Context, t ast.Type) types.TypeId {
	switch tt := t.(type) {
	case *ast.BasicType:
		var id types.TypeId
		switch tt.Kind {
		case ast.IntType:
			id = ctx.Types.CreateInteger()
		case ast.FloatType:
			id = ctx.Types.CreateFloat()
		case ast.CharType:
			id = ctx.Types.CreateCharacter()
		case ast.BoolType:
			id = ctx.Types.CreateBoolean()
		}
		ctx.Decor.SetType(tt.ID(), id)
		return id
	case *ast.ArrayType:
		elem := visitType(ctx, tt.Elem)
		id := ctx.Types.CreateArray(elem, tt.Size)
		ctx.Decor.SetType(tt.ID(), id)
		return id
	}
	return types.NoType
}

func reportDeclaredIdent(ctx *session.Context, pos ast.Position, name string) {
	ctx.Diags.Report(diag.DeclaredIdent, pos.Line, pos.Col, "%q is already declared in this scope", name)
}
