// Type pass: infers and validates expression types, marks l-values,
// and emits the diagnostics listed in the construct-by-construct rule
// table this module implements. Grounded on
// xiaobogaga-hack/compiler/type_checker.go's `typeCheckLetStatement`/
// `getAndCheckExpressionType0` family — generalized from Jack's
// class/method/this-aware type checking (which threads a class and a
// method symbol table through every call) down to this language's
// flat function scoping, where only the enclosing function's return
// type needs to be threaded through expression checking.
package sema

import (
	"tacgen/internal/ast"
	"tacgen/internal/diag"
	"tacgen/internal/session"
	"tacgen/internal/symtab"
	"tacgen/internal/types"
)

// checker carries the state the Type pass needs while walking one
// function: the ambient session and the function's declared return
// type, used only by `return` statements.
type checker struct {
	ctx        *session.Context
	returnType types.TypeId
}

// TypePass walks every function's body, decorating each expression
// node with its inferred type and l-value-ness, and reports the
// `noMainProperlyDeclared` diagnostic once at the end if applicable.
func TypePass(ctx *session.Context, prog *ast.Program) {
	globalScope := ctx.Decor.Scope(prog.ID())

	// Functions are bound in the global scope, so it must be back on
	// the open stack for the duration of this pass: a call to another
	// function must resolve through it, not just through the callee's
	// own function scope.
	ctx.Symbols.PushExisting(globalScope)
	defer ctx.Symbols.Pop()

	for _, fn := range prog.Functions {
		c := &checker{ctx: ctx}
		c.checkFunction(fn)
	}

	if ctx.Symbols.NoMainProperlyDeclared(ctx.Types, globalScope) {
		ctx.Diags.Report(diag.NoMainProperlyDeclared, 1, 1, "no function %q of signature () -> void is declared", "main")
	}
}

func (c *checker) checkFunction(fn *ast.Function) {
	scope := c.ctx.Decor.Scope(fn.ID())
	c.ctx.Symbols.PushExisting(scope)
	defer c.ctx.Symbols.Pop()

	c.returnType = c.ctx.Types.CreateVoid()
	if fn.ReturnType != nil {
		c.returnType = c.ctx.Decor.Type(fn.ReturnType.ID())
	}

	for _, stmt := range fn.Body {
		c.checkStmt(stmt)
	}
}

func (c *checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		c.checkAssignStmt(s)
	case *ast.IfStmt:
		c.checkIfStmt(s)
	case *ast.WhileStmt:
		c.checkWhileStmt(s)
	case *ast.ReadStmt:
		c.checkReadStmt(s)
	case *ast.WriteStmt:
		c.checkWriteStmt(s)
	case *ast.ReturnStmt:
		c.checkReturnStmt(s)
	case *ast.CallStmt:
		t := c.checkCall(s.Call, true)
		c.ctx.Decor.SetType(s.Call.ID(), t)
		c.ctx.Decor.SetLValue(s.Call.ID(), false)
	}
}

func (c *checker) checkAssignStmt(s *ast.AssignStmt) {
	leftType := c.checkExpr(s.Left)
	valueType := c.checkExpr(s.Value)

	if !c.ctx.Decor.IsLValue(s.Left.ID()) {
		c.errorAt(diag.NonReferenceableLeftExpr, s.Left.Pos(), "left-hand side of assignment is not assignable")
	}
	if !c.ctx.Types.Copyable(leftType, valueType) {
		c.errorAt(diag.IncompatibleAssignment, s.Pos(),
			"cannot assign value of type %s to variable of type %s",
			c.ctx.Types.ToString(valueType), c.ctx.Types.ToString(leftType))
	}
}

func (c *checker) checkIfStmt(s *ast.IfStmt) {
	c.requireBoolean(s.Cond)
	for _, stmt := range s.Then {
		c.checkStmt(stmt)
	}
	for _, stmt := range s.Else {
		c.checkStmt(stmt)
	}
}

func (c *checker) checkWhileStmt(s *ast.WhileStmt) {
	c.requireBoolean(s.Cond)
	for _, stmt := range s.Body {
		c.checkStmt(stmt)
	}
}

func (c *checker) requireBoolean(cond ast.Expr) {
	t := c.checkExpr(cond)
	if !c.ctx.Types.IsError(t) && !c.ctx.Types.IsBoolean(t) {
		c.errorAt(diag.BooleanRequired, cond.Pos(), "condition must be boolean, found %s", c.ctx.Types.ToString(t))
	}
}

func (c *checker) checkReadStmt(s *ast.ReadStmt) {
	t := c.checkExpr(s.Target)
	if !c.ctx.Types.IsError(t) && !c.ctx.Types.IsPrimitive(t) {
		c.errorAt(diag.ReadWriteRequireBasic, s.Target.Pos(), "read target must be a primitive type, found %s", c.ctx.Types.ToString(t))
	}
	if !c.ctx.Decor.IsLValue(s.Target.ID()) {
		c.errorAt(diag.NonReferenceableLeftExpr, s.Target.Pos(), "read target is not assignable")
	}
}

func (c *checker) checkWriteStmt(s *ast.WriteStmt) {
	if s.IsString {
		return
	}
	t := c.checkExpr(s.Value)
	if !c.ctx.Types.IsError(t) && !c.ctx.Types.IsPrimitive(t) {
		c.errorAt(diag.ReadWriteRequireBasic, s.Value.Pos(), "write target must be a primitive type, found %s", c.ctx.Types.ToString(t))
	}
}

func (c *checker) checkReturnStmt(s *ast.ReturnStmt) {
	valueType := c.ctx.Types.CreateVoid()
	if s.Value != nil {
		valueType = c.checkExpr(s.Value)
	}
	if !c.ctx.Types.Copyable(c.returnType, valueType) {
		c.errorAt(diag.IncompatibleReturn, s.Pos(),
			"function returns %s but this statement returns %s",
			c.ctx.Types.ToString(c.returnType), c.ctx.Types.ToString(valueType))
	}
}

// checkExpr infers node's type, decorates it (type and l-value), and
// returns the inferred type for the caller's use in further checks.
func (c *checker) checkExpr(expr ast.Expr) types.TypeId {
	var t types.TypeId
	isLValue := false

	switch e := expr.(type) {
	case *ast.Ident:
		t, isLValue = c.checkIdent(e)
	case *ast.IntLit:
		t = c.ctx.Types.CreateInteger()
	case *ast.FloatLit:
		t = c.ctx.Types.CreateFloat()
	case *ast.CharLit:
		t = c.ctx.Types.CreateCharacter()
	case *ast.BoolLit:
		t = c.ctx.Types.CreateBoolean()
	case *ast.ParenExpr:
		t = c.checkExpr(e.Inner)
		isLValue = c.ctx.Decor.IsLValue(e.Inner.ID())
	case *ast.UnaryExpr:
		t = c.checkUnary(e)
	case *ast.BinaryExpr:
		t = c.checkBinary(e)
	case *ast.IndexExpr:
		t, isLValue = c.checkIndex(e)
	case *ast.CallExpr:
		t = c.checkCall(e, false)
	default:
		t = c.ctx.Types.CreateError()
	}

	c.ctx.Decor.SetType(expr.ID(), t)
	c.ctx.Decor.SetLValue(expr.ID(), isLValue)
	return t
}

func (c *checker) checkIdent(e *ast.Ident) (types.TypeId, bool) {
	sym, ok := c.ctx.Symbols.Lookup(e.Name)
	if !ok {
		c.errorAt(diag.UndeclaredIdent, e.Pos(), "use of undeclared identifier %q", e.Name)
		return c.ctx.Types.CreateError(), true
	}
	return sym.Type, sym.Kind != symtab.Function
}

func (c *checker) checkUnary(e *ast.UnaryExpr) types.TypeId {
	operand := c.checkExpr(e.Operand)
	tm := c.ctx.Types
	switch e.Op {
	case ast.UnaryPlus, ast.UnaryMinus:
		if !tm.IsError(operand) && !tm.IsNumeric(operand) {
			c.errorAt(diag.IncompatibleOperator, e.Pos(), "unary %s requires a numeric operand, found %s", unaryOpText(e.Op), tm.ToString(operand))
			return tm.CreateError()
		}
		if tm.IsFloat(operand) {
			return tm.CreateFloat()
		}
		return tm.CreateInteger()
	case ast.UnaryNot:
		if !tm.IsError(operand) && !tm.IsBoolean(operand) {
			c.errorAt(diag.IncompatibleOperator, e.Pos(), "unary not requires a boolean operand, found %s", tm.ToString(operand))
			return tm.CreateError()
		}
		return tm.CreateBoolean()
	}
	return tm.CreateError()
}

func unaryOpText(op ast.UnaryOp) string {
	if op == ast.UnaryMinus {
		return "-"
	}
	return "+"
}

func (c *checker) checkBinary(e *ast.BinaryExpr) types.TypeId {
	left := c.checkExpr(e.Left)
	right := c.checkExpr(e.Right)
	tm := c.ctx.Types

	switch e.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div:
		if !bothOk(tm, left, right, tm.IsNumeric) {
			c.errorAt(diag.IncompatibleOperator, e.Pos(), "operator %s requires numeric operands, found %s and %s", e.Op, tm.ToString(left), tm.ToString(right))
			return tm.CreateError()
		}
		if tm.IsFloat(left) || tm.IsFloat(right) {
			return tm.CreateFloat()
		}
		return tm.CreateInteger()
	case ast.Mod:
		if !bothOk(tm, left, right, tm.IsInteger) {
			c.errorAt(diag.IncompatibleOperator, e.Pos(), "operator %% requires integer operands, found %s and %s", tm.ToString(left), tm.ToString(right))
			return tm.CreateError()
		}
		return tm.CreateInteger()
	case ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.Eq, ast.Ne:
		if !tm.Comparable(left, right, e.Op.String()) {
			c.errorAt(diag.IncompatibleOperator, e.Pos(), "operator %s cannot compare %s and %s", e.Op, tm.ToString(left), tm.ToString(right))
			return tm.CreateError()
		}
		return tm.CreateBoolean()
	case ast.And, ast.Or:
		if !bothOk(tm, left, right, tm.IsBoolean) {
			c.errorAt(diag.IncompatibleOperator, e.Pos(), "operator %s requires boolean operands, found %s and %s", e.Op, tm.ToString(left), tm.ToString(right))
			return tm.CreateError()
		}
		return tm.CreateBoolean()
	}
	return tm.CreateError()
}

func bothOk(tm *types.Manager, a, b types.TypeId, pred func(types.TypeId) bool) bool {
	if tm.IsError(a) || tm.IsError(b) {
		return true
	}
	return pred(a) && pred(b)
}

func (c *checker) checkIndex(e *ast.IndexExpr) (types.TypeId, bool) {
	arrType := c.checkExpr(e.Array)
	idxType := c.checkExpr(e.Index)
	tm := c.ctx.Types

	if !tm.IsError(idxType) && !tm.IsInteger(idxType) {
		c.errorAt(diag.NonIntegerIndexInArrayAccess, e.Index.Pos(), "array index must be an integer, found %s", tm.ToString(idxType))
	}
	if !tm.IsError(arrType) && !tm.IsArray(arrType) {
		c.errorAt(diag.NonArrayInArrayAccess, e.Array.Pos(), "indexed value is not an array, found %s", tm.ToString(arrType))
		return tm.CreateError(), true
	}
	if tm.IsError(arrType) {
		return tm.CreateError(), true
	}
	return tm.ArrayElem(arrType), true
}

// checkCall type-checks a call expression. asStatement relaxes the
// non-void-return requirement, since a call used as a statement may
// legally call a void function.
func (c *checker) checkCall(e *ast.CallExpr, asStatement bool) types.TypeId {
	tm := c.ctx.Types
	sym, ok := c.ctx.Symbols.Lookup(e.Callee)
	if !ok {
		c.errorAt(diag.UndeclaredIdent, e.Pos(), "use of undeclared identifier %q", e.Callee)
		c.checkArgsAgainstUnknown(e)
		return tm.CreateError()
	}
	if sym.Kind != symtab.Function || !tm.IsFunction(sym.Type) {
		c.errorAt(diag.IsNotCallable, e.Pos(), "%q is not callable", e.Callee)
		c.checkArgsAgainstUnknown(e)
		return tm.CreateError()
	}

	params := tm.FuncParams(sym.Type)
	if len(params) != len(e.Args) {
		c.errorAt(diag.NumberOfParameters, e.Pos(), "%q expects %d argument(s), found %d", e.Callee, len(params), len(e.Args))
	}
	for i, arg := range e.Args {
		argType := c.checkExpr(arg)
		if i >= len(params) {
			continue
		}
		if !tm.Copyable(params[i], argType) {
			c.errorAt(diag.IncompatibleParameter, arg.Pos(), "argument %d: cannot pass %s where %s is expected", i+1, tm.ToString(argType), tm.ToString(params[i]))
		}
	}

	ret := tm.FuncReturn(sym.Type)
	if !asStatement && tm.IsVoid(ret) {
		c.errorAt(diag.IsNotFunction, e.Pos(), "%q does not return a value", e.Callee)
		return tm.CreateError()
	}
	return ret
}

func (c *checker) checkArgsAgainstUnknown(e *ast.CallExpr) {
	for _, arg := range e.Args {
		c.checkExpr(arg)
	}
}

func (c *checker) errorAt(kind diag.Kind, pos ast.Position, format string, args ...interface{}) {
	c.ctx.Diags.Report(kind, pos.Line, pos.Col, format, args...)
}
