// Package codegen implements the Code pass: lowering a decorated parse
// tree into the ir package's three-address instruction form. Grounded
// on xiaobogaga-hack/compiler/internal/code_generator.go's
// `generateStatementCode`/`generateExpressionCode` dispatch and its
// PUSH/POP-balanced `generateFuncCallCode` — generalized from writing
// VM text straight to an `os.File` into building `ir.Instruction`
// values through an `ir.Builder`, and from Jack's class/this-aware
// addressing down to this language's flat name/temp/literal addresses.
package codegen

import (
	"fmt"
	"strconv"

	"tacgen/internal/ast"
	"tacgen/internal/ir"
	"tacgen/internal/session"
	"tacgen/internal/symtab"
	"tacgen/internal/types"
)

// attrs is the code-attributes triple every expression lowering
// produces: the instructions that compute the value, the address
// holding it, and — for indexed l-values only — the computed index
// address.
type attrs struct {
	Code []ir.Instruction
	Addr string
	Offs string
}

// CodePass lowers every function in prog into an ir.Subroutine, using
// the type and scope decorations the Symbol and Type passes wrote.
func CodePass(ctx *session.Context, prog *ast.Program) *ir.Program {
	globalScope := ctx.Decor.Scope(prog.ID())
	ctx.Symbols.PushExisting(globalScope)
	defer ctx.Symbols.Pop()

	out := &ir.Program{}
	for _, fn := range prog.Functions {
		out.Subroutines = append(out.Subroutines, lowerFunction(ctx, fn))
	}
	return out
}

func lowerFunction(ctx *session.Context, fn *ast.Function) *ir.Subroutine {
	scope := ctx.Decor.Scope(fn.ID())
	ctx.Symbols.PushExisting(scope)
	defer ctx.Symbols.Pop()

	g := &gen{ctx: ctx, b: ir.NewBuilder()}

	var params []ir.Param
	retType := ctx.Types.CreateVoid()
	if fn.ReturnType != nil {
		retType = ctx.Decor.Type(fn.ReturnType.ID())
	}
	if !ctx.Types.IsVoid(retType) {
		params = append(params, ir.Param{Name: "_result", Type: ctx.Types.ToString(retType), IsArray: false})
	}
	for _, p := range fn.Params {
		t := ctx.Decor.Type(p.Type.ID())
		params = append(params, ir.Param{Name: p.Name, Type: g.headerType(t), IsArray: ctx.Types.IsArray(t)})
	}

	var locals []ir.Local
	for _, decl := range fn.Locals {
		t := ctx.Decor.Type(decl.Type.ID())
		for _, name := range decl.Names {
			locals = append(locals, ir.Local{Name: name, Type: g.headerType(t), Size: ctx.Types.SizeOf(t)})
		}
	}

	for _, stmt := range fn.Body {
		g.b.Concat(g.lowerStmt(stmt))
	}

	return &ir.Subroutine{Name: fn.Name, Params: params, Locals: locals, Body: g.b.Instructions()}
}

// gen carries the per-function state the Code pass needs while
// lowering one subroutine: the ambient session and the instruction
// builder whose temp/label counters are scoped to this function.
type gen struct {
	ctx *session.Context
	b   *ir.Builder
}

func (g *gen) typeOf(n ast.Node) types.TypeId {
	return g.ctx.Decor.Type(n.ID())
}

// headerType renders the type field of a param/local header entry: for
// an array, that's its element type (array-ness is carried separately,
// by IsArray/Size), not the array's own "array<n,elem>" spelling.
func (g *gen) headerType(t types.TypeId) string {
	if g.ctx.Types.IsArray(t) {
		return g.ctx.Types.ToString(g.ctx.Types.ArrayElem(t))
	}
	return g.ctx.Types.ToString(t)
}

func (g *gen) lowerStmt(stmt ast.Stmt) []ir.Instruction {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		return g.lowerAssign(s)
	case *ast.IfStmt:
		return g.lowerIf(s)
	case *ast.WhileStmt:
		return g.lowerWhile(s)
	case *ast.ReadStmt:
		return g.lowerRead(s)
	case *ast.WriteStmt:
		return g.lowerWrite(s)
	case *ast.ReturnStmt:
		return g.lowerReturn(s)
	case *ast.CallStmt:
		_, code := g.lowerCall(s.Call, false)
		return code
	}
	return nil
}

func (g *gen) lowerAssign(s *ast.AssignStmt) []ir.Instruction {
	left := g.lowerLeftExpr(s.Left)
	value := g.lowerExpr(s.Value)
	code := append(append([]ir.Instruction{}, left.Code...), value.Code...)

	valueAddr := value.Addr
	if g.ctx.Types.IsFloat(g.typeOf(s.Left)) && g.ctx.Types.IsInteger(g.typeOf(s.Value)) {
		temp := g.b.Temp()
		code = append(code, ir.Instruction{Op: ir.FLOAT, Operands: []string{temp, valueAddr}})
		valueAddr = temp
	}
	if left.Offs == "" {
		code = append(code, ir.Instruction{Op: ir.LOAD, Operands: []string{left.Addr, valueAddr}})
	} else {
		code = append(code, ir.Instruction{Op: ir.XLOAD, Operands: []string{left.Addr, left.Offs, valueAddr}})
	}
	return code
}

func (g *gen) lowerIf(s *ast.IfStmt) []ir.Instruction {
	cond := g.lowerExpr(s.Cond)
	var thenCode, elseCode []ir.Instruction
	for _, stmt := range s.Then {
		thenCode = append(thenCode, g.lowerStmt(stmt)...)
	}
	for _, stmt := range s.Else {
		elseCode = append(elseCode, g.lowerStmt(stmt)...)
	}

	k := g.b.NextLabelID()
	lend := fmt.Sprintf("endif%d", k)

	code := append([]ir.Instruction{}, cond.Code...)
	code = append(code, ir.Instruction{Op: ir.FJUMP, Operands: []string{cond.Addr, lend}})
	code = append(code, thenCode...)
	if len(s.Else) == 0 {
		code = append(code, ir.Instruction{Op: ir.LABEL, Operands: []string{lend}})
		return code
	}
	lelse := fmt.Sprintf("endelse%d", k)
	code = append(code, ir.Instruction{Op: ir.UJUMP, Operands: []string{lelse}})
	code = append(code, ir.Instruction{Op: ir.LABEL, Operands: []string{lend}})
	code = append(code, elseCode...)
	code = append(code, ir.Instruction{Op: ir.LABEL, Operands: []string{lelse}})
	return code
}

func (g *gen) lowerWhile(s *ast.WhileStmt) []ir.Instruction {
	k := g.b.NextLabelID()
	lhead := fmt.Sprintf("whilehead%d", k)
	lend := fmt.Sprintf("endwhile%d", k)

	cond := g.lowerExpr(s.Cond)
	var bodyCode []ir.Instruction
	for _, stmt := range s.Body {
		bodyCode = append(bodyCode, g.lowerStmt(stmt)...)
	}

	code := []ir.Instruction{{Op: ir.LABEL, Operands: []string{lhead}}}
	code = append(code, cond.Code...)
	code = append(code, ir.Instruction{Op: ir.FJUMP, Operands: []string{cond.Addr, lend}})
	code = append(code, bodyCode...)
	code = append(code, ir.Instruction{Op: ir.UJUMP, Operands: []string{lhead}})
	code = append(code, ir.Instruction{Op: ir.LABEL, Operands: []string{lend}})
	return code
}

func (g *gen) lowerRead(s *ast.ReadStmt) []ir.Instruction {
	target := g.lowerLeftExpr(s.Target)
	code := append([]ir.Instruction{}, target.Code...)

	temp := g.b.Temp()
	code = append(code, ir.Instruction{Op: readOpcode(g.ctx.Types, g.typeOf(s.Target)), Operands: []string{temp}})

	if target.Offs == "" {
		code = append(code, ir.Instruction{Op: ir.LOAD, Operands: []string{target.Addr, temp}})
	} else {
		code = append(code, ir.Instruction{Op: ir.XLOAD, Operands: []string{target.Addr, target.Offs, temp}})
	}
	return code
}

func readOpcode(tm *types.Manager, t types.TypeId) ir.Opcode {
	switch {
	case tm.IsFloat(t):
		return ir.READF
	case tm.IsCharacter(t):
		return ir.READC
	default:
		return ir.READI
	}
}

func (g *gen) lowerWrite(s *ast.WriteStmt) []ir.Instruction {
	if s.IsString {
		return []ir.Instruction{{Op: ir.WRITES, Operands: []string{s.Raw}}}
	}
	value := g.lowerExpr(s.Value)
	code := append([]ir.Instruction{}, value.Code...)
	code = append(code, ir.Instruction{Op: writeOpcode(g.ctx.Types, g.typeOf(s.Value)), Operands: []string{value.Addr}})
	return code
}

func writeOpcode(tm *types.Manager, t types.TypeId) ir.Opcode {
	switch {
	case tm.IsFloat(t):
		return ir.WRITEF
	case tm.IsCharacter(t):
		return ir.WRITEC
	default:
		return ir.WRITEI // booleans print as integers
	}
}

func (g *gen) lowerReturn(s *ast.ReturnStmt) []ir.Instruction {
	var code []ir.Instruction
	if s.Value != nil {
		value := g.lowerExpr(s.Value)
		code = append(code, value.Code...)
		code = append(code, ir.Instruction{Op: ir.LOAD, Operands: []string{"_result", value.Addr}})
	}
	code = append(code, ir.Instruction{Op: ir.RETURN})
	return code
}

// lowerLeftExpr produces the left-expression form of an assignable
// expression: a plain identifier addresses itself directly; an
// indexed expression addresses its array name with the computed index
// left in Offs, rather than being folded into a LOADX the way a
// generic r-value read of the same expression would be.
func (g *gen) lowerLeftExpr(expr ast.Expr) attrs {
	switch e := expr.(type) {
	case *ast.Ident:
		return attrs{Addr: e.Name}
	case *ast.IndexExpr:
		idx := g.lowerExpr(e.Index)
		name := e.Array.(*ast.Ident).Name
		return attrs{Code: idx.Code, Addr: name, Offs: idx.Addr}
	}
	return g.lowerExpr(expr)
}

func (g *gen) lowerExpr(expr ast.Expr) attrs {
	switch e := expr.(type) {
	case *ast.Ident:
		return attrs{Addr: e.Name}
	case *ast.IntLit:
		temp := g.b.Temp()
		return attrs{Code: []ir.Instruction{{Op: ir.ILOAD, Operands: []string{temp, strconv.FormatInt(e.Value, 10)}}}, Addr: temp}
	case *ast.FloatLit:
		temp := g.b.Temp()
		return attrs{Code: []ir.Instruction{{Op: ir.FLOAD, Operands: []string{temp, e.Raw}}}, Addr: temp}
	case *ast.CharLit:
		temp := g.b.Temp()
		return attrs{Code: []ir.Instruction{{Op: ir.CHLOAD, Operands: []string{temp, e.Raw}}}, Addr: temp}
	case *ast.BoolLit:
		temp := g.b.Temp()
		lit := "0"
		if e.Value {
			lit = "1"
		}
		return attrs{Code: []ir.Instruction{{Op: ir.ILOAD, Operands: []string{temp, lit}}}, Addr: temp}
	case *ast.ParenExpr:
		return g.lowerExpr(e.Inner)
	case *ast.UnaryExpr:
		return g.lowerUnary(e)
	case *ast.BinaryExpr:
		return g.lowerBinary(e)
	case *ast.IndexExpr:
		return g.lowerIndexRValue(e)
	case *ast.CallExpr:
		addr, code := g.lowerCall(e, true)
		return attrs{Code: code, Addr: addr}
	}
	return attrs{}
}

func (g *gen) lowerUnary(e *ast.UnaryExpr) attrs {
	operand := g.lowerExpr(e.Operand)
	if e.Op == ast.UnaryPlus {
		return operand
	}
	temp := g.b.Temp()
	op := ir.NEG
	if e.Op == ast.UnaryNot {
		op = ir.NOT
	} else if g.ctx.Types.IsFloat(g.typeOf(e)) {
		op = ir.FNEG
	}
	code := append(append([]ir.Instruction{}, operand.Code...), ir.Instruction{Op: op, Operands: []string{temp, operand.Addr}})
	return attrs{Code: code, Addr: temp}
}

// promote appends a FLOAT conversion of addr into a fresh temporary
// when floatResult is true and addr's static type is integer,
// returning the (possibly unchanged) address to use downstream.
func (g *gen) promote(code *[]ir.Instruction, addr string, operandType types.TypeId, floatResult bool) string {
	if floatResult && g.ctx.Types.IsInteger(operandType) {
		temp := g.b.Temp()
		*code = append(*code, ir.Instruction{Op: ir.FLOAT, Operands: []string{temp, addr}})
		return temp
	}
	return addr
}

func (g *gen) lowerBinary(e *ast.BinaryExpr) attrs {
	left := g.lowerExpr(e.Left)
	right := g.lowerExpr(e.Right)
	code := append(append([]ir.Instruction{}, left.Code...), right.Code...)

	leftType, rightType := g.typeOf(e.Left), g.typeOf(e.Right)
	tm := g.ctx.Types

	switch e.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.Div:
		floatResult := tm.IsFloat(leftType) || tm.IsFloat(rightType)
		leftAddr := g.promote(&code, left.Addr, leftType, floatResult)
		rightAddr := g.promote(&code, right.Addr, rightType, floatResult)
		temp := g.b.Temp()
		code = append(code, ir.Instruction{Op: arithOpcode(e.Op, floatResult), Operands: []string{temp, leftAddr, rightAddr}})
		return attrs{Code: code, Addr: temp}
	case ast.Mod:
		// No dedicated MOD opcode exists, so a % b is synthesized as
		// a - (a/b)*b, the standard truncating-division decomposition.
		quot := g.b.Temp()
		code = append(code, ir.Instruction{Op: ir.DIV, Operands: []string{quot, left.Addr, right.Addr}})
		prod := g.b.Temp()
		code = append(code, ir.Instruction{Op: ir.MUL, Operands: []string{prod, quot, right.Addr}})
		temp := g.b.Temp()
		code = append(code, ir.Instruction{Op: ir.SUB, Operands: []string{temp, left.Addr, prod}})
		return attrs{Code: code, Addr: temp}
	case ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.Eq, ast.Ne:
		floatResult := tm.IsFloat(leftType) || tm.IsFloat(rightType)
		leftAddr := g.promote(&code, left.Addr, leftType, floatResult)
		rightAddr := g.promote(&code, right.Addr, rightType, floatResult)
		baseOp, needNot := relOpcode(e.Op, floatResult)
		temp := g.b.Temp()
		code = append(code, ir.Instruction{Op: baseOp, Operands: []string{temp, leftAddr, rightAddr}})
		if needNot {
			code = append(code, ir.Instruction{Op: ir.NOT, Operands: []string{temp, temp}})
		}
		return attrs{Code: code, Addr: temp}
	case ast.And, ast.Or:
		temp := g.b.Temp()
		op := ir.AND
		if e.Op == ast.Or {
			op = ir.OR
		}
		code = append(code, ir.Instruction{Op: op, Operands: []string{temp, left.Addr, right.Addr}})
		return attrs{Code: code, Addr: temp}
	}
	return attrs{Code: code}
}

func arithOpcode(op ast.BinaryOp, isFloat bool) ir.Opcode {
	if isFloat {
		switch op {
		case ast.Add:
			return ir.FADD
		case ast.Sub:
			return ir.FSUB
		case ast.Mul:
			return ir.FMUL
		case ast.Div:
			return ir.FDIV
		}
	}
	switch op {
	case ast.Add:
		return ir.ADD
	case ast.Sub:
		return ir.SUB
	case ast.Mul:
		return ir.MUL
	case ast.Div:
		return ir.DIV
	}
	return ir.ADD
}

// relOpcode returns the base relational opcode to emit and whether a
// trailing NOT is needed, synthesizing >, >=, != from their
// complementary op per spec (<=, <, = respectively).
func relOpcode(op ast.BinaryOp, isFloat bool) (ir.Opcode, bool) {
	switch op {
	case ast.Lt:
		return pick(ir.LT, ir.FLT, isFloat), false
	case ast.Le:
		return pick(ir.LE, ir.FLE, isFloat), false
	case ast.Eq:
		return pick(ir.EQ, ir.FEQ, isFloat), false
	case ast.Gt:
		return pick(ir.LE, ir.FLE, isFloat), true
	case ast.Ge:
		return pick(ir.LT, ir.FLT, isFloat), true
	case ast.Ne:
		return pick(ir.EQ, ir.FEQ, isFloat), true
	}
	return ir.EQ, false
}

func pick(intOp, floatOp ir.Opcode, isFloat bool) ir.Opcode {
	if isFloat {
		return floatOp
	}
	return intOp
}

func (g *gen) lowerIndexRValue(e *ast.IndexExpr) attrs {
	base := g.lowerExpr(e.Array)
	idx := g.lowerExpr(e.Index)
	code := append(append([]ir.Instruction{}, base.Code...), idx.Code...)
	temp := g.b.Temp()
	code = append(code, ir.Instruction{Op: ir.LOADX, Operands: []string{temp, base.Addr, idx.Addr}})
	return attrs{Code: code, Addr: temp}
}

// lowerCall lowers a call expression or statement. wantResult
// indicates expression context: when false (a call used as a bare
// statement), a non-void return's slot is still pushed and popped to
// balance the stack, but the popped value is discarded.
func (g *gen) lowerCall(e *ast.CallExpr, wantResult bool) (string, []ir.Instruction) {
	sym, _ := g.ctx.Symbols.Lookup(e.Callee)
	tm := g.ctx.Types

	var paramTypes []types.TypeId
	nonVoid := false
	if sym != nil && sym.Kind == symtab.Function && tm.IsFunction(sym.Type) {
		paramTypes = tm.FuncParams(sym.Type)
		nonVoid = !tm.IsVoid(tm.FuncReturn(sym.Type))
	}

	var code []ir.Instruction
	if nonVoid {
		code = append(code, ir.Instruction{Op: ir.PUSH})
	}
	for i, arg := range e.Args {
		argAttrs := g.lowerExpr(arg)
		code = append(code, argAttrs.Code...)
		addr := argAttrs.Addr
		if i < len(paramTypes) {
			addr = g.promote(&code, addr, g.typeOf(arg), tm.IsFloat(paramTypes[i]))
		}
		code = append(code, ir.Instruction{Op: ir.PUSH, Operands: []string{addr}})
	}
	code = append(code, ir.Instruction{Op: ir.CALL, Operands: []string{e.Callee}})
	for range e.Args {
		code = append(code, ir.Instruction{Op: ir.POP})
	}

	addr := ""
	if nonVoid {
		if wantResult {
			temp := g.b.Temp()
			code = append(code, ir.Instruction{Op: ir.POP, Operands: []string{temp}})
			addr = temp
		} else {
			code = append(code, ir.Instruction{Op: ir.POP})
		}
	}
	return addr, code
}
