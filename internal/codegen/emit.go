package codegen

import (
	"fmt"
	"io"
	"strings"

	"tacgen/internal/ir"
)

// Emit renders prog as the textual three-address listing the driver
// prints to stdout: one subroutine per function, a params/locals
// header, then one instruction per line under `instructions:`. Labels
// are flush left; every other instruction line is indented, the
// distinction spec's IR format calls out explicitly. Grounded on
// xiaobogaga-hack/compiler/internal/code_generator.go's
// generateCode/saveVMCode split — generalized from writing straight to
// an *os.File into rendering to an io.Writer, so tests can assert
// against a bytes.Buffer instead of a scratch file.
func Emit(w io.Writer, prog *ir.Program) error {
	for i, sub := range prog.Subroutines {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := emitSubroutine(w, sub); err != nil {
			return err
		}
	}
	return nil
}

func emitSubroutine(w io.Writer, sub *ir.Subroutine) error {
	if _, err := fmt.Fprintf(w, "func %s\n", sub.Name); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "params: %s\n", formatParams(sub.Params)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "locals: %s\n", formatLocals(sub.Locals)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "instructions:"); err != nil {
		return err
	}
	for _, ins := range sub.Body {
		line := formatInstruction(ins)
		if ins.Op != ir.LABEL {
			line = "\t" + line
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func formatParams(params []ir.Param) string {
	if len(params) == 0 {
		return "(none)"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s:%s:%t", p.Name, p.Type, p.IsArray)
	}
	return strings.Join(parts, ", ")
}

func formatLocals(locals []ir.Local) string {
	if len(locals) == 0 {
		return "(none)"
	}
	parts := make([]string, len(locals))
	for i, l := range locals {
		parts[i] = fmt.Sprintf("%s:%s:%d", l.Name, l.Type, l.Size)
	}
	return strings.Join(parts, ", ")
}

func formatInstruction(ins ir.Instruction) string {
	if len(ins.Operands) == 0 {
		return ins.Op.String()
	}
	return ins.Op.String() + " " + strings.Join(ins.Operands, ", ")
}
