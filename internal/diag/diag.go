// Package diag implements the Error Collector: a sink for semantic
// diagnostics keyed by source position, stored in report order but
// emitted sorted by (line, column). Grounded on the typed-diagnostic
// style of other_examples/vovakirdan-surge__type_decl.go
// (`tc.report(diag.SemaTypeMismatch, span, "...")`) crossed with the
// teacher's own plain-string `makeSemanticError(format, args...)` in
// compiler/internal/symbol_table.go — here every diagnostic carries
// both a typed Kind (for the driver and for tests to assert against)
// and a teacher-style formatted message.
package diag

import (
	"fmt"
	"io"
	"sort"
)

// Kind enumerates every diagnostic category the semantic passes report.
type Kind int

const (
	DeclaredIdent Kind = iota
	UndeclaredIdent
	IncompatibleAssignment
	IncompatibleParameter
	IncompatibleReturn
	IncompatibleOperator
	NonReferenceableLeftExpr
	NonReferenceableExpression
	BooleanRequired
	ReadWriteRequireBasic
	NonIntegerIndexInArrayAccess
	NonArrayInArrayAccess
	IsNotCallable
	IsNotFunction
	NumberOfParameters
	NoMainProperlyDeclared
)

func (k Kind) String() string {
	switch k {
	case DeclaredIdent:
		return "declaredIdent"
	case UndeclaredIdent:
		return "undeclaredIdent"
	case IncompatibleAssignment:
		return "incompatibleAssignment"
	case IncompatibleParameter:
		return "incompatibleParameter"
	case IncompatibleReturn:
		return "incompatibleReturn"
	case IncompatibleOperator:
		return "incompatibleOperator"
	case NonReferenceableLeftExpr:
		return "nonReferenceableLeftExpr"
	case NonReferenceableExpression:
		return "nonReferenceableExpression"
	case BooleanRequired:
		return "booleanRequired"
	case ReadWriteRequireBasic:
		return "readWriteRequireBasic"
	case NonIntegerIndexInArrayAccess:
		return "nonIntegerIndexInArrayAccess"
	case NonArrayInArrayAccess:
		return "nonArrayInArrayAccess"
	case IsNotCallable:
		return "isNotCallable"
	case IsNotFunction:
		return "isNotFunction"
	case NumberOfParameters:
		return "numberOfParameters"
	case NoMainProperlyDeclared:
		return "noMainProperlyDeclared"
	}
	return "diagnostic"
}

// Diagnostic is one reported semantic error.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Col     int
	Message string
}

// Collector accumulates diagnostics in report order and sorts them by
// position only when asked to emit, so reporting order never matters.
type Collector struct {
	diags []Diagnostic
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report records a diagnostic of kind at line/col, formatted the way
// the teacher's makeSemanticError formats its message.
func (c *Collector) Report(kind Kind, line, col int, format string, args ...interface{}) {
	c.diags = append(c.diags, Diagnostic{
		Kind:    kind,
		Line:    line,
		Col:     col,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any diagnostic has been recorded.
func (c *Collector) HasErrors() bool {
	return len(c.diags) > 0
}

// Diagnostics returns every recorded diagnostic sorted by (line, col).
// The sort is stable, so diagnostics at the same position keep their
// original report order.
func (c *Collector) Diagnostics() []Diagnostic {
	sorted := make([]Diagnostic, len(c.diags))
	copy(sorted, c.diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Line != sorted[j].Line {
			return sorted[i].Line < sorted[j].Line
		}
		return sorted[i].Col < sorted[j].Col
	})
	return sorted
}

// Emit writes every diagnostic to w, one per line, sorted by position.
func (c *Collector) Emit(w io.Writer) error {
	for _, d := range c.Diagnostics() {
		if _, err := fmt.Fprintf(w, "%d:%d: %s: %s\n", d.Line, d.Col, d.Kind, d.Message); err != nil {
			return err
		}
	}
	return nil
}
