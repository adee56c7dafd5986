// Package token defines the lexical token kinds shared by the lexer and
// the parser. The kind set mirrors the keyword/symbol/literal inventory
// in the source language grammar (spec §6).
package token

// Kind enumerates every distinguishable lexical token.
type Kind int

const (
	EOF Kind = iota

	// Keywords.
	Func
	EndFunc
	Var
	EndVar
	If
	Then
	Else
	EndIf
	While
	Do
	EndWhile
	Return
	Read
	Write
	IntKw
	FloatKw
	CharKw
	BoolKw
	VoidKw
	ArrayKw
	TrueKw
	FalseKw
	AndKw
	OrKw

	// Identifiers and literals.
	Ident
	IntLit
	FloatLit
	CharLit
	StringLit

	// Punctuation and operators.
	LParen
	RParen
	LBracket
	RBracket
	Comma
	Colon
	Semicolon
	Assign // :=
	Plus
	Minus
	Star
	Slash
	Percent
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	Not
)

var keywords = map[string]Kind{
	"func":     Func,
	"endfunc":  EndFunc,
	"var":      Var,
	"endvars":  EndVar,
	"endvar":   EndVar,
	"if":       If,
	"then":     Then,
	"else":     Else,
	"endif":    EndIf,
	"while":    While,
	"do":       Do,
	"endwhile": EndWhile,
	"return":   Return,
	"read":     Read,
	"write":    Write,
	"int":      IntKw,
	"float":    FloatKw,
	"char":     CharKw,
	"boolean":  BoolKw,
	"bool":     BoolKw,
	"void":     VoidKw,
	"array":    ArrayKw,
	"true":     TrueKw,
	"false":    FalseKw,
	"and":      AndKw,
	"or":       OrKw,
	"not":      Not,
}

// Lookup returns the keyword Kind for name, or Ident if name is not a keyword.
func Lookup(name string) Kind {
	if kind, ok := keywords[name]; ok {
		return kind
	}
	return Ident
}

// Token is one lexical token: its kind, the raw source text it was
// scanned from, and its source position.
type Token struct {
	Kind    Kind
	Content string
	Line    int
	Col     int
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case IntLit:
		return "integer literal"
	case FloatLit:
		return "float literal"
	case CharLit:
		return "character literal"
	case StringLit:
		return "string literal"
	}
	for text, kind := range keywords {
		if kind == k {
			return text
		}
	}
	return "token"
}
