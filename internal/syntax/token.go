// Package syntax holds the lexical and error types shared by the lexer,
// the parser, and everything that reports positions in justfile source.
package syntax

// TokenKind identifies the lexical class of a token. The set is closed;
// consumers switch exhaustively over it.
type TokenKind int

const (
	// Line is a raw recipe-body line. Its lexeme is the text after the
	// block's established indentation, kept verbatim.
	Line TokenKind = iota
	Name
	Colon
	Equals
	// Comment is a '#' comment. The lexeme includes the '#'.
	Comment
	// Indent opens a block. The lexeme is the new indentation string.
	Indent
	// Dedent closes a block. It has an empty lexeme.
	Dedent
	Eol
	Eof
)

func (k TokenKind) String() string {
	switch k {
	case Line:
		return "line"
	case Name:
		return "name"
	case Colon:
		return "colon"
	case Equals:
		return "equals"
	case Comment:
		return "comment"
	case Indent:
		return "indent"
	case Dedent:
		return "dedent"
	case Eol:
		return "end of line"
	case Eof:
		return "end of file"
	}
	return "unknown"
}

// Token is one positioned lexeme of justfile source. Index, Line and Column
// locate the first byte of Lexeme; Line and Column are zero-based. Prefix is
// the raw text consumed before the lexeme (horizontal whitespace, mostly), so
// that concatenating Prefix+Lexeme over a token stream reproduces the source
// byte for byte.
type Token struct {
	Index  int
	Line   int
	Column int
	Prefix string
	Lexeme string
	Kind   TokenKind
}
