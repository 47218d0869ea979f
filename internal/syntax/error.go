package syntax

import (
	"fmt"
	"strings"
)

// ErrorKind identifies the failure mode of a lexer or parser error. The set
// is closed; each kind populates a fixed subset of Error's payload fields.
type ErrorKind int

const (
	InconsistentLeadingWhitespace ErrorKind = iota
	MixedLeadingWhitespace
	ExtraLeadingWhitespace
	OuterShebang
	UnknownStartOfToken
	AssignmentUnimplemented
	UnexpectedToken
	BadName
	DuplicateArgument
	DuplicateDependency
	DuplicateRecipe
	UnknownDependency
	CircularDependency
)

// NoWidth marks an Error that points at a single column rather than
// underlining a span of characters.
const NoWidth = -1

// Error is a positioned justfile source error, produced by either the lexer
// or the parser. Index, Line and Column are zero-based and locate the error
// within Text; Width is NoWidth for point errors and a character count for
// span errors.
type Error struct {
	Text   string
	Index  int
	Line   int
	Column int
	Width  int
	Kind   ErrorKind

	// Payload, populated per Kind.
	Expected       []TokenKind // UnexpectedToken
	Found          TokenKind   // UnexpectedToken
	Name           string      // BadName
	Recipe         string      // Duplicate*, UnknownDependency, CircularDependency
	Argument       string      // DuplicateArgument
	Dependency     string      // DuplicateDependency
	Unknown        string      // UnknownDependency
	First          int         // DuplicateRecipe: line of the first definition
	Circle         []string    // CircularDependency: cycle path, closed
	ExpectedIndent string      // InconsistentLeadingWhitespace
	FoundIndent    string      // InconsistentLeadingWhitespace
	Whitespace     string      // MixedLeadingWhitespace
}

// Message returns the one-line description of the error, without source
// context.
func (e *Error) Message() string {
	switch e.Kind {
	case InconsistentLeadingWhitespace:
		return fmt.Sprintf("inconsistent leading whitespace: recipe body began with %q, but this line begins with %q",
			e.ExpectedIndent, e.FoundIndent)
	case MixedLeadingWhitespace:
		return fmt.Sprintf("found a mix of tabs and spaces in leading whitespace: %q", e.Whitespace)
	case ExtraLeadingWhitespace:
		return "line has extra leading whitespace"
	case OuterShebang:
		return `"#!" is reserved syntax outside of recipe bodies`
	case UnknownStartOfToken:
		return "unknown start of token"
	case AssignmentUnimplemented:
		return "assignment is not yet implemented"
	case UnexpectedToken:
		return fmt.Sprintf("expected %s, but found %s", Or(e.Expected), e.Found)
	case BadName:
		return fmt.Sprintf("invalid name %q: names are lowercase letters separated by single hyphens", e.Name)
	case DuplicateArgument:
		return fmt.Sprintf("recipe %q has a duplicate argument %q", e.Recipe, e.Argument)
	case DuplicateDependency:
		return fmt.Sprintf("recipe %q has a duplicate dependency %q", e.Recipe, e.Dependency)
	case DuplicateRecipe:
		return fmt.Sprintf("recipe %q was already defined on line %d", e.Recipe, e.First+1)
	case UnknownDependency:
		return fmt.Sprintf("recipe %q depends on %q, which is not defined", e.Recipe, e.Unknown)
	case CircularDependency:
		return fmt.Sprintf("recipe %q is part of a dependency cycle: %s", e.Recipe, strings.Join(e.Circle, " -> "))
	}
	return "internal error: unknown error kind"
}

// Error renders the message followed by the offending source line with a
// caret (point errors) or underline (span errors) beneath it.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message())

	line := sourceLine(e.Text, e.Index, e.Column)
	fmt.Fprintf(&b, "\n  --> line %d, column %d\n", e.Line+1, e.Column+1)
	gutter := fmt.Sprintf("%d | ", e.Line+1)
	b.WriteString(gutter)
	b.WriteString(line)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", len(gutter)-2))
	b.WriteString("| ")

	// Mirror tabs from the source line so the marker lines up regardless of
	// how wide the terminal renders them.
	for i, r := range line {
		if i >= e.Column {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	width := e.Width
	if width < 1 {
		width = 1
	}
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}

// sourceLine extracts the full line of text containing the error position.
func sourceLine(text string, index, column int) string {
	start := index - column
	if start < 0 || start > len(text) {
		return ""
	}
	end := strings.IndexByte(text[start:], '\n')
	if end < 0 {
		return text[start:]
	}
	return text[start : start+end]
}
