// Package lexer turns justfile source text into a positioned token stream.
//
// The lexer is line oriented. Outside recipe bodies it produces name,
// punctuation and comment tokens; a non-blank line with leading whitespace
// opens a body, and every line inside the body is passed through as an opaque
// Line token. An explicit stack of indentation strings decides when blocks
// open and close. Every byte of input ends up in some token's prefix or
// lexeme, so concatenating them reproduces the source exactly.
package lexer

import (
	"strings"

	"github.com/vk/justrun/internal/syntax"
)

// Tokenize scans text and returns its tokens, or a positioned error.
func Tokenize(text string) ([]syntax.Token, error) {
	l := &lexer{text: text}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

type lexer struct {
	text   string
	index  int
	line   int
	column int

	tokens  []syntax.Token
	indents []string

	// Whitespace of a trailing line that has no content; it becomes the
	// prefix of the first token emitted at end of input.
	eofPrefix string
}

func (l *lexer) run() error {
	for l.index < len(l.text) {
		stop, err := l.nextLine()
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	for range l.indents {
		l.emit(l.eofPrefix, "", syntax.Dedent)
		l.eofPrefix = ""
	}
	l.indents = nil
	l.emit(l.eofPrefix, "", syntax.Eof)
	return nil
}

// nextLine processes one source line starting at the current position. It
// reports stop == true when only trailing whitespace remains.
func (l *lexer) nextLine() (stop bool, err error) {
	ws := l.whitespace()
	rest := l.index + len(ws)

	if rest == len(l.text) {
		l.eofPrefix = ws
		return true, nil
	}
	if l.text[rest] == '\n' {
		// Blank lines never open or close a block.
		l.emit(ws, "\n", syntax.Eol)
		return false, nil
	}

	if len(l.indents) == 0 {
		if ws == "" {
			return false, l.topLevel()
		}
		if strings.ContainsRune(ws, ' ') && strings.ContainsRune(ws, '\t') {
			return false, l.errorAt(l.index, &syntax.Error{
				Kind:       syntax.MixedLeadingWhitespace,
				Whitespace: ws,
			})
		}
		l.indents = append(l.indents, ws)
		l.emit("", ws, syntax.Indent)
		l.bodyLine("")
		return false, nil
	}

	top := l.indents[len(l.indents)-1]
	if strings.HasPrefix(ws, top) {
		// Exact match or a deeper extension. Extra whitespace beyond the
		// established indentation stays in the line's lexeme; whether that
		// is legal depends on the recipe, which the parser knows about.
		l.bodyLine(top)
		return false, nil
	}

	// Shallower than the current block: pop to a matching level.
	matched := ws == ""
	for _, level := range l.indents {
		if level == ws {
			matched = true
			break
		}
	}
	if !matched {
		return false, l.errorAt(l.index, &syntax.Error{
			Kind:           syntax.InconsistentLeadingWhitespace,
			ExpectedIndent: top,
			FoundIndent:    ws,
		})
	}
	for len(l.indents) > 0 && l.indents[len(l.indents)-1] != ws {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit("", "", syntax.Dedent)
	}
	if len(l.indents) == 0 {
		return false, l.topLevel()
	}
	l.bodyLine(ws)
	return false, nil
}

// bodyLine emits a Line token for the remainder of the current line, with
// the established indentation as its prefix, followed by its Eol.
func (l *lexer) bodyLine(prefix string) {
	start := l.index + len(prefix)
	end := start
	for end < len(l.text) && l.text[end] != '\n' {
		end++
	}
	l.emit(prefix, l.text[start:end], syntax.Line)
	if l.index < len(l.text) {
		l.emit("", "\n", syntax.Eol)
	}
}

// topLevel scans tokens outside any recipe body until the line ends.
func (l *lexer) topLevel() error {
	for {
		prefix := l.whitespaceFrom(l.index)
		i := l.index + len(prefix)
		if i == len(l.text) {
			// Leave the trailing whitespace for the end-of-input tokens.
			return nil
		}
		c := l.text[i]
		switch {
		case c == '\n':
			l.emit(prefix, "\n", syntax.Eol)
			return nil
		case c == '#':
			if l.column+len(prefix) == 0 && strings.HasPrefix(l.text[i:], "#!") {
				return l.errorAt(i, &syntax.Error{Kind: syntax.OuterShebang})
			}
			end := i
			for end < len(l.text) && l.text[end] != '\n' {
				end++
			}
			l.emit(prefix, l.text[i:end], syntax.Comment)
		case c == ':':
			l.emit(prefix, ":", syntax.Colon)
		case c == '=':
			l.emit(prefix, "=", syntax.Equals)
		case isNameByte(c):
			end := i
			for end < len(l.text) && isNameByte(l.text[end]) {
				end++
			}
			l.emit(prefix, l.text[i:end], syntax.Name)
		default:
			return l.errorAt(i, &syntax.Error{Kind: syntax.UnknownStartOfToken})
		}
	}
}

// emit appends a token whose lexeme starts at the current position plus
// len(prefix), then advances past both.
func (l *lexer) emit(prefix, lexeme string, kind syntax.TokenKind) {
	l.tokens = append(l.tokens, syntax.Token{
		Index:  l.index + len(prefix),
		Line:   l.line,
		Column: l.column + len(prefix),
		Prefix: prefix,
		Lexeme: lexeme,
		Kind:   kind,
	})
	l.advance(len(prefix) + len(lexeme))
}

func (l *lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.text[l.index] == '\n' {
			l.line++
			l.column = 0
		} else {
			l.column++
		}
		l.index++
	}
}

// errorAt fills in the positional fields for an error at byte index, which
// must be on the current line at or after the current position.
func (l *lexer) errorAt(index int, e *syntax.Error) error {
	e.Text = l.text
	e.Index = index
	e.Line = l.line
	e.Column = l.column + (index - l.index)
	e.Width = syntax.NoWidth
	return e
}

func (l *lexer) whitespace() string {
	return l.whitespaceFrom(l.index)
}

func (l *lexer) whitespaceFrom(start int) string {
	i := start
	for i < len(l.text) && (l.text[i] == ' ' || l.text[i] == '\t') {
		i++
	}
	return l.text[start:i]
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_' || c == '-'
}
