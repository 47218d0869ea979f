// Package parser consumes the lexer's token stream into a validated recipe
// table. It is a single-pass recursive-descent parser with one token of
// lookahead, followed by a whole-file analysis pass that resolves dependency
// references and rejects cycles, so the runner never has to.
package parser

import (
	"regexp"
	"strings"

	"github.com/vk/justrun/internal/justfile"
	"github.com/vk/justrun/internal/lexer"
	"github.com/vk/justrun/internal/syntax"
)

// Names are accepted permissively by the lexer but held to a stricter
// grammar here, to keep syntax space free for future extensions.
var nameRe = regexp.MustCompile(`^[a-z](-?[a-z])*$`)

// Parse tokenizes and parses text into a justfile, or returns a positioned
// *syntax.Error.
func Parse(text string) (*justfile.Justfile, error) {
	tokens, err := lexer.Tokenize(text)
	if err != nil {
		return nil, err
	}
	p := &parser{
		text:      text,
		tokens:    tokens,
		jf:        justfile.New(),
		depTokens: make(map[string][]syntax.Token),
	}
	if err := p.file(); err != nil {
		return nil, err
	}
	if err := p.analyze(); err != nil {
		return nil, err
	}
	return p.jf, nil
}

type parser struct {
	text   string
	tokens []syntax.Token
	pos    int

	jf *justfile.Justfile
	// Parse order and per-recipe dependency tokens, kept so analysis can
	// point errors at the exact reference that caused them.
	order     []string
	depTokens map[string][]syntax.Token
}

func (p *parser) peek() syntax.Token {
	return p.tokens[p.pos]
}

func (p *parser) next() syntax.Token {
	t := p.tokens[p.pos]
	if t.Kind != syntax.Eof {
		p.pos++
	}
	return t
}

// tokenError positions e at t, underlining the token's lexeme.
func (p *parser) tokenError(t syntax.Token, e *syntax.Error) error {
	e.Text = p.text
	e.Index = t.Index
	e.Line = t.Line
	e.Column = t.Column
	e.Width = len(t.Lexeme)
	return e
}

func (p *parser) unexpected(t syntax.Token, expected ...syntax.TokenKind) error {
	return p.tokenError(t, &syntax.Error{
		Kind:     syntax.UnexpectedToken,
		Expected: expected,
		Found:    t.Kind,
	})
}

func (p *parser) checkName(t syntax.Token) error {
	if !nameRe.MatchString(t.Lexeme) {
		return p.tokenError(t, &syntax.Error{Kind: syntax.BadName, Name: t.Lexeme})
	}
	return nil
}

func (p *parser) file() error {
	for {
		t := p.next()
		switch t.Kind {
		case syntax.Eof:
			return nil
		case syntax.Eol:
		case syntax.Comment:
			end := p.next()
			if end.Kind == syntax.Eof {
				return nil
			}
			if end.Kind != syntax.Eol {
				return p.unexpected(end, syntax.Eol, syntax.Eof)
			}
		case syntax.Name:
			if err := p.recipe(t); err != nil {
				return err
			}
		default:
			return p.unexpected(t, syntax.Name, syntax.Comment, syntax.Eol, syntax.Eof)
		}
	}
}

// recipe parses one definition starting at its already-consumed name token:
// name args* ':' deps* comment? eol body?
func (p *parser) recipe(nameToken syntax.Token) error {
	if err := p.checkName(nameToken); err != nil {
		return err
	}
	name := nameToken.Lexeme
	if first, ok := p.jf.Recipe(name); ok {
		return p.tokenError(nameToken, &syntax.Error{
			Kind:   syntax.DuplicateRecipe,
			Recipe: name,
			First:  first.Line,
		})
	}

	if p.peek().Kind == syntax.Equals {
		// Assignment syntax is recognized but reserved.
		eq := p.next()
		return p.tokenError(eq, &syntax.Error{Kind: syntax.AssignmentUnimplemented})
	}

	var arguments []string
	for p.peek().Kind == syntax.Name {
		arg := p.next()
		if err := p.checkName(arg); err != nil {
			return err
		}
		if contains(arguments, arg.Lexeme) {
			return p.tokenError(arg, &syntax.Error{
				Kind:     syntax.DuplicateArgument,
				Recipe:   name,
				Argument: arg.Lexeme,
			})
		}
		arguments = append(arguments, arg.Lexeme)
	}

	colon := p.next()
	if colon.Kind != syntax.Colon {
		return p.unexpected(colon, syntax.Name, syntax.Colon)
	}

	var dependencies []string
	var depTokens []syntax.Token
	for p.peek().Kind == syntax.Name {
		dep := p.next()
		if err := p.checkName(dep); err != nil {
			return err
		}
		if contains(dependencies, dep.Lexeme) {
			return p.tokenError(dep, &syntax.Error{
				Kind:       syntax.DuplicateDependency,
				Recipe:     name,
				Dependency: dep.Lexeme,
			})
		}
		dependencies = append(dependencies, dep.Lexeme)
		depTokens = append(depTokens, dep)
	}

	var end syntax.Token
	if p.peek().Kind == syntax.Comment {
		p.next()
		end = p.next()
		if end.Kind != syntax.Eol && end.Kind != syntax.Eof {
			return p.unexpected(end, syntax.Eol, syntax.Eof)
		}
	} else {
		end = p.next()
		if end.Kind != syntax.Eol && end.Kind != syntax.Eof {
			return p.unexpected(end, syntax.Name, syntax.Eol, syntax.Eof)
		}
	}

	var lines []string
	shebang := false
	if end.Kind == syntax.Eol && p.peek().Kind == syntax.Indent {
		p.next()
	body:
		for {
			t := p.next()
			switch t.Kind {
			case syntax.Line:
				if len(lines) == 0 {
					shebang = strings.HasPrefix(t.Lexeme, "#!")
				}
				if !shebang && startsWithWhitespace(t.Lexeme) {
					// Reserved for future line-continuation syntax; a
					// shebang recipe's internal indentation is the script
					// author's business.
					return p.tokenError(t, &syntax.Error{Kind: syntax.ExtraLeadingWhitespace})
				}
				lines = append(lines, t.Lexeme)
			case syntax.Eol:
				// Blank line inside the body.
			case syntax.Dedent:
				break body
			default:
				return p.unexpected(t, syntax.Line, syntax.Eol, syntax.Dedent)
			}
		}
	}

	p.jf.Add(&justfile.Recipe{
		Name:         name,
		Arguments:    arguments,
		Dependencies: dependencies,
		Lines:        lines,
		Shebang:      shebang,
		Line:         nameToken.Line,
	})
	p.order = append(p.order, name)
	p.depTokens[name] = depTokens
	return nil
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}

func startsWithWhitespace(s string) bool {
	return len(s) > 0 && (s[0] == ' ' || s[0] == '\t')
}
