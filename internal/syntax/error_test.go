package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	t.Run("unexpected token", func(t *testing.T) {
		e := &Error{
			Kind:     UnexpectedToken,
			Expected: []TokenKind{Name, Colon},
			Found:    Eol,
		}
		assert.Equal(t, "expected name or colon, but found end of line", e.Message())
	})

	t.Run("inconsistent leading whitespace", func(t *testing.T) {
		e := &Error{
			Kind:           InconsistentLeadingWhitespace,
			ExpectedIndent: " ",
			FoundIndent:    "\t",
		}
		assert.Equal(t,
			`inconsistent leading whitespace: recipe body began with " ", but this line begins with "\t"`,
			e.Message())
	})

	t.Run("circular dependency", func(t *testing.T) {
		e := &Error{
			Kind:   CircularDependency,
			Recipe: "b",
			Circle: []string{"a", "b", "a"},
		}
		assert.Equal(t, `recipe "b" is part of a dependency cycle: a -> b -> a`, e.Message())
	})

	t.Run("duplicate recipe reports one-based line", func(t *testing.T) {
		e := &Error{Kind: DuplicateRecipe, Recipe: "a", First: 0}
		assert.Equal(t, `recipe "a" was already defined on line 1`, e.Message())
	})
}

func TestErrorRendering(t *testing.T) {
	t.Run("span error underlines the token", func(t *testing.T) {
		e := &Error{
			Text:     "a b c\nd e f",
			Index:    5,
			Line:     0,
			Column:   5,
			Width:    1,
			Kind:     UnexpectedToken,
			Expected: []TokenKind{Name, Colon},
			Found:    Eol,
		}
		want := "expected name or colon, but found end of line\n" +
			"  --> line 1, column 6\n" +
			"1 | a b c\n" +
			"  |      ^"
		assert.Equal(t, want, e.Error())
	})

	t.Run("point error gets a single caret", func(t *testing.T) {
		e := &Error{
			Text:           "a:\n 0\n 1\n\t2\n",
			Index:          9,
			Line:           3,
			Column:         0,
			Width:          NoWidth,
			Kind:           InconsistentLeadingWhitespace,
			ExpectedIndent: " ",
			FoundIndent:    "\t",
		}
		assert.Contains(t, e.Error(), "--> line 4, column 1")
		assert.Contains(t, e.Error(), "4 | \t2")
	})

	t.Run("tabs before the caret are mirrored", func(t *testing.T) {
		e := &Error{
			Text:   "\tx ~",
			Index:  3,
			Line:   0,
			Column: 3,
			Width:  NoWidth,
			Kind:   UnknownStartOfToken,
		}
		assert.Contains(t, e.Error(), "| \t  ^")
	})
}
