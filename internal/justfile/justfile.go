// Package justfile holds the parsed, validated in-memory form of a justfile:
// a table of named recipes. The table is built once by the parser and never
// mutated afterwards.
package justfile

import (
	"sort"
	"strings"
)

// Recipe is a named, parameterized, dependency-aware unit of shell text.
type Recipe struct {
	Name         string
	Arguments    []string
	Dependencies []string
	Lines        []string
	// Shebang is set when the first body line starts with "#!". Such a
	// recipe runs as a standalone script instead of line by line.
	Shebang bool
	// Line is the zero-based source line of the recipe's definition.
	Line int
}

// String renders the recipe as justfile source, body lines indented four
// spaces.
func (r *Recipe) String() string {
	var b strings.Builder
	b.WriteString(r.Name)
	for _, arg := range r.Arguments {
		b.WriteByte(' ')
		b.WriteString(arg)
	}
	b.WriteByte(':')
	for _, dep := range r.Dependencies {
		b.WriteByte(' ')
		b.WriteString(dep)
	}
	for _, line := range r.Lines {
		b.WriteString("\n    ")
		b.WriteString(line)
	}
	return b.String()
}

// Justfile is the recipe table. It remembers definition order, so the first
// recipe can serve as the default, and renders in sorted name order.
type Justfile struct {
	recipes map[string]*Recipe
	order   []string
}

func New() *Justfile {
	return &Justfile{recipes: make(map[string]*Recipe)}
}

// Add inserts a recipe. The caller is responsible for rejecting duplicate
// names first.
func (j *Justfile) Add(r *Recipe) {
	j.recipes[r.Name] = r
	j.order = append(j.order, r.Name)
}

// Recipe looks up a recipe by name.
func (j *Justfile) Recipe(name string) (*Recipe, bool) {
	r, ok := j.recipes[name]
	return r, ok
}

// First returns the first-defined recipe, or nil for an empty justfile.
func (j *Justfile) First() *Recipe {
	if len(j.order) == 0 {
		return nil
	}
	return j.recipes[j.order[0]]
}

// Names returns all recipe names in sorted order.
func (j *Justfile) Names() []string {
	names := make([]string, len(j.order))
	copy(names, j.order)
	sort.Strings(names)
	return names
}

func (j *Justfile) Count() int {
	return len(j.order)
}

// String renders every recipe in sorted name order, one per line group.
func (j *Justfile) String() string {
	var b strings.Builder
	for _, name := range j.Names() {
		b.WriteString(j.recipes[name].String())
		b.WriteByte('\n')
	}
	return b.String()
}
