package parser

import (
	"github.com/vk/justrun/internal/syntax"
)

// analyze runs the whole-file checks once every recipe has been collected:
// every dependency must name a defined recipe, and the dependency relation
// must be acyclic. Errors point at the dependency token that caused them.
func (p *parser) analyze() error {
	for _, name := range p.order {
		for _, dep := range p.depTokens[name] {
			if _, ok := p.jf.Recipe(dep.Lexeme); !ok {
				return p.tokenError(dep, &syntax.Error{
					Kind:    syntax.UnknownDependency,
					Recipe:  name,
					Unknown: dep.Lexeme,
				})
			}
		}
	}
	return p.checkCycles()
}

// checkCycles walks the dependency graph depth first with an explicit work
// stack, so arbitrarily deep justfiles cannot exhaust the call stack. The
// stack doubles as the current path: revisiting a recipe already on it is a
// cycle, reported at the dependency token that closed it.
func (p *parser) checkCycles() error {
	type frame struct {
		name string
		next int
	}
	done := make(map[string]bool, len(p.order))

	for _, root := range p.order {
		if done[root] {
			continue
		}
		stack := []frame{{name: root}}
		onPath := map[string]int{root: 0}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			deps := p.depTokens[f.name]
			if f.next >= len(deps) {
				done[f.name] = true
				delete(onPath, f.name)
				stack = stack[:len(stack)-1]
				continue
			}
			dep := deps[f.next]
			f.next++

			if start, ok := onPath[dep.Lexeme]; ok {
				circle := make([]string, 0, len(stack)-start+1)
				for _, fr := range stack[start:] {
					circle = append(circle, fr.name)
				}
				circle = append(circle, dep.Lexeme)
				return p.tokenError(dep, &syntax.Error{
					Kind:   syntax.CircularDependency,
					Recipe: f.name,
					Circle: circle,
				})
			}
			if done[dep.Lexeme] {
				continue
			}
			onPath[dep.Lexeme] = len(stack)
			stack = append(stack, frame{name: dep.Lexeme})
		}
	}
	return nil
}
