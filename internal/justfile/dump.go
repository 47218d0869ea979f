package justfile

import (
	"io"

	"gopkg.in/yaml.v3"
)

type dumpRecipe struct {
	Name         string   `yaml:"name"`
	Arguments    []string `yaml:"arguments,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`
	Lines        []string `yaml:"lines,omitempty"`
	Shebang      bool     `yaml:"shebang,omitempty"`
}

type dumpDoc struct {
	Recipes []dumpRecipe `yaml:"recipes"`
}

// Dump writes a YAML rendition of the recipe table, recipes in sorted name
// order.
func (j *Justfile) Dump(w io.Writer) error {
	doc := dumpDoc{Recipes: make([]dumpRecipe, 0, len(j.order))}
	for _, name := range j.Names() {
		r := j.recipes[name]
		doc.Recipes = append(doc.Recipes, dumpRecipe{
			Name:         r.Name,
			Arguments:    r.Arguments,
			Dependencies: r.Dependencies,
			Lines:        r.Lines,
			Shebang:      r.Shebang,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}
