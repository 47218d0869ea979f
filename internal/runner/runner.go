// Package runner executes recipes from a parsed justfile in dependency
// order: requested names are validated up front, expanded into a
// deduplicated dependency-first schedule, and run strictly one at a time,
// stopping at the first failure.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/vk/justrun/internal/ctxlog"
	"github.com/vk/justrun/internal/justfile"
)

// CodeError reports a recipe whose process exited with a non-zero status.
type CodeError struct {
	Recipe string
	Code   int
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("recipe %q failed with exit code %d", e.Recipe, e.Code)
}

// UnknownRecipesError reports requested names with no definition. Nothing
// runs when any requested name is unknown.
type UnknownRecipesError struct {
	Recipes []string
}

func (e *UnknownRecipesError) Error() string {
	if len(e.Recipes) == 1 {
		return fmt.Sprintf("justfile does not contain recipe %q", e.Recipes[0])
	}
	return fmt.Sprintf("justfile does not contain recipes %s", strings.Join(e.Recipes, ", "))
}

// IOError reports a failure to materialize or launch a recipe's process, as
// opposed to the process itself failing.
type IOError struct {
	Recipe string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("recipe %q could not be run: %v", e.Recipe, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Runner drives recipe execution. The zero value runs with "sh", the
// process working directory, and the process standard streams.
type Runner struct {
	// Shell runs plain recipe lines as `shell -c line`.
	Shell string
	// Dir is the working directory for every spawned process. The runner
	// never changes its own working directory.
	Dir string
	// Out and Err receive child process output; Err also receives the echo
	// of each non-quiet command line.
	Out io.Writer
	Err io.Writer
}

// Run executes the requested recipes and their transitive dependencies.
// Every requested name is validated before anything runs; each reachable
// recipe runs exactly once, dependencies first; the first failure stops the
// whole run.
func (r *Runner) Run(ctx context.Context, jf *justfile.Justfile, requested []string) error {
	var unknown []string
	for _, name := range requested {
		if _, ok := jf.Recipe(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return &UnknownRecipesError{Recipes: unknown}
	}

	logger := ctxlog.From(ctx)
	order := schedule(jf, requested)
	logger.Debug("computed execution order", "recipes", order)

	for _, name := range order {
		recipe, _ := jf.Recipe(name)
		if err := r.runRecipe(ctx, recipe); err != nil {
			return err
		}
	}
	return nil
}

// schedule expands the requested names into execution order: a depth-first,
// dependency-before-dependent walk with an explicit work stack, visiting
// requests in the order given and each recipe at most once. The parser has
// already rejected cycles and unknown references.
func schedule(jf *justfile.Justfile, requested []string) []string {
	type frame struct {
		name string
		next int
	}
	order := make([]string, 0, len(requested))
	scheduled := make(map[string]bool)

	for _, root := range requested {
		if scheduled[root] {
			continue
		}
		stack := []frame{{name: root}}
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			recipe, _ := jf.Recipe(f.name)
			if f.next < len(recipe.Dependencies) {
				dep := recipe.Dependencies[f.next]
				f.next++
				if !scheduled[dep] {
					stack = append(stack, frame{name: dep})
				}
				continue
			}
			if !scheduled[f.name] {
				scheduled[f.name] = true
				order = append(order, f.name)
			}
			stack = stack[:len(stack)-1]
		}
	}
	return order
}

func (r *Runner) runRecipe(ctx context.Context, recipe *justfile.Recipe) error {
	logger := ctxlog.From(ctx)
	logger.Debug("running recipe", "recipe", recipe.Name, "shebang", recipe.Shebang)

	if recipe.Shebang {
		return r.runShebang(ctx, recipe)
	}

	for _, line := range recipe.Lines {
		command := line
		if quiet := strings.HasPrefix(line, "@"); quiet {
			command = line[1:]
		} else {
			fmt.Fprintln(r.errWriter(), command)
		}
		cmd := exec.CommandContext(ctx, r.shell(), "-c", command)
		r.attach(cmd)
		if err := cmd.Run(); err != nil {
			return r.processError(recipe.Name, err)
		}
	}
	return nil
}

// runShebang materializes the full body, shebang line included, as an
// executable script in a fresh temporary directory and invokes it directly.
// The script's interpreter owns all control flow inside it; only the script
// process's own exit status matters. The temporary directory is removed on
// success and failure alike.
func (r *Runner) runShebang(ctx context.Context, recipe *justfile.Recipe) error {
	dir, err := os.MkdirTemp("", "justrun")
	if err != nil {
		return &IOError{Recipe: recipe.Name, Err: err}
	}
	defer os.RemoveAll(dir)

	script := filepath.Join(dir, recipe.Name)
	body := strings.Join(recipe.Lines, "\n") + "\n"
	if err := os.WriteFile(script, []byte(body), 0o700); err != nil {
		return &IOError{Recipe: recipe.Name, Err: err}
	}

	cmd := exec.CommandContext(ctx, script)
	r.attach(cmd)
	if err := cmd.Run(); err != nil {
		return r.processError(recipe.Name, err)
	}
	return nil
}

func (r *Runner) processError(recipe string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CodeError{Recipe: recipe, Code: exitErr.ExitCode()}
	}
	return &IOError{Recipe: recipe, Err: err}
}

func (r *Runner) attach(cmd *exec.Cmd) {
	cmd.Dir = r.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.outWriter()
	cmd.Stderr = r.errWriter()
}

func (r *Runner) shell() string {
	if r.Shell == "" {
		return "sh"
	}
	return r.Shell
}

func (r *Runner) outWriter() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

func (r *Runner) errWriter() io.Writer {
	if r.Err == nil {
		return os.Stderr
	}
	return r.Err
}
