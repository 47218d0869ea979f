// Package app ties configuration, logging and the core packages together:
// it locates and loads the justfile, parses it, and dispatches to listing,
// showing, dumping, or running recipes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/justrun/internal/ctxlog"
	"github.com/vk/justrun/internal/fsutil"
	"github.com/vk/justrun/internal/parser"
	"github.com/vk/justrun/internal/runner"
)

// Config holds everything an App needs for one invocation.
type Config struct {
	// JustfilePath skips discovery when set.
	JustfilePath string
	// WorkingDir is where discovery starts; empty means the process working
	// directory.
	WorkingDir string

	List bool
	Show string
	Dump bool

	LogLevel  string
	LogFormat string

	// Requests are the recipe names to run; empty means the first-defined
	// recipe.
	Requests []string
}

// App encapsulates the writers, logger and configuration for a single run.
type App struct {
	out    io.Writer
	err    io.Writer
	logger *slog.Logger
	cfg    Config
}

func New(out, errW io.Writer, cfg Config) *App {
	return &App{
		out:    out,
		err:    errW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, errW),
		cfg:    cfg,
	}
}

// Run performs the invocation described by the config.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.With(ctx, a.logger)

	path, err := a.locate()
	if err != nil {
		return err
	}
	a.logger.Debug("loading justfile", "path", path)

	text, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	jf, err := parser.Parse(string(text))
	if err != nil {
		return err
	}
	a.logger.Debug("parsed justfile", "recipes", jf.Count())

	switch {
	case a.cfg.List:
		for _, name := range jf.Names() {
			recipe, _ := jf.Recipe(name)
			line := name
			if len(recipe.Arguments) > 0 {
				line += " " + strings.Join(recipe.Arguments, " ")
			}
			fmt.Fprintln(a.out, line)
		}
		return nil
	case a.cfg.Show != "":
		recipe, ok := jf.Recipe(a.cfg.Show)
		if !ok {
			return &runner.UnknownRecipesError{Recipes: []string{a.cfg.Show}}
		}
		fmt.Fprintln(a.out, recipe)
		return nil
	case a.cfg.Dump:
		return jf.Dump(a.out)
	}

	requests := a.cfg.Requests
	if len(requests) == 0 {
		first := jf.First()
		if first == nil {
			return errors.New("justfile contains no recipes")
		}
		requests = []string{first.Name}
	}

	// Recipes run from the justfile's directory, wherever the tool was
	// invoked from.
	run := &runner.Runner{
		Dir: filepath.Dir(path),
		Out: a.out,
		Err: a.err,
	}
	return run.Run(ctx, jf, requests)
}

// locate returns the absolute path of the justfile to load, searching
// upward from the working directory unless one was given explicitly.
func (a *App) locate() (string, error) {
	if a.cfg.JustfilePath != "" {
		return filepath.Abs(a.cfg.JustfilePath)
	}
	start := a.cfg.WorkingDir
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		start = wd
	}
	return fsutil.FindUpward(start, "justfile", "Justfile")
}
