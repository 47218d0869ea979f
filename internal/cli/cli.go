// Package cli wires the command line surface: flags and environment
// variables become an app.Config, and errors become exit codes.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vk/justrun/internal/app"
	"github.com/vk/justrun/internal/runner"
	"github.com/vk/justrun/internal/syntax"
)

// ExitError carries a specific process exit code with its message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Execute runs the root command against args and returns the process exit
// code: a failing recipe's own exit code, 2 for usage errors, 1 for
// anything else.
func Execute(out, errW io.Writer, args []string) int {
	cmd := newRootCommand(out, errW)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(errW, exitErr.Message)
		return exitErr.Code
	}
	var codeErr *runner.CodeError
	if errors.As(err, &codeErr) {
		printError(errW, err)
		return codeErr.Code
	}
	printError(errW, err)
	return 1
}

func newRootCommand(out, errW io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "justrun [flags] [recipe...]",
		Short: "Save and run project-specific commands",
		Long: `justrun reads a justfile of named recipes and runs the requested ones in
dependency order. With no recipe arguments the first recipe in the justfile
runs. The justfile is found by searching upward from the current directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := strings.ToLower(v.GetString("log-level"))
			if !contains(logLevels, level) {
				return &ExitError{Code: 2, Message: fmt.Sprintf(
					"invalid log-level %q: must be %s", level, syntax.Or(logLevels))}
			}
			format := strings.ToLower(v.GetString("log-format"))
			if !contains(logFormats, format) {
				return &ExitError{Code: 2, Message: fmt.Sprintf(
					"invalid log-format %q: must be %s", format, syntax.Or(logFormats))}
			}

			cfg := app.Config{
				JustfilePath: v.GetString("justfile"),
				WorkingDir:   v.GetString("working-directory"),
				List:         v.GetBool("list"),
				Show:         v.GetString("show"),
				Dump:         v.GetBool("dump"),
				LogLevel:     level,
				LogFormat:    format,
				Requests:     args,
			}
			return app.New(out, errW, cfg).Run(cmd.Context())
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errW)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	flags := cmd.Flags()
	flags.StringP("justfile", "f", "", "use this justfile instead of searching upward")
	flags.StringP("working-directory", "d", "", "directory to start the justfile search from")
	flags.BoolP("list", "l", false, "list recipe names and arguments")
	flags.StringP("show", "s", "", "print the body of the named recipe")
	flags.Bool("dump", false, "print the parsed justfile as YAML")
	flags.String("log-level", "warn", "log level: "+syntax.Or(logLevels))
	flags.String("log-format", "text", "log output format: "+syntax.Or(logFormats))

	v.SetEnvPrefix("justrun")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.BindPFlags(flags)

	return cmd
}

// printError writes err prefixed with "error:", colored when the
// destination is a terminal.
func printError(errW io.Writer, err error) {
	prefix := "error:"
	if f, ok := errW.(*os.File); ok &&
		(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		prefix = "\x1b[1;31merror:\x1b[0m"
	}
	fmt.Fprintf(errW, "%s %v\n", prefix, err)
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
