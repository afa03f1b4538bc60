package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/born-ml/leafgrad/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// varFlag collects repeated -var name=value flags.
type varFlag struct {
	values map[string]cty.Value
}

func (f *varFlag) String() string {
	if f == nil {
		return ""
	}
	names := make([]string, 0, len(f.values))
	for name := range f.values {
		names = append(names, name)
	}
	return strings.Join(names, ",")
}

func (f *varFlag) Set(s string) error {
	name, v, err := config.ParseAssignment(s)
	if err != nil {
		return err
	}
	if f.values == nil {
		f.values = make(map[string]cty.Value)
	}
	f.values[name] = v
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*config.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("leafgrad", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
leafgrad - Reverse-mode derivatives of arithmetic expressions.

Usage:
  leafgrad [options] EXPRESSION
  leafgrad version

Arguments:
  EXPRESSION
    An HCL arithmetic expression, e.g. "a * b + sin(a)" or "dot(w, x)".
    Use -- before an expression that starts with '-'.

Options:
`)
		flagSet.PrintDefaults()
	}

	var vars varFlag
	flagSet.Var(&vars, "var", "Bind a variable, e.g. -var a=2 or -var 'v=[1, 2]'. Repeatable.")
	varsFileFlag := flagSet.String("vars", "", "Path to an HCL file of variable bindings.")
	wrtFlag := flagSet.String("wrt", "", "Comma-separated variables to differentiate against. Default: all.")
	allowUndefinedFlag := flagSet.Bool("allow-undefined", false, "Report zero instead of failing when the output does not depend on a variable.")
	workersFlag := flagSet.Int("workers", 1, "Number of variables to differentiate concurrently, each on its own graph.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	switch flagSet.NArg() {
	case 0:
		slog.Debug("No expression provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	case 1:
	default:
		return nil, false, &ExitError{Code: 2, Message: "expected a single EXPRESSION argument; quote expressions containing spaces"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var wrt []string
	for _, name := range strings.Split(*wrtFlag, ",") {
		if name = strings.TrimSpace(name); name != "" {
			wrt = append(wrt, name)
		}
	}
	slog.Debug("CLI parameter validation complete.")

	cfg, err := config.NewConfig(config.Config{
		Expression:     flagSet.Arg(0),
		VarsFile:       *varsFileFlag,
		Vars:           vars.values,
		WithRespectTo:  wrt,
		AllowUndefined: *allowUndefinedFlag,
		Workers:        *workersFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "expression", cfg.Expression)
	return cfg, false, nil
}
