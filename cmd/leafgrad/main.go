// Package main provides the leafgrad CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/born-ml/leafgrad/internal/cli"
	"github.com/born-ml/leafgrad/internal/ctxlog"
	"github.com/born-ml/leafgrad/internal/driver"
)

const version = "v0.1.0-dev"

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	if len(args) > 0 && args[0] == "version" {
		fmt.Fprintf(outW, "leafgrad %s\n", version)
		return nil
	}

	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	values, err := cfg.Values(ctx)
	if err != nil {
		return err
	}

	res, err := driver.Run(ctx, driver.Request{
		Expression:     cfg.Expression,
		Values:         values,
		WithRespectTo:  cfg.WithRespectTo,
		AllowUndefined: cfg.AllowUndefined,
		Workers:        cfg.Workers,
	})
	if err != nil {
		return err
	}

	vectors := make(map[string]bool, len(values))
	for name, v := range values {
		vectors[name] = !v.Type().IsPrimitiveType()
	}
	return writeResult(outW, res, vectors)
}
