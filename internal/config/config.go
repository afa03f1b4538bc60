// Package config holds the settings for one leafgrad invocation and loads
// variable bindings from HCL files and command-line assignments.
package config

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/born-ml/leafgrad/internal/ctxlog"
	"github.com/born-ml/leafgrad/internal/expr"
)

var (
	// ErrNoExpression is returned when no expression was given.
	ErrNoExpression = errors.New("expression is required")

	// ErrInvalidAssignment is returned for malformed name=value pairs.
	ErrInvalidAssignment = errors.New("invalid variable assignment")
)

// Config holds all the configuration for one evaluation.
type Config struct {
	Expression string

	VarsFile string               // optional HCL file of name = value attributes
	Vars     map[string]cty.Value // -var assignments, override VarsFile

	WithRespectTo  []string
	AllowUndefined bool
	Workers        int // concurrent variables; below 2 is sequential

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy with defaults applied.
func NewConfig(cfg Config) (*Config, error) {
	if strings.TrimSpace(cfg.Expression) == "" {
		return nil, ErrNoExpression
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	for _, name := range cfg.WithRespectTo {
		if !hclsyntax.ValidIdentifier(name) {
			return nil, fmt.Errorf("with respect to %q: not a valid identifier", name)
		}
	}
	return &cfg, nil
}

// Values returns the variable bindings: the attributes of VarsFile, if set,
// overridden by Vars.
func (c *Config) Values(ctx context.Context) (map[string]cty.Value, error) {
	values := make(map[string]cty.Value, len(c.Vars))
	if c.VarsFile != "" {
		fileVals, err := LoadVarsFile(ctx, c.VarsFile)
		if err != nil {
			return nil, err
		}
		maps.Copy(values, fileVals)
	}
	maps.Copy(values, c.Vars)
	return values, nil
}

// LoadVarsFile reads an HCL file whose top-level attributes bind variable
// names to numbers or lists of numbers. Blocks are not allowed and every
// value must be a constant expression.
func LoadVarsFile(ctx context.Context, path string) (map[string]cty.Value, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading variables file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse variables file %s: %s", path, diags.Error())
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read variables file %s: %s", path, diags.Error())
	}

	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate %q in %s: %s", name, path, diags.Error())
		}
		values[name] = v
	}

	logger.Debug("Loaded variables file.", "path", path, "variables", len(values))
	return values, nil
}

// ParseAssignment splits a name=value pair. The value is an HCL constant
// expression such as 3, -0.5 or [1, 2, 3].
func ParseAssignment(s string) (string, cty.Value, error) {
	name, src, ok := strings.Cut(s, "=")
	if !ok {
		return "", cty.NilVal, fmt.Errorf("%w: %q: want name=value", ErrInvalidAssignment, s)
	}
	name = strings.TrimSpace(name)
	if !hclsyntax.ValidIdentifier(name) {
		return "", cty.NilVal, fmt.Errorf("%w: %q is not a valid identifier", ErrInvalidAssignment, name)
	}

	v, err := expr.ParseValue(src)
	if err != nil {
		return "", cty.NilVal, fmt.Errorf("%w: %s: %w", ErrInvalidAssignment, name, err)
	}
	return name, v, nil
}
