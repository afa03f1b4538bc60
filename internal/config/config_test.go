package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/born-ml/leafgrad/internal/expr"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vars.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{Expression: "a * b"})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)

	_, err = NewConfig(Config{Expression: "   "})
	require.ErrorIs(t, err, ErrNoExpression)

	_, err = NewConfig(Config{Expression: "a", WithRespectTo: []string{"1a"}})
	require.Error(t, err)

	_, err = NewConfig(Config{Expression: "a", Workers: -1})
	require.Error(t, err)
}

func TestLoadVarsFile(t *testing.T) {
	path := writeFile(t, `
a = 2
b = -0.5
v = [1, 2, 3]
`)

	values, err := LoadVarsFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, values, 3)

	assert.True(t, values["a"].RawEquals(cty.NumberIntVal(2)))
	assert.True(t, values["b"].Equals(cty.NumberFloatVal(-0.5)).True())
	assert.Equal(t, 3, values["v"].LengthInt())
}

func TestLoadVarsFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "a = "},
		{"block", "vars {\n  a = 1\n}\n"},
		{"variable reference", "a = b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadVarsFile(context.Background(), writeFile(t, tt.content))
			require.Error(t, err)
		})
	}

	_, err := LoadVarsFile(context.Background(), filepath.Join(t.TempDir(), "missing.hcl"))
	require.Error(t, err)
}

func TestValues_OverridesFile(t *testing.T) {
	cfg := &Config{
		Expression: "a + b",
		VarsFile:   writeFile(t, "a = 1\nb = 2\n"),
		Vars:       map[string]cty.Value{"b": cty.NumberIntVal(20)},
	}

	values, err := cfg.Values(context.Background())
	require.NoError(t, err)
	assert.True(t, values["a"].RawEquals(cty.NumberIntVal(1)))
	assert.True(t, values["b"].RawEquals(cty.NumberIntVal(20)))
}

func TestParseAssignment(t *testing.T) {
	name, v, err := ParseAssignment("x=3")
	require.NoError(t, err)
	assert.Equal(t, "x", name)
	assert.True(t, v.RawEquals(cty.NumberIntVal(3)))

	name, v, err = ParseAssignment("w = [1, 2]")
	require.NoError(t, err)
	assert.Equal(t, "w", name)
	assert.Equal(t, 2, v.LengthInt())

	tests := []struct {
		in   string
		want error
	}{
		{"x", ErrInvalidAssignment},
		{"=3", ErrInvalidAssignment},
		{"1x=3", ErrInvalidAssignment},
		{"x=[1,", expr.ErrSyntax},
		{"x=y", expr.ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, _, err := ParseAssignment(tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}
}
