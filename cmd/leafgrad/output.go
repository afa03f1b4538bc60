package main

import (
	"fmt"
	"io"

	"github.com/born-ml/leafgrad/internal/driver"
)

// writeResult prints the forward value, one gradient line per variable and,
// for vector outputs, one Jacobian line per variable. Vector variables and
// outputs print in brackets even when they hold a single element.
func writeResult(w io.Writer, res *driver.Result, vectors map[string]bool) error {
	if _, err := fmt.Fprintf(w, "value = %s\n", format(res.Value, res.Vector)); err != nil {
		return err
	}
	for _, name := range res.Variables {
		if _, err := fmt.Fprintf(w, "d/d%s = %s\n", name, format(res.Gradients[name], vectors[name])); err != nil {
			return err
		}
	}
	if !res.Vector {
		return nil
	}
	for _, name := range res.Variables {
		if _, err := fmt.Fprintf(w, "J(%s) = %v\n", name, res.Jacobian[name]); err != nil {
			return err
		}
	}
	return nil
}

func format(values []float64, vector bool) string {
	if !vector && len(values) == 1 {
		return fmt.Sprint(values[0])
	}
	return fmt.Sprint(values)
}
