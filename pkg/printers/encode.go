package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// ValidateOutput checks an --output value.
func ValidateOutput(v string) error {
	switch strings.ToLower(v) {
	case "", OutputTable, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output %q, expected %s, %s or %s", v, OutputTable, OutputJSON, OutputYAML)
	}
}

// Encode writes v as indented JSON or as YAML.
func Encode(w io.Writer, format string, v interface{}) error {
	switch strings.ToLower(format) {
	case OutputYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
