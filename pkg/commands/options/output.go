package options

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/printers"
)

// OutputOptions
type OutputOptions struct {
	Output string
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().StringVarP(&po.Output, "output", "o", printers.OutputTable,
		"Output format. One of 'table', 'json' or 'yaml'.")
}

// Validate rejects unknown formats before any work is done.
func (o *OutputOptions) Validate() error {
	return printers.ValidateOutput(o.Output)
}

// JSON reports whether errors should be printed as JSON documents.
func (o *OutputOptions) JSON() bool {
	return o.Output == printers.OutputJSON
}

func (o *OutputOptions) HandleError(err error) error {
	if o.JSON() && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	return err
}
