package commands

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"
)

func addUpgrade(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade harmonizer cli.",
		Example: `
harmonizer upgrade
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ex := exec.Command("go", "install", "tableflip.dev/harmonizer@latest")
			var out bytes.Buffer
			ex.Stdout = &out
			ex.Stderr = &out
			if err := ex.Run(); err != nil {
				return fmt.Errorf("%s: %w\n%s", ex.String(), err, out.String())
			}
			fmt.Printf("%s\n", ex.String())
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
