package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/runner/importer"
)

func addImport(topLevel *cobra.Command) {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load sessions from a YAML or JSON export.",
		Long: `Import validates every session in FILE before writing any of them.
Sessions with an existing id are replaced.`,
		Example: `
harmonizer import week.yaml
harmonizer import week.json --dry-run
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			svc, err := openService(ctx, nil)
			if err != nil {
				return err
			}
			defer svc.Close()

			i := importer.Import{
				Service: svc,
				Path:    args[0],
				DryRun:  dryRun,
			}
			return i.Do(ctx)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without writing.")

	topLevel.AddCommand(cmd)
}
