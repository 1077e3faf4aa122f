package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where sessions are stored.",
		Example: `
harmonizer info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			svc, err := openService(ctx, nil)
			if err != nil {
				return err
			}
			defer svc.Close()

			s := info.Info{Service: svc}
			return s.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
