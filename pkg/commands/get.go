package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/commands/options"
	"tableflip.dev/harmonizer/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}
	io := &options.IDOptions{}
	var list bool

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the week, optionally filtered by teacher, group or room.",
		Example: `
harmonizer get
harmonizer get --group "Group A"
harmonizer get --teacher "Dr. Miller" --list -o yaml
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return oo.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			svc, err := openService(ctx, nil)
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			g := get.Get{
				Service: svc,
				Filters: fo.Filters(),
				Output:  oo.Output,
				List:    list,
				ShowID:  io.ShowID,
			}
			return oo.HandleError(g.Do(ctx))
		},
	}

	options.AddFilterArgs(cmd, fo)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVar(&list, "list", false, "List sessions in a table instead of the week grid.")
	registerFilterCompletions(cmd)

	topLevel.AddCommand(cmd)
}
