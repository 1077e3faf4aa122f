package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/commands/options"
	"tableflip.dev/harmonizer/pkg/runner/conflicts"
)

func addConflicts(topLevel *cobra.Command) {
	var all bool

	cmd := &cobra.Command{
		Use:   "conflicts [ID DAY SLOT]",
		Short: "Show what a move would collide with, or every collision with --all.",
		Example: `
harmonizer conflicts 4 lundi 1
harmonizer conflicts --all -o json
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			if len(args) != 3 {
				return errors.New("expected ID DAY SLOT, or --all")
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return oo.Validate()
		},
		ValidArgsFunction: sessionCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			c := conflicts.Conflicts{Audit: all, Output: oo.Output}
			if !all {
				target, err := options.ParseCell(args[1], args[2])
				if err != nil {
					return oo.HandleError(err)
				}
				c.ID = args[0]
				c.Target = target
			}

			ctx := context.Background()
			svc, err := openService(ctx, nil)
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()
			c.Service = svc
			return oo.HandleError(c.Do(ctx))
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every collision already in the schedule.")
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
