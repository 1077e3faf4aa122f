package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/commands/options"
	"tableflip.dev/harmonizer/pkg/runner/move"
)

func addMove(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	var room string

	cmd := &cobra.Command{
		Use:   "move ID DAY SLOT",
		Short: "Move a session to another day and slot.",
		Long: `Move a session to another cell of the week.

When the target already hosts a session sharing the room, the teacher or the
group, the move needs another room: pass one with --room, or use -i to pick
one of the free rooms. Without either the move is cancelled and the free
rooms are listed.`,
		Example: `
harmonizer move 2 lundi 2
harmonizer move 4 lundi 1 --room "Lab 202"
harmonizer move 4 lundi 1 -i
`,
		Args: cobra.ExactArgs(3),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return oo.Validate()
		},
		ValidArgsFunction: sessionCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			target, err := options.ParseCell(args[1], args[2])
			if err != nil {
				return oo.HandleError(err)
			}

			ctx := context.Background()
			svc, err := openService(ctx, nil)
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			m := move.Move{
				Service:     svc,
				ID:          args[0],
				Target:      target,
				Room:        room,
				Interactive: i.Interactive,
				Output:      oo.Output,
			}
			return oo.HandleError(m.Do(ctx))
		},
	}

	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().StringVar(&room, "room", "", "Room to use when the target collides.")
	_ = cmd.RegisterFlagCompletionFunc("room", roomCompletions)

	topLevel.AddCommand(cmd)
}
