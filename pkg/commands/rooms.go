package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/commands/options"
	"tableflip.dev/harmonizer/pkg/runner/rooms"
)

func addRooms(topLevel *cobra.Command) {
	var free bool

	cmd := &cobra.Command{
		Use:   "rooms [DAY SLOT]",
		Short: "List rooms, marking those booked at a day and slot.",
		Example: `
harmonizer rooms
harmonizer rooms mardi 2
harmonizer rooms mardi 2 --free
`,
		Args: func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 0:
				if free {
					return errors.New("--free needs DAY SLOT")
				}
				return nil
			case 2:
				return nil
			default:
				return errors.New("expected no arguments or DAY SLOT")
			}
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return oo.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			r := rooms.Rooms{Free: free, Output: oo.Output}
			if len(args) == 2 {
				cell, err := options.ParseCell(args[0], args[1])
				if err != nil {
					return oo.HandleError(err)
				}
				r.Cell = &cell
			}

			ctx := context.Background()
			svc, err := openService(ctx, nil)
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()
			r.Service = svc
			return oo.HandleError(r.Do(ctx))
		},
	}

	cmd.Flags().BoolVar(&free, "free", false, "Only list rooms free at DAY SLOT.")
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

