package commands

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based schedule editor",
		Long: `Open the weekly grid. Grab a session with space, carry it with the
arrow keys and drop it with enter. Press ? inside for every key.`,
		Example: `
harmonizer ui
harmonizer ui --backend memory
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("ui needs an interactive terminal, try `harmonizer get`")
			}
			ctx := context.Background()
			svc, err := openService(ctx, nil)
			if err != nil {
				return err
			}
			defer svc.Close()

			i := ui.UI{Service: svc}
			return i.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
