package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/harmonizer/pkg/app"
	"tableflip.dev/harmonizer/pkg/commands/options"
	"tableflip.dev/harmonizer/pkg/snake"
)

var (
	oo = &options.OutputOptions{}
	so = &options.StoreOptions{}
)

func New() *cobra.Command {
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:   "harmonizer",
		Short: base.Wrap80("Weekly teaching schedule editor. Move sessions between day and slot cells, catch teacher, group and room collisions and pick a free room when a move collides."),
		RunE: func(cmd *cobra.Command, args []string) error {
			if i.Interactive {
				return snake.PromptNext(cmd)
			}
			return cmd.Help()
		},
	}

	options.AddStoreArgs(cmd, so)
	options.InteractiveArgs(cmd, i)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addGet(topLevel)
	addMove(topLevel)
	addConflicts(topLevel)
	addRooms(topLevel)
	addImport(topLevel)
	addReport(topLevel)
	addInfo(topLevel)
	addServe(topLevel)
	addMCP(topLevel)
	addCompletions(topLevel)
	addUpgrade(topLevel)
	addVersion(topLevel)
}

// openService loads the configuration, honouring --backend, and opens the
// schedule. Log lines go to console only when it is set.
func openService(ctx context.Context, console io.Writer) (*app.Service, error) {
	cfg, err := so.Config()
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg, app.Options{Console: console})
}
