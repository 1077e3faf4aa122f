package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/runner/serve"
)

func addServe(topLevel *cobra.Command) {
	var (
		addr   string
		banner bool
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schedule as a JSON HTTP API.",
		Long: `Serve exposes the sessions, rooms, filters and the move flow over HTTP
for a browser front end. A move that collides waits for POST /api/moves/confirm
or DELETE /api/moves before another move is accepted.`,
		Example: `
harmonizer serve
harmonizer serve --addr :9000 --banner=false
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := openService(ctx, os.Stderr)
			if err != nil {
				return err
			}
			defer svc.Close()

			if addr == "" {
				addr = svc.Config.ServeAddr()
			}
			if follow {
				go func() {
					if err := svc.Follow(ctx); err != nil {
						svc.Log.Warn().Err(err).Msg("follow store changes")
					}
				}()
			}

			s := serve.Serve{
				Service: svc,
				Addr:    addr,
				Banner:  banner,
			}
			return s.Do(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, defaults to serve.addr from the configuration.")
	cmd.Flags().BoolVar(&banner, "banner", true, "Print the application banner on start.")
	cmd.Flags().BoolVar(&follow, "follow", true, "Reload when the store changes on disk.")

	topLevel.AddCommand(cmd)
}
