package ui

import (
	"context"
	"fmt"

	"tableflip.dev/harmonizer/pkg/app"
	teaui "tableflip.dev/harmonizer/pkg/tui/app"
)

// UI opens the full-screen schedule editor.
type UI struct {
	Service *app.Service
}

func (u *UI) Do(ctx context.Context) error {
	if u.Service == nil {
		return fmt.Errorf("ui: no schedule service")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.Service.Log.Info().Int("sessions", u.Service.Schedule.Len()).Msg("starting ui")
	return teaui.Run(u.Service)
}
