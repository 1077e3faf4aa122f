package info

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/harmonizer/pkg/app"
	"tableflip.dev/harmonizer/pkg/store"
)

type Info struct {
	Service *app.Service
	Out     io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := store.ConfigPathOverride(); override != "" {
		_, _ = fmt.Fprintln(out, "HARMONIZER_CONFIG_PATH found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, "HARMONIZER_CONFIG_PATH env var not set")
	}

	if n.Service == nil {
		return fmt.Errorf("failed to open the schedule")
	}
	cfg := n.Service.Config

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Config.path:"), cfg.BasePath())
	tbl.AddRow(bold.Sprint("Config.backend:"), cfg.Backend())
	tbl.AddRow(bold.Sprint("Config.seed:"), cfg.Seed())
	tbl.AddRow(bold.Sprint("Config.log.level:"), cfg.LogLevel())
	tbl.AddRow(bold.Sprint("Config.log.file:"), cfg.LogFile())
	tbl.AddRow(bold.Sprint("Config.serve.addr:"), cfg.ServeAddr())
	_, _ = fmt.Fprintln(out, tbl)

	report := n.Service.Report()
	_, _ = fmt.Fprintf(out, "\nSessions: %d\n", n.Service.Schedule.Len())
	_, _ = fmt.Fprintf(out, "Collisions: %d\n\nRooms:\n", len(report.Collisions))

	rooms := uitable.New()
	rooms.Separator = "  "
	for _, u := range report.Rooms {
		rooms.AddRow("  "+u.Room, fmt.Sprintf("%d booked", u.Used), fmt.Sprintf("%d free", u.Free))
	}
	if len(report.Rooms) == 0 {
		rooms.AddRow("  no rooms")
	}
	_, _ = fmt.Fprintln(out, rooms)
	return nil
}
