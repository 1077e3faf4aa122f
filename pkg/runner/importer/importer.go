package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/harmonizer/pkg/app"
	"tableflip.dev/harmonizer/pkg/store"
)

// Import loads a YAML or JSON schedule export into the backend.
type Import struct {
	Service *app.Service
	Path    string
	// DryRun validates the file without writing.
	DryRun bool
	Out    io.Writer
}

func (i *Import) Do(ctx context.Context) error {
	if i.Service == nil {
		return errors.New("can not import, no schedule")
	}
	out := i.Out
	if out == nil {
		out = color.Output
	}

	sessions, err := store.ReadFile(i.Path)
	if err != nil {
		return err
	}
	if i.DryRun {
		_, _ = fmt.Fprintf(out, "%s: %d valid sessions\n", i.Path, len(sessions))
		return nil
	}

	n, err := store.Import(ctx, i.Service.Persistence, sessions)
	if err != nil {
		return err
	}
	if err := i.Service.Refresh(ctx); err != nil {
		return err
	}
	i.Service.Log.Info().Str("file", i.Path).Int("sessions", n).Msg("imported")
	_, _ = fmt.Fprintf(out, "imported %d sessions from %s\n", n, i.Path)

	if found := i.Service.Audit(); len(found) > 0 {
		warn := color.New(color.FgYellow)
		_, _ = warn.Fprintf(out, "warning: %d collisions in the schedule, see `harmonizer conflicts --all`\n", len(found))
	}
	return nil
}
