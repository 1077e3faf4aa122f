package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/app"
	"tableflip.dev/harmonizer/pkg/commands/options"
	"tableflip.dev/harmonizer/pkg/printers"
)

func addReport(topLevel *cobra.Command) {
	fo := &options.FilterOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise the week per day with room usage and collisions.",
		Example: `
harmonizer report
harmonizer report --group "Group B" -o json
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return oo.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			svc, err := openService(ctx, nil)
			if err != nil {
				return oo.HandleError(err)
			}
			defer svc.Close()

			for _, f := range fo.Filters() {
				svc.Filters.Apply(f.Field, f.Value)
			}
			result := svc.Report()
			if oo.Output == printers.OutputJSON || oo.Output == printers.OutputYAML {
				return printers.Encode(color.Output, oo.Output, result)
			}
			renderReport(color.Output, result)
			return nil
		},
	}

	options.AddFilterArgs(cmd, fo)
	options.AddOutputArg(cmd, oo)
	registerFilterCompletions(cmd)
	topLevel.AddCommand(cmd)
}

func renderReport(out io.Writer, result app.ReportResult) {
	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(out, "Report · %d sessions\n", result.Total)

	if result.Total == 0 {
		_, _ = fmt.Fprintln(out, "  No sessions match.")
		_, _ = fmt.Fprintln(out)
	}

	for _, section := range result.Sections {
		_, _ = fmt.Fprintf(out, "\n%s\n", section.Day.Title())
		for _, s := range section.Sessions {
			label := printers.Color(s.Module).Sprint(s.Module)
			_, _ = fmt.Fprintf(out, "  %s  %s · %s · %s · %s\n", s.Creneau.Label(), label, s.Groupe, s.Formateur, s.Salle)
		}
	}

	_, _ = fmt.Fprintln(out)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ROOM"), bold.Sprint("USED"), bold.Sprint("FREE"))
	for _, r := range result.Rooms {
		tbl.AddRow(r.Room, r.Used, r.Free)
	}
	_, _ = fmt.Fprintln(out, tbl)

	if len(result.Collisions) > 0 {
		warn := color.New(color.FgYellow)
		_, _ = warn.Fprintf(out, "\n%d collisions, see `harmonizer conflicts --all`\n", len(result.Collisions))
	}
}
