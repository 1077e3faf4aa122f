package commands

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/filter"
	"tableflip.dev/harmonizer/pkg/session"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(harmonizer completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(harmonizer completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// sessionCompletions offers session ids for the first argument and day
// names for the second.
func sessionCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	svc, err := openService(context.Background(), nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer svc.Close()

	var out []string
	switch len(args) {
	case 0:
		for _, s := range svc.Schedule.All() {
			if strings.HasPrefix(s.ID, toComplete) {
				out = append(out, s.ID+"\t"+s.Module+" · "+s.Groupe)
			}
		}
	case 1:
		for _, d := range session.Days() {
			if strings.HasPrefix(string(d), strings.ToLower(toComplete)) {
				out = append(out, string(d))
			}
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func roomCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	svc, err := openService(context.Background(), nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer svc.Close()
	return prefixed(svc.Schedule.Rooms(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

// registerFilterCompletions completes --teacher, --group and --room with
// the values present in the schedule.
func registerFilterCompletions(cmd *cobra.Command) {
	flags := map[string]filter.Field{
		"teacher": filter.Teacher,
		"group":   filter.Group,
		"room":    filter.Room,
	}
	for name, field := range flags {
		field := field
		_ = cmd.RegisterFlagCompletionFunc(name, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			svc, err := openService(context.Background(), nil)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			defer svc.Close()
			return prefixed(svc.Options().For(field), toComplete), cobra.ShellCompDirectiveNoFileComp
		})
	}
}

func prefixed(values []string, prefix string) []string {
	var out []string
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), strings.ToLower(prefix)) {
			out = append(out, v)
		}
	}
	return out
}
