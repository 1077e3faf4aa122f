// Package snake walks a user through a cobra command tree with prompts:
// pick a command, answer its arguments and flags, then run it.
package snake

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// PromptNext asks for one of cmd's runnable subcommands and runs it with
// prompted arguments and flags.
func PromptNext(cmd *cobra.Command) error {
	subcommands := runnable(cmd)
	if len(subcommands) == 0 {
		return fmt.Errorf("%s has no subcommands", cmd.Name())
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Name | bold }} {{ .Short | green }}",
		Inactive: "   {{ .Name }} {{ .Short | cyan }}",
		Selected: "{{ .Use | bold }}",
		Details: `
--------- Details ----------
{{ .Long }}
`,
	}

	searcher := func(input string, index int) bool {
		subcommand := subcommands[index]
		name := strings.Replace(strings.ToLower(subcommand.Name()+subcommand.Short), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)
		return strings.Contains(name, input)
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "Commands",
		Items:     subcommands,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    NopCloser(cmd.OutOrStdout()),
	}

	i, _, err := prompt.Run()
	if err != nil {
		return err
	}
	next := subcommands[i]
	if next.RunE == nil && next.Run == nil {
		return PromptNext(next)
	}

	args, err := PromptArgs(next)
	if err != nil {
		return err
	}
	flags, err := PromptFlags(next)
	if err != nil {
		return err
	}
	if err := next.ParseFlags(flags); err != nil {
		return err
	}
	if err := next.ValidateArgs(args); err != nil {
		return err
	}
	if next.RunE != nil {
		return next.RunE(next, args)
	}
	next.Run(next, args)
	return nil
}

// Positional returns the argument names in a Use line, for example
// "move ID DAY SLOT" gives ID, DAY and SLOT. Optional "[X Y]" groups are
// skipped.
func Positional(use string) []string {
	fields := strings.Fields(use)
	if len(fields) < 2 {
		return nil
	}
	var out []string
	optional := false
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, "[") {
			optional = true
		}
		if optional {
			optional = !strings.HasSuffix(f, "]")
			continue
		}
		if strings.HasPrefix(f, "-") {
			continue
		}
		out = append(out, f)
	}
	return out
}

// PromptArgs asks for every positional argument named in cmd.Use.
func PromptArgs(cmd *cobra.Command) ([]string, error) {
	var args []string
	for _, name := range Positional(cmd.Use) {
		prompt := promptui.Prompt{
			Label: name,
			Validate: func(input string) error {
				if strings.TrimSpace(input) == "" {
					return errors.New("required")
				}
				return nil
			},
			Stdin:  io.NopCloser(cmd.InOrStdin()),
			Stdout: NopCloser(cmd.OutOrStdout()),
		}
		v, err := prompt.Run()
		if err != nil {
			return nil, err
		}
		args = append(args, strings.TrimSpace(v))
	}
	return args, nil
}

// PromptFlags lets the user set flags one by one until "Continue..." and
// returns them as command line arguments.
func PromptFlags(cmd *cobra.Command) ([]string, error) {
	var fs []*pflag.Flag
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" || f.Name == "interactive" {
			return
		}
		fs = append(fs, f)
	})
	if len(fs) == 0 {
		return nil, nil
	}

	fs = append(fs, &pflag.Flag{
		Name:   "Continue...",
		Hidden: true,
		Value:  &continueType{},
	})

	templates := &promptui.SelectTemplates{
		Label:    "{{ . | magenta }} flags?",
		Active:   "➜ {{ if eq .Value.Type \"continue\" }}{{ .Name | bold | green }}{{ else }}{{ .Name | bold }} {{ .Usage | green | cyan }}{{ end }}",
		Inactive: "  {{ if eq .Value.Type \"continue\" }}{{ .Name | faint | green }}{{ else }}{{ .Name }} {{ .Usage | cyan }}{{ end }}",
		Selected: "{{ if eq .Value.Type \"continue\" }}{{ .Name | bold | green }}{{ else }}{{ .Name | bold }}{{ end }}",
		Details: `
--------- Details ----------
default: {{ .DefValue }}
type: {{ .Value.Type }}
`,
	}

	searcher := func(input string, index int) bool {
		name := strings.Replace(strings.ToLower(fs[index].Name), " ", "", -1)
		input = strings.Replace(strings.ToLower(input), " ", "", -1)
		return strings.Contains(name, input)
	}

	var args []string
	index := 0
	for {
		prompt := promptui.Select{
			HideHelp:  true,
			Label:     "Flags",
			Items:     fs,
			Templates: templates,
			Size:      10,
			CursorPos: index,
			Searcher:  searcher,
			Stdin:     io.NopCloser(cmd.InOrStdin()),
			Stdout:    NopCloser(cmd.OutOrStdout()),
		}

		i, _, err := prompt.Run()
		if err != nil {
			return nil, err
		}
		index = i

		var more string
		switch t := fs[i].Value.Type(); t {
		case "bool":
			more, err = PromptFlagBool(fs[i])
		case "string", "int":
			more, err = PromptFlagString(fs[i])
		case "continue":
			return args, nil
		default:
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%q flag type not supported, use --%s directly\n", t, fs[i].Name)
		}
		if err != nil {
			return nil, err
		}
		if more != "" {
			args = append(args, more)
		}
	}
}

func runnable(cmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, c := range cmd.Commands() {
		if c.Hidden || !c.IsAvailableCommand() || c.Name() == "completion" {
			continue
		}
		out = append(out, c)
	}
	return out
}

type continueType struct{}

func (*continueType) String() string { return "continue" }

func (*continueType) Set(string) error { return nil }

func (*continueType) Type() string { return "continue" }

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping the
// provided Writer w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}
