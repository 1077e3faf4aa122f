package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/harmonizer/pkg/filter"
)

// FilterOptions narrows the visible sessions.
type FilterOptions struct {
	Teacher string
	Group   string
	Room    string
}

func AddFilterArgs(cmd *cobra.Command, o *FilterOptions) {
	cmd.Flags().StringVarP(&o.Teacher, "teacher", "t", "",
		"Only show sessions taught by this teacher.")
	cmd.Flags().StringVarP(&o.Group, "group", "g", "",
		"Only show sessions of this group.")
	cmd.Flags().StringVarP(&o.Room, "room", "r", "",
		"Only show sessions held in this room.")
}

// Filters returns the set flags as filters, in field order.
func (o *FilterOptions) Filters() []filter.Filter {
	var out []filter.Filter
	for _, f := range []filter.Filter{
		{Field: filter.Teacher, Value: o.Teacher},
		{Field: filter.Group, Value: o.Group},
		{Field: filter.Room, Value: o.Room},
	} {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}
