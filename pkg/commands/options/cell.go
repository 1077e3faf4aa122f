package options

import (
	"fmt"
	"strconv"
	"strings"

	"tableflip.dev/harmonizer/pkg/session"
)

// ParseCell reads a DAY SLOT pair from the command line, for example
// "mardi 2". Day names are case insensitive.
func ParseCell(day, slot string) (session.Cell, error) {
	n, err := strconv.Atoi(strings.TrimSpace(slot))
	if err != nil {
		return session.Cell{}, fmt.Errorf("slot %q is not a number", slot)
	}
	return session.NewCell(day, n)
}
