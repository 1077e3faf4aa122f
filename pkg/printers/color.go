package printers

import (
	"github.com/fatih/color"
)

// PaletteSize is the number of card colours.
const PaletteSize = 7

var palette = [PaletteSize]color.Attribute{
	color.FgBlue,
	color.FgGreen,
	color.FgYellow,
	color.FgMagenta,
	color.FgHiMagenta,
	color.FgHiBlue,
	color.FgHiRed,
}

// PaletteIndex maps a module name to a stable slot of the card palette, so a
// module keeps its colour across runs and front ends.
func PaletteIndex(name string) int {
	var hash int32
	for _, r := range name {
		hash = int32(r) + ((hash << 5) - hash)
	}
	i := int(hash % PaletteSize)
	if i < 0 {
		i = -i
	}
	return i
}

// Color returns the terminal colour of a module.
func Color(module string) *color.Color {
	return color.New(palette[PaletteIndex(module)])
}
