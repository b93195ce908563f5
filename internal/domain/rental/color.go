package rental

import "strconv"

// Palette holds the calendar colors assigned to apartments, in assignment
// order. The last entry doubles as the fallback when the palette is spent.
var Palette = []string{
	"#ff6666", // red
	"#66b3ff", // blue
	"#99ff99", // green
	"#ffcc99", // orange
	"#c299ff", // purple
	"#ffff99", // yellow
	"#cccccc", // grey, default
}

const DefaultColor = "#cccccc"

// AssignColor picks the first palette color not already in use. Apartments
// with a customized color keep it; callers skip assignment in that case.
func AssignColor(used []string) string {
	taken := make(map[string]bool, len(used))
	for _, c := range used {
		taken[c] = true
	}
	for _, c := range Palette {
		if !taken[c] {
			return c
		}
	}
	return DefaultColor
}

// TextColorFor returns black or white, whichever reads better on the given
// background, using the W3C relative-luminance threshold.
func TextColorFor(hex string) string {
	r, g, b, ok := parseHexColor(hex)
	if !ok {
		return "#000000"
	}
	luminance := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	if luminance > 150 {
		return "#000000"
	}
	return "#ffffff"
}

func parseHexColor(hex string) (r, g, b uint8, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	parse := func(s string) (uint8, bool) {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 0, false
		}
		return uint8(v), true
	}
	var okR, okG, okB bool
	r, okR = parse(hex[1:3])
	g, okG = parse(hex[3:5])
	b, okB = parse(hex[5:7])
	return r, g, b, okR && okG && okB
}
