package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseColor converts a species color to a tcell.Color. It accepts hex
// codes with or without the leading '#' ("#A0522D") and the color names
// tcell knows ("brown", "fuchsia").
func ParseColor(s string) (tcell.Color, error) {
	s = strings.TrimSpace(s)
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 6 {
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return tcell.NewHexColor(int32(v)), nil
		}
	}
	if strings.HasPrefix(s, "#") {
		return tcell.ColorDefault, fmt.Errorf("gamedata: bad hex color %q", s)
	}
	if c, ok := tcell.ColorNames[strings.ToLower(s)]; ok {
		return c, nil
	}
	return tcell.ColorDefault, fmt.Errorf("gamedata: unknown color %q", s)
}
