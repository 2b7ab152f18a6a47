package gamedata

import (
	"fmt"
	"slices"
	"strings"
)

// sokobanVariants lists the embedded Sokoban maps by level number. A bare
// depth picks sokoN for N in 1..4; soko4 holds the prize.
var sokobanVariants = []string{
	"soko1a", "soko1b",
	"soko2a", "soko2b",
	"soko3a", "soko3b",
	"soko4a", "soko4b",
}

// SokobanNames returns the names of every embedded Sokoban map.
func SokobanNames() []string {
	return slices.Clone(sokobanVariants)
}

// SokobanMap returns the rows of the named Sokoban map.
//
// Legend: '-' and '|' walls, '.' floor, '0' boulder, '^' hole, '<' and '>'
// stairs, '+' door, '#' corridor, '*' the prize, ' ' solid rock.
func SokobanMap(name string) ([]string, error) {
	name = strings.ToLower(name)
	if !slices.Contains(sokobanVariants, name) {
		return nil, fmt.Errorf("unknown sokoban map %q", name)
	}
	return LoadLines("sokoban/" + name + ".txt")
}
