// Package gamedata provides embedded game data and utilities for loading it.
package gamedata

import "embed"

// dataFS embeds the JSON tables and Sokoban maps at build time.
//
//go:embed *.json sokoban/*.txt
var dataFS embed.FS
