package gamedata

import "github.com/gdamore/tcell/v2"

// AttackDef is one melee attack: Dice rolls of Sides each.
type AttackDef struct {
	Kind  string `json:"kind"` // "bite", "claw", "weapon", "touch", "sting", "butt"
	Dice  int    `json:"dice"`
	Sides int    `json:"sides"`
}

// SpeciesDef defines a monster species loaded from JSON.
type SpeciesDef struct {
	ID         string      `json:"id"`         // Unique identifier (e.g., "jackal")
	Name       string      `json:"name"`       // Display name
	Glyph      string      `json:"glyph"`      // Single character for rendering (e.g., "d")
	Color      string      `json:"color"`      // Hex code or color name (e.g., "#A0522D")
	Level      int         `json:"level"`      // Base experience level; HP is rolled from it
	Speed      int         `json:"speed"`      // Movement points gained per turn
	AC         int         `json:"ac"`         // Armor class
	Attacks    []AttackDef `json:"attacks"`    // Melee attacks in order
	Frequency  int         `json:"frequency"`  // Relative generation frequency (0 = never random)
	Difficulty int         `json:"difficulty"` // Generation difficulty
	Race       string      `json:"race"`       // Player race it is friendly to, if any
}

// GlyphRune returns the glyph as a rune for rendering.
func (s *SpeciesDef) GlyphRune() rune {
	if len(s.Glyph) == 0 {
		return '?'
	}
	return rune(s.Glyph[0])
}

// TCellColor returns the color as a tcell.Color.
func (s *SpeciesDef) TCellColor() tcell.Color {
	color, err := ParseColor(s.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// Experience returns the experience awarded for killing one of the species.
func (s *SpeciesDef) Experience() int {
	exp := 1 + s.Level*s.Level
	if s.Speed > 12 {
		if s.Speed >= 18 {
			exp += 5
		} else {
			exp += 3
		}
	}
	if s.AC < 3 {
		exp += 7 - s.AC
	}
	for _, a := range s.Attacks {
		if a.Dice*a.Sides > 23 {
			exp += s.Level
		}
	}
	return exp
}

// SpeciesFile represents the structure of species.json.
type SpeciesFile struct {
	Species []SpeciesDef `json:"species"`
}

// LoadSpecies loads species definitions from the embedded species.json file.
func LoadSpecies() ([]SpeciesDef, error) {
	file, err := Load[SpeciesFile]("species.json")
	if err != nil {
		return nil, err
	}
	return file.Species, nil
}
