package gamedata

import "errors"

// Attribute indices used by every six-element attribute array.
const (
	AttrStr = iota
	AttrInt
	AttrWis
	AttrDex
	AttrCon
	AttrCha
	NumAttrs
)

// AttrNames are the short attribute names in index order.
var AttrNames = [NumAttrs]string{"str", "int", "wis", "dex", "con", "cha"}

// Advance describes hit point or energy growth: a fixed part plus a random
// part at character creation, below the role's crossover level and at or
// above it.
type Advance struct {
	InFix int `json:"infix"`
	InRnd int `json:"inrnd"`
	LoFix int `json:"lofix"`
	LoRnd int `json:"lornd"`
	HiFix int `json:"hifix"`
	HiRnd int `json:"hirnd"`
}

// RoleDef defines a playable role loaded from JSON.
type RoleDef struct {
	ID       string        `json:"id"`       // Unique identifier (e.g., "valkyrie")
	Name     string        `json:"name"`     // Display name (e.g., "Valkyrie")
	AttrBase [NumAttrs]int `json:"attrBase"` // Minimum starting attributes
	AttrDist [NumAttrs]int `json:"attrDist"` // Percentage weights for distributing the remaining points
	HPAdv    Advance       `json:"hpAdv"`
	EnAdv    Advance       `json:"enAdv"`
	XLev     int           `json:"xlev"` // Crossover level for the Lo/Hi advance parts
	Fast     bool          `json:"fast"` // Intrinsically fast from level 1
}

// RaceDef defines a playable race loaded from JSON.
type RaceDef struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	AttrMax [NumAttrs]int `json:"attrMax"`
	HPAdv   Advance       `json:"hpAdv"`
	EnAdv   Advance       `json:"enAdv"`
}

// RolesFile represents the structure of roles.json.
type RolesFile struct {
	Roles []RoleDef `json:"roles"`
	Races []RaceDef `json:"races"`
}

// LoadRoles loads role and race definitions from the embedded roles.json file.
func LoadRoles() ([]RoleDef, []RaceDef, error) {
	file, err := Load[RolesFile]("roles.json")
	if err != nil {
		return nil, nil, err
	}
	if len(file.Roles) == 0 || len(file.Races) == 0 {
		return nil, nil, errors.New("no roles or races loaded from roles.json")
	}
	return file.Roles, file.Races, nil
}
