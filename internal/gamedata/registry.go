package gamedata

import (
	"errors"

	"github.com/samdwyer/nhparity/internal/rng"
)

// SpeciesRegistry holds loaded species definitions and provides spawning utilities.
type SpeciesRegistry struct {
	species []SpeciesDef
	byID    map[string]int
}

// NewSpeciesRegistry creates a registry from loaded species definitions.
func NewSpeciesRegistry(species []SpeciesDef) *SpeciesRegistry {
	byID := make(map[string]int, len(species))
	for i := range species {
		byID[species[i].ID] = i
	}
	return &SpeciesRegistry{species: species, byID: byID}
}

// LoadSpeciesRegistry loads and creates a registry from the embedded species.json.
func LoadSpeciesRegistry() (*SpeciesRegistry, error) {
	species, err := LoadSpecies()
	if err != nil {
		return nil, err
	}
	if len(species) == 0 {
		return nil, errors.New("no species loaded from species.json")
	}
	return NewSpeciesRegistry(species), nil
}

// MustLoadSpeciesRegistry loads a registry, panicking on error.
func MustLoadSpeciesRegistry() *SpeciesRegistry {
	registry, err := LoadSpeciesRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// SpawnRandom selects a species with difficulty in [minDiff, maxDiff] by
// weighted frequency, consuming one draw. It returns nil without drawing
// when nothing qualifies.
func (r *SpeciesRegistry) SpawnRandom(s *rng.Stream, minDiff, maxDiff int) *SpeciesDef {
	total := 0
	for i := range r.species {
		if r.eligible(i, minDiff, maxDiff) {
			total += r.species[i].Frequency
		}
	}
	if total <= 0 {
		return nil
	}

	roll := s.Rn2(total)
	cumulative := 0
	for i := range r.species {
		if !r.eligible(i, minDiff, maxDiff) {
			continue
		}
		cumulative += r.species[i].Frequency
		if roll < cumulative {
			return &r.species[i]
		}
	}
	return nil
}

func (r *SpeciesRegistry) eligible(i, minDiff, maxDiff int) bool {
	sp := &r.species[i]
	return sp.Frequency > 0 && sp.Difficulty >= minDiff && sp.Difficulty <= maxDiff
}

// GetByID returns the species definition with the given ID, or nil if not found.
func (r *SpeciesRegistry) GetByID(id string) *SpeciesDef {
	i, ok := r.byID[id]
	if !ok {
		return nil
	}
	return &r.species[i]
}

// All returns all species definitions.
func (r *SpeciesRegistry) All() []SpeciesDef {
	return r.species
}

// Count returns the number of species in the registry.
func (r *SpeciesRegistry) Count() int {
	return len(r.species)
}

// =============================================================================
// RoleRegistry
// =============================================================================

// RoleRegistry holds loaded role and race definitions and provides lookup utilities.
type RoleRegistry struct {
	roles map[string]*RoleDef
	races map[string]*RaceDef
	all   []RoleDef
}

// NewRoleRegistry creates a registry from loaded role and race definitions.
func NewRoleRegistry(roles []RoleDef, races []RaceDef) *RoleRegistry {
	registry := &RoleRegistry{
		roles: make(map[string]*RoleDef),
		races: make(map[string]*RaceDef),
		all:   roles,
	}
	for i := range roles {
		registry.roles[roles[i].ID] = &roles[i]
	}
	for i := range races {
		registry.races[races[i].ID] = &races[i]
	}
	return registry
}

// LoadRoleRegistry loads and creates a registry from the embedded roles.json.
func LoadRoleRegistry() (*RoleRegistry, error) {
	roles, races, err := LoadRoles()
	if err != nil {
		return nil, err
	}
	return NewRoleRegistry(roles, races), nil
}

// MustLoadRoleRegistry loads a registry, panicking on error.
func MustLoadRoleRegistry() *RoleRegistry {
	registry, err := LoadRoleRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// Role returns the role definition with the given ID, or nil if not found.
func (r *RoleRegistry) Role(id string) *RoleDef {
	return r.roles[id]
}

// Race returns the race definition with the given ID, or nil if not found.
func (r *RoleRegistry) Race(id string) *RaceDef {
	return r.races[id]
}

// Roles returns all role definitions.
func (r *RoleRegistry) Roles() []RoleDef {
	return r.all
}
