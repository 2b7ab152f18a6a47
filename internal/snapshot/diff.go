package snapshot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samdwyer/nhparity/internal/gamedata"
)

// Severity ranks a difference by how far it takes the games apart.
type Severity int

const (
	Minor Severity = iota
	Major
	Critical
)

// String returns the severity label.
func (s Severity) String() string {
	switch s {
	case Minor:
		return "minor"
	case Major:
		return "major"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "minor":
		*s = Minor
	case "major":
		*s = Major
	case "critical":
		*s = Critical
	default:
		return fmt.Errorf("snapshot: unknown severity %q", text)
	}
	return nil
}

// Difference is one field whose value differs between two states.
type Difference struct {
	Path      string   `json:"path"`
	Severity  Severity `json:"severity"`
	Reference string   `json:"reference"`
	Candidate string   `json:"candidate"`
}

func (d Difference) String() string {
	return fmt.Sprintf("[%s] %s: reference=%s candidate=%s", d.Severity, d.Path, d.Reference, d.Candidate)
}

// missing stands in for a value one side does not have.
const missing = "<none>"

type differ struct {
	out []Difference
}

func (d *differ) add(sev Severity, path string, ref, cand any) {
	d.out = append(d.out, Difference{
		Path:      path,
		Severity:  sev,
		Reference: fmt.Sprint(ref),
		Candidate: fmt.Sprint(cand),
	})
}

func field[T comparable](d *differ, sev Severity, path string, ref, cand T) {
	if ref != cand {
		d.add(sev, path, ref, cand)
	}
}

func position(x, y int) string {
	return "(" + strconv.Itoa(x) + "," + strconv.Itoa(y) + ")"
}

// Diff compares a reference state against a candidate and returns every
// differing field in a fixed walk order: turn, player, dungeon,
// inventory, monsters, level, rng. The first entry is the first
// divergent field.
func Diff(ref, cand State) []Difference {
	d := &differ{}

	field(d, Major, "turn", ref.Turn, cand.Turn)
	field(d, Critical, "outcome", ref.Outcome, cand.Outcome)
	field(d, Major, "cause", ref.Cause, cand.Cause)

	rp, cp := ref.Player, cand.Player
	field(d, Critical, "player.position", position(rp.X, rp.Y), position(cp.X, cp.Y))
	field(d, Critical, "player.hp", rp.HP, cp.HP)
	field(d, Critical, "player.hpmax", rp.HPMax, cp.HPMax)
	field(d, Minor, "player.energy", rp.Energy, cp.Energy)
	field(d, Minor, "player.energymax", rp.EnergyMax, cp.EnergyMax)
	field(d, Minor, "player.ac", rp.AC, cp.AC)
	field(d, Minor, "player.level", rp.Level, cp.Level)
	field(d, Minor, "player.experience", rp.Experience, cp.Experience)
	field(d, Minor, "player.gold", rp.Gold, cp.Gold)
	field(d, Minor, "player.hunger", rp.Hunger, cp.Hunger)
	for i := range gamedata.NumAttrs {
		field(d, Minor, "player.attrs."+gamedata.AttrNames[i], rp.Attrs[i], cp.Attrs[i])
	}
	field(d, Major, "player.polymorph", rp.Polymorph, cp.Polymorph)

	field(d, Critical, "dungeon.depth", ref.Dungeon.Depth, cand.Dungeon.Depth)
	field(d, Critical, "dungeon.kind", ref.Dungeon.Kind, cand.Dungeon.Kind)
	field(d, Minor, "dungeon.name", ref.Dungeon.Name, cand.Dungeon.Name)

	diffInventory(d, ref.Inventory, cand.Inventory)
	diffMonsters(d, ref.Monsters, cand.Monsters)
	diffLevel(d, ref.Level, cand.Level)

	field(d, Critical, "rng.draws", ref.Draws, cand.Draws)
	return d.out
}

func diffInventory(d *differ, ref, cand []Item) {
	field(d, Major, "inventory.count", len(ref), len(cand))
	for i := range min(len(ref), len(cand)) {
		p := fmt.Sprintf("inventory[%d]", i)
		field(d, Major, p+".kind", ref[i].Kind, cand[i].Kind)
		field(d, Major, p+".quantity", ref[i].Quantity, cand[i].Quantity)
		field(d, Major, p+".enchantment", ref[i].Enchantment, cand[i].Enchantment)
		field(d, Major, p+".buc", ref[i].BUC, cand[i].BUC)
	}
}

// diffMonsters matches monsters by persistent ID first. Matched monsters
// whose relative order differs are an order divergence, reported once as
// monsters.order; a monster present on one side only does not count as a
// reorder of the rest. Monsters left unmatched on either side are compared
// by position in the list.
func diffMonsters(d *differ, ref, cand []Monster) {
	field(d, Major, "monsters.count", len(ref), len(cand))

	candIndex := make(map[int]int, len(cand))
	for j, m := range cand {
		candIndex[m.ID] = j
	}
	matched := make([]bool, len(cand))
	var unmatchedRef []int
	reordered := false
	last := -1
	for i, m := range ref {
		j, ok := candIndex[m.ID]
		if !ok || matched[j] {
			unmatchedRef = append(unmatchedRef, i)
			continue
		}
		matched[j] = true
		if j <= last {
			reordered = true
		}
		last = j
		diffMonster(d, fmt.Sprintf("monsters[id=%d]", m.ID), m, cand[j])
	}
	if reordered {
		d.add(Major, "monsters.order", monsterIDs(ref), monsterIDs(cand))
	}

	var unmatchedCand []int
	for j := range cand {
		if !matched[j] {
			unmatchedCand = append(unmatchedCand, j)
		}
	}
	for k := range max(len(unmatchedRef), len(unmatchedCand)) {
		switch {
		case k >= len(unmatchedCand):
			i := unmatchedRef[k]
			d.add(Major, fmt.Sprintf("monsters[%d]", i), describeMonster(ref[i]), missing)
		case k >= len(unmatchedRef):
			j := unmatchedCand[k]
			d.add(Major, fmt.Sprintf("monsters[%d]", j), missing, describeMonster(cand[j]))
		default:
			i, j := unmatchedRef[k], unmatchedCand[k]
			p := fmt.Sprintf("monsters[%d]", i)
			field(d, Major, p+".id", ref[i].ID, cand[j].ID)
			diffMonster(d, p, ref[i], cand[j])
		}
	}
}

func diffMonster(d *differ, p string, ref, cand Monster) {
	field(d, Major, p+".species", ref.Species, cand.Species)
	field(d, Major, p+".position", position(ref.X, ref.Y), position(cand.X, cand.Y))
	field(d, Major, p+".hp", ref.HP, cand.HP)
	field(d, Major, p+".hpmax", ref.HPMax, cand.HPMax)
	field(d, Minor, p+".sleeping", ref.Sleeping, cand.Sleeping)
	field(d, Minor, p+".peaceful", ref.Peaceful, cand.Peaceful)
	field(d, Minor, p+".speed", ref.Speed, cand.Speed)
}

func monsterIDs(ms []Monster) string {
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = strconv.Itoa(m.ID)
	}
	return "[" + strings.Join(ids, " ") + "]"
}

func describeMonster(m Monster) string {
	return fmt.Sprintf("%s#%d%s", m.Species, m.ID, position(m.X, m.Y))
}

func diffLevel(d *differ, ref, cand Level) {
	for x := range min(len(ref.Cells), len(cand.Cells)) {
		rc, cc := ref.Cells[x], cand.Cells[x]
		for y := range min(len(rc), len(cc)) {
			field(d, Major, fmt.Sprintf("level.cells[%d][%d]", x, y), rc[y], cc[y])
		}
	}

	field(d, Major, "level.rooms.count", len(ref.Rooms), len(cand.Rooms))
	for i := range min(len(ref.Rooms), len(cand.Rooms)) {
		field(d, Major, fmt.Sprintf("level.rooms[%d]", i), ref.Rooms[i], cand.Rooms[i])
	}

	field(d, Major, "level.doors.count", len(ref.Doors), len(cand.Doors))
	for i := range min(len(ref.Doors), len(cand.Doors)) {
		r, c := ref.Doors[i], cand.Doors[i]
		p := fmt.Sprintf("level.doors[%d]", i)
		field(d, Major, p+".position", position(r.X, r.Y), position(c.X, c.Y))
		field(d, Major, p+".mask", r.Mask, c.Mask)
	}

	field(d, Major, "objects.count", len(ref.Objects), len(cand.Objects))
	for i := range min(len(ref.Objects), len(cand.Objects)) {
		r, c := ref.Objects[i], cand.Objects[i]
		p := fmt.Sprintf("objects[%d]", i)
		field(d, Major, p+".kind", r.Kind, c.Kind)
		field(d, Major, p+".position", position(r.X, r.Y), position(c.X, c.Y))
		field(d, Major, p+".quantity", r.Quantity, c.Quantity)
		field(d, Minor, p+".enchantment", r.Enchantment, c.Enchantment)
		field(d, Minor, p+".buc", r.BUC, c.BUC)
	}
}

// Counts tallies differences by severity.
func Counts(diffs []Difference) (critical, major, minor int) {
	for _, d := range diffs {
		switch d.Severity {
		case Critical:
			critical++
		case Major:
			major++
		default:
			minor++
		}
	}
	return critical, major, minor
}
