package entity

import "github.com/samdwyer/nhparity/internal/world"

// Item is an object carried by the player.
type Item struct {
	Kind        world.ObjectKind
	Quantity    int
	Enchantment int
	BUC         world.BUC
}

// ItemFromObject converts a floor object into an inventory item.
func ItemFromObject(o world.Object) Item {
	return Item{
		Kind:        o.Kind,
		Quantity:    o.Quantity,
		Enchantment: o.Enchantment,
		BUC:         o.BUC,
	}
}

// Stacks reports whether other merges into the same inventory slot.
func (i Item) Stacks(other Item) bool {
	return i.Kind == other.Kind && i.Enchantment == other.Enchantment && i.BUC == other.BUC
}
