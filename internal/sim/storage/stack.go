package storage

import (
	"fmt"
	"math"
)

// Unbounded is the maxCount used when a caller sets no transfer limit.
// Extraction subtracts the running total from it, so it has to stay finite.
const Unbounded = math.MaxInt32

// DefaultMaxStack applies to item ids the stack sizer does not know.
const DefaultMaxStack = 64

// ExtraData is an opaque per-stack payload (names, enchants, ...).
type ExtraData map[string]any

type ItemStack struct {
	ID    int       `json:"id"`
	Count int       `json:"count"`
	Data  int       `json:"data"`
	Extra ExtraData `json:"extra,omitempty"`
}

func (s ItemStack) IsEmpty() bool { return s.ID == 0 || s.Count <= 0 }

// SlotID addresses a slot by index (native containers) or by name.
type SlotID struct {
	Index int
	Name  string
	Named bool
}

func IndexSlot(i int) SlotID       { return SlotID{Index: i} }
func NamedSlot(name string) SlotID { return SlotID{Name: name, Named: true} }

func (id SlotID) String() string {
	if id.Named {
		return id.Name
	}
	return fmt.Sprintf("#%d", id.Index)
}

// StackSizer reports the maximum stack size of an item id.
type StackSizer interface {
	MaxStack(id int) int
}

type StackSizerFunc func(id int) int

func (f StackSizerFunc) MaxStack(id int) int { return f(id) }

// AddItemToSlot moves up to count items from item into slot. The slot must be
// empty or hold the same id and data. A drained item is reset to the empty
// form. It returns the number of items moved.
func AddItemToSlot(item, slot *ItemStack, maxStack, count int) int {
	if slot.ID != 0 && (slot.ID != item.ID || slot.Data != item.Data) {
		return 0
	}
	add := min(maxStack-slot.Count, item.Count)
	if count < add {
		add = count
	}
	if add <= 0 {
		return 0
	}
	slot.ID = item.ID
	slot.Count += add
	slot.Data = item.Data
	if item.Extra != nil {
		slot.Extra = item.Extra
	}
	item.Count -= add
	if item.Count == 0 {
		item.ID = 0
		item.Data = 0
		item.Extra = nil
	}
	return add
}
