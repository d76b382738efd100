package world

import "voxelstore.ai/internal/sim/storage"

// NativeInventory is the fixed-slot inventory of a built-in block (chest,
// furnace, hopper). It satisfies storage.NativeContainer.
type NativeInventory struct {
	kind  string
	slots []storage.ItemStack
}

func NewNativeInventory(kind string, size int) *NativeInventory {
	return &NativeInventory{kind: kind, slots: make([]storage.ItemStack, size)}
}

func (n *NativeInventory) Kind() string                 { return n.kind }
func (n *NativeInventory) Size() int                    { return len(n.slots) }
func (n *NativeInventory) Slot(i int) storage.ItemStack { return n.slots[i] }

func (n *NativeInventory) SetSlot(i int, s storage.ItemStack) {
	if s.ID == 0 || s.Count <= 0 {
		s = storage.ItemStack{}
	}
	n.slots[i] = s
}

// Count totals item id over all slots.
func (n *NativeInventory) Count(id int) int {
	total := 0
	for _, s := range n.slots {
		if s.ID == id {
			total += s.Count
		}
	}
	return total
}
