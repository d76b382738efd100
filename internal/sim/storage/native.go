package storage

// Native container kinds with a non-trivial slot layout.
const (
	KindFurnace = "FURNACE"
)

const (
	furnaceInputSlot  = 0
	furnaceFuelSlot   = 1
	furnaceOutputSlot = 2
)

// NativeStorage adapts a host inventory. Host inventories know nothing about
// transfer policies, so only stack sizes limit insertion.
type NativeStorage struct {
	container NativeContainer
	items     StackSizer
}

func (r *Registry) nativeStorage(c NativeContainer) *NativeStorage {
	return &NativeStorage{container: c, items: r.items}
}

func (s *NativeStorage) Container() NativeContainer { return s.container }

func (s *NativeStorage) inRange(id SlotID) bool {
	return !id.Named && id.Index >= 0 && id.Index < s.container.Size()
}

func (s *NativeStorage) GetSlot(id SlotID) ItemStack {
	if !s.inRange(id) {
		return ItemStack{}
	}
	return s.container.Slot(id.Index)
}

func (s *NativeStorage) SetSlot(id SlotID, stack ItemStack) {
	if !s.inRange(id) {
		return
	}
	if stack.ID == 0 || stack.Count <= 0 {
		stack = ItemStack{}
	}
	s.container.SetSlot(id.Index, stack)
}

func (s *NativeStorage) allSlots() []SlotID {
	n := s.container.Size()
	out := make([]SlotID, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, IndexSlot(i))
	}
	return out
}

func (s *NativeStorage) isFurnace() bool {
	return s.container.Kind() == KindFurnace && s.container.Size() > furnaceOutputSlot
}

func (s *NativeStorage) GetInputSlots(side Side) []SlotID {
	if !s.isFurnace() {
		return s.allSlots()
	}
	switch {
	case side == AnySide:
		return []SlotID{IndexSlot(furnaceInputSlot), IndexSlot(furnaceFuelSlot)}
	case side == SideUp:
		return []SlotID{IndexSlot(furnaceInputSlot)}
	case side > SideUp:
		return []SlotID{IndexSlot(furnaceFuelSlot)}
	}
	return nil
}

func (s *NativeStorage) GetOutputSlots(side Side) []SlotID {
	if s.isFurnace() {
		return []SlotID{IndexSlot(furnaceOutputSlot)}
	}
	return s.allSlots()
}

func (s *NativeStorage) AddItem(item *ItemStack, side Side, maxCount int) int {
	if item == nil || item.IsEmpty() {
		return 0
	}
	maxStack := maxStackOf(s.items, item.ID)
	count := 0
	for _, id := range s.GetInputSlots(side) {
		slot := s.GetSlot(id)
		added := AddItemToSlot(item, &slot, maxStack, maxCount-count)
		if added > 0 {
			count += added
			s.SetSlot(id, slot)
			if item.Count == 0 || count >= maxCount {
				break
			}
		}
	}
	return count
}

func maxStackOf(items StackSizer, id int) int {
	if items == nil {
		return DefaultMaxStack
	}
	if n := items.MaxStack(id); n > 0 {
		return n
	}
	return DefaultMaxStack
}
