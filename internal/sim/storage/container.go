package storage

// TransferPolicy returns how many of amount items may enter slot name.
type TransferPolicy func(c *ItemContainer, name string, id, amount, data int, extra ExtraData, requester int64) int

// ItemContainer is the named-slot container owned by a tile entity.
// Slot order is creation order.
type ItemContainer struct {
	slots map[string]*ItemStack
	order []string

	parent TileEntity

	slotPolicies map[string]TransferPolicy
	globalPolicy TransferPolicy
}

func NewItemContainer(names ...string) *ItemContainer {
	c := &ItemContainer{
		slots:        map[string]*ItemStack{},
		slotPolicies: map[string]TransferPolicy{},
	}
	for _, name := range names {
		c.slot(name)
	}
	return c
}

func (c *ItemContainer) slot(name string) *ItemStack {
	s := c.slots[name]
	if s == nil {
		s = &ItemStack{}
		c.slots[name] = s
		c.order = append(c.order, name)
	}
	return s
}

// SlotNames lists the slots in creation order.
func (c *ItemContainer) SlotNames() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (c *ItemContainer) HasSlot(name string) bool {
	_, ok := c.slots[name]
	return ok
}

// GetSlot returns a copy of the slot contents, creating the slot if needed.
func (c *ItemContainer) GetSlot(name string) ItemStack {
	return *c.slot(name)
}

func (c *ItemContainer) SetSlot(name string, stack ItemStack) {
	if stack.ID == 0 || stack.Count <= 0 {
		stack = ItemStack{}
	}
	*c.slot(name) = stack
}

func (c *ItemContainer) Parent() TileEntity { return c.parent }

func (c *ItemContainer) SetParent(t TileEntity) { c.parent = t }

// SetSlotAddTransferPolicy replaces the policy for one slot. A nil policy
// removes it.
func (c *ItemContainer) SetSlotAddTransferPolicy(name string, p TransferPolicy) {
	if p == nil {
		delete(c.slotPolicies, name)
		return
	}
	c.slotPolicies[name] = p
}

func (c *ItemContainer) SetGlobalAddTransferPolicy(p TransferPolicy) {
	c.globalPolicy = p
}

// Admit evaluates the slot policy, or the global one when the slot has none.
// The result is within [0, amount].
func (c *ItemContainer) Admit(name string, item ItemStack, amount int, requester int64) int {
	p := c.slotPolicies[name]
	if p == nil {
		p = c.globalPolicy
	}
	if p == nil {
		return max(amount, 0)
	}
	return min(max(p(c, name, item.ID, amount, item.Data, item.Extra, requester), 0), amount)
}

// Count sums the items held across all slots.
func (c *ItemContainer) Count(id int) int {
	n := 0
	for _, s := range c.slots {
		if s.ID == id {
			n += s.Count
		}
	}
	return n
}
