package storage

// ValidateFunc decides whether an insertion into slot name is allowed.
type ValidateFunc func(name string, id, amount, data int, extra ExtraData, c *ItemContainer, requester int64) bool

// SetSlotMaxStackPolicy caps slot name at maxCount items.
func SetSlotMaxStackPolicy(c *ItemContainer, name string, maxCount int) {
	c.SetSlotAddTransferPolicy(name, func(c *ItemContainer, name string, id, amount, data int, extra ExtraData, requester int64) int {
		return max(0, min(amount, maxCount-c.GetSlot(name).Count))
	})
}

// SetSlotValidatePolicy admits all or nothing depending on fn.
func SetSlotValidatePolicy(c *ItemContainer, name string, fn ValidateFunc) {
	c.SetSlotAddTransferPolicy(name, gate(fn))
}

// SetGlobalValidatePolicy is SetSlotValidatePolicy for every slot without its
// own policy.
func SetGlobalValidatePolicy(c *ItemContainer, fn ValidateFunc) {
	c.SetGlobalAddTransferPolicy(gate(fn))
}

func gate(fn ValidateFunc) TransferPolicy {
	return func(c *ItemContainer, name string, id, amount, data int, extra ExtraData, requester int64) int {
		if fn(name, id, amount, data, extra, c, requester) {
			return amount
		}
		return 0
	}
}
